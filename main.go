// File: beautypage/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"beautypage/config"
	"beautypage/cron"
	"beautypage/database"
	scheduleRepo "beautypage/database/repository/schedule"
	"beautypage/handlers"
	"beautypage/middleware"
	"beautypage/models"
	"beautypage/routes"
	"beautypage/services/schedule"
	"beautypage/utils"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	if err := utils.CheckJWTSecret(); err != nil {
		logger.Sugar().Fatalf("main: %v", err)
	}

	// Store selection.
	checks := map[string]utils.HealthCheck{}
	var repo scheduleRepo.ScheduleRepository
	switch config.AppConfig.StoreDriver {
	case config.StorePostgres:
		database.InitPostgres()
		repo = scheduleRepo.NewPostgresScheduleRepo(database.PostgresDB)
		checks["postgres"] = database.PostgresDB.PingContext
	case config.StoreMongo, "":
		database.InitDB()
		repo = scheduleRepo.NewMongoScheduleRepo(database.MongoDatabase())
		checks["mongo"] = func(ctx context.Context) error { return database.MongoClient.Ping(ctx, nil) }
	default:
		logger.Sugar().Fatalf("main: unknown STORE_DRIVER %q", config.AppConfig.StoreDriver)
	}

	bootCtx, bootCancel := context.WithTimeout(context.Background(), 15*time.Second)
	if err := repo.EnsureIndexes(bootCtx); err != nil {
		logger.Sugar().Fatalf("main: failed to prepare schedule storage: %v", err)
	}
	bootCancel()

	lockClient := utils.GetLockClient()
	checks["redis"] = func(ctx context.Context) error { return lockClient.Ping(ctx).Err() }
	lockTTL := time.Duration(config.AppConfig.ScheduleLockTTLSeconds) * time.Second
	locker := schedule.NewRedisLocker(lockClient, lockTTL, logger)

	// services.
	scheduleService, err := schedule.NewDefaultScheduleService(repo, locker, logger, models.ScheduleConfig{
		Timezone:            config.AppConfig.DefaultTimezone,
		DefaultSlotDuration: config.AppConfig.DefaultSlotDuration,
	})
	if err != nil {
		logger.Sugar().Fatalf("main: %v", err)
	}

	// background generation.
	queue := asynq.NewClient(utils.QueueRedisOpt())
	defer queue.Close()
	worker := cron.InitScheduleWorker(scheduleService, logger)

	healthCtx, stopHealth := context.WithCancel(context.Background())
	defer stopHealth()
	utils.StartHealthMonitor(healthCtx, 60*time.Second, checks)

	// Create the Gin router.
	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.PrometheusMiddleware())
	router.Use(middleware.RateLimitMiddleware(config.AppConfig.MaxRequestsPerMin))

	scheduleHandler := handlers.NewScheduleHandler(scheduleService, queue, logger)
	routes.RegisterRoutes(router, handlers.NewHandlerBundle(scheduleHandler))

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Errorf("main: server forced to shutdown: %v", err)
	}
	worker.Shutdown()
	database.CloseDB(ctx)

	logger.Sugar().Info("main: server stopped gracefully")
}
