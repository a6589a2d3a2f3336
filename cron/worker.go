package cron

import (
	"context"
	"fmt"
	"time"

	"beautypage/config"
	"beautypage/services/schedule"
	"beautypage/tasks"
	"beautypage/utils"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// InitScheduleWorker runs the async generation worker in background and returns
// the server so main can shut it down.
func InitScheduleWorker(svc schedule.ScheduleService, logger *zap.Logger) *asynq.Server {
	concurrency := config.AppConfig.AsyncWorkerConcurrency
	if concurrency <= 0 {
		concurrency = 5
	}
	srv := asynq.NewServer(
		utils.QueueRedisOpt(),
		asynq.Config{
			Concurrency: concurrency,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeGenerateSchedule, HandleGenerateScheduleTask(svc, logger))

	go func() {
		logger.Info("Starting schedule worker", zap.Int("concurrency", concurrency))
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			err := srv.Run(mux)
			if err == nil {
				return
			}
			logger.Error("Schedule worker failed to start",
				zap.Int("attempt", attempts),
				zap.Int("maxAttempts", maxAttempts),
				zap.Error(err),
			)
			if attempts == maxAttempts {
				logger.Fatal("Schedule worker giving up after max retry attempts")
			}
			time.Sleep(time.Duration(attempts*2) * time.Second)
		}
	}()
	return srv
}

// HandleGenerateScheduleTask applies a queued pattern. Invalid input is not retried;
// lock contention and storage failures are.
func HandleGenerateScheduleTask(svc schedule.ScheduleService, logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		p, err := tasks.ParseGenerateSchedulePayload(task)
		if err != nil {
			logger.Error("Dropping schedule task", zap.Error(err))
			return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
		}

		pattern, err := schedule.DecodePattern(p.Pattern)
		if err != nil {
			logger.Warn("Queued pattern rejected", zap.String("specialistID", p.SpecialistID), zap.Error(err))
			return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
		}

		result, err := svc.Reconcile(ctx, p.SpecialistID, pattern, p.OverwriteExisting)
		if err != nil {
			if schedule.IsValidation(err) {
				return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
			}
			logger.Error("Queued schedule generation failed", zap.String("specialistID", p.SpecialistID), zap.Error(err))
			return err
		}
		logger.Info("Queued schedule generated",
			zap.String("specialistID", p.SpecialistID),
			zap.Int("created", result.Created),
			zap.Int("updated", result.Updated),
		)
		return nil
	}
}
