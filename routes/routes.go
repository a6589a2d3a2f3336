package routes

import (
	"time"

	"beautypage/handlers"
	"beautypage/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RegisterScheduleRoutes registers the specialist schedule endpoints.
func RegisterScheduleRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/specialists/:specialistID/schedule")
	{
		api.Use(middleware.JWTAuthSpecialistMiddleware())
		api.Use(middleware.SpecialistOwnerGuard())

		api.POST("/preview", hb.PreviewScheduleHandler)
		api.POST("/generate", hb.GenerateScheduleHandler)

		api.GET("/days", hb.ListWorkingDaysHandler)
		api.POST("/days/delete", hb.DeleteWorkingDaysHandler)
		api.PUT("/days/:date", hb.UpsertWorkingDayHandler)
		api.DELETE("/days/:date", hb.DeleteWorkingDayHandler)
		api.GET("/days/:date/timeline", hb.DayTimelineHandler)

		api.GET("/dashboard", hb.DashboardHandler)
		api.GET("/config", hb.GetScheduleConfigHandler)
		api.PUT("/config", hb.UpdateScheduleConfigHandler)
	}
}

// RegisterPublicRoutes registers unauthenticated helpers.
func RegisterPublicRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/api/schedule/time-options", hb.TimeOptionsHandler)
}

// RegisterHealthRoute registers health-check and metrics endpoints.
func RegisterHealthRoute(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/health", hb.HealthHandler)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterScheduleRoutes(r, hb)
	RegisterPublicRoutes(r, hb)
	RegisterHealthRoute(r, hb)
}
