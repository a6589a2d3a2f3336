package handlers

import (
	"github.com/gin-gonic/gin"
)

// HandlerBundle groups every endpoint the router registers.
type HandlerBundle struct {
	// Schedule generation.
	PreviewScheduleHandler  gin.HandlerFunc
	GenerateScheduleHandler gin.HandlerFunc

	// Working day management.
	ListWorkingDaysHandler   gin.HandlerFunc
	UpsertWorkingDayHandler  gin.HandlerFunc
	DeleteWorkingDayHandler  gin.HandlerFunc
	DeleteWorkingDaysHandler gin.HandlerFunc

	// Day views.
	DayTimelineHandler gin.HandlerFunc
	DashboardHandler   gin.HandlerFunc

	// Schedule settings.
	GetScheduleConfigHandler    gin.HandlerFunc
	UpdateScheduleConfigHandler gin.HandlerFunc

	// Public helpers.
	TimeOptionsHandler gin.HandlerFunc
	HealthHandler      gin.HandlerFunc
}

// NewHandlerBundle wires a ScheduleHandler into a bundle.
func NewHandlerBundle(h *ScheduleHandler) *HandlerBundle {
	return &HandlerBundle{
		PreviewScheduleHandler:      h.PreviewScheduleHandler,
		GenerateScheduleHandler:     h.GenerateScheduleHandler,
		ListWorkingDaysHandler:      h.ListWorkingDaysHandler,
		UpsertWorkingDayHandler:     h.UpsertWorkingDayHandler,
		DeleteWorkingDayHandler:     h.DeleteWorkingDayHandler,
		DeleteWorkingDaysHandler:    h.DeleteWorkingDaysHandler,
		DayTimelineHandler:          h.DayTimelineHandler,
		DashboardHandler:            h.DashboardHandler,
		GetScheduleConfigHandler:    h.GetScheduleConfigHandler,
		UpdateScheduleConfigHandler: h.UpdateScheduleConfigHandler,
		TimeOptionsHandler:          TimeOptionsHandler,
		HealthHandler:               HealthHandler,
	}
}
