package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"beautypage/models"
	"beautypage/services/schedule"
	"beautypage/tasks"
	"beautypage/utils"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// ScheduleHandler serves the specialist schedule endpoints.
type ScheduleHandler struct {
	Service schedule.ScheduleService
	Queue   tasks.Enqueuer // nil disables async generation
	Logger  *zap.Logger
	Now     func() time.Time
}

func NewScheduleHandler(svc schedule.ScheduleService, queue tasks.Enqueuer, logger *zap.Logger) *ScheduleHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleHandler{Service: svc, Queue: queue, Logger: logger, Now: time.Now}
}

// writeScheduleError maps service errors onto HTTP statuses.
func (h *ScheduleHandler) writeScheduleError(c *gin.Context, err error) {
	var (
		validationErr *schedule.ValidationError
		notFoundErr   *schedule.NotFoundError
		conflictErr   *schedule.ConflictError
		formatErr     *models.FormatError
	)
	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Error(), "field": validationErr.Field})
	case errors.As(err, &formatErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": formatErr.Error()})
	case errors.As(err, &notFoundErr):
		c.JSON(http.StatusNotFound, gin.H{"error": notFoundErr.Error()})
	case errors.As(err, &conflictErr):
		c.JSON(http.StatusConflict, gin.H{"error": conflictErr.Error()})
	default:
		h.Logger.Error("Schedule request failed",
			zap.String("path", c.FullPath()),
			zap.String("specialistID", c.Param("specialistID")),
			zap.Error(err),
		)
		utils.JSONError(c, http.StatusInternalServerError, "save failed", "")
	}
}

func (h *ScheduleHandler) bindPattern(c *gin.Context, req models.PatternRequest) (schedule.SchedulePattern, bool) {
	pattern, err := schedule.DecodePattern(req)
	if err != nil {
		h.writeScheduleError(c, err)
		return nil, false
	}
	return pattern, true
}

// PreviewScheduleHandler handles POST /preview.
func (h *ScheduleHandler) PreviewScheduleHandler(c *gin.Context) {
	var req models.PatternRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "message": err.Error()})
		return
	}
	pattern, ok := h.bindPattern(c, req)
	if !ok {
		return
	}

	preview, err := h.Service.Preview(c.Request.Context(), c.Param("specialistID"), pattern)
	if err != nil {
		h.writeScheduleError(c, err)
		return
	}
	c.JSON(http.StatusOK, preview)
}

// GenerateScheduleHandler handles POST /generate. With "async": true the run is queued.
func (h *ScheduleHandler) GenerateScheduleHandler(c *gin.Context) {
	specialistID := c.Param("specialistID")

	var req models.GenerateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "message": err.Error()})
		return
	}
	pattern, ok := h.bindPattern(c, req.Pattern)
	if !ok {
		return
	}

	if req.Async {
		h.enqueueGeneration(c, specialistID, req, pattern)
		return
	}

	result, err := h.Service.Reconcile(c.Request.Context(), specialistID, pattern, req.OverwriteExisting)
	if err != nil {
		h.writeScheduleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Schedule generated",
		"created": result.Created,
		"updated": result.Updated,
	})
}

func (h *ScheduleHandler) enqueueGeneration(c *gin.Context, specialistID string, req models.GenerateScheduleRequest, pattern schedule.SchedulePattern) {
	if h.Queue == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Background generation is not available"})
		return
	}
	// Reject bad input now rather than in the worker.
	if err := schedule.ValidatePattern(pattern); err != nil {
		h.writeScheduleError(c, err)
		return
	}

	task, opts, err := tasks.NewGenerateScheduleTask(tasks.GenerateSchedulePayload{
		SpecialistID:      specialistID,
		Pattern:           req.Pattern,
		OverwriteExisting: req.OverwriteExisting,
	})
	if err != nil {
		h.writeScheduleError(c, err)
		return
	}
	info, err := h.Queue.Enqueue(task, opts...)
	if errors.Is(err, asynq.ErrDuplicateTask) {
		h.Logger.Warn("Schedule generation already queued", zap.String("specialistID", specialistID))
		c.JSON(http.StatusAccepted, gin.H{"message": "Schedule generation already queued"})
		return
	}
	if err != nil {
		h.Logger.Error("Failed to enqueue schedule generation", zap.String("specialistID", specialistID), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "save failed", "could not queue generation")
		return
	}
	c.JSON(http.StatusAccepted, gin.H{
		"message": "Schedule generation queued",
		"taskId":  info.ID,
	})
}

// ListWorkingDaysHandler handles GET /days?from=&to=.
func (h *ScheduleHandler) ListWorkingDaysHandler(c *gin.Context) {
	from, to := c.Query("from"), c.Query("to")
	if from == "" || to == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "from and to query parameters are required"})
		return
	}
	days, err := h.Service.ListWorkingDays(c.Request.Context(), c.Param("specialistID"), from, to)
	if err != nil {
		h.writeScheduleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"workingDays": days})
}

// UpsertWorkingDayHandler handles PUT /days/:date.
func (h *ScheduleHandler) UpsertWorkingDayHandler(c *gin.Context) {
	var req models.UpsertWorkingDayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "message": err.Error()})
		return
	}
	date := c.Param("date")
	id, err := h.Service.UpsertWorkingDay(c.Request.Context(), c.Param("specialistID"), date, req.Hours)
	if err != nil {
		h.writeScheduleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Working day saved", "id": id, "date": date})
}

// DeleteWorkingDayHandler handles DELETE /days/:date.
func (h *ScheduleHandler) DeleteWorkingDayHandler(c *gin.Context) {
	date := c.Param("date")
	if err := h.Service.DeleteWorkingDay(c.Request.Context(), c.Param("specialistID"), date); err != nil {
		h.writeScheduleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Working day removed", "date": date})
}

// DeleteWorkingDaysHandler handles POST /days/delete.
func (h *ScheduleHandler) DeleteWorkingDaysHandler(c *gin.Context) {
	var req models.DeleteWorkingDaysRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "message": err.Error()})
		return
	}
	n, err := h.Service.DeleteWorkingDays(c.Request.Context(), c.Param("specialistID"), req.Dates)
	if err != nil {
		h.writeScheduleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": n})
}

// DayTimelineHandler handles GET /days/:date/timeline?duration=.
func (h *ScheduleHandler) DayTimelineHandler(c *gin.Context) {
	duration := 0
	if raw := c.Query("duration"); raw != "" {
		d, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "duration must be a number of minutes"})
			return
		}
		duration = d
	}

	timeline, err := h.Service.DayTimeline(c.Request.Context(), c.Param("specialistID"), c.Param("date"), duration)
	if err != nil {
		h.writeScheduleError(c, err)
		return
	}
	c.JSON(http.StatusOK, timeline)
}

// DashboardHandler handles GET /dashboard.
func (h *ScheduleHandler) DashboardHandler(c *gin.Context) {
	dashboard, err := h.Service.Dashboard(c.Request.Context(), c.Param("specialistID"), h.Now())
	if err != nil {
		h.writeScheduleError(c, err)
		return
	}
	c.JSON(http.StatusOK, dashboard)
}

// GetScheduleConfigHandler handles GET /config.
func (h *ScheduleHandler) GetScheduleConfigHandler(c *gin.Context) {
	cfg, err := h.Service.GetScheduleConfig(c.Request.Context(), c.Param("specialistID"))
	if err != nil {
		h.writeScheduleError(c, err)
		return
	}
	c.JSON(http.StatusOK, cfg)
}

// UpdateScheduleConfigHandler handles PUT /config.
func (h *ScheduleHandler) UpdateScheduleConfigHandler(c *gin.Context) {
	var cfg models.ScheduleConfig
	if err := c.ShouldBindJSON(&cfg); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "message": err.Error()})
		return
	}
	cfg.SpecialistID = c.Param("specialistID")

	saved, err := h.Service.UpdateScheduleConfig(c.Request.Context(), cfg)
	if err != nil {
		h.writeScheduleError(c, err)
		return
	}
	c.JSON(http.StatusOK, saved)
}

// TimeOptionsHandler handles GET /api/schedule/time-options?start=&end=&step=.
func TimeOptionsHandler(c *gin.Context) {
	start, err1 := strconv.Atoi(c.DefaultQuery("start", "0"))
	end, err2 := strconv.Atoi(c.DefaultQuery("end", "23"))
	step, err3 := strconv.Atoi(c.DefaultQuery("step", "30"))
	if err1 != nil || err2 != nil || err3 != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "start, end and step must be integers"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"options": models.GenerateTimeOptions(start, end, step)})
}
