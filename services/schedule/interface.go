package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	scheduleRepo "beautypage/database/repository/schedule"
	"beautypage/metrics"
	"beautypage/models"

	"go.uber.org/zap"
)

// ScheduleService powers the schedule commands: preview, generate, single-day edits,
// timelines and the daily dashboard.
type ScheduleService interface {
	Preview(ctx context.Context, specialistID string, pattern SchedulePattern) (*models.SchedulePreview, error)
	Reconcile(ctx context.Context, specialistID string, pattern SchedulePattern, overwriteExisting bool) (*models.ReconcileResult, error)

	UpsertWorkingDay(ctx context.Context, specialistID, date string, hours models.WorkingHoursTemplate) (string, error)
	DeleteWorkingDay(ctx context.Context, specialistID, date string) error
	DeleteWorkingDays(ctx context.Context, specialistID string, dates []string) (int, error)
	ListWorkingDays(ctx context.Context, specialistID, from, to string) ([]models.WorkingDay, error)

	DayTimeline(ctx context.Context, specialistID, date string, slotDuration int) (*models.DayTimeline, error)
	Dashboard(ctx context.Context, specialistID string, now time.Time) (*models.DayDashboard, error)

	GetScheduleConfig(ctx context.Context, specialistID string) (*models.ScheduleConfig, error)
	UpdateScheduleConfig(ctx context.Context, cfg models.ScheduleConfig) (*models.ScheduleConfig, error)
}

// DefaultScheduleService is the production implementation.
type DefaultScheduleService struct {
	Repo     scheduleRepo.ScheduleRepository
	Locker   Locker
	Logger   *zap.Logger
	Defaults models.ScheduleConfig
}

func NewDefaultScheduleService(
	repo scheduleRepo.ScheduleRepository,
	locker Locker,
	logger *zap.Logger,
	defaults models.ScheduleConfig,
) (*DefaultScheduleService, error) {
	if repo == nil || locker == nil {
		return nil, fmt.Errorf("schedule service initialization error: repository and locker are required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := validateConfig(defaults); err != nil {
		return nil, fmt.Errorf("schedule service initialization error: invalid defaults: %w", err)
	}
	return &DefaultScheduleService{
		Repo:     repo,
		Locker:   locker,
		Logger:   logger,
		Defaults: defaults,
	}, nil
}

func (s *DefaultScheduleService) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}

// lock takes the specialist's schedule lock, mapping contention to ConflictError.
func (s *DefaultScheduleService) lock(ctx context.Context, specialistID string) (func(), error) {
	release, err := s.Locker.Acquire(ctx, specialistID)
	if err == nil {
		return release, nil
	}
	if errors.Is(err, ErrLockBusy) {
		s.logger().Warn("Schedule lock busy", zap.String("specialistID", specialistID))
		metrics.LockContention.Inc()
		return nil, &ConflictError{SpecialistID: specialistID}
	}
	return nil, persistenceError("acquire schedule lock", err)
}
