// File: database/repository/schedule/interface.go
package scheduleRepo

import (
	"context"
	"errors"

	"beautypage/models"
)

// ErrNotFound is returned when a single-record lookup matches nothing.
var ErrNotFound = errors.New("record not found")

// ScheduleRepository is the persistence capability the schedule core consumes.
type ScheduleRepository interface {
	// FindWorkingDays returns the specialist's working days dated within [from, to], breaks included.
	FindWorkingDays(ctx context.Context, specialistID, from, to string) ([]models.WorkingDay, error)
	// FindWorkingDayDates returns which of dates already have a working day.
	FindWorkingDayDates(ctx context.Context, specialistID string, dates []string) ([]string, error)
	// UpsertWorkingDays writes all rows keyed by (specialistId, date) in one batch.
	UpsertWorkingDays(ctx context.Context, rows []models.WorkingDay) ([]models.WorkingDayRef, error)
	DeleteBreaks(ctx context.Context, workingDayIDs []string) error
	InsertBreaks(ctx context.Context, rows []models.Break) error
	// DeleteWorkingDays removes the working days and their breaks, returning how many days went.
	DeleteWorkingDays(ctx context.Context, specialistID string, dates []string) (int64, error)

	FindAppointments(ctx context.Context, specialistID, from, to string) ([]models.Appointment, error)

	GetScheduleConfig(ctx context.Context, specialistID string) (*models.ScheduleConfig, error)
	UpsertScheduleConfig(ctx context.Context, cfg models.ScheduleConfig) error

	// RunInTx runs fn against a repository bound to one storage transaction.
	RunInTx(ctx context.Context, fn func(ctx context.Context, repo ScheduleRepository) error) error
	EnsureIndexes(ctx context.Context) error
}
