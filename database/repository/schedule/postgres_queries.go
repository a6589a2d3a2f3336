// File: database/repository/schedule/postgres_queries.go
package scheduleRepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"beautypage/models"

	"github.com/doug-martin/goqu/v9"
)

func (r *postgresScheduleRepo) FindWorkingDays(ctx context.Context, specialistID, from, to string) ([]models.WorkingDay, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	query, args, err := r.dialect.From("working_days").
		Prepared(true).
		Select("id", "specialist_id", "date", "start_time", "end_time").
		Where(goqu.Ex{"specialist_id": specialistID}, goqu.C("date").Between(goqu.Range(from, to))).
		Order(goqu.C("date").Asc()).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.exec.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch working days: %w", err)
	}
	defer rows.Close()

	days := []models.WorkingDay{}
	ids := []string{}
	for rows.Next() {
		var (
			day        models.WorkingDay
			date       time.Time
			start, end string
		)
		if err := rows.Scan(&day.ID, &day.SpecialistID, &date, &start, &end); err != nil {
			return nil, fmt.Errorf("error scanning working day: %w", err)
		}
		day.Date = date.Format(models.DateLayout)
		if day.Start, err = models.NormalizeStoredTime(start); err != nil {
			return nil, fmt.Errorf("working day %s: %w", day.ID, err)
		}
		if day.End, err = models.NormalizeStoredTime(end); err != nil {
			return nil, fmt.Errorf("working day %s: %w", day.ID, err)
		}
		day.Breaks = []models.Break{}
		days = append(days, day)
		ids = append(ids, day.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error reading working days: %w", err)
	}
	if len(days) == 0 {
		return days, nil
	}

	breaksByDay, err := r.findBreaks(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range days {
		if b, ok := breaksByDay[days[i].ID]; ok {
			days[i].Breaks = b
		}
	}
	return days, nil
}

func (r *postgresScheduleRepo) findBreaks(ctx context.Context, workingDayIDs []string) (map[string][]models.Break, error) {
	query, args, err := r.dialect.From("breaks").
		Prepared(true).
		Select("id", "working_day_id", "start_time", "end_time").
		Where(goqu.C("working_day_id").In(workingDayIDs)).
		Order(goqu.C("start_time").Asc()).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.exec.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch breaks: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]models.Break, len(workingDayIDs))
	for rows.Next() {
		var (
			b          models.Break
			start, end string
		)
		if err := rows.Scan(&b.ID, &b.WorkingDayID, &start, &end); err != nil {
			return nil, fmt.Errorf("error scanning break: %w", err)
		}
		if b.Start, err = models.NormalizeStoredTime(start); err != nil {
			return nil, fmt.Errorf("break %s: %w", b.ID, err)
		}
		if b.End, err = models.NormalizeStoredTime(end); err != nil {
			return nil, fmt.Errorf("break %s: %w", b.ID, err)
		}
		out[b.WorkingDayID] = append(out[b.WorkingDayID], b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error reading breaks: %w", err)
	}
	return out, nil
}

func (r *postgresScheduleRepo) FindWorkingDayDates(ctx context.Context, specialistID string, dates []string) ([]string, error) {
	if len(dates) == 0 {
		return []string{}, nil
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	query, args, err := r.dialect.From("working_days").
		Prepared(true).
		Select("date").
		Where(goqu.Ex{"specialist_id": specialistID}, goqu.C("date").In(dates)).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.exec.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch working day dates: %w", err)
	}
	defer rows.Close()

	out := make([]string, 0, len(dates))
	for rows.Next() {
		var date time.Time
		if err := rows.Scan(&date); err != nil {
			return nil, fmt.Errorf("error scanning date: %w", err)
		}
		out = append(out, date.Format(models.DateLayout))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error reading working day dates: %w", err)
	}
	return out, nil
}

func (r *postgresScheduleRepo) FindAppointments(ctx context.Context, specialistID, from, to string) ([]models.Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	query, args, err := r.dialect.From("appointments").
		Prepared(true).
		Select("id", "specialist_id", "date", "start_time", "end_time", "status", "client_name", "service_name").
		Where(goqu.Ex{"specialist_id": specialistID}, goqu.C("date").Between(goqu.Range(from, to))).
		Order(goqu.C("date").Asc(), goqu.C("start_time").Asc()).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.exec.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch appointments: %w", err)
	}
	defer rows.Close()

	out := []models.Appointment{}
	for rows.Next() {
		var (
			a                  models.Appointment
			date               time.Time
			start, end, status string
		)
		if err := rows.Scan(&a.ID, &a.SpecialistID, &date, &start, &end, &status, &a.ClientName, &a.ServiceName); err != nil {
			return nil, fmt.Errorf("error scanning appointment: %w", err)
		}
		a.Date = date.Format(models.DateLayout)
		a.Status = models.AppointmentStatus(status)
		if a.StartTime, err = models.NormalizeStoredTime(start); err != nil {
			return nil, fmt.Errorf("appointment %s: %w", a.ID, err)
		}
		if a.EndTime, err = models.NormalizeStoredTime(end); err != nil {
			return nil, fmt.Errorf("appointment %s: %w", a.ID, err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error reading appointments: %w", err)
	}
	return out, nil
}

func (r *postgresScheduleRepo) GetScheduleConfig(ctx context.Context, specialistID string) (*models.ScheduleConfig, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	query, args, err := r.dialect.From("schedule_configs").
		Prepared(true).
		Select("specialist_id", "timezone", "default_slot_duration").
		Where(goqu.Ex{"specialist_id": specialistID}).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	var cfg models.ScheduleConfig
	err = r.exec.QueryRowContext(ctx, query, args...).Scan(&cfg.SpecialistID, &cfg.Timezone, &cfg.DefaultSlotDuration)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch schedule config: %w", err)
	}
	return &cfg, nil
}
