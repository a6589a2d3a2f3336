package schedule

import (
	"context"
	"errors"
	"sort"
	"time"

	scheduleRepo "beautypage/database/repository/schedule"
	"beautypage/metrics"
	"beautypage/models"

	"go.uber.org/zap"
)

// UpsertWorkingDay creates or replaces one date's hours and breaks and returns the row id.
func (s *DefaultScheduleService) UpsertWorkingDay(ctx context.Context, specialistID, date string, hours models.WorkingHoursTemplate) (string, error) {
	if err := ValidateDate("date", date); err != nil {
		return "", err
	}
	if err := ValidateHours(hours); err != nil {
		return "", err
	}

	release, err := s.lock(ctx, specialistID)
	if err != nil {
		return "", err
	}
	defer release()

	var id string
	err = s.Repo.RunInTx(ctx, func(ctx context.Context, repo scheduleRepo.ScheduleRepository) error {
		refs, err := repo.UpsertWorkingDays(ctx, []models.WorkingDay{{
			SpecialistID: specialistID,
			Date:         date,
			Start:        hours.Start,
			End:          hours.End,
		}})
		if err != nil {
			return persistenceError("upsert working day", err)
		}
		if len(refs) != 1 {
			return persistenceError("upsert working day", errors.New("storage returned no working day id"))
		}
		id = refs[0].ID

		if err := repo.DeleteBreaks(ctx, []string{id}); err != nil {
			return persistenceError("delete breaks", err)
		}
		breaks := make([]models.Break, 0, len(hours.Breaks))
		for _, b := range sortedBreaks(hours.Breaks) {
			breaks = append(breaks, models.Break{WorkingDayID: id, Start: b.Start, End: b.End})
		}
		if len(breaks) == 0 {
			return nil
		}
		if err := repo.InsertBreaks(ctx, breaks); err != nil {
			s.logger().Error("Break insert failed for working day",
				zap.String("specialistID", specialistID),
				zap.String("date", date),
				zap.Error(err),
			)
			return persistenceError("insert breaks", err)
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

// DeleteWorkingDay turns a working date into a day off.
func (s *DefaultScheduleService) DeleteWorkingDay(ctx context.Context, specialistID, date string) error {
	n, err := s.DeleteWorkingDays(ctx, specialistID, []string{date})
	if err != nil {
		return err
	}
	if n == 0 {
		return &NotFoundError{Resource: "working day", Key: date}
	}
	return nil
}

// DeleteWorkingDays removes several working days at once and reports how many existed.
func (s *DefaultScheduleService) DeleteWorkingDays(ctx context.Context, specialistID string, dates []string) (int, error) {
	if len(dates) == 0 {
		return 0, newValidationError("dates", "select at least one date")
	}
	seen := make(map[string]bool, len(dates))
	unique := make([]string, 0, len(dates))
	for _, d := range dates {
		if err := ValidateDate("dates", d); err != nil {
			return 0, err
		}
		if !seen[d] {
			seen[d] = true
			unique = append(unique, d)
		}
	}

	release, err := s.lock(ctx, specialistID)
	if err != nil {
		return 0, err
	}
	defer release()

	var deleted int64
	err = s.Repo.RunInTx(ctx, func(ctx context.Context, repo scheduleRepo.ScheduleRepository) error {
		n, err := repo.DeleteWorkingDays(ctx, specialistID, unique)
		if err != nil {
			return persistenceError("delete working days", err)
		}
		deleted = n
		return nil
	})
	if err != nil {
		return 0, err
	}
	s.logger().Info("Working days deleted",
		zap.String("specialistID", specialistID),
		zap.Int64("deleted", deleted),
	)
	return int(deleted), nil
}

// ListWorkingDays returns the specialist's working days in [from, to] ordered by date.
func (s *DefaultScheduleService) ListWorkingDays(ctx context.Context, specialistID, from, to string) ([]models.WorkingDay, error) {
	start, err := parseDate("from", from)
	if err != nil {
		return nil, err
	}
	end, err := parseDate("to", to)
	if err != nil {
		return nil, err
	}
	if end.Before(start) {
		return nil, newValidationError("to", "end date must not be before start date")
	}
	days, err := s.Repo.FindWorkingDays(ctx, specialistID, from, to)
	if err != nil {
		return nil, persistenceError("find working days", err)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Date < days[j].Date })
	return days, nil
}

// DayTimeline materialises the slots of one working day with its appointments overlaid.
// slotDuration 0 falls back to the specialist's configured default.
func (s *DefaultScheduleService) DayTimeline(ctx context.Context, specialistID, date string, slotDuration int) (*models.DayTimeline, error) {
	if err := ValidateDate("date", date); err != nil {
		return nil, err
	}
	if slotDuration == 0 {
		cfg, err := s.GetScheduleConfig(ctx, specialistID)
		if err != nil {
			return nil, err
		}
		slotDuration = cfg.DefaultSlotDuration
	}

	days, err := s.Repo.FindWorkingDays(ctx, specialistID, date, date)
	if err != nil {
		return nil, persistenceError("find working day", err)
	}
	if len(days) == 0 {
		return nil, &NotFoundError{Resource: "working day", Key: date}
	}
	day := days[0]

	appointments, err := s.Repo.FindAppointments(ctx, specialistID, date, date)
	if err != nil {
		return nil, persistenceError("find appointments", err)
	}

	hours := day.Hours()
	slots, err := GenerateSlots(models.DaySchedule{
		Start:  hours.Start,
		End:    hours.End,
		Breaks: hours.Breaks,
	}, AppointmentsInRange(appointments, date, date), slotDuration)
	if err != nil {
		return nil, err
	}
	for _, slot := range slots {
		state := "available"
		if !slot.Available {
			state = string(slot.BlockedReason)
		}
		metrics.RecordSlot(state)
	}

	return &models.DayTimeline{
		Date:         date,
		SlotDuration: slotDuration,
		WorkingDay:   day,
		Slots:        slots,
	}, nil
}

// Dashboard groups today's appointments, "today" being now in the specialist's timezone.
func (s *DefaultScheduleService) Dashboard(ctx context.Context, specialistID string, now time.Time) (*models.DayDashboard, error) {
	cfg, err := s.GetScheduleConfig(ctx, specialistID)
	if err != nil {
		return nil, err
	}
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		s.logger().Warn("Stored timezone no longer loads, using UTC",
			zap.String("specialistID", specialistID),
			zap.String("timezone", cfg.Timezone),
		)
		loc = time.UTC
	}
	local := now.In(loc)
	today := local.Format(models.DateLayout)

	appointments, err := s.Repo.FindAppointments(ctx, specialistID, today, today)
	if err != nil {
		return nil, persistenceError("find appointments", err)
	}
	dashboard := BuildDashboard(appointments, local)
	return &dashboard, nil
}

// GetScheduleConfig returns the stored config or the service defaults.
func (s *DefaultScheduleService) GetScheduleConfig(ctx context.Context, specialistID string) (*models.ScheduleConfig, error) {
	cfg, err := s.Repo.GetScheduleConfig(ctx, specialistID)
	if errors.Is(err, scheduleRepo.ErrNotFound) {
		defaults := s.Defaults
		defaults.SpecialistID = specialistID
		return &defaults, nil
	}
	if err != nil {
		return nil, persistenceError("load schedule config", err)
	}
	return cfg, nil
}

// UpdateScheduleConfig validates and stores a specialist's config.
func (s *DefaultScheduleService) UpdateScheduleConfig(ctx context.Context, cfg models.ScheduleConfig) (*models.ScheduleConfig, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	if err := s.Repo.UpsertScheduleConfig(ctx, cfg); err != nil {
		return nil, persistenceError("save schedule config", err)
	}
	return &cfg, nil
}

func validateConfig(cfg models.ScheduleConfig) error {
	if cfg.Timezone == "" {
		return newValidationError("timezone", "timezone is required")
	}
	if _, err := time.LoadLocation(cfg.Timezone); err != nil {
		return &ValidationError{Field: "timezone", Message: "unknown timezone " + quote(cfg.Timezone), Err: err}
	}
	if !models.IsAllowedSlotDuration(cfg.DefaultSlotDuration) {
		return newValidationError("defaultSlotDuration", "slot duration must be one of %v minutes", models.AllowedSlotDurations)
	}
	return nil
}
