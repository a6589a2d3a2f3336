package schedule

import (
	"context"
	"time"

	scheduleRepo "beautypage/database/repository/schedule"
	"beautypage/metrics"
	"beautypage/models"

	"go.uber.org/zap"
)

const previewSampleSize = 10

// Preview reports what Reconcile would do without writing anything.
func (s *DefaultScheduleService) Preview(ctx context.Context, specialistID string, pattern SchedulePattern) (*models.SchedulePreview, error) {
	if err := ValidatePattern(pattern); err != nil {
		return nil, err
	}
	days, err := GeneratePattern(pattern)
	if err != nil {
		return nil, err
	}

	preview := &models.SchedulePreview{TotalDays: len(days), Sample: []models.GeneratedDay{}}
	if len(days) == 0 {
		return preview, nil
	}

	existing, err := s.existingDates(ctx, specialistID, days)
	if err != nil {
		return nil, err
	}
	preview.ExistingDays = len(existing)
	preview.NewDays = len(days) - len(existing)

	n := len(days)
	if n > previewSampleSize {
		n = previewSampleSize
	}
	preview.Sample = append(preview.Sample, days[:n]...)
	return preview, nil
}

// Reconcile writes the pattern's days for the specialist. Without overwriteExisting, dates that
// already have a working day are left untouched, so re-running a pattern is idempotent.
func (s *DefaultScheduleService) Reconcile(ctx context.Context, specialistID string, pattern SchedulePattern, overwriteExisting bool) (*models.ReconcileResult, error) {
	started := time.Now()
	kind := patternKind(pattern)
	status := "error"
	defer func() {
		metrics.ReconcileDuration.WithLabelValues(kind, status).Observe(time.Since(started).Seconds())
	}()

	if err := ValidatePattern(pattern); err != nil {
		status = "invalid"
		return nil, err
	}
	days, err := GeneratePattern(pattern)
	if err != nil {
		status = "invalid"
		return nil, err
	}
	result := &models.ReconcileResult{}
	if len(days) == 0 {
		status = "ok"
		return result, nil
	}

	release, err := s.lock(ctx, specialistID)
	if err != nil {
		return nil, err
	}
	defer release()

	existing, err := s.existingDates(ctx, specialistID, days)
	if err != nil {
		return nil, err
	}

	toWrite := make([]models.GeneratedDay, 0, len(days))
	for _, d := range days {
		if existing[d.Date] && !overwriteExisting {
			continue
		}
		toWrite = append(toWrite, d)
	}
	if len(toWrite) == 0 {
		status = "ok"
		return result, nil
	}

	if err := s.writeDays(ctx, specialistID, toWrite); err != nil {
		return nil, err
	}

	for _, d := range toWrite {
		if existing[d.Date] {
			result.Updated++
		} else {
			result.Created++
		}
	}
	status = "ok"
	metrics.RecordReconcile(result.Created, result.Updated)
	s.logger().Info("Schedule generated",
		zap.String("specialistID", specialistID),
		zap.String("pattern", kind),
		zap.Bool("overwrite", overwriteExisting),
		zap.Int("created", result.Created),
		zap.Int("updated", result.Updated),
	)
	return result, nil
}

// writeDays upserts the days and replaces their breaks inside one storage transaction.
func (s *DefaultScheduleService) writeDays(ctx context.Context, specialistID string, days []models.GeneratedDay) error {
	rows := make([]models.WorkingDay, 0, len(days))
	breaksByDate := make(map[string][]models.TimeRange, len(days))
	for _, d := range days {
		rows = append(rows, models.WorkingDay{
			SpecialistID: specialistID,
			Date:         d.Date,
			Start:        d.Start,
			End:          d.End,
		})
		breaksByDate[d.Date] = d.Breaks
	}

	return s.Repo.RunInTx(ctx, func(ctx context.Context, repo scheduleRepo.ScheduleRepository) error {
		refs, err := repo.UpsertWorkingDays(ctx, rows)
		if err != nil {
			return persistenceError("upsert working days", err)
		}

		ids := make([]string, 0, len(refs))
		var breaks []models.Break
		for _, ref := range refs {
			ids = append(ids, ref.ID)
			for _, b := range breaksByDate[ref.Date] {
				breaks = append(breaks, models.Break{WorkingDayID: ref.ID, Start: b.Start, End: b.End})
			}
		}

		if err := repo.DeleteBreaks(ctx, ids); err != nil {
			return persistenceError("delete breaks", err)
		}
		if len(breaks) == 0 {
			return nil
		}
		if err := repo.InsertBreaks(ctx, breaks); err != nil {
			s.logger().Error("Break insert failed after breaks were cleared; rolling back working days",
				zap.String("specialistID", specialistID),
				zap.Int("days", len(ids)),
				zap.Error(err),
			)
			return persistenceError("insert breaks", err)
		}
		return nil
	})
}

func (s *DefaultScheduleService) existingDates(ctx context.Context, specialistID string, days []models.GeneratedDay) (map[string]bool, error) {
	dates := make([]string, 0, len(days))
	for _, d := range days {
		dates = append(dates, d.Date)
	}
	found, err := s.Repo.FindWorkingDayDates(ctx, specialistID, dates)
	if err != nil {
		return nil, persistenceError("find working days", err)
	}
	existing := make(map[string]bool, len(found))
	for _, d := range found {
		existing[d] = true
	}
	return existing, nil
}

func patternKind(p SchedulePattern) string {
	switch p.(type) {
	case WeeklyPattern:
		return models.PatternWeekly
	case RotationPattern:
		return models.PatternRotation
	case BulkPattern:
		return models.PatternBulk
	default:
		return "unknown"
	}
}
