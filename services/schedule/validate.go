package schedule

import (
	"sort"
	"time"

	"beautypage/models"
)

// maxPatternDays bounds a single generation request.
const maxPatternDays = 366

// ValidateHours checks a working-hours template. Rules are checked in order and the
// first violation is returned.
func ValidateHours(h models.WorkingHoursTemplate) error {
	if !h.Start.Valid() || !h.End.Valid() {
		return newValidationError("hours", "times must be between 00:00 and 23:59")
	}
	if h.Start >= h.End {
		return newValidationError("hours", "end time must be after start time")
	}
	for i, b := range h.Breaks {
		if !b.Start.Valid() || !b.End.Valid() || b.Start >= b.End {
			return newValidationError("breaks", "break %d: end time must be after start time", i+1)
		}
	}
	window := h.Window()
	for i, b := range h.Breaks {
		if !window.Contains(b) {
			return newValidationError("breaks", "break %d (%s) must be inside working hours %s", i+1, b, window)
		}
	}
	sorted := sortedBreaks(h.Breaks)
	for i := 0; i+1 < len(sorted); i++ {
		if sorted[i].End > sorted[i+1].Start {
			return newValidationError("breaks", "breaks %s and %s overlap", sorted[i], sorted[i+1])
		}
	}
	return nil
}

// ValidatePattern runs the structural and semantic checks shared by preview and generation.
func ValidatePattern(p SchedulePattern) error {
	if p == nil {
		return newValidationError("pattern", "pattern is required")
	}
	startDate, endDate := p.Span()
	start, err := parseDate("startDate", startDate)
	if err != nil {
		return err
	}
	end, err := parseDate("endDate", endDate)
	if err != nil {
		return err
	}
	if end.Before(start) {
		return newValidationError("endDate", "end date must not be before start date")
	}
	if daysBetween(start, end)+1 > maxPatternDays {
		return newValidationError("endDate", "date range too long: at most %d days per pattern", maxPatternDays)
	}

	switch pt := p.(type) {
	case WeeklyPattern:
		if len(pt.DaysOfWeek) == 0 {
			return newValidationError("daysOfWeek", "select at least one day of the week")
		}
		for _, wd := range pt.DaysOfWeek {
			if wd < time.Sunday || wd > time.Saturday {
				return newValidationError("daysOfWeek", "invalid day of week %d", wd)
			}
		}
	case RotationPattern:
		if pt.DaysOn < 1 {
			return newValidationError("daysOn", "days on must be at least 1")
		}
		if pt.DaysOff < 1 {
			return newValidationError("daysOff", "days off must be at least 1")
		}
	case BulkPattern:
		if len(pt.Dates) == 0 {
			return newValidationError("dates", "select at least one date")
		}
		for _, d := range pt.Dates {
			if _, err := parseDate("dates", d); err != nil {
				return err
			}
		}
	default:
		return newValidationError("type", "unsupported pattern type %T", p)
	}

	return ValidateHours(p.WorkingHours())
}

// ValidateDate checks a single ISO calendar date.
func ValidateDate(field, date string) error {
	_, err := parseDate(field, date)
	return err
}

func parseDate(field, value string) (time.Time, error) {
	t, err := time.Parse(models.DateLayout, value)
	if err != nil {
		return time.Time{}, &ValidationError{
			Field:   field,
			Message: "invalid date " + quote(value) + ", expected YYYY-MM-DD",
			Err:     err,
		}
	}
	return t, nil
}

func quote(s string) string { return "\"" + s + "\"" }

func daysBetween(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}

func sortedBreaks(breaks []models.TimeRange) []models.TimeRange {
	out := make([]models.TimeRange, len(breaks))
	copy(out, breaks)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Start < out[j].Start })
	return out
}
