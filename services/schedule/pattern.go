package schedule

import (
	"sort"
	"time"

	"beautypage/models"
)

// SchedulePattern is a declarative rule that expands into working days.
// It is implemented by WeeklyPattern, RotationPattern and BulkPattern only.
type SchedulePattern interface {
	Span() (startDate, endDate string)
	WorkingHours() models.WorkingHoursTemplate
	isSchedulePattern()
}

// WeeklyPattern repeats the same hours on the selected weekdays.
type WeeklyPattern struct {
	StartDate  string
	EndDate    string
	DaysOfWeek []time.Weekday
	Hours      models.WorkingHoursTemplate
}

// RotationPattern cycles DaysOn working days followed by DaysOff free days, anchored at StartDate.
type RotationPattern struct {
	StartDate string
	EndDate   string
	DaysOn    int
	DaysOff   int
	Hours     models.WorkingHoursTemplate
}

// BulkPattern lists the working dates explicitly.
type BulkPattern struct {
	StartDate string
	EndDate   string
	Dates     []string
	Hours     models.WorkingHoursTemplate
}

func (p WeeklyPattern) Span() (string, string) { return p.StartDate, p.EndDate }
func (p WeeklyPattern) WorkingHours() models.WorkingHoursTemplate { return p.Hours }
func (WeeklyPattern) isSchedulePattern() {}
func (p RotationPattern) Span() (string, string) { return p.StartDate, p.EndDate }
func (p RotationPattern) WorkingHours() models.WorkingHoursTemplate { return p.Hours }
func (RotationPattern) isSchedulePattern() {}
func (p BulkPattern) Span() (string, string) { return p.StartDate, p.EndDate }
func (p BulkPattern) WorkingHours() models.WorkingHoursTemplate { return p.Hours }
func (BulkPattern) isSchedulePattern() {}

// DecodePattern turns the wire shape into a typed pattern. Field-level checks are left to ValidatePattern.
func DecodePattern(req models.PatternRequest) (SchedulePattern, error) {
	switch req.Type {
	case models.PatternWeekly:
		days := make([]time.Weekday, 0, len(req.DaysOfWeek))
		for _, d := range req.DaysOfWeek {
			days = append(days, time.Weekday(d))
		}
		return WeeklyPattern{StartDate: req.StartDate, EndDate: req.EndDate, DaysOfWeek: days, Hours: req.Hours}, nil
	case models.PatternRotation:
		return RotationPattern{StartDate: req.StartDate, EndDate: req.EndDate, DaysOn: req.DaysOn, DaysOff: req.DaysOff, Hours: req.Hours}, nil
	case models.PatternBulk:
		dates := append([]string(nil), req.Dates...)
		return BulkPattern{StartDate: req.StartDate, EndDate: req.EndDate, Dates: dates, Hours: req.Hours}, nil
	default:
		return nil, newValidationError("type", "unknown pattern type %q, expected weekly, rotation or bulk", req.Type)
	}
}

// GeneratePattern expands a pattern into candidate working days ordered by date.
// The pattern's hours are copied onto every day unchanged. An empty result is not an error.
func GeneratePattern(p SchedulePattern) ([]models.GeneratedDay, error) {
	if p == nil {
		return nil, newValidationError("pattern", "pattern is required")
	}
	startDate, endDate := p.Span()
	start, err := parseDate("startDate", startDate)
	if err != nil {
		return nil, err
	}
	end, err := parseDate("endDate", endDate)
	if err != nil {
		return nil, err
	}

	var dates []time.Time
	switch pt := p.(type) {
	case WeeklyPattern:
		wanted := make(map[time.Weekday]bool, len(pt.DaysOfWeek))
		for _, wd := range pt.DaysOfWeek {
			wanted[wd] = true
		}
		for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
			if wanted[d.Weekday()] {
				dates = append(dates, d)
			}
		}
	case RotationPattern:
		if pt.DaysOn < 1 || pt.DaysOff < 1 {
			return nil, newValidationError("daysOn", "rotation blocks must be at least one day")
		}
		for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
			if IsRotationWorkingDay(start, pt.DaysOn, pt.DaysOff, d) {
				dates = append(dates, d)
			}
		}
	case BulkPattern:
		seen := make(map[string]bool, len(pt.Dates))
		for _, raw := range pt.Dates {
			d, err := parseDate("dates", raw)
			if err != nil {
				return nil, err
			}
			key := d.Format(models.DateLayout)
			if seen[key] || d.Before(start) || d.After(end) {
				continue
			}
			seen[key] = true
			dates = append(dates, d)
		}
		sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	default:
		return nil, newValidationError("type", "unsupported pattern type %T", p)
	}

	hours := p.WorkingHours()
	days := make([]models.GeneratedDay, 0, len(dates))
	for _, d := range dates {
		days = append(days, models.GeneratedDay{
			Date:   d.Format(models.DateLayout),
			Start:  hours.Start,
			End:    hours.End,
			Breaks: sortedBreaks(hours.Breaks),
		})
	}
	return days, nil
}

// IsRotationWorkingDay reports whether date falls in an "on" block of a rotation anchored at anchor.
// Dates before the anchor are never working days.
func IsRotationWorkingDay(anchor time.Time, daysOn, daysOff int, date time.Time) bool {
	if daysOn < 1 || daysOff < 1 || date.Before(anchor) {
		return false
	}
	return daysBetween(anchor, date)%(daysOn+daysOff) < daysOn
}
