package models

// DateLayout is the ISO calendar date format used for every stored date.
const DateLayout = "2006-01-02"

// WorkingHoursTemplate is the daily window plus breaks applied to each generated day.
type WorkingHoursTemplate struct {
	Start  TimeOfDay   `json:"start"`
	End    TimeOfDay   `json:"end"`
	Breaks []TimeRange `json:"breaks"`
}

// Window returns the working window as a range.
func (h WorkingHoursTemplate) Window() TimeRange {
	return TimeRange{Start: h.Start, End: h.End}
}

// WorkingDay is one calendar date on which a specialist works.
// A date without a WorkingDay is a day off.
type WorkingDay struct {
	ID           string    `json:"id"`
	SpecialistID string    `json:"specialistId"`
	Date         string    `json:"date"` // e.g. "2024-01-15"
	Start        TimeOfDay `json:"start"`
	End          TimeOfDay `json:"end"`
	Breaks       []Break   `json:"breaks"`
}

// Hours returns the day's schedule as a template.
func (d WorkingDay) Hours() WorkingHoursTemplate {
	breaks := make([]TimeRange, 0, len(d.Breaks))
	for _, b := range d.Breaks {
		breaks = append(breaks, TimeRange{Start: b.Start, End: b.End})
	}
	return WorkingHoursTemplate{Start: d.Start, End: d.End, Breaks: breaks}
}

// Break belongs to exactly one WorkingDay and is replaced wholesale, never patched.
type Break struct {
	ID           string    `json:"id,omitempty"`
	WorkingDayID string    `json:"workingDayId"`
	Start        TimeOfDay `json:"start"`
	End          TimeOfDay `json:"end"`
}

// WorkingDayRef is what a batch upsert hands back for each row.
type WorkingDayRef struct {
	ID   string `json:"id"`
	Date string `json:"date"`
}

// ScheduleConfig holds per-specialist slot settings.
type ScheduleConfig struct {
	SpecialistID        string `json:"specialistId"`
	Timezone            string `json:"timezone" binding:"required"`
	DefaultSlotDuration int    `json:"defaultSlotDuration" binding:"required"` // minutes
}

// AllowedSlotDurations lists the supported slot granularities in minutes.
var AllowedSlotDurations = []int{5, 10, 15, 30, 60}

// IsAllowedSlotDuration reports whether minutes is a supported granularity.
func IsAllowedSlotDuration(minutes int) bool {
	for _, d := range AllowedSlotDurations {
		if d == minutes {
			return true
		}
	}
	return false
}
