package models

// Pattern kinds accepted in PatternRequest.Type.
const (
	PatternWeekly   = "weekly"
	PatternRotation = "rotation"
	PatternBulk     = "bulk"
)

// PatternRequest is the wire shape of a schedule pattern. Only the fields of
// the selected Type are read.
type PatternRequest struct {
	Type       string               `json:"type" binding:"required"`
	StartDate  string               `json:"startDate" binding:"required"`
	EndDate    string               `json:"endDate" binding:"required"`
	DaysOfWeek []int                `json:"daysOfWeek,omitempty"` // 0=Sunday..6=Saturday
	DaysOn     int                  `json:"daysOn,omitempty"`
	DaysOff    int                  `json:"daysOff,omitempty"`
	Dates      []string             `json:"dates,omitempty"`
	Hours      WorkingHoursTemplate `json:"hours"`
}

// GenerateScheduleRequest is the payload of "generate schedule from pattern".
type GenerateScheduleRequest struct {
	Pattern           PatternRequest `json:"pattern"`
	OverwriteExisting bool           `json:"overwriteExisting"`
	Async             bool           `json:"async"`
}

// UpsertWorkingDayRequest is the payload of "edit single day".
type UpsertWorkingDayRequest struct {
	Hours WorkingHoursTemplate `json:"hours"`
}

// DeleteWorkingDaysRequest is the payload of "delete multiple days".
type DeleteWorkingDaysRequest struct {
	Dates []string `json:"dates" binding:"required,min=1"`
}

// GeneratedDay is one candidate working day produced from a pattern.
type GeneratedDay struct {
	Date   string      `json:"date"`
	Start  TimeOfDay   `json:"startTime"`
	End    TimeOfDay   `json:"endTime"`
	Breaks []TimeRange `json:"breaks"`
}

// SchedulePreview summarises a pattern without writing anything.
type SchedulePreview struct {
	TotalDays    int            `json:"totalDays"`
	NewDays      int            `json:"newDays"`
	ExistingDays int            `json:"existingDays"`
	Sample       []GeneratedDay `json:"sample"`
}

// ReconcileResult reports how many days were written by a generation run.
type ReconcileResult struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
}
