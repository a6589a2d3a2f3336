package schedule

import (
	"testing"
	"time"

	"beautypage/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateHours(t *testing.T) {
	tests := []struct {
		name      string
		hours     models.WorkingHoursTemplate
		wantField string
		wantMsg   string
	}{
		{
			name:  "valid with breaks",
			hours: models.WorkingHoursTemplate{Start: tod(t, "09:00"), End: tod(t, "18:00"), Breaks: []models.TimeRange{span(t, "13:00", "14:00"), span(t, "10:00", "10:15")}},
		},
		{
			name:  "break touching window edges",
			hours: models.WorkingHoursTemplate{Start: tod(t, "09:00"), End: tod(t, "18:00"), Breaks: []models.TimeRange{span(t, "09:00", "09:30"), span(t, "17:30", "18:00")}},
		},
		{
			name:      "end before start",
			hours:     models.WorkingHoursTemplate{Start: tod(t, "18:00"), End: tod(t, "09:00")},
			wantField: "hours",
			wantMsg:   "end time must be after start time",
		},
		{
			name:      "zero length day",
			hours:     models.WorkingHoursTemplate{Start: tod(t, "09:00"), End: tod(t, "09:00")},
			wantField: "hours",
		},
		{
			name:      "inverted break",
			hours:     models.WorkingHoursTemplate{Start: tod(t, "09:00"), End: tod(t, "18:00"), Breaks: []models.TimeRange{span(t, "09:00", "10:00"), {Start: tod(t, "13:00"), End: tod(t, "12:00")}}},
			wantField: "breaks",
			wantMsg:   "break 2: end time must be after start time",
		},
		{
			name:      "break outside working hours",
			hours:     models.WorkingHoursTemplate{Start: tod(t, "09:00"), End: tod(t, "18:00"), Breaks: []models.TimeRange{span(t, "17:30", "18:30")}},
			wantField: "breaks",
			wantMsg:   "must be inside working hours",
		},
		{
			name:      "overlapping breaks",
			hours:     models.WorkingHoursTemplate{Start: tod(t, "09:00"), End: tod(t, "18:00"), Breaks: []models.TimeRange{span(t, "12:30", "13:30"), span(t, "12:00", "13:00")}},
			wantField: "breaks",
			wantMsg:   "overlap",
		},
		{
			name:      "time out of range",
			hours:     models.WorkingHoursTemplate{Start: tod(t, "09:00"), End: models.TimeOfDay(models.MinutesPerDay)},
			wantField: "hours",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateHours(tt.hours)
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.wantField, ve.Field)
			if tt.wantMsg != "" {
				assert.Contains(t, ve.Message, tt.wantMsg)
			}
		})
	}
}

func TestValidatePattern(t *testing.T) {
	hours := officeHours(t)
	tests := []struct {
		name      string
		pattern   SchedulePattern
		wantField string
	}{
		{
			name:    "valid weekly",
			pattern: WeeklyPattern{StartDate: "2024-01-01", EndDate: "2024-01-31", DaysOfWeek: []time.Weekday{time.Monday}, Hours: hours},
		},
		{
			name:    "leap year fits",
			pattern: RotationPattern{StartDate: "2024-01-01", EndDate: "2024-12-31", DaysOn: 4, DaysOff: 3, Hours: hours},
		},
		{
			name:      "nil pattern",
			pattern:   nil,
			wantField: "pattern",
		},
		{
			name:      "bad start date",
			pattern:   WeeklyPattern{StartDate: "2024-13-01", EndDate: "2024-12-31", DaysOfWeek: []time.Weekday{time.Monday}, Hours: hours},
			wantField: "startDate",
		},
		{
			name:      "end before start",
			pattern:   WeeklyPattern{StartDate: "2024-02-01", EndDate: "2024-01-31", DaysOfWeek: []time.Weekday{time.Monday}, Hours: hours},
			wantField: "endDate",
		},
		{
			name:      "range too long",
			pattern:   WeeklyPattern{StartDate: "2024-01-01", EndDate: "2025-01-01", DaysOfWeek: []time.Weekday{time.Monday}, Hours: hours},
			wantField: "endDate",
		},
		{
			name:      "weekly without days",
			pattern:   WeeklyPattern{StartDate: "2024-01-01", EndDate: "2024-01-31", Hours: hours},
			wantField: "daysOfWeek",
		},
		{
			name:      "weekly with invalid day",
			pattern:   WeeklyPattern{StartDate: "2024-01-01", EndDate: "2024-01-31", DaysOfWeek: []time.Weekday{7}, Hours: hours},
			wantField: "daysOfWeek",
		},
		{
			name:      "rotation zero days on",
			pattern:   RotationPattern{StartDate: "2024-01-01", EndDate: "2024-01-31", DaysOn: 0, DaysOff: 2, Hours: hours},
			wantField: "daysOn",
		},
		{
			name:      "rotation zero days off",
			pattern:   RotationPattern{StartDate: "2024-01-01", EndDate: "2024-01-31", DaysOn: 5, DaysOff: 0, Hours: hours},
			wantField: "daysOff",
		},
		{
			name:      "bulk without dates",
			pattern:   BulkPattern{StartDate: "2024-01-01", EndDate: "2024-01-31", Hours: hours},
			wantField: "dates",
		},
		{
			name:      "bulk with bad date",
			pattern:   BulkPattern{StartDate: "2024-01-01", EndDate: "2024-01-31", Dates: []string{"01/02/2024"}, Hours: hours},
			wantField: "dates",
		},
		{
			name: "hours checked last",
			pattern: WeeklyPattern{StartDate: "2024-01-01", EndDate: "2024-01-31", DaysOfWeek: []time.Weekday{time.Monday},
				Hours: models.WorkingHoursTemplate{Start: tod(t, "18:00"), End: tod(t, "09:00")}},
			wantField: "hours",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePattern(tt.pattern)
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.wantField, ve.Field)
		})
	}
}

func TestValidateDateWrapsParseError(t *testing.T) {
	err := ValidateDate("date", "2024-02-30")
	require.Error(t, err)
	var pe *time.ParseError
	assert.ErrorAs(t, err, &pe)
	assert.True(t, IsValidation(err))
}
