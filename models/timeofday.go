package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// TimeOfDay is a wall-clock time with minute precision, stored as minutes from midnight.
type TimeOfDay int

const (
	MinutesPerDay = 24 * 60
	lastMinute    = TimeOfDay(MinutesPerDay - 1)
)

// FormatError reports a time string that is not a valid "HH:MM".
type FormatError struct {
	Value string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("invalid time %q: expected HH:MM", e.Value)
}

// NewTimeOfDay builds a TimeOfDay from hours and minutes.
func NewTimeOfDay(hours, minutes int) TimeOfDay {
	return TimeOfDay(hours*60 + minutes)
}

// ParseTime parses a strict zero-padded "HH:MM" string.
func ParseTime(s string) (TimeOfDay, error) {
	if len(s) != 5 || s[2] != ':' {
		return 0, &FormatError{Value: s}
	}
	h, err := parseTwoDigits(s[0:2])
	if err != nil || h > 23 {
		return 0, &FormatError{Value: s}
	}
	m, err := parseTwoDigits(s[3:5])
	if err != nil || m > 59 {
		return 0, &FormatError{Value: s}
	}
	return NewTimeOfDay(h, m), nil
}

// NormalizeStoredTime accepts the persisted shape ("HH:MM:SS") or plain "HH:MM"
// and truncates it to minute precision.
func NormalizeStoredTime(raw string) (TimeOfDay, error) {
	raw = strings.TrimSpace(raw)
	switch len(raw) {
	case 5:
		return ParseTime(raw)
	case 8:
		if raw[5] != ':' {
			return 0, &FormatError{Value: raw}
		}
		if sec, err := parseTwoDigits(raw[6:8]); err != nil || sec > 59 {
			return 0, &FormatError{Value: raw}
		}
		return ParseTime(raw[:5])
	default:
		return 0, &FormatError{Value: raw}
	}
}

func parseTwoDigits(s string) (int, error) {
	if len(s) != 2 || s[0] < '0' || s[0] > '9' || s[1] < '0' || s[1] > '9' {
		return 0, fmt.Errorf("not two digits: %q", s)
	}
	return strconv.Atoi(s)
}

// CompareTimes orders two times by minutes since midnight.
func CompareTimes(a, b TimeOfDay) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// GenerateTimeOptions lists times from startHour:00 to endHour:00 (capped at 23:59)
// every stepMinutes. A trailing partial step is dropped.
func GenerateTimeOptions(startHour, endHour, stepMinutes int) []TimeOfDay {
	if stepMinutes <= 0 || startHour < 0 || startHour > 23 || endHour < startHour {
		return []TimeOfDay{}
	}
	end := NewTimeOfDay(endHour, 0)
	if end > lastMinute {
		end = lastMinute
	}
	options := make([]TimeOfDay, 0, int(end-NewTimeOfDay(startHour, 0))/stepMinutes+1)
	for t := NewTimeOfDay(startHour, 0); t <= end; t += TimeOfDay(stepMinutes) {
		options = append(options, t)
	}
	return options
}

func (t TimeOfDay) Hours() int   { return int(t) / 60 }
func (t TimeOfDay) Minutes() int { return int(t) % 60 }

// Valid reports whether t lies within 00:00..23:59.
func (t TimeOfDay) Valid() bool {
	return t >= 0 && t <= lastMinute
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hours(), t.Minutes())
}

// Stored renders the persistence shape, which carries a seconds component.
func (t TimeOfDay) Stored() string {
	return t.String() + ":00"
}

func (t TimeOfDay) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *TimeOfDay) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return &FormatError{Value: string(data)}
	}
	parsed, err := NormalizeStoredTime(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// TimeRange is a half-open interval [Start, End) within one day.
type TimeRange struct {
	Start TimeOfDay `json:"start"`
	End   TimeOfDay `json:"end"`
}

// Valid requires a strictly positive length.
func (r TimeRange) Valid() bool {
	return r.Start.Valid() && r.End.Valid() && r.Start < r.End
}

// Overlaps reports whether two half-open ranges share at least one minute.
func (r TimeRange) Overlaps(other TimeRange) bool {
	return r.Start < other.End && other.Start < r.End
}

// Contains reports whether other lies fully inside r.
func (r TimeRange) Contains(other TimeRange) bool {
	return other.Start >= r.Start && other.End <= r.End
}

func (r TimeRange) Minutes() int {
	return int(r.End - r.Start)
}

func (r TimeRange) String() string {
	return r.Start.String() + "-" + r.End.String()
}
