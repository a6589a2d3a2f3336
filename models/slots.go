package models

// BlockedReason explains why a slot cannot be booked.
type BlockedReason string

const (
	BlockedByBreak   BlockedReason = "break"
	BlockedByBooking BlockedReason = "booked"
)

// TimeSlot is materialised on every read and never persisted.
type TimeSlot struct {
	Start         TimeOfDay     `json:"start"`
	End           TimeOfDay     `json:"end"`
	Available     bool          `json:"available"`
	BlockedReason BlockedReason `json:"blockedReason,omitempty"`
}

// DaySchedule is the input of the slot generator.
type DaySchedule struct {
	Start  TimeOfDay   `json:"start"`
	End    TimeOfDay   `json:"end"`
	Breaks []TimeRange `json:"breaks"`
}

// DayTimeline is the response of the "view day timeline" command.
type DayTimeline struct {
	Date         string     `json:"date"`
	SlotDuration int        `json:"slotDuration"`
	WorkingDay   WorkingDay `json:"workingDay"`
	Slots        []TimeSlot `json:"slots"`
}
