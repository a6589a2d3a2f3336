package schedule

import (
	"beautypage/models"
)

// GenerateSlots tiles [day.Start, day.End) with slots of slotDuration minutes. The last slot is
// shortened when the window does not divide evenly. Breaks win over bookings; only pending and
// confirmed appointments block a slot.
func GenerateSlots(day models.DaySchedule, appointments []models.Appointment, slotDuration int) ([]models.TimeSlot, error) {
	if !models.IsAllowedSlotDuration(slotDuration) {
		return nil, newValidationError("slotDuration", "slot duration must be one of %v minutes", models.AllowedSlotDurations)
	}
	window := models.TimeRange{Start: day.Start, End: day.End}
	if !window.Valid() {
		return nil, newValidationError("hours", "end time must be after start time")
	}

	booked := make([]models.TimeRange, 0, len(appointments))
	for _, a := range appointments {
		if a.Status.Occupies() {
			booked = append(booked, a.Window())
		}
	}

	step := models.TimeOfDay(slotDuration)
	slots := make([]models.TimeSlot, 0, (window.Minutes()+slotDuration-1)/slotDuration)
	for start := window.Start; start < window.End; start += step {
		end := start + step
		if end > window.End {
			end = window.End
		}
		candidate := models.TimeRange{Start: start, End: end}
		slot := models.TimeSlot{Start: start, End: end, Available: true}
		switch {
		case overlapsAny(candidate, day.Breaks):
			slot.Available = false
			slot.BlockedReason = models.BlockedByBreak
		case overlapsAny(candidate, booked):
			slot.Available = false
			slot.BlockedReason = models.BlockedByBooking
		}
		slots = append(slots, slot)
	}
	return slots, nil
}

func overlapsAny(r models.TimeRange, ranges []models.TimeRange) bool {
	for _, other := range ranges {
		if r.Overlaps(other) {
			return true
		}
	}
	return false
}
