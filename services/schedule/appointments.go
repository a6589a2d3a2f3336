package schedule

import (
	"sort"
	"time"

	"beautypage/models"
)

// minuteOfDay drops seconds; "now" is compared at minute precision like every stored time.
func minuteOfDay(now time.Time) models.TimeOfDay {
	return models.NewTimeOfDay(now.Hour(), now.Minute())
}

// CurrentAppointment returns today's pending or confirmed appointment running at now, if any.
// Overlapping bookings are not expected; the earliest match wins.
func CurrentAppointment(list []models.Appointment, now time.Time) *models.Appointment {
	today, minute := now.Format(models.DateLayout), minuteOfDay(now)
	for _, a := range sortedByStart(list) {
		if a.Date != today || !a.Status.Occupies() {
			continue
		}
		if a.StartTime <= minute && minute < a.EndTime {
			found := a
			return &found
		}
	}
	return nil
}

// UpcomingAppointments returns today's appointments that start after now, excluding
// cancelled and no-show ones, ordered by start time.
func UpcomingAppointments(list []models.Appointment, now time.Time) []models.Appointment {
	today, minute := now.Format(models.DateLayout), minuteOfDay(now)
	out := []models.Appointment{}
	for _, a := range sortedByStart(list) {
		if a.Date != today {
			continue
		}
		if a.Status == models.AppointmentCancelled || a.Status == models.AppointmentNoShow {
			continue
		}
		if a.StartTime > minute {
			out = append(out, a)
		}
	}
	return out
}

// CompletedAppointments returns today's appointments that are no longer actionable: explicitly
// completed ones plus pending or confirmed ones whose end has passed.
func CompletedAppointments(list []models.Appointment, now time.Time) []models.Appointment {
	today, minute := now.Format(models.DateLayout), minuteOfDay(now)
	out := []models.Appointment{}
	for _, a := range sortedByStart(list) {
		if a.Date != today {
			continue
		}
		if a.Status == models.AppointmentCompleted || (a.Status.Occupies() && a.EndTime <= minute) {
			out = append(out, a)
		}
	}
	return out
}

// AppointmentsInRange keeps appointments dated within [from, to], both inclusive.
func AppointmentsInRange(list []models.Appointment, from, to string) []models.Appointment {
	out := []models.Appointment{}
	for _, a := range list {
		if a.Date >= from && a.Date <= to {
			out = append(out, a)
		}
	}
	return out
}

// BuildDashboard groups today's appointments for the daily operations view.
func BuildDashboard(list []models.Appointment, now time.Time) models.DayDashboard {
	return models.DayDashboard{
		Date:      now.Format(models.DateLayout),
		Now:       minuteOfDay(now),
		Current:   CurrentAppointment(list, now),
		Upcoming:  UpcomingAppointments(list, now),
		Completed: CompletedAppointments(list, now),
	}
}

func sortedByStart(list []models.Appointment) []models.Appointment {
	out := make([]models.Appointment, len(list))
	copy(out, list)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].StartTime < out[j].StartTime
	})
	return out
}
