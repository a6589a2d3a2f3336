package models

// AppointmentStatus is the lifecycle state of a booking.
type AppointmentStatus string

const (
	AppointmentPending   AppointmentStatus = "pending"
	AppointmentConfirmed AppointmentStatus = "confirmed"
	AppointmentCompleted AppointmentStatus = "completed"
	AppointmentCancelled AppointmentStatus = "cancelled"
	AppointmentNoShow    AppointmentStatus = "no_show"
)

// Occupies reports whether the appointment holds its time on the calendar.
func (s AppointmentStatus) Occupies() bool {
	return s == AppointmentPending || s == AppointmentConfirmed
}

// Appointment is read-only here; bookings are owned by the booking flow.
type Appointment struct {
	ID           string            `json:"id"`
	SpecialistID string            `json:"specialistId"`
	Date         string            `json:"date"`
	StartTime    TimeOfDay         `json:"start_time"`
	EndTime      TimeOfDay         `json:"end_time"`
	Status       AppointmentStatus `json:"status"`
	ClientName   string            `json:"clientName,omitempty"`
	ServiceName  string            `json:"serviceName,omitempty"`
}

// Window returns the appointment's time range.
func (a Appointment) Window() TimeRange {
	return TimeRange{Start: a.StartTime, End: a.EndTime}
}

// DayDashboard is the day-of-operations view.
type DayDashboard struct {
	Date      string        `json:"date"`
	Now       TimeOfDay     `json:"now"`
	Current   *Appointment  `json:"current,omitempty"`
	Upcoming  []Appointment `json:"upcoming"`
	Completed []Appointment `json:"completed"`
}
