package entities

import "time"

// ScheduleEvent is published on a doctor's channel whenever their schedule
// changes (new rule, absence, booking, cancellation). Subscribers reload the
// doctor's schedule on receipt; ordering between a reload in flight and a new
// event is last-write-wins.
type ScheduleEvent struct {
	DoctorID   string    `json:"doctor_id"`
	DoctorName string    `json:"doctor_name"`
	Message    string    `json:"message"`
	Timestamp  time.Time `json:"timestamp"`
}
