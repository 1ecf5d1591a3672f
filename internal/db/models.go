package db

import (
	"time"

	"github.com/lib/pq"

	"medibook/internal/schedule"
)

// Roles stored on profiles.
const (
	RolePatient = "PATIENT"
	RoleDoctor  = "DOCTOR"
	RoleAdmin   = "ADMIN"
)

// Consultation statuses. SCHEDULED moves to CANCELLED (patient or absence
// cascade) or to COMPLETED (sweeper job, once the end time has passed); both
// are terminal.
const (
	StatusScheduled = "SCHEDULED"
	StatusCancelled = "CANCELLED"
	StatusCompleted = "COMPLETED"
)

// Consultation types.
const (
	TypeFirstVisit     = "FIRST_VISIT"
	TypeFollowup       = "FOLLOWUP"
	TypeChronicDisease = "CHRONIC_DISEASE"
	TypePrescription   = "PRESCRIPTION"
	TypeConsultation   = "CONSULTATION"
	TypeCheckup        = "CHECKUP"
	TypeEmergency      = "EMERGENCY"
)

type Profile struct {
	ID           string
	FullName     string
	Email        string
	Phone        *string
	PasswordHash string
	Role         string
	IsBanned     bool
	DoctorType   *string
	CreatedAt    time.Time
}

// AvailabilityRule is a doctor availability row. Recurring rules carry
// StartDate/EndDate/DaysOfWeek, one-off rules carry SpecificDate; the unused
// mode's fields stay empty. Rules are immutable once created (delete only).
type AvailabilityRule struct {
	ID           string
	DoctorID     string
	IsRecurring  bool
	StartDate    string
	EndDate      string
	DaysOfWeek   pq.Int64Array
	SpecificDate string
	TimeSlots    []schedule.TimeSlot
	CreatedAt    time.Time
}

// Engine converts the row into the pure engine's rule type.
func (r *AvailabilityRule) Engine() schedule.AvailabilityRule {
	days := make([]int, len(r.DaysOfWeek))
	for i, d := range r.DaysOfWeek {
		days[i] = int(d)
	}
	return schedule.AvailabilityRule{
		IsRecurring:  r.IsRecurring,
		StartDate:    r.StartDate,
		EndDate:      r.EndDate,
		DaysOfWeek:   days,
		SpecificDate: r.SpecificDate,
		TimeSlots:    r.TimeSlots,
	}
}

type Absence struct {
	ID        string
	DoctorID  string
	StartDate string
	EndDate   string
	Reason    string
	CreatedAt time.Time
}

func (a *Absence) Engine() schedule.Absence {
	return schedule.Absence{StartDate: a.StartDate, EndDate: a.EndDate}
}

type Consultation struct {
	ID                    string
	DoctorID              string
	PatientID             *string
	Date                  string
	StartTime             string
	EndTime               string
	Type                  string
	Status                string
	InCart                bool
	IsPaid                bool
	PatientNotes          string
	StripeSessionID       string
	StripePaymentIntentID string
	PaymentStatus         string
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

func (c *Consultation) Engine() schedule.Booking {
	return schedule.Booking{
		Date:      c.Date,
		StartTime: c.StartTime,
		EndTime:   c.EndTime,
		Status:    c.Status,
	}
}

type Review struct {
	ID             string
	ConsultationID string
	PatientID      string
	Rating         int
	Comment        string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ConsultationDocument is upload metadata attached to a consultation. After a
// partial multi-file upload failure the set may be incomplete; readers must
// not assume every announced document made it.
type ConsultationDocument struct {
	ID             string
	ConsultationID string
	Name           string
	URL            string
	ContentType    string
	Size           int64
	CreatedAt      time.Time
}
