package service

import (
	"context"
	"time"

	"medibook/internal/db"
	"medibook/internal/repository"
	"medibook/internal/schedule"
)

// Store interfaces consumed by the scheduling and booking services. The
// concrete implementations live in internal/repository; tests substitute
// in-memory fakes.

type AvailabilityStore interface {
	CreateRule(rule *db.AvailabilityRule) error
	ListRulesByDoctor(doctorID string) ([]db.AvailabilityRule, error)
	DeleteRule(ruleID, doctorID string) error
	CreateAbsence(absence *db.Absence) error
	ListAbsencesByDoctor(doctorID string) ([]db.Absence, error)
	DeleteAbsence(absenceID, doctorID string) error
	EngineInputs(doctorID string) ([]schedule.AvailabilityRule, []schedule.Absence, error)
}

type ConsultationStore interface {
	Create(c *db.Consultation) error
	GetByID(id string) (*db.Consultation, error)
	ListByDoctorDateRange(doctorID, from, to string) ([]db.Consultation, error)
	ListByPatient(patientID string) ([]db.Consultation, error)
	ListCart(patientID string) ([]db.Consultation, error)
	ListOverlappingScheduled(doctorID, startDate, endDate string) ([]db.Consultation, error)
	UpdateStatus(id, status string) error
	DeleteCartItem(id, patientID string) error
	AttachCheckoutSession(ids []string, sessionID, paymentStatus string) error
	ListBySessionID(sessionID string) ([]db.Consultation, error)
	MarkPaidBySessionID(sessionID, paymentStatus, paymentIntentID string) error
	UpdatePaymentStatusBySessionID(sessionID, paymentStatus string) error
	GetSessionIDByPaymentIntentID(paymentIntentID string) (string, error)
	GetPriceForType(consultationType string) (int, error)
	ListPrices() (map[string]int, error)
}

// ReviewStore is the review persistence surface the review service needs.
type ReviewStore interface {
	Create(review *db.Review) error
	Update(reviewID, patientID string, rating int, comment string) error
	GetByConsultation(consultationID string) (*db.Review, error)
	ListByPatient(patientID string) ([]db.Review, error)
}

type ProfileStore interface {
	GetByID(id string) (*db.Profile, error)
}

// Publisher pushes schedule-change events to subscribed clients.
type Publisher interface {
	PublishScheduleChange(ctx context.Context, doctorID, doctorName, message string)
}

// Notifier delivers patient-facing email/SMS notifications.
type Notifier interface {
	SendConsultationEmail(toEmail, patientName, doctorName string, c *db.Consultation, status string)
	SendConsultationSMS(toPhone string, c *db.Consultation, status string)
}

// PaymentProvider abstracts the Stripe calls the booking flow needs.
type PaymentProvider interface {
	CreateCheckoutSession(amount int64, currency, description, customerEmail string) (url, sessionID string, err error)
	RefundPaymentBySessionID(sessionID string) error
}

var _ Publisher = (*PushService)(nil)
var _ Notifier = (*SenderService)(nil)
var _ PaymentProvider = (*StripeService)(nil)

var _ AvailabilityStore = (*repository.AvailabilityRepository)(nil)
var _ ConsultationStore = (*repository.ConsultationRepository)(nil)
var _ ProfileStore = (*repository.ProfileRepository)(nil)
var _ ReviewStore = (*repository.ReviewRepository)(nil)

// nowFunc is swapped in tests.
var nowFunc = time.Now
