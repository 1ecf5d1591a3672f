package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"medibook/internal/db"
	"medibook/internal/entities"
	"medibook/internal/errors"
	"medibook/internal/schedule"
)

const (
	paymentPending   = "pending"
	paymentSucceeded = "succeeded"
	paymentRefunded  = "refunded"
)

var validConsultationTypes = map[string]bool{
	db.TypeFirstVisit:     true,
	db.TypeFollowup:       true,
	db.TypeChronicDisease: true,
	db.TypePrescription:   true,
	db.TypeConsultation:   true,
	db.TypeCheckup:        true,
	db.TypeEmergency:      true,
}

// BookingService drives the patient side: booking validated slot runs,
// the cart/payment lifecycle and cancellations.
type BookingService struct {
	Availability  AvailabilityStore
	Consultations ConsultationStore
	Profiles      ProfileStore
	Stripe        PaymentProvider
	Push          Publisher
	Sender        Notifier
}

func NewBookingService(availability AvailabilityStore, consultations ConsultationStore, profiles ProfileStore, stripe PaymentProvider, push Publisher, sender Notifier) *BookingService {
	return &BookingService{
		Availability:  availability,
		Consultations: consultations,
		Profiles:      profiles,
		Stripe:        stripe,
		Push:          push,
		Sender:        sender,
	}
}

// BookSlots validates the selected slot points and creates the consultation:
// unpaid, in the cart, status SCHEDULED. The availability re-check here is a
// courtesy to reject obviously futile submissions; the real at-most-one
// guarantee is the database exclusion constraint hit on insert.
func (s *BookingService) BookSlots(ctx context.Context, patientID string, req entities.BookingRequest) (*db.Consultation, error) {
	if req.DoctorID == "" {
		return nil, errors.ErrBadRequest("doctor_id is required")
	}
	if !validConsultationTypes[req.Type] {
		return nil, errors.ErrBadRequest(fmt.Sprintf("unknown consultation type %q", req.Type))
	}

	date, startTime, endTime, err := schedule.SelectionWindow(req.Slots)
	if err != nil {
		return nil, errors.ErrBadRequest(err.Error())
	}

	rules, absences, err := s.Availability.EngineInputs(req.DoctorID)
	if err != nil {
		return nil, err
	}
	existing, err := s.Consultations.ListByDoctorDateRange(req.DoctorID, date, date)
	if err != nil {
		return nil, err
	}
	bookings := make([]schedule.Booking, len(existing))
	for i := range existing {
		bookings[i] = existing[i].Engine()
	}

	for _, point := range req.Slots {
		if !schedule.IsSlotAvailable(rules, absences, bookings, point.Date, point.Start) {
			return nil, errors.ErrConflict(fmt.Sprintf("slot %s %s is not available", point.Date, point.Start))
		}
	}

	consultation := &db.Consultation{
		DoctorID:     req.DoctorID,
		PatientID:    &patientID,
		Date:         date,
		StartTime:    startTime,
		EndTime:      endTime,
		Type:         req.Type,
		Status:       db.StatusScheduled,
		InCart:       true,
		IsPaid:       false,
		PatientNotes: req.PatientNotes,
	}
	if err := s.Consultations.Create(consultation); err != nil {
		return nil, errors.ErrConflict(err.Error())
	}

	s.publish(ctx, req.DoctorID, "slot booked")
	return consultation, nil
}

func (s *BookingService) ListMyConsultations(patientID string) ([]db.Consultation, error) {
	return s.Consultations.ListByPatient(patientID)
}

func (s *BookingService) ListCart(patientID string) ([]db.Consultation, error) {
	return s.Consultations.ListCart(patientID)
}

// ListPrices returns the price table, in euros, keyed by consultation type.
func (s *BookingService) ListPrices() (map[string]int, error) {
	return s.Consultations.ListPrices()
}

// RemoveCartItem deletes an unpaid in-cart consultation, freeing its slot.
func (s *BookingService) RemoveCartItem(ctx context.Context, patientID, consultationID string) error {
	c, err := s.Consultations.GetByID(consultationID)
	if err != nil {
		return errors.ErrNotFound("consultation not found")
	}
	if err := s.Consultations.DeleteCartItem(consultationID, patientID); err != nil {
		return errors.ErrNotFound(err.Error())
	}
	s.publish(ctx, c.DoctorID, "slot released")
	return nil
}

// Checkout opens a Stripe Checkout session covering every in-cart
// consultation, priced per consultation type.
func (s *BookingService) Checkout(ctx context.Context, patientID string) (*entities.CheckoutResponse, error) {
	items, err := s.Consultations.ListCart(patientID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, errors.ErrBadRequest("cart is empty")
	}

	total := 0
	ids := make([]string, 0, len(items))
	for i := range items {
		price, err := s.Consultations.GetPriceForType(items[i].Type)
		if err != nil {
			return nil, fmt.Errorf("could not price consultation %s: %w", items[i].ID, err)
		}
		total += price
		ids = append(ids, items[i].ID)
	}

	patient, err := s.Profiles.GetByID(patientID)
	if err != nil {
		return nil, err
	}

	description := fmt.Sprintf("MediBook: %d consultation(s)", len(items))
	url, sessionID, err := s.Stripe.CreateCheckoutSession(int64(total)*100, "eur", description, patient.Email)
	if err != nil {
		return nil, fmt.Errorf("could not create checkout session: %w", err)
	}

	if err := s.Consultations.AttachCheckoutSession(ids, sessionID, paymentPending); err != nil {
		return nil, err
	}
	return &entities.CheckoutResponse{SessionID: sessionID, URL: url, Total: total}, nil
}

// ConfirmPayment is invoked from the Stripe webhook once a checkout session
// completes: the session's consultations leave the cart and each patient is
// notified.
func (s *BookingService) ConfirmPayment(ctx context.Context, sessionID, paymentIntentID string) error {
	if err := s.Consultations.MarkPaidBySessionID(sessionID, paymentSucceeded, paymentIntentID); err != nil {
		return err
	}
	items, err := s.Consultations.ListBySessionID(sessionID)
	if err != nil {
		return err
	}
	for i := range items {
		c := &items[i]
		s.notify(c, "confirmed")
		s.publish(ctx, c.DoctorID, "booking confirmed")
	}
	return nil
}

// RecordRefundByPaymentIntent marks a session's consultations refunded. This
// is the webhook path for refunds issued from the Stripe dashboard; refunds
// triggered by Cancel update the payment status directly.
func (s *BookingService) RecordRefundByPaymentIntent(paymentIntentID string) error {
	sessionID, err := s.Consultations.GetSessionIDByPaymentIntentID(paymentIntentID)
	if err != nil {
		return err
	}
	return s.Consultations.UpdatePaymentStatusBySessionID(sessionID, paymentRefunded)
}

// Cancel cancels a scheduled consultation owned by the patient. A paid
// consultation is refunded through Stripe first; the cancellation proceeds
// only if the refund succeeds.
func (s *BookingService) Cancel(ctx context.Context, patientID, consultationID string) error {
	c, err := s.Consultations.GetByID(consultationID)
	if err != nil {
		return errors.ErrNotFound("consultation not found")
	}
	if c.PatientID == nil || *c.PatientID != patientID {
		return errors.ErrForbidden("not your consultation")
	}
	if c.Status != db.StatusScheduled {
		return errors.ErrConflict("only scheduled consultations can be cancelled")
	}

	if c.IsPaid {
		if c.StripeSessionID == "" {
			return fmt.Errorf("no payment session recorded for consultation %s", c.ID)
		}
		if err := s.Stripe.RefundPaymentBySessionID(c.StripeSessionID); err != nil {
			return fmt.Errorf("refund failed: %w", err)
		}
		if err := s.Consultations.UpdatePaymentStatusBySessionID(c.StripeSessionID, paymentRefunded); err != nil {
			log.Error().Err(err).Str("consultation", c.ID).Msg("refund applied but payment status update failed")
		}
	}

	if err := s.Consultations.UpdateStatus(c.ID, db.StatusCancelled); err != nil {
		return err
	}

	s.notify(c, "cancelled")
	s.publish(ctx, c.DoctorID, "booking cancelled")
	return nil
}

func (s *BookingService) publish(ctx context.Context, doctorID, message string) {
	if s.Push == nil {
		return
	}
	name := ""
	if doctor, err := s.Profiles.GetByID(doctorID); err == nil && doctor != nil {
		name = doctor.FullName
	}
	s.Push.PublishScheduleChange(ctx, doctorID, name, message)
}

func (s *BookingService) notify(c *db.Consultation, status string) {
	if s.Sender == nil || c.PatientID == nil {
		return
	}
	patient, err := s.Profiles.GetByID(*c.PatientID)
	if err != nil || patient == nil {
		return
	}
	doctorName := ""
	if doctor, derr := s.Profiles.GetByID(c.DoctorID); derr == nil && doctor != nil {
		doctorName = doctor.FullName
	}
	s.Sender.SendConsultationEmail(patient.Email, patient.FullName, doctorName, c, status)
	if patient.Phone != nil && *patient.Phone != "" {
		s.Sender.SendConsultationSMS(*patient.Phone, c, status)
	}
}
