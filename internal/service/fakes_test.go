package service

import (
	"context"
	"fmt"
	"sort"

	"medibook/internal/db"
	"medibook/internal/schedule"
)

// In-memory stand-ins for the repository layer.

type fakeProfiles struct {
	profiles map[string]*db.Profile
}

func (f *fakeProfiles) GetByID(id string) (*db.Profile, error) {
	if p, ok := f.profiles[id]; ok {
		return p, nil
	}
	return nil, fmt.Errorf("profile %s not found", id)
}

type fakeAvailability struct {
	rules    []db.AvailabilityRule
	absences []db.Absence
	nextID   int
}

func (f *fakeAvailability) CreateRule(rule *db.AvailabilityRule) error {
	f.nextID++
	rule.ID = fmt.Sprintf("rule-%d", f.nextID)
	f.rules = append(f.rules, *rule)
	return nil
}

func (f *fakeAvailability) ListRulesByDoctor(doctorID string) ([]db.AvailabilityRule, error) {
	var out []db.AvailabilityRule
	for _, r := range f.rules {
		if r.DoctorID == doctorID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeAvailability) DeleteRule(ruleID, doctorID string) error {
	for i, r := range f.rules {
		if r.ID == ruleID && r.DoctorID == doctorID {
			f.rules = append(f.rules[:i], f.rules[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("rule %s not found", ruleID)
}

func (f *fakeAvailability) CreateAbsence(absence *db.Absence) error {
	f.nextID++
	absence.ID = fmt.Sprintf("absence-%d", f.nextID)
	f.absences = append(f.absences, *absence)
	return nil
}

func (f *fakeAvailability) ListAbsencesByDoctor(doctorID string) ([]db.Absence, error) {
	var out []db.Absence
	for _, a := range f.absences {
		if a.DoctorID == doctorID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeAvailability) DeleteAbsence(absenceID, doctorID string) error {
	for i, a := range f.absences {
		if a.ID == absenceID && a.DoctorID == doctorID {
			f.absences = append(f.absences[:i], f.absences[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("absence %s not found", absenceID)
}

func (f *fakeAvailability) EngineInputs(doctorID string) ([]schedule.AvailabilityRule, []schedule.Absence, error) {
	var rules []schedule.AvailabilityRule
	for i := range f.rules {
		if f.rules[i].DoctorID == doctorID {
			rules = append(rules, f.rules[i].Engine())
		}
	}
	var absences []schedule.Absence
	for i := range f.absences {
		if f.absences[i].DoctorID == doctorID {
			absences = append(absences, f.absences[i].Engine())
		}
	}
	return rules, absences, nil
}

type fakeConsultations struct {
	items      map[string]*db.Consultation
	prices     map[string]int
	nextID     int
	statusErrs map[string]error
}

func newFakeConsultations() *fakeConsultations {
	return &fakeConsultations{
		items:  make(map[string]*db.Consultation),
		prices: make(map[string]int),
	}
}

func (f *fakeConsultations) Create(c *db.Consultation) error {
	f.nextID++
	c.ID = fmt.Sprintf("consultation-%d", f.nextID)
	clone := *c
	f.items[c.ID] = &clone
	return nil
}

func (f *fakeConsultations) GetByID(id string) (*db.Consultation, error) {
	if c, ok := f.items[id]; ok {
		clone := *c
		return &clone, nil
	}
	return nil, fmt.Errorf("consultation %s not found", id)
}

func (f *fakeConsultations) ListByDoctorDateRange(doctorID, from, to string) ([]db.Consultation, error) {
	var out []db.Consultation
	for _, c := range f.sorted() {
		if c.DoctorID == doctorID && c.Date >= from && c.Date <= to && c.Status != db.StatusCancelled {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (f *fakeConsultations) ListByPatient(patientID string) ([]db.Consultation, error) {
	var out []db.Consultation
	for _, c := range f.sorted() {
		if c.PatientID != nil && *c.PatientID == patientID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (f *fakeConsultations) ListCart(patientID string) ([]db.Consultation, error) {
	var out []db.Consultation
	for _, c := range f.sorted() {
		if c.PatientID != nil && *c.PatientID == patientID && c.InCart && !c.IsPaid {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (f *fakeConsultations) ListOverlappingScheduled(doctorID, startDate, endDate string) ([]db.Consultation, error) {
	var out []db.Consultation
	for _, c := range f.sorted() {
		if c.DoctorID == doctorID && c.Status == db.StatusScheduled && c.Date >= startDate && c.Date <= endDate {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (f *fakeConsultations) UpdateStatus(id, status string) error {
	if err, ok := f.statusErrs[id]; ok {
		return err
	}
	c, ok := f.items[id]
	if !ok {
		return fmt.Errorf("consultation %s not found", id)
	}
	c.Status = status
	return nil
}

func (f *fakeConsultations) DeleteCartItem(id, patientID string) error {
	c, ok := f.items[id]
	if !ok || c.PatientID == nil || *c.PatientID != patientID || !c.InCart || c.IsPaid {
		return fmt.Errorf("cart item %s not found", id)
	}
	delete(f.items, id)
	return nil
}

func (f *fakeConsultations) AttachCheckoutSession(ids []string, sessionID, paymentStatus string) error {
	for _, id := range ids {
		if c, ok := f.items[id]; ok {
			c.StripeSessionID = sessionID
			c.PaymentStatus = paymentStatus
		}
	}
	return nil
}

func (f *fakeConsultations) ListBySessionID(sessionID string) ([]db.Consultation, error) {
	var out []db.Consultation
	for _, c := range f.sorted() {
		if c.StripeSessionID == sessionID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (f *fakeConsultations) MarkPaidBySessionID(sessionID, paymentStatus, paymentIntentID string) error {
	for _, c := range f.items {
		if c.StripeSessionID == sessionID {
			c.IsPaid = true
			c.InCart = false
			c.PaymentStatus = paymentStatus
			c.StripePaymentIntentID = paymentIntentID
		}
	}
	return nil
}

func (f *fakeConsultations) GetSessionIDByPaymentIntentID(paymentIntentID string) (string, error) {
	for _, c := range f.items {
		if c.StripePaymentIntentID == paymentIntentID && c.StripeSessionID != "" {
			return c.StripeSessionID, nil
		}
	}
	return "", fmt.Errorf("no consultation for payment intent %s", paymentIntentID)
}

func (f *fakeConsultations) UpdatePaymentStatusBySessionID(sessionID, paymentStatus string) error {
	for _, c := range f.items {
		if c.StripeSessionID == sessionID {
			c.PaymentStatus = paymentStatus
		}
	}
	return nil
}

func (f *fakeConsultations) GetPriceForType(consultationType string) (int, error) {
	price, ok := f.prices[consultationType]
	if !ok {
		return 0, fmt.Errorf("no price for type %s", consultationType)
	}
	return price, nil
}

func (f *fakeConsultations) ListPrices() (map[string]int, error) {
	return f.prices, nil
}

func (f *fakeConsultations) sorted() []*db.Consultation {
	out := make([]*db.Consultation, 0, len(f.items))
	for _, c := range f.items {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

type fakePublisher struct {
	events []string
}

func (f *fakePublisher) PublishScheduleChange(_ context.Context, doctorID, _, message string) {
	f.events = append(f.events, doctorID+": "+message)
}

type fakeNotifier struct {
	emails []string
	sms    []string
}

func (f *fakeNotifier) SendConsultationEmail(toEmail, _, _ string, _ *db.Consultation, status string) {
	f.emails = append(f.emails, toEmail+": "+status)
}

func (f *fakeNotifier) SendConsultationSMS(toPhone string, _ *db.Consultation, status string) {
	f.sms = append(f.sms, toPhone+": "+status)
}

type fakeStripe struct {
	sessions  int
	refunded  []string
	refundErr error
}

func (f *fakeStripe) CreateCheckoutSession(_ int64, _, _, _ string) (string, string, error) {
	f.sessions++
	id := fmt.Sprintf("cs_test_%d", f.sessions)
	return "https://checkout.example/" + id, id, nil
}

func (f *fakeStripe) RefundPaymentBySessionID(sessionID string) error {
	if f.refundErr != nil {
		return f.refundErr
	}
	f.refunded = append(f.refunded, sessionID)
	return nil
}

type fakeReviews struct {
	byConsultation map[string]*db.Review
	nextID         int
}

func newFakeReviews() *fakeReviews {
	return &fakeReviews{byConsultation: make(map[string]*db.Review)}
}

func (f *fakeReviews) Create(review *db.Review) error {
	f.nextID++
	review.ID = fmt.Sprintf("review-%d", f.nextID)
	clone := *review
	f.byConsultation[review.ConsultationID] = &clone
	return nil
}

func (f *fakeReviews) Update(reviewID, patientID string, rating int, comment string) error {
	for _, r := range f.byConsultation {
		if r.ID == reviewID && r.PatientID == patientID {
			r.Rating = rating
			r.Comment = comment
			return nil
		}
	}
	return fmt.Errorf("review %s not found", reviewID)
}

func (f *fakeReviews) GetByConsultation(consultationID string) (*db.Review, error) {
	if r, ok := f.byConsultation[consultationID]; ok {
		clone := *r
		return &clone, nil
	}
	return nil, nil
}

func (f *fakeReviews) ListByPatient(patientID string) ([]db.Review, error) {
	var out []db.Review
	for _, r := range f.byConsultation {
		if r.PatientID == patientID {
			out = append(out, *r)
		}
	}
	return out, nil
}
