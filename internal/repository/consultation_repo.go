package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"medibook/internal/db"
)

const consultationColumns = `
	c.id, c.doctor_id, c.patient_id,
	to_char(c.consultation_date, 'YYYY-MM-DD'),
	to_char(c.start_time, 'HH24:MI:SS'),
	to_char(c.end_time, 'HH24:MI:SS'),
	c.consultation_type, c.status, c.in_cart, c.is_paid,
	COALESCE(c.patient_notes, ''), COALESCE(c.stripe_session_id, ''),
	COALESCE(c.stripe_payment_intent_id, ''),
	COALESCE(c.payment_status, ''), c.created_at, c.updated_at`

type ConsultationRepository struct {
	DB *sql.DB
}

func NewConsultationRepository(database *sql.DB) *ConsultationRepository {
	return &ConsultationRepository{DB: database}
}

func scanConsultation(row interface{ Scan(...any) error }) (*db.Consultation, error) {
	var c db.Consultation
	err := row.Scan(
		&c.ID, &c.DoctorID, &c.PatientID,
		&c.Date, &c.StartTime, &c.EndTime,
		&c.Type, &c.Status, &c.InCart, &c.IsPaid,
		&c.PatientNotes, &c.StripeSessionID,
		&c.StripePaymentIntentID,
		&c.PaymentStatus, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Create inserts a new consultation. The database carries an exclusion
// constraint on (doctor_id, consultation_date, time range) for non-cancelled
// rows; a violation here means another session won the slot first.
func (r *ConsultationRepository) Create(c *db.Consultation) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	query := `
		INSERT INTO consultations
		(id, doctor_id, patient_id, consultation_date, start_time, end_time,
		 consultation_type, status, in_cart, is_paid, patient_notes)
		VALUES ($1, $2, $3, $4::date, $5::time, $6::time, $7, $8, $9, $10, $11)
		RETURNING created_at, updated_at`
	err := r.DB.QueryRow(query,
		c.ID, c.DoctorID, c.PatientID, c.Date, c.StartTime, c.EndTime,
		c.Type, c.Status, c.InCart, c.IsPaid, c.PatientNotes,
	).Scan(&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && (pqErr.Code.Name() == "exclusion_violation" || pqErr.Code.Name() == "unique_violation") {
			return fmt.Errorf("slot already booked: %w", err)
		}
		return fmt.Errorf("error creating consultation: %w", err)
	}
	return nil
}

func (r *ConsultationRepository) GetByID(id string) (*db.Consultation, error) {
	query := `SELECT ` + consultationColumns + ` FROM consultations c WHERE c.id = $1`
	c, err := scanConsultation(r.DB.QueryRow(query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("consultation %s not found: %w", id, err)
		}
		return nil, fmt.Errorf("error querying consultation: %w", err)
	}
	return c, nil
}

// ListByDoctorDateRange returns a doctor's non-cancelled consultations inside
// [from, to], both ISO dates inclusive.
func (r *ConsultationRepository) ListByDoctorDateRange(doctorID, from, to string) ([]db.Consultation, error) {
	query := `SELECT ` + consultationColumns + `
		FROM consultations c
		WHERE c.doctor_id = $1
		  AND c.consultation_date >= $2::date
		  AND c.consultation_date <= $3::date
		  AND c.status <> $4
		ORDER BY c.consultation_date, c.start_time`
	return r.list(query, doctorID, from, to, db.StatusCancelled)
}

func (r *ConsultationRepository) ListByPatient(patientID string) ([]db.Consultation, error) {
	query := `SELECT ` + consultationColumns + `
		FROM consultations c
		WHERE c.patient_id = $1
		ORDER BY c.consultation_date DESC, c.start_time DESC`
	return r.list(query, patientID)
}

func (r *ConsultationRepository) ListCart(patientID string) ([]db.Consultation, error) {
	query := `SELECT ` + consultationColumns + `
		FROM consultations c
		WHERE c.patient_id = $1 AND c.in_cart = true AND c.is_paid = false
		ORDER BY c.created_at`
	return r.list(query, patientID)
}

// ListOverlappingScheduled returns non-cancelled consultations of a doctor
// whose date falls inside [startDate, endDate], for the absence cascade.
func (r *ConsultationRepository) ListOverlappingScheduled(doctorID, startDate, endDate string) ([]db.Consultation, error) {
	query := `SELECT ` + consultationColumns + `
		FROM consultations c
		WHERE c.doctor_id = $1
		  AND c.consultation_date >= $2::date
		  AND c.consultation_date <= $3::date
		  AND c.status = $4
		ORDER BY c.consultation_date, c.start_time`
	return r.list(query, doctorID, startDate, endDate, db.StatusScheduled)
}

func (r *ConsultationRepository) list(query string, args ...any) ([]db.Consultation, error) {
	rows, err := r.DB.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying consultations: %w", err)
	}
	defer rows.Close()

	var consultations []db.Consultation
	for rows.Next() {
		c, err := scanConsultation(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning consultation: %w", err)
		}
		consultations = append(consultations, *c)
	}
	return consultations, rows.Err()
}

func (r *ConsultationRepository) UpdateStatus(id, status string) error {
	result, err := r.DB.Exec(
		`UPDATE consultations SET status = $1, updated_at = NOW() WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("error updating consultation status: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("consultation %s not found", id)
	}
	return nil
}

// DeleteCartItem removes an unpaid in-cart consultation owned by the patient.
// Paid or scheduled consultations are cancelled, never deleted.
func (r *ConsultationRepository) DeleteCartItem(id, patientID string) error {
	result, err := r.DB.Exec(
		`DELETE FROM consultations
		 WHERE id = $1 AND patient_id = $2 AND in_cart = true AND is_paid = false`,
		id, patientID)
	if err != nil {
		return fmt.Errorf("error removing cart item: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("cart item %s not found", id)
	}
	return nil
}

// AttachCheckoutSession stamps a Stripe session on every listed consultation
// before redirecting the patient to checkout.
func (r *ConsultationRepository) AttachCheckoutSession(ids []string, sessionID, paymentStatus string) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := r.DB.Exec(
		`UPDATE consultations
		 SET stripe_session_id = $1, payment_status = $2, updated_at = NOW()
		 WHERE id = ANY($3)`,
		sessionID, paymentStatus, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("error attaching checkout session: %w", err)
	}
	return nil
}

func (r *ConsultationRepository) ListBySessionID(sessionID string) ([]db.Consultation, error) {
	query := `SELECT ` + consultationColumns + `
		FROM consultations c
		WHERE c.stripe_session_id = $1`
	return r.list(query, sessionID)
}

// MarkPaidBySessionID completes the cart lifecycle once Stripe confirms the
// payment: paid, out of the cart, payment status and intent recorded.
func (r *ConsultationRepository) MarkPaidBySessionID(sessionID, paymentStatus, paymentIntentID string) error {
	_, err := r.DB.Exec(
		`UPDATE consultations
		 SET is_paid = true, in_cart = false, payment_status = $1,
		     stripe_payment_intent_id = NULLIF($2, ''), updated_at = NOW()
		 WHERE stripe_session_id = $3`,
		paymentStatus, paymentIntentID, sessionID)
	if err != nil {
		return fmt.Errorf("error marking consultations paid: %w", err)
	}
	return nil
}

// GetSessionIDByPaymentIntentID resolves the checkout session a refunded
// charge belongs to.
func (r *ConsultationRepository) GetSessionIDByPaymentIntentID(paymentIntentID string) (string, error) {
	var sessionID string
	err := r.DB.QueryRow(
		`SELECT stripe_session_id FROM consultations
		 WHERE stripe_payment_intent_id = $1 LIMIT 1`, paymentIntentID,
	).Scan(&sessionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("no consultation for payment intent %s", paymentIntentID)
		}
		return "", fmt.Errorf("error resolving payment intent: %w", err)
	}
	return sessionID, nil
}

func (r *ConsultationRepository) UpdatePaymentStatusBySessionID(sessionID, paymentStatus string) error {
	_, err := r.DB.Exec(
		`UPDATE consultations SET payment_status = $1, updated_at = NOW() WHERE stripe_session_id = $2`,
		paymentStatus, sessionID)
	if err != nil {
		return fmt.Errorf("error updating payment status: %w", err)
	}
	return nil
}

func (r *ConsultationRepository) GetPriceForType(consultationType string) (int, error) {
	var price int
	err := r.DB.QueryRow(
		`SELECT price FROM consultation_prices WHERE consultation_type = $1`, consultationType,
	).Scan(&price)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, fmt.Errorf("no price configured for consultation type %s", consultationType)
		}
		return 0, err
	}
	return price, nil
}

func (r *ConsultationRepository) ListPrices() (map[string]int, error) {
	rows, err := r.DB.Query(`SELECT consultation_type, price FROM consultation_prices ORDER BY consultation_type`)
	if err != nil {
		return nil, fmt.Errorf("error listing prices: %w", err)
	}
	defer rows.Close()

	prices := make(map[string]int)
	for rows.Next() {
		var t string
		var p int
		if err := rows.Scan(&t, &p); err != nil {
			return nil, fmt.Errorf("error scanning price: %w", err)
		}
		prices[t] = p
	}
	return prices, rows.Err()
}
