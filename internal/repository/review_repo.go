package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"medibook/internal/db"
)

type ReviewRepository struct {
	DB *sql.DB
}

func NewReviewRepository(database *sql.DB) *ReviewRepository {
	return &ReviewRepository{DB: database}
}

func (r *ReviewRepository) Create(review *db.Review) error {
	if review.ID == "" {
		review.ID = uuid.NewString()
	}
	query := `
		INSERT INTO reviews (id, consultation_id, patient_id, rating, comment)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at`
	err := r.DB.QueryRow(query,
		review.ID, review.ConsultationID, review.PatientID, review.Rating, review.Comment,
	).Scan(&review.CreatedAt, &review.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error creating review: %w", err)
	}
	return nil
}

// Update edits a review in place; only the owning patient may do so.
func (r *ReviewRepository) Update(reviewID, patientID string, rating int, comment string) error {
	result, err := r.DB.Exec(
		`UPDATE reviews SET rating = $1, comment = $2, updated_at = NOW()
		 WHERE id = $3 AND patient_id = $4`,
		rating, comment, reviewID, patientID)
	if err != nil {
		return fmt.Errorf("error updating review: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("review %s not found", reviewID)
	}
	return nil
}

// GetByConsultation returns the review attached to a consultation, or nil;
// reviews are one per consultation.
func (r *ReviewRepository) GetByConsultation(consultationID string) (*db.Review, error) {
	var review db.Review
	query := `
		SELECT id, consultation_id, patient_id, rating, COALESCE(comment, ''), created_at, updated_at
		FROM reviews WHERE consultation_id = $1`
	err := r.DB.QueryRow(query, consultationID).Scan(
		&review.ID, &review.ConsultationID, &review.PatientID,
		&review.Rating, &review.Comment, &review.CreatedAt, &review.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error querying review: %w", err)
	}
	return &review, nil
}

func (r *ReviewRepository) ListByPatient(patientID string) ([]db.Review, error) {
	query := `
		SELECT id, consultation_id, patient_id, rating, COALESCE(comment, ''), created_at, updated_at
		FROM reviews WHERE patient_id = $1 ORDER BY created_at DESC`
	rows, err := r.DB.Query(query, patientID)
	if err != nil {
		return nil, fmt.Errorf("error listing reviews: %w", err)
	}
	defer rows.Close()

	var reviews []db.Review
	for rows.Next() {
		var review db.Review
		err := rows.Scan(
			&review.ID, &review.ConsultationID, &review.PatientID,
			&review.Rating, &review.Comment, &review.CreatedAt, &review.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning review: %w", err)
		}
		reviews = append(reviews, review)
	}
	return reviews, rows.Err()
}
