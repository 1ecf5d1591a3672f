package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"medibook/internal/db"
)

type JobRepository struct {
	DB *sql.DB
}

func NewJobRepository(database *sql.DB) *JobRepository {
	return &JobRepository{DB: database}
}

// GetScheduledIDsPastEndTime finds paid, scheduled consultations whose end
// time has already passed, so the sweeper can mark them completed.
func (r *JobRepository) GetScheduledIDsPastEndTime() ([]string, error) {
	query := `
		SELECT id FROM consultations
		WHERE status = $1 AND is_paid = true
		  AND (consultation_date + end_time) < NOW()`
	rows, err := r.DB.Query(query, db.StatusScheduled)
	if err != nil {
		return nil, fmt.Errorf("error querying scheduled consultations past end time: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("error scanning consultation ID: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *JobRepository) UpdateConsultationStatuses(ids []string, newStatus string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result, err := r.DB.Exec(
		`UPDATE consultations SET status = $1, updated_at = NOW() WHERE id = ANY($2)`,
		newStatus, pq.Array(ids))
	if err != nil {
		return 0, fmt.Errorf("error updating consultation statuses: %w", err)
	}
	return result.RowsAffected()
}

// DeleteStaleCartItems drops unpaid in-cart consultations created before the
// given time, freeing their slots for other patients.
func (r *JobRepository) DeleteStaleCartItems(before time.Time) (int64, error) {
	result, err := r.DB.Exec(
		`DELETE FROM consultations
		 WHERE in_cart = true AND is_paid = false AND created_at < $1`, before)
	if err != nil {
		return 0, fmt.Errorf("error deleting stale cart items: %w", err)
	}
	return result.RowsAffected()
}
