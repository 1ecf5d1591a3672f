package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"medibook/internal/db"
	"medibook/internal/schedule"
)

type AvailabilityRepository struct {
	DB *sql.DB
}

func NewAvailabilityRepository(database *sql.DB) *AvailabilityRepository {
	return &AvailabilityRepository{DB: database}
}

func (r *AvailabilityRepository) CreateRule(rule *db.AvailabilityRule) error {
	if rule.ID == "" {
		rule.ID = uuid.NewString()
	}
	slots, err := json.Marshal(rule.TimeSlots)
	if err != nil {
		return fmt.Errorf("error encoding time slots: %w", err)
	}
	query := `
		INSERT INTO doctor_availability
		(id, doctor_id, is_recurring, start_date, end_date, days_of_week, specific_date, time_slots)
		VALUES ($1, $2, $3, NULLIF($4, '')::date, NULLIF($5, '')::date, $6, NULLIF($7, '')::date, $8)
		RETURNING created_at`
	return r.DB.QueryRow(query,
		rule.ID, rule.DoctorID, rule.IsRecurring,
		rule.StartDate, rule.EndDate, pq.Array(rule.DaysOfWeek), rule.SpecificDate, slots,
	).Scan(&rule.CreatedAt)
}

func (r *AvailabilityRepository) ListRulesByDoctor(doctorID string) ([]db.AvailabilityRule, error) {
	query := `
		SELECT id, doctor_id, is_recurring,
			COALESCE(to_char(start_date, 'YYYY-MM-DD'), ''),
			COALESCE(to_char(end_date, 'YYYY-MM-DD'), ''),
			days_of_week,
			COALESCE(to_char(specific_date, 'YYYY-MM-DD'), ''),
			time_slots, created_at
		FROM doctor_availability
		WHERE doctor_id = $1
		ORDER BY created_at ASC`
	rows, err := r.DB.Query(query, doctorID)
	if err != nil {
		return nil, fmt.Errorf("error listing availability rules: %w", err)
	}
	defer rows.Close()

	var rules []db.AvailabilityRule
	for rows.Next() {
		var rule db.AvailabilityRule
		var slotsRaw []byte
		err := rows.Scan(
			&rule.ID, &rule.DoctorID, &rule.IsRecurring,
			&rule.StartDate, &rule.EndDate, &rule.DaysOfWeek,
			&rule.SpecificDate, &slotsRaw, &rule.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning availability rule: %w", err)
		}
		if err := json.Unmarshal(slotsRaw, &rule.TimeSlots); err != nil {
			return nil, fmt.Errorf("error decoding time slots for rule %s: %w", rule.ID, err)
		}
		rules = append(rules, rule)
	}
	return rules, rows.Err()
}

// DeleteRule removes a rule owned by the given doctor. Deletion takes effect
// immediately for future resolution.
func (r *AvailabilityRepository) DeleteRule(ruleID, doctorID string) error {
	result, err := r.DB.Exec(
		`DELETE FROM doctor_availability WHERE id = $1 AND doctor_id = $2`, ruleID, doctorID)
	if err != nil {
		return fmt.Errorf("error deleting availability rule: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("availability rule %s not found", ruleID)
	}
	return nil
}

func (r *AvailabilityRepository) CreateAbsence(absence *db.Absence) error {
	if absence.ID == "" {
		absence.ID = uuid.NewString()
	}
	query := `
		INSERT INTO doctor_absences (id, doctor_id, start_date, end_date, reason)
		VALUES ($1, $2, $3::date, $4::date, $5)
		RETURNING created_at`
	return r.DB.QueryRow(query,
		absence.ID, absence.DoctorID, absence.StartDate, absence.EndDate, absence.Reason,
	).Scan(&absence.CreatedAt)
}

func (r *AvailabilityRepository) ListAbsencesByDoctor(doctorID string) ([]db.Absence, error) {
	query := `
		SELECT id, doctor_id,
			to_char(start_date, 'YYYY-MM-DD'),
			to_char(end_date, 'YYYY-MM-DD'),
			COALESCE(reason, ''), created_at
		FROM doctor_absences
		WHERE doctor_id = $1
		ORDER BY start_date ASC`
	rows, err := r.DB.Query(query, doctorID)
	if err != nil {
		return nil, fmt.Errorf("error listing absences: %w", err)
	}
	defer rows.Close()

	var absences []db.Absence
	for rows.Next() {
		var a db.Absence
		if err := rows.Scan(&a.ID, &a.DoctorID, &a.StartDate, &a.EndDate, &a.Reason, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning absence: %w", err)
		}
		absences = append(absences, a)
	}
	return absences, rows.Err()
}

func (r *AvailabilityRepository) DeleteAbsence(absenceID, doctorID string) error {
	result, err := r.DB.Exec(
		`DELETE FROM doctor_absences WHERE id = $1 AND doctor_id = $2`, absenceID, doctorID)
	if err != nil {
		return fmt.Errorf("error deleting absence: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("absence %s not found", absenceID)
	}
	return nil
}

// EngineInputs loads a doctor's rules and absences in the pure engine's types.
func (r *AvailabilityRepository) EngineInputs(doctorID string) ([]schedule.AvailabilityRule, []schedule.Absence, error) {
	rules, err := r.ListRulesByDoctor(doctorID)
	if err != nil {
		return nil, nil, err
	}
	absences, err := r.ListAbsencesByDoctor(doctorID)
	if err != nil {
		return nil, nil, err
	}

	engineRules := make([]schedule.AvailabilityRule, len(rules))
	for i := range rules {
		engineRules[i] = rules[i].Engine()
	}
	engineAbsences := make([]schedule.Absence, len(absences))
	for i := range absences {
		engineAbsences[i] = absences[i].Engine()
	}
	return engineRules, engineAbsences, nil
}
