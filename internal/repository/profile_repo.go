package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"medibook/internal/db"
)

type ProfileRepository struct {
	DB *sql.DB
}

func NewProfileRepository(database *sql.DB) *ProfileRepository {
	return &ProfileRepository{DB: database}
}

func (r *ProfileRepository) Create(p *db.Profile) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	query := `
		INSERT INTO profiles (id, full_name, email, phone, password_hash, role, is_banned, doctor_type)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at`
	return r.DB.QueryRow(query,
		p.ID, p.FullName, p.Email, p.Phone, p.PasswordHash, p.Role, p.IsBanned, p.DoctorType,
	).Scan(&p.CreatedAt)
}

func (r *ProfileRepository) GetByEmail(email string) (*db.Profile, error) {
	var p db.Profile
	query := `
		SELECT id, full_name, email, phone, password_hash, role, is_banned, doctor_type, created_at
		FROM profiles WHERE email = $1`
	err := r.DB.QueryRow(query, email).Scan(
		&p.ID, &p.FullName, &p.Email, &p.Phone, &p.PasswordHash, &p.Role, &p.IsBanned, &p.DoctorType, &p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error querying profile by email: %w", err)
	}
	return &p, nil
}

func (r *ProfileRepository) GetByID(id string) (*db.Profile, error) {
	var p db.Profile
	query := `
		SELECT id, full_name, email, phone, password_hash, role, is_banned, doctor_type, created_at
		FROM profiles WHERE id = $1`
	err := r.DB.QueryRow(query, id).Scan(
		&p.ID, &p.FullName, &p.Email, &p.Phone, &p.PasswordHash, &p.Role, &p.IsBanned, &p.DoctorType, &p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("profile %s not found: %w", id, err)
		}
		return nil, fmt.Errorf("error querying profile: %w", err)
	}
	return &p, nil
}

// ListAll returns every profile ordered by display name, for the admin users view.
func (r *ProfileRepository) ListAll() ([]db.Profile, error) {
	query := `
		SELECT id, full_name, email, role, is_banned, doctor_type, created_at
		FROM profiles ORDER BY full_name ASC`
	rows, err := r.DB.Query(query)
	if err != nil {
		return nil, fmt.Errorf("error listing profiles: %w", err)
	}
	defer rows.Close()

	var profiles []db.Profile
	for rows.Next() {
		var p db.Profile
		if err := rows.Scan(&p.ID, &p.FullName, &p.Email, &p.Role, &p.IsBanned, &p.DoctorType, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning profile: %w", err)
		}
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}

func (r *ProfileRepository) ListDoctors() ([]db.Profile, error) {
	query := `
		SELECT id, full_name, doctor_type, created_at
		FROM profiles
		WHERE role = $1 AND is_banned = false
		ORDER BY full_name ASC`
	rows, err := r.DB.Query(query, db.RoleDoctor)
	if err != nil {
		return nil, fmt.Errorf("error listing doctors: %w", err)
	}
	defer rows.Close()

	var doctors []db.Profile
	for rows.Next() {
		var p db.Profile
		if err := rows.Scan(&p.ID, &p.FullName, &p.DoctorType, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning doctor profile: %w", err)
		}
		p.Role = db.RoleDoctor
		doctors = append(doctors, p)
	}
	return doctors, rows.Err()
}

func (r *ProfileRepository) SetBanned(id string, banned bool) error {
	result, err := r.DB.Exec(`UPDATE profiles SET is_banned = $1 WHERE id = $2`, banned, id)
	if err != nil {
		return fmt.Errorf("error updating ban flag: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("profile %s not found", id)
	}
	return nil
}
