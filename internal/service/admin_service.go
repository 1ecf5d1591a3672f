package service

import (
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"medibook/internal/db"
	"medibook/internal/entities"
	"medibook/internal/errors"
	"medibook/internal/repository"
)

// AdminService covers the admin surface: the user roster, banning and doctor
// account creation. The doctor directory lives here too since it reads the
// same table.
type AdminService struct {
	Profiles *repository.ProfileRepository
}

func NewAdminService(profiles *repository.ProfileRepository) *AdminService {
	return &AdminService{Profiles: profiles}
}

func (s *AdminService) ListUsers() ([]db.Profile, error) {
	return s.Profiles.ListAll()
}

// ListDoctors returns the public doctor directory (banned doctors excluded).
func (s *AdminService) ListDoctors() ([]db.Profile, error) {
	return s.Profiles.ListDoctors()
}

// SetBanned flips a user's ban flag. A banned user cannot log in; existing
// tokens expire on their own.
func (s *AdminService) SetBanned(userID string, banned bool) error {
	profile, err := s.Profiles.GetByID(userID)
	if err != nil {
		return errors.ErrNotFound("user not found")
	}
	if profile.Role == db.RoleAdmin {
		return errors.ErrForbidden("admin accounts cannot be banned")
	}
	return s.Profiles.SetBanned(userID, banned)
}

// CreateDoctor provisions a doctor account. Doctors never self-register.
func (s *AdminService) CreateDoctor(req entities.CreateDoctorRequest) (*db.Profile, error) {
	fullName := strings.TrimSpace(req.FullName)
	email := strings.ToLower(strings.TrimSpace(req.Email))
	doctorType := strings.TrimSpace(req.DoctorType)
	if fullName == "" || email == "" || doctorType == "" {
		return nil, errors.ErrBadRequest("full name, email and doctor type are required")
	}
	if len(req.Password) < 8 {
		return nil, errors.ErrBadRequest("password must be at least 8 characters")
	}

	existing, err := s.Profiles.GetByEmail(email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, errors.ErrConflict("an account with this email already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	profile := &db.Profile{
		FullName:     fullName,
		Email:        email,
		PasswordHash: string(hash),
		Role:         db.RoleDoctor,
		DoctorType:   &doctorType,
	}
	if err := s.Profiles.Create(profile); err != nil {
		return nil, err
	}
	return profile, nil
}
