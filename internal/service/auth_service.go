package service

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"medibook/internal/db"
	"medibook/internal/errors"
	"medibook/internal/repository"
)

type AuthService interface {
	Register(fullName, email, phone, password string) (*db.Profile, string, error)
	Login(email, password string) (*db.Profile, string, error)
	GetProfile(userID string) (*db.Profile, error)
}

type authService struct {
	profiles *repository.ProfileRepository
}

func NewAuthService(profiles *repository.ProfileRepository) AuthService {
	return &authService{profiles: profiles}
}

// Register creates a patient account. Doctor accounts are created by admins,
// never through self-registration.
func (s *authService) Register(fullName, email, phone, password string) (*db.Profile, string, error) {
	fullName = strings.TrimSpace(fullName)
	email = strings.ToLower(strings.TrimSpace(email))
	phone = strings.TrimSpace(phone)
	if fullName == "" || email == "" {
		return nil, "", errors.ErrBadRequest("full name and email are required")
	}
	if len(password) < 8 {
		return nil, "", errors.ErrBadRequest("password must be at least 8 characters")
	}

	existing, err := s.profiles.GetByEmail(email)
	if err != nil {
		return nil, "", err
	}
	if existing != nil {
		return nil, "", errors.ErrConflict("an account with this email already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("error hashing password: %w", err)
	}

	profile := &db.Profile{
		FullName:     fullName,
		Email:        email,
		PasswordHash: string(hash),
		Role:         db.RolePatient,
	}
	if phone != "" {
		profile.Phone = &phone
	}
	if err := s.profiles.Create(profile); err != nil {
		return nil, "", err
	}

	token, err := SignToken(profile)
	if err != nil {
		return nil, "", err
	}
	return profile, token, nil
}

func (s *authService) Login(email, password string) (*db.Profile, string, error) {
	profile, err := s.profiles.GetByEmail(strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, "", err
	}
	if profile == nil {
		return nil, "", errors.ErrUnauthorized("invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(password)); err != nil {
		return nil, "", errors.ErrUnauthorized("invalid credentials")
	}
	if profile.IsBanned {
		return nil, "", errors.ErrForbidden("this account is banned")
	}

	token, err := SignToken(profile)
	if err != nil {
		return nil, "", err
	}
	return profile, token, nil
}

func (s *authService) GetProfile(userID string) (*db.Profile, error) {
	return s.profiles.GetByID(userID)
}

// SignToken issues an HS256 JWT carrying the user id and role.
func SignToken(profile *db.Profile) (string, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return "", fmt.Errorf("JWT_SECRET not set")
	}
	claims := jwt.MapClaims{
		"sub":  profile.ID,
		"role": profile.Role,
		"name": profile.FullName,
		"exp":  time.Now().Add(24 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
