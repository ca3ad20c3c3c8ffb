// Package auth implements account registration and credential checks.
// Passwords are stored as bcrypt hashes; login distinguishes an unknown
// email from a wrong password.
package auth

import (
	"context"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"playpal/apperr"
	"playpal/models"
	"playpal/storage"
)

type Service struct {
	store      storage.Store
	adminEmail string
}

func NewService(store storage.Store, adminEmail string) *Service {
	return &Service{store: store, adminEmail: strings.ToLower(adminEmail)}
}

// Register creates a player or an unapproved trainer. Emails are unique up
// to case.
func (s *Service) Register(ctx context.Context, name, email, password string, isTrainer bool, specialty string, rate models.Cents) (*models.User, error) {
	exists, err := s.store.EmailExists(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperr.ErrDuplicateEmail
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	var u *models.User
	if isTrainer {
		u = models.NewTrainer(name, email, string(hashed), specialty, rate)
	} else {
		u = models.NewPlayer(name, email, string(hashed))
	}
	if err := s.store.AddUser(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Login verifies credentials. An unknown email returns a not-found error; a
// wrong password returns ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, email, password string) (*models.User, error) {
	u, err := s.store.FindUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		return nil, apperr.ErrInvalidCredentials
	}
	return u, nil
}

// IsAdmin reports whether the user is the distinguished admin account.
func (s *Service) IsAdmin(u *models.User) bool {
	return u != nil && strings.ToLower(u.Email) == s.adminEmail
}
