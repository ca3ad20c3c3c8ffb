// Package admin implements the privileged approval workflow. The admin is a
// distinguished account identified by a fixed, well-known email; approval is
// a one-way transition with no reverse operation.
package admin

import (
	"context"
	"strings"

	"playpal/apperr"
	"playpal/models"
	"playpal/storage"
)

// Notifier dispatches fire-and-forget notifications.
type Notifier interface {
	Notify(ctx context.Context, receiverID, content string) error
}

type Service struct {
	store      storage.Store
	notifier   Notifier
	adminEmail string
}

func NewService(store storage.Store, notifier Notifier, adminEmail string) *Service {
	return &Service{store: store, notifier: notifier, adminEmail: strings.ToLower(adminEmail)}
}

func (s *Service) requireAdmin(ctx context.Context, actorID string) error {
	if actorID == "" {
		return apperr.ErrNotAuthenticated
	}
	actor, err := s.store.FindUserByIDPrefix(ctx, actorID)
	if apperr.IsNotFound(err) {
		return apperr.ErrNotAuthenticated
	}
	if err != nil {
		return err
	}
	if strings.ToLower(actor.Email) != s.adminEmail {
		return apperr.ErrNotAuthenticated
	}
	return nil
}

// PendingTrainers lists trainers awaiting approval.
func (s *Service) PendingTrainers(ctx context.Context, actorID string) ([]models.User, error) {
	if err := s.requireAdmin(ctx, actorID); err != nil {
		return nil, err
	}
	return s.store.FindPendingTrainers(ctx)
}

// ApproveTrainer flips a trainer's approval flag by id prefix. Approving an
// already-approved trainer is a no-op.
func (s *Service) ApproveTrainer(ctx context.Context, actorID, prefix string) (*models.User, error) {
	if err := s.requireAdmin(ctx, actorID); err != nil {
		return nil, err
	}

	u, err := s.store.FindUserByIDPrefix(ctx, prefix)
	if err != nil {
		return nil, err
	}
	if !u.IsTrainer() {
		return nil, apperr.NotFound("trainer")
	}
	if u.Approved {
		return u, nil
	}

	if err := s.store.SetTrainerApproved(ctx, u.UserID); err != nil {
		return nil, err
	}
	u.Approved = true

	_ = s.notifier.Notify(ctx, u.UserID, "Your trainer account has been approved. Players can now book you.")
	return u, nil
}

// Status reports entity counts for the admin dashboard.
func (s *Service) Status(ctx context.Context, actorID string) (users, sessions, bookings int64, err error) {
	if err := s.requireAdmin(ctx, actorID); err != nil {
		return 0, 0, 0, err
	}
	return s.store.Counts(ctx)
}
