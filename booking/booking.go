// Package booking implements trainer discovery and the paid booking
// transaction: validate the trainer, check funds, move the money, persist
// the booking, notify both parties.
package booking

import (
	"context"
	"fmt"
	"log/slog"

	"playpal/apperr"
	"playpal/locks"
	"playpal/models"
	"playpal/storage"
)

// Notifier dispatches fire-and-forget notifications.
type Notifier interface {
	Notify(ctx context.Context, receiverID, content string) error
}

type Service struct {
	store    storage.Store
	locker   locks.Locker
	notifier Notifier
}

func NewService(store storage.Store, locker locks.Locker, notifier Notifier) *Service {
	return &Service{store: store, locker: locker, notifier: notifier}
}

// SearchTrainers lists approved trainers matching a specialty,
// case-insensitively.
func (s *Service) SearchTrainers(ctx context.Context, specialty string) ([]models.User, error) {
	return s.store.FindApprovedTrainersBySpecialty(ctx, specialty)
}

// TrainerBookings lists the bookings made against a trainer, newest first.
func (s *Service) TrainerBookings(ctx context.Context, trainerID string) ([]models.Booking, error) {
	if trainerID == "" {
		return nil, apperr.ErrNotAuthenticated
	}
	return s.store.FindBookingsByTrainerID(ctx, trainerID)
}

// UpdateTrainerProfile changes a trainer's specialty and hourly rate.
func (s *Service) UpdateTrainerProfile(ctx context.Context, trainerID, specialty string, rate models.Cents) error {
	if trainerID == "" {
		return apperr.ErrNotAuthenticated
	}
	return s.store.UpdateTrainerProfile(ctx, trainerID, specialty, rate)
}

// BookTrainer runs the booking transaction. The validation order is fixed:
// authentication, trainer resolution, trainer role, approval gate, funds.
// Both account balances are mutated only while their keys are held, so
// concurrent bookings against the same player or trainer serialize.
func (s *Service) BookTrainer(ctx context.Context, playerID, trainerPrefix string, hours int) (*models.Booking, error) {
	if playerID == "" {
		return nil, apperr.BookingFailed("not logged in")
	}

	trainer, err := s.store.FindUserByIDPrefix(ctx, trainerPrefix)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.BookingFailed("trainer not found")
		}
		return nil, err
	}
	if !trainer.IsTrainer() {
		return nil, apperr.BookingFailed("not a trainer")
	}
	if !trainer.Approved {
		return nil, apperr.BookingFailed("not approved")
	}

	release, err := s.locker.Acquire(ctx, playerID, trainer.UserID)
	if err != nil {
		return nil, err
	}
	defer release()

	// Re-read the payer under the lock; the earlier handle may be stale.
	player, err := s.store.FindUserByIDPrefix(ctx, playerID)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.BookingFailed("player not found")
		}
		return nil, err
	}

	cost := trainer.Rate * models.Cents(hours)
	if player.Balance < cost {
		return nil, &apperr.InsufficientFundsError{
			Required:  cost,
			Available: player.Balance,
		}
	}

	if err := s.store.AdjustBalance(ctx, player.UserID, -cost); err != nil {
		return nil, err
	}
	if err := s.store.AdjustBalance(ctx, trainer.UserID, cost); err != nil {
		s.compensate(ctx, player.UserID, cost)
		return nil, err
	}

	b := models.NewBooking(player.UserID, trainer.UserID, cost)
	if err := s.store.AddBooking(ctx, b); err != nil {
		s.compensate(ctx, trainer.UserID, -cost)
		s.compensate(ctx, player.UserID, cost)
		return nil, err
	}

	newBalance := player.Balance - cost
	// Notification failures never roll the transaction back.
	_ = s.notifier.Notify(ctx, player.UserID,
		fmt.Sprintf("Booking successful! Paid %s. Your new balance is %s.", cost, newBalance))
	_ = s.notifier.Notify(ctx, trainer.UserID,
		fmt.Sprintf("New booking: %s booked you for %d hour(s) (%s).", player.Name, hours, cost))

	return b, nil
}

// compensate reverses a balance mutation after a partial failure. The lock
// is still held, so the reversal cannot race another booking.
func (s *Service) compensate(ctx context.Context, userID string, delta models.Cents) {
	if err := s.store.AdjustBalance(ctx, userID, delta); err != nil {
		slog.Error("balance compensation failed", "user", userID, "delta", int64(delta), "err", err)
	}
}
