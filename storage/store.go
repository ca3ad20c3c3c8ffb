// Package storage defines the persistence contract for users, sessions,
// bookings and messages. The interface keeps business rules out of the data
// layer and allows swapping backends (Mongo in production, memory in tests).
package storage

import (
	"context"

	"playpal/models"
)

// Store is the repository contract. Lookup methods return
// apperr.NotFoundError when no record matches and apperr.ErrAmbiguousPrefix
// when an id prefix matches more than one record. Infrastructure faults are
// wrapped in apperr.StorageUnavailableError.
type Store interface {
	// AddUser upserts by user id; last write wins.
	AddUser(ctx context.Context, u *models.User) error
	// FindUserByEmail matches case-insensitively.
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	FindUserByIDPrefix(ctx context.Context, prefix string) (*models.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	// AdjustBalance applies a signed delta to a user's balance.
	AdjustBalance(ctx context.Context, userID string, delta models.Cents) error
	FindApprovedTrainersBySpecialty(ctx context.Context, specialty string) ([]models.User, error)
	FindPendingTrainers(ctx context.Context) ([]models.User, error)
	SetTrainerApproved(ctx context.Context, userID string) error
	UpdateTrainerProfile(ctx context.Context, userID, specialty string, rate models.Cents) error

	AddSession(ctx context.Context, s *models.Session) error
	// UpdateSession is an idempotent upsert of the whole session document.
	UpdateSession(ctx context.Context, s *models.Session) error
	// FindAvailableSessionsBySport matches sport case-insensitively and
	// excludes full sessions.
	FindAvailableSessionsBySport(ctx context.Context, sport string) ([]models.Session, error)
	FindSessionByIDPrefix(ctx context.Context, prefix string) (*models.Session, error)
	// AddParticipantDirectly appends a participant without a full entity
	// round-trip. Callers must have verified capacity and membership.
	AddParticipantDirectly(ctx context.Context, sessionID, userID string) error

	AddBooking(ctx context.Context, b *models.Booking) error
	FindBookingByID(ctx context.Context, bookingID string) (*models.Booking, error)
	FindBookingsByTrainerID(ctx context.Context, trainerID string) ([]models.Booking, error)

	AddMessage(ctx context.Context, m *models.Message) error
	// FindMessagesForUser returns the inbox newest first.
	FindMessagesForUser(ctx context.Context, userID string) ([]models.Message, error)
	// MarkMessageRead flips the read flag; the message must be addressed to
	// receiverID, otherwise it reports not found.
	MarkMessageRead(ctx context.Context, receiverID, messageID string) error

	// Counts feeds the admin status report.
	Counts(ctx context.Context) (users, sessions, bookings int64, err error)
}
