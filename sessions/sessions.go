// Package sessions implements group-activity sessions: creation, discovery
// and the capacity-guarded join.
package sessions

import (
	"context"
	"fmt"
	"time"

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

// Create persists a new session. The creator is enrolled as the first
// participant.
func (s *Service) Create(ctx context.Context, creatorID, sport, location string, at time.Time, maxParticipants int) (*models.Session, error) {
	if creatorID == "" {
		return nil, apperr.ErrNotAuthenticated
	}
	sess := models.NewSession(creatorID, sport, location, at, maxParticipants)
	if err := s.store.AddSession(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// SearchAvailable lists non-full sessions for a sport, case-insensitively.
func (s *Service) SearchAvailable(ctx context.Context, sport string) ([]models.Session, error) {
	return s.store.FindAvailableSessionsBySport(ctx, sport)
}

// Join adds the user to a session resolved by id prefix. The capacity check
// runs first: a full session rejects every join, including a member's
// re-join. Below capacity, joining a session the user already participates
// in is a no-op. The session key is held across the capacity check and the
// append, so the participant list never exceeds max_participants.
func (s *Service) Join(ctx context.Context, userID, sessionPrefix string) (*models.Session, error) {
	if userID == "" {
		return nil, apperr.ErrNotAuthenticated
	}

	sess, err := s.store.FindSessionByIDPrefix(ctx, sessionPrefix)
	if err != nil {
		return nil, err
	}

	release, err := s.locker.Acquire(ctx, "session:"+sess.SessionID)
	if err != nil {
		return nil, err
	}
	defer release()

	// Re-read under the lock; the prefix lookup result may be stale.
	sess, err = s.store.FindSessionByIDPrefix(ctx, sess.SessionID)
	if err != nil {
		return nil, err
	}

	if sess.IsFull() {
		return nil, apperr.ErrSessionFull
	}
	if sess.HasParticipant(userID) {
		return sess, nil
	}

	if err := s.store.AddParticipantDirectly(ctx, sess.SessionID, userID); err != nil {
		return nil, err
	}
	sess.ParticipantIDs = append(sess.ParticipantIDs, userID)

	user, err := s.store.FindUserByIDPrefix(ctx, userID)
	joinedName := userID
	if err == nil {
		joinedName = user.Name
	}
	_ = s.notifier.Notify(ctx, sess.CreatorID,
		fmt.Sprintf("Session %s update: %s has joined your session.", sess.SessionID[:4], joinedName))

	return sess, nil
}
