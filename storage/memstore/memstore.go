// Package memstore is a thread-safe in-memory storage.Store. Tests run
// against it; it also serves as a zero-dependency dev backend.
package memstore

import (
	"context"
	"sort"
	"strings"
	"sync"

	"playpal/apperr"
	"playpal/models"
)

type Store struct {
	mu       sync.RWMutex
	users    map[string]*models.User
	sessions map[string]*models.Session
	bookings map[string]*models.Booking
	messages map[string]*models.Message
	// email (lowercased) -> userID
	emailIndex map[string]string
}

func New() *Store {
	return &Store{
		users:      make(map[string]*models.User),
		sessions:   make(map[string]*models.Session),
		bookings:   make(map[string]*models.Booking),
		messages:   make(map[string]*models.Message),
		emailIndex: make(map[string]string),
	}
}

func copyUser(u *models.User) *models.User {
	c := *u
	return &c
}

func copySession(s *models.Session) *models.Session {
	c := *s
	c.ParticipantIDs = append([]string(nil), s.ParticipantIDs...)
	return &c
}

// ---------- Users ----------

func (s *Store) AddUser(_ context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := copyUser(u)
	stored.Email = strings.ToLower(stored.Email)
	if prev, ok := s.users[stored.UserID]; ok {
		delete(s.emailIndex, prev.Email)
	}
	s.users[stored.UserID] = stored
	s.emailIndex[stored.Email] = stored.UserID
	return nil
}

func (s *Store) FindUserByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.emailIndex[strings.ToLower(email)]
	if !ok {
		return nil, apperr.NotFound("user")
	}
	return copyUser(s.users[id]), nil
}

func (s *Store) FindUserByIDPrefix(_ context.Context, prefix string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var match *models.User
	for id, u := range s.users {
		if strings.HasPrefix(id, prefix) {
			if match != nil {
				return nil, apperr.ErrAmbiguousPrefix
			}
			match = u
		}
	}
	if match == nil {
		return nil, apperr.NotFound("user")
	}
	return copyUser(match), nil
}

func (s *Store) EmailExists(_ context.Context, email string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.emailIndex[strings.ToLower(email)]
	return ok, nil
}

func (s *Store) AdjustBalance(_ context.Context, userID string, delta models.Cents) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return apperr.NotFound("user")
	}
	u.Balance += delta
	return nil
}

func (s *Store) FindApprovedTrainersBySpecialty(_ context.Context, specialty string) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.User
	for _, u := range s.users {
		if u.Role == models.RoleTrainer && u.Approved && strings.EqualFold(u.Specialty, specialty) {
			out = append(out, *copyUser(u))
		}
	}
	return out, nil
}

func (s *Store) FindPendingTrainers(_ context.Context) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.User
	for _, u := range s.users {
		if u.Role == models.RoleTrainer && !u.Approved {
			out = append(out, *copyUser(u))
		}
	}
	return out, nil
}

func (s *Store) SetTrainerApproved(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok || u.Role != models.RoleTrainer {
		return apperr.NotFound("trainer")
	}
	u.Approved = true
	return nil
}

func (s *Store) UpdateTrainerProfile(_ context.Context, userID, specialty string, rate models.Cents) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok || u.Role != models.RoleTrainer {
		return apperr.NotFound("trainer")
	}
	u.Specialty = specialty
	u.Rate = rate
	return nil
}

// ---------- Sessions ----------

func (s *Store) AddSession(_ context.Context, sess *models.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.SessionID] = copySession(sess)
	return nil
}

func (s *Store) UpdateSession(ctx context.Context, sess *models.Session) error {
	return s.AddSession(ctx, sess)
}

func (s *Store) FindAvailableSessionsBySport(_ context.Context, sport string) ([]models.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Session
	for _, sess := range s.sessions {
		if strings.EqualFold(sess.Sport, sport) && !sess.IsFull() {
			out = append(out, *copySession(sess))
		}
	}
	return out, nil
}

func (s *Store) FindSessionByIDPrefix(_ context.Context, prefix string) (*models.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var match *models.Session
	for id, sess := range s.sessions {
		if strings.HasPrefix(id, prefix) {
			if match != nil {
				return nil, apperr.ErrAmbiguousPrefix
			}
			match = sess
		}
	}
	if match == nil {
		return nil, apperr.NotFound("session")
	}
	return copySession(match), nil
}

func (s *Store) AddParticipantDirectly(_ context.Context, sessionID, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		return apperr.NotFound("session")
	}
	if sess.HasParticipant(userID) {
		return nil
	}
	sess.ParticipantIDs = append(sess.ParticipantIDs, userID)
	return nil
}

// ---------- Bookings ----------

func (s *Store) AddBooking(_ context.Context, b *models.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := *b
	s.bookings[b.BookingID] = &c
	return nil
}

func (s *Store) FindBookingByID(_ context.Context, bookingID string) (*models.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.bookings[bookingID]
	if !ok {
		return nil, apperr.NotFound("booking")
	}
	c := *b
	return &c, nil
}

func (s *Store) FindBookingsByTrainerID(_ context.Context, trainerID string) ([]models.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Booking
	for _, b := range s.bookings {
		if b.TrainerID == trainerID {
			out = append(out, *b)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// ---------- Messages ----------

func (s *Store) AddMessage(_ context.Context, m *models.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := *m
	s.messages[m.MessageID] = &c
	return nil
}

func (s *Store) FindMessagesForUser(_ context.Context, userID string) ([]models.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Message
	for _, m := range s.messages {
		if m.ReceiverID == userID {
			out = append(out, *m)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	return out, nil
}

func (s *Store) MarkMessageRead(_ context.Context, receiverID, messageID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.messages[messageID]
	if !ok || m.ReceiverID != receiverID {
		return apperr.NotFound("message")
	}
	m.Read = true
	return nil
}

// ---------- Counts ----------

func (s *Store) Counts(_ context.Context) (int64, int64, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.users)), int64(len(s.sessions)), int64(len(s.bookings)), nil
}
