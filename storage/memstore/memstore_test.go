package memstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"playpal/apperr"
	"playpal/models"
)

func TestFindUserByIDPrefix(t *testing.T) {
	s := New()
	ctx := context.Background()

	add := func(id string) {
		t.Helper()
		if err := s.AddUser(ctx, &models.User{UserID: id, Email: id + "@example.com"}); err != nil {
			t.Fatalf("AddUser: %v", err)
		}
	}
	add("abcd-1111")
	add("abcd-2222")
	add("wxyz-3333")

	if _, err := s.FindUserByIDPrefix(ctx, "abcd"); !errors.Is(err, apperr.ErrAmbiguousPrefix) {
		t.Errorf("ambiguous prefix err = %v", err)
	}
	u, err := s.FindUserByIDPrefix(ctx, "wxyz")
	if err != nil || u.UserID != "wxyz-3333" {
		t.Errorf("unique prefix = %v (err %v)", u, err)
	}
	if _, err := s.FindUserByIDPrefix(ctx, "none"); !apperr.IsNotFound(err) {
		t.Errorf("missing prefix err = %v", err)
	}
}

func TestEmailLookupIsCaseInsensitive(t *testing.T) {
	s := New()
	ctx := context.Background()

	if err := s.AddUser(ctx, &models.User{UserID: "u1", Email: "Pat@Example.com"}); err != nil {
		t.Fatalf("AddUser: %v", err)
	}

	u, err := s.FindUserByEmail(ctx, "pat@EXAMPLE.com")
	if err != nil || u.UserID != "u1" {
		t.Errorf("lookup = %v (err %v)", u, err)
	}
	exists, err := s.EmailExists(ctx, "PAT@example.COM")
	if err != nil || !exists {
		t.Errorf("EmailExists = %v (err %v)", exists, err)
	}
}

func TestReturnedEntitiesAreCopies(t *testing.T) {
	s := New()
	ctx := context.Background()

	if err := s.AddUser(ctx, &models.User{UserID: "u1", Email: "u1@example.com", Balance: 100}); err != nil {
		t.Fatalf("AddUser: %v", err)
	}
	u, _ := s.FindUserByIDPrefix(ctx, "u1")
	u.Balance = 999999

	again, _ := s.FindUserByIDPrefix(ctx, "u1")
	if again.Balance != 100 {
		t.Errorf("store mutated through returned copy: balance = %d", again.Balance)
	}
}

func TestAdjustBalance(t *testing.T) {
	s := New()
	ctx := context.Background()

	if err := s.AddUser(ctx, &models.User{UserID: "u1", Email: "u1@example.com", Balance: 500}); err != nil {
		t.Fatalf("AddUser: %v", err)
	}
	if err := s.AdjustBalance(ctx, "u1", -200); err != nil {
		t.Fatalf("AdjustBalance: %v", err)
	}
	u, _ := s.FindUserByIDPrefix(ctx, "u1")
	if u.Balance != 300 {
		t.Errorf("balance = %d, want 300", u.Balance)
	}
	if err := s.AdjustBalance(ctx, "ghost", 1); !apperr.IsNotFound(err) {
		t.Errorf("missing user err = %v", err)
	}
}

func TestMessagesNewestFirst(t *testing.T) {
	s := New()
	ctx := context.Background()

	base := time.Now()
	for i, content := range []string{"oldest", "middle", "newest"} {
		m := &models.Message{
			MessageID:  content,
			SenderID:   models.SystemSender,
			ReceiverID: "u1",
			Content:    content,
			Timestamp:  base.Add(time.Duration(i) * time.Minute),
		}
		if err := s.AddMessage(ctx, m); err != nil {
			t.Fatalf("AddMessage: %v", err)
		}
	}

	got, err := s.FindMessagesForUser(ctx, "u1")
	if err != nil {
		t.Fatalf("FindMessagesForUser: %v", err)
	}
	want := []string{"newest", "middle", "oldest"}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].Content != want[i] {
			t.Errorf("got[%d] = %q, want %q", i, got[i].Content, want[i])
		}
	}
}

func TestAvailableSessionsExcludeFull(t *testing.T) {
	s := New()
	ctx := context.Background()

	open := models.NewSession("u1", "Tennis", "Court 1", time.Now(), 4)
	full := models.NewSession("u2", "Tennis", "Court 2", time.Now(), 1)
	if err := s.AddSession(ctx, open); err != nil {
		t.Fatalf("AddSession: %v", err)
	}
	if err := s.AddSession(ctx, full); err != nil {
		t.Fatalf("AddSession: %v", err)
	}

	got, err := s.FindAvailableSessionsBySport(ctx, "TENNIS")
	if err != nil {
		t.Fatalf("FindAvailableSessionsBySport: %v", err)
	}
	if len(got) != 1 || got[0].SessionID != open.SessionID {
		t.Errorf("available = %v, want only the open session", got)
	}
}

func TestAddParticipantDirectly(t *testing.T) {
	s := New()
	ctx := context.Background()

	sess := models.NewSession("u1", "Tennis", "Court 1", time.Now(), 4)
	if err := s.AddSession(ctx, sess); err != nil {
		t.Fatalf("AddSession: %v", err)
	}
	if err := s.AddParticipantDirectly(ctx, sess.SessionID, "u2"); err != nil {
		t.Fatalf("AddParticipantDirectly: %v", err)
	}
	// Repeated adds do not duplicate.
	if err := s.AddParticipantDirectly(ctx, sess.SessionID, "u2"); err != nil {
		t.Fatalf("repeat AddParticipantDirectly: %v", err)
	}

	got, _ := s.FindSessionByIDPrefix(ctx, sess.SessionID)
	if len(got.ParticipantIDs) != 2 {
		t.Errorf("participants = %v, want 2", got.ParticipantIDs)
	}
}

func TestMarkMessageRead(t *testing.T) {
	s := New()
	ctx := context.Background()

	m := models.NewNotification("u1", "hello")
	if err := s.AddMessage(ctx, m); err != nil {
		t.Fatalf("AddMessage: %v", err)
	}
	if err := s.MarkMessageRead(ctx, "u1", m.MessageID); err != nil {
		t.Fatalf("MarkMessageRead: %v", err)
	}
	got, _ := s.FindMessagesForUser(ctx, "u1")
	if len(got) != 1 || !got[0].Read {
		t.Errorf("message not marked read: %v", got)
	}
	if err := s.MarkMessageRead(ctx, "u1", "ghost"); !apperr.IsNotFound(err) {
		t.Errorf("missing message err = %v", err)
	}
	// A message addressed to someone else is invisible to the caller.
	if err := s.MarkMessageRead(ctx, "u2", m.MessageID); !apperr.IsNotFound(err) {
		t.Errorf("foreign message err = %v", err)
	}
}
