package messages

import (
	"context"
	"errors"
	"testing"
	"time"

	"playpal/apperr"
	"playpal/models"
	"playpal/storage/memstore"
)

func seedUser(t *testing.T, store *memstore.Store, id string) {
	t.Helper()
	u := &models.User{UserID: id, Name: id, Email: id + "@example.com", Role: models.RolePlayer, CreatedAt: time.Now()}
	if err := store.AddUser(context.Background(), u); err != nil {
		t.Fatalf("seed: %v", err)
	}
}

func TestSendMessage(t *testing.T) {
	store := memstore.New()
	svc := NewService(store, nil)
	ctx := context.Background()

	seedUser(t, store, "alice")
	seedUser(t, store, "bob")

	msg, err := svc.SendMessage(ctx, "alice", "bob", "hi")
	if err != nil {
		t.Fatalf("SendMessage: %v", err)
	}
	if msg.IsNotification() {
		t.Error("user message flagged as notification")
	}

	inbox, err := svc.Inbox(ctx, "bob")
	if err != nil || len(inbox) != 1 {
		t.Fatalf("inbox = %v (err %v), want 1 message", inbox, err)
	}
	if inbox[0].Content != "hi" || inbox[0].SenderID != "alice" {
		t.Errorf("inbox[0] = %+v", inbox[0])
	}
}

func TestSendMessageValidation(t *testing.T) {
	store := memstore.New()
	svc := NewService(store, nil)
	ctx := context.Background()

	seedUser(t, store, "alice")

	if _, err := svc.SendMessage(ctx, "", "alice", "hi"); !errors.Is(err, apperr.ErrNotAuthenticated) {
		t.Errorf("unauthenticated err = %v", err)
	}
	if _, err := svc.SendMessage(ctx, "alice", "ghost", "hi"); !apperr.IsNotFound(err) {
		t.Errorf("missing receiver err = %v", err)
	}
}

func TestNotifyPersistsSystemMessage(t *testing.T) {
	store := memstore.New()
	svc := NewService(store, nil)
	ctx := context.Background()

	seedUser(t, store, "alice")

	if err := svc.Notify(ctx, "alice", "You have been approved."); err != nil {
		t.Fatalf("Notify: %v", err)
	}
	inbox, _ := svc.Inbox(ctx, "alice")
	if len(inbox) != 1 || !inbox[0].IsNotification() {
		t.Fatalf("inbox = %v, want one notification", inbox)
	}
	if inbox[0].SenderID != models.SystemSender {
		t.Errorf("sender = %q, want %q", inbox[0].SenderID, models.SystemSender)
	}
}

func TestMarkRead(t *testing.T) {
	store := memstore.New()
	svc := NewService(store, nil)
	ctx := context.Background()

	seedUser(t, store, "alice")
	if err := svc.Notify(ctx, "alice", "hello"); err != nil {
		t.Fatalf("Notify: %v", err)
	}
	inbox, _ := svc.Inbox(ctx, "alice")

	if err := svc.MarkRead(ctx, "alice", inbox[0].MessageID); err != nil {
		t.Fatalf("MarkRead: %v", err)
	}
	inbox, _ = svc.Inbox(ctx, "alice")
	if !inbox[0].Read {
		t.Error("message still unread")
	}

	if err := svc.MarkRead(ctx, "", "any"); !errors.Is(err, apperr.ErrNotAuthenticated) {
		t.Errorf("unauthenticated err = %v", err)
	}
}

func TestMarkReadOnlyForReceiver(t *testing.T) {
	store := memstore.New()
	svc := NewService(store, nil)
	ctx := context.Background()

	seedUser(t, store, "alice")
	seedUser(t, store, "mallory")
	if err := svc.Notify(ctx, "alice", "hello"); err != nil {
		t.Fatalf("Notify: %v", err)
	}
	inbox, _ := svc.Inbox(ctx, "alice")

	if err := svc.MarkRead(ctx, "mallory", inbox[0].MessageID); !apperr.IsNotFound(err) {
		t.Fatalf("foreign mark-read err = %v, want not-found", err)
	}
	inbox, _ = svc.Inbox(ctx, "alice")
	if inbox[0].Read {
		t.Error("read flag flipped by a non-receiver")
	}
}

func TestInboxNewestFirst(t *testing.T) {
	store := memstore.New()
	svc := NewService(store, nil)
	ctx := context.Background()

	seedUser(t, store, "alice")
	base := time.Now()
	for i, content := range []string{"first", "second", "third"} {
		m := models.NewNotification("alice", content)
		m.Timestamp = base.Add(time.Duration(i) * time.Second)
		if err := store.AddMessage(ctx, m); err != nil {
			t.Fatalf("AddMessage: %v", err)
		}
	}

	inbox, err := svc.Inbox(ctx, "alice")
	if err != nil {
		t.Fatalf("Inbox: %v", err)
	}
	if inbox[0].Content != "third" || inbox[2].Content != "first" {
		t.Errorf("order = [%s %s %s], want newest first", inbox[0].Content, inbox[1].Content, inbox[2].Content)
	}
}
