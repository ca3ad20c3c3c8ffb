// Package messages implements user-to-user messages and system
// notifications. Notifications are fire-and-forget: a failed dispatch is
// logged and never fails the operation that triggered it.
package messages

import (
	"context"
	"log/slog"

	"playpal/apperr"
	"playpal/models"
	"playpal/storage"
)

type Service struct {
	store storage.Store
	feed  *Feed
}

func NewService(store storage.Store, feed *Feed) *Service {
	return &Service{store: store, feed: feed}
}

// SendMessage persists a user message. The sender must be authenticated and
// the receiver must exist; the store does not enforce referential integrity.
func (s *Service) SendMessage(ctx context.Context, senderID, receiverID, content string) (*models.Message, error) {
	if senderID == "" {
		return nil, apperr.ErrNotAuthenticated
	}
	if _, err := s.store.FindUserByIDPrefix(ctx, receiverID); err != nil {
		return nil, err
	}

	msg := models.NewUserMessage(senderID, receiverID, content)
	if err := s.store.AddMessage(ctx, msg); err != nil {
		return nil, err
	}
	s.push(msg)
	return msg, nil
}

// Notify persists a system notification. Errors are returned so the caller
// can log them, but callers must not treat them as fatal.
func (s *Service) Notify(ctx context.Context, receiverID, content string) error {
	msg := models.NewNotification(receiverID, content)
	if err := s.store.AddMessage(ctx, msg); err != nil {
		slog.Warn("notification dispatch failed", "receiver", receiverID, "err", err)
		return err
	}
	s.push(msg)
	return nil
}

// Inbox returns all messages for the user, newest first.
func (s *Service) Inbox(ctx context.Context, userID string) ([]models.Message, error) {
	if userID == "" {
		return nil, apperr.ErrNotAuthenticated
	}
	return s.store.FindMessagesForUser(ctx, userID)
}

// MarkRead flips the read flag on one of the user's own messages. Messages
// addressed to someone else report not found.
func (s *Service) MarkRead(ctx context.Context, userID, messageID string) error {
	if userID == "" {
		return apperr.ErrNotAuthenticated
	}
	return s.store.MarkMessageRead(ctx, userID, messageID)
}

func (s *Service) push(msg *models.Message) {
	if s.feed == nil {
		return
	}
	s.feed.Publish(msg.ReceiverID, msg)
}
