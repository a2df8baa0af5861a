// Package service holds the transport-independent send path shared by the
// REST API and the realtime gateway, so both persist, count and broadcast
// identically.
package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"jobboard-chat/internal/models"
	"jobboard-chat/internal/repositories"
)

var (
	ErrEmptyContent       = errors.New("message content is empty")
	ErrContentTooLong     = fmt.Errorf("message content exceeds %d characters", models.MaxMessageContentLength)
	ErrNotParticipant     = errors.New("sender is not an active participant")
	ErrNotMessageSender   = errors.New("only the sender may modify a message")
	ErrNotDeletable       = errors.New("not allowed to delete this message")
	ErrConversationClosed = errors.New("conversation is not active")
)

// Broadcaster fans events out to a named broadcast group. Emits are
// fire-and-forget; a send failure never fails the persisted operation.
type Broadcaster interface {
	BroadcastToRoom(room string, event models.GatewayEvent)
}

// Messages is the single write path for conversation messages.
type Messages struct {
	convRepo    repositories.ConversationRepository
	msgRepo     repositories.MessageRepository
	broadcaster Broadcaster
}

// NewMessages constructs the message service.
func NewMessages(convRepo repositories.ConversationRepository, msgRepo repositories.MessageRepository, broadcaster Broadcaster) *Messages {
	return &Messages{convRepo: convRepo, msgRepo: msgRepo, broadcaster: broadcaster}
}

// Send validates, persists and fans out one message.
//
// Ordering is deliberate: the message is made durable first, then the
// lastMessage cache and unread counters are updated, then connected clients
// are notified. A crash between the steps leaves the message durable with
// undercounted unread totals, which is the accepted tradeoff.
func (s *Messages) Send(ctx context.Context, conversationID int, senderID int, content string, replyTo *int, meta models.RequestMeta) (models.Message, error) {
	conv, err := s.convRepo.Get(ctx, conversationID)
	if err != nil {
		return models.Message{}, err
	}
	if conv.Status != models.ConversationActive {
		return models.Message{}, ErrConversationClosed
	}
	if !conv.HasActiveParticipant(senderID) {
		return models.Message{}, ErrNotParticipant
	}

	content = strings.TrimSpace(content)
	if content == "" {
		return models.Message{}, ErrEmptyContent
	}
	if len(content) > models.MaxMessageContentLength {
		return models.Message{}, ErrContentTooLong
	}

	msg, err := s.msgRepo.Create(ctx, conversationID, senderID, content, models.MessageText, replyTo, meta)
	if err != nil {
		return models.Message{}, err
	}

	if err := s.convRepo.UpdateLastMessage(ctx, conversationID, msg.Content, senderID, msg.CreatedAt); err != nil {
		log.Printf("update last message cache failed for conversation %d: %v", conversationID, err)
	}

	entries, err := s.convRepo.IncrementUnreadOthers(ctx, conversationID, senderID)
	if err != nil {
		log.Printf("increment unread failed for conversation %d: %v", conversationID, err)
	}

	if s.broadcaster != nil {
		s.broadcaster.BroadcastToRoom(models.ConversationRoom(conversationID), models.GatewayEvent{
			Type:           models.EventNewMessage,
			ConversationID: conversationID,
			Message:        &msg,
		})
		for _, entry := range entries {
			s.broadcaster.BroadcastToRoom(models.UserRoom(entry.UserID), models.GatewayEvent{
				Type:           models.EventMessageNotification,
				ConversationID: conversationID,
				Message:        &msg,
				UnreadCount:    entry.UnreadCount,
			})
		}
	}

	return msg, nil
}

// Edit replaces a message's content. Only the sender may edit; the content
// rules of Send apply.
func (s *Messages) Edit(ctx context.Context, messageID int, userID int, content string) (models.Message, error) {
	msg, err := s.msgRepo.Get(ctx, messageID)
	if err != nil {
		return models.Message{}, err
	}
	if msg.SenderID != userID {
		return models.Message{}, ErrNotMessageSender
	}

	content = strings.TrimSpace(content)
	if content == "" {
		return models.Message{}, ErrEmptyContent
	}
	if len(content) > models.MaxMessageContentLength {
		return models.Message{}, ErrContentTooLong
	}

	return s.msgRepo.Edit(ctx, messageID, userID, content)
}

// SoftDelete flags a message as deleted. The sender may always delete their
// own messages; staff may moderate any message.
func (s *Messages) SoftDelete(ctx context.Context, messageID int, userID int, role models.Role) error {
	msg, err := s.msgRepo.Get(ctx, messageID)
	if err != nil {
		return err
	}
	if msg.SenderID != userID && !role.IsStaff() {
		return ErrNotDeletable
	}
	return s.msgRepo.SoftDelete(ctx, messageID, userID)
}

// MarkConversationRead resets the caller's unread counter and refreshes
// their last-seen timestamp. Idempotent.
func (s *Messages) MarkConversationRead(ctx context.Context, conversationID int, userID int) error {
	conv, err := s.convRepo.Get(ctx, conversationID)
	if err != nil {
		return err
	}
	if !conv.HasActiveParticipant(userID) {
		return ErrNotParticipant
	}
	return s.convRepo.MarkAsRead(ctx, conversationID, userID)
}
