package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"jobboard-chat/internal/models"
)

var ErrMessageNotFound = errors.New("message not found")

// DefaultMessagePageSize bounds message pagination.
const (
	DefaultMessagePageSize = 50
	MaxMessagePageSize     = 100
)

// MessageRepository defines interactions for conversation messages.
type MessageRepository interface {
	Create(ctx context.Context, conversationID int, senderID int, content string, msgType models.MessageType, replyTo *int, meta models.RequestMeta) (models.Message, error)
	ListPage(ctx context.Context, conversationID int, page int, limit int) ([]models.Message, error)
	Get(ctx context.Context, messageID int) (models.Message, error)
	MarkRead(ctx context.Context, messageID int, userID int) error
	Edit(ctx context.Context, messageID int, senderID int, content string) (models.Message, error)
	SoftDelete(ctx context.Context, messageID int, byUserID int) error
}

// MessageRepo is a sqlx-backed repository.
type MessageRepo struct {
	db *sqlx.DB
}

// NewMessageRepo constructs MessageRepo.
func NewMessageRepo(db *sqlx.DB) *MessageRepo {
	return &MessageRepo{db: db}
}

const messageColumns = `id, conversation_id, sender_id, content, message_type, status,
    attachments, reply_to, is_edited, edited_at, original_content,
    is_deleted, deleted_at, deleted_by, ip_address, user_agent, created_at`

// Create appends a message to a conversation. Display order is decided by
// the store-assigned id and timestamp, not by client send order.
func (r *MessageRepo) Create(ctx context.Context, conversationID int, senderID int, content string, msgType models.MessageType, replyTo *int, meta models.RequestMeta) (models.Message, error) {
	if msgType == "" {
		msgType = models.MessageText
	}
	var msg models.Message
	err := r.db.GetContext(ctx, &msg, `
        INSERT INTO messages (conversation_id, sender_id, content, message_type, reply_to, ip_address, user_agent)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING `+messageColumns,
		conversationID, senderID, content, msgType, replyTo, meta.IPAddress, meta.UserAgent)
	return msg, err
}

// ListPage returns non-deleted messages newest-first. Callers that want
// chronological order reverse the page.
func (r *MessageRepo) ListPage(ctx context.Context, conversationID int, page int, limit int) ([]models.Message, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultMessagePageSize
	}
	if limit > MaxMessagePageSize {
		limit = MaxMessagePageSize
	}

	var msgs []models.Message
	err := r.db.SelectContext(ctx, &msgs, `
        SELECT `+messageColumns+`
        FROM messages
        WHERE conversation_id=$1 AND is_deleted = FALSE
        ORDER BY created_at DESC, id DESC
        LIMIT $2 OFFSET $3`,
		conversationID, limit, (page-1)*limit)
	return msgs, err
}

// Get retrieves a single message, deleted or not.
func (r *MessageRepo) Get(ctx context.Context, messageID int) (models.Message, error) {
	var msg models.Message
	err := r.db.GetContext(ctx, &msg,
		`SELECT `+messageColumns+` FROM messages WHERE id=$1`, messageID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Message{}, ErrMessageNotFound
	}
	return msg, err
}

// MarkRead records a read receipt for the user (idempotent) and promotes the
// display status. The receipt rows are the per-user source of truth; the
// scalar status only means "read by someone".
func (r *MessageRepo) MarkRead(ctx context.Context, messageID int, userID int) error {
	_, err := r.db.ExecContext(ctx, `
        INSERT INTO message_reads (message_id, user_id) VALUES ($1, $2)
        ON CONFLICT (message_id, user_id) DO NOTHING`, messageID, userID)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx,
		`UPDATE messages SET status='read' WHERE id=$1`, messageID)
	return err
}

// Edit replaces the content of a sender's own message. The original content
// is snapshotted on the first edit only; COALESCE keeps later edits from
// overwriting it.
func (r *MessageRepo) Edit(ctx context.Context, messageID int, senderID int, content string) (models.Message, error) {
	var msg models.Message
	err := r.db.GetContext(ctx, &msg, `
        UPDATE messages
        SET original_content = COALESCE(original_content, content),
            content = $3,
            is_edited = TRUE,
            edited_at = NOW()
        WHERE id=$1 AND sender_id=$2 AND is_deleted = FALSE
        RETURNING `+messageColumns,
		messageID, senderID, content)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Message{}, ErrMessageNotFound
	}
	return msg, err
}

// SoftDelete flags a message as deleted. Content is retained; presentation
// layers are responsible for hiding it.
func (r *MessageRepo) SoftDelete(ctx context.Context, messageID int, byUserID int) error {
	res, err := r.db.ExecContext(ctx, `
        UPDATE messages
        SET is_deleted = TRUE, deleted_at = NOW(), deleted_by = $2
        WHERE id=$1 AND is_deleted = FALSE`, messageID, byUserID)
	if err != nil {
		return err
	}
	count, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrMessageNotFound
	}
	return nil
}
