package repositories

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"jobboard-chat/internal/models"
)

var ErrConversationNotFound = errors.New("conversation not found")

// UnreadEntry is one participant's counter value after an atomic update.
type UnreadEntry struct {
	UserID      int `db:"user_id"`
	UnreadCount int `db:"unread_count"`
}

// ConversationRepository abstracts conversation persistence.
type ConversationRepository interface {
	FindOrCreate(ctx context.Context, participants []models.ParticipantRef, convType models.ConversationType, opts models.ConversationOptions) (models.Conversation, bool, error)
	Get(ctx context.Context, conversationID int) (models.Conversation, error)
	ListForUser(ctx context.Context, userID int, role models.Role) ([]models.ConversationSummary, error)
	MarkAsRead(ctx context.Context, conversationID int, userID int) error
	IncrementUnreadOthers(ctx context.Context, conversationID int, senderID int) ([]UnreadEntry, error)
	UpdateLastMessage(ctx context.Context, conversationID int, content string, senderID int, at time.Time) error
	SetStatus(ctx context.Context, conversationID int, status models.ConversationStatus) error
}

// ConversationRepo is a sqlx implementation of ConversationRepository.
type ConversationRepo struct {
	db *sqlx.DB
}

// NewConversationRepo constructs a ConversationRepo.
func NewConversationRepo(db *sqlx.DB) *ConversationRepo {
	return &ConversationRepo{db: db}
}

const conversationColumns = `id, conversation_type, subject, status, priority, tags,
    last_message_content, last_message_sender_id, last_message_at,
    job_id, application_id, related_to, created_at, updated_at`

// FindOrCreate returns the active conversation whose participant set exactly
// matches the requested one, creating it if absent. convType applies only
// when a new conversation is created; an existing match is returned as is.
// The second return value reports whether a new conversation was created.
// Callers must not assume a fresh id on every call.
func (r *ConversationRepo) FindOrCreate(ctx context.Context, participants []models.ParticipantRef, convType models.ConversationType, opts models.ConversationOptions) (models.Conversation, bool, error) {
	if len(participants) == 0 {
		return models.Conversation{}, false, errors.New("participants must not be empty")
	}

	ids := make([]int64, 0, len(participants))
	seen := map[int]struct{}{}
	for _, p := range participants {
		if _, dup := seen[p.UserID]; dup {
			continue
		}
		seen[p.UserID] = struct{}{}
		ids = append(ids, int64(p.UserID))
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	// The match is by participant set alone: at most one active
	// conversation exists per exact set, whatever type it was opened as.
	var existingID int
	err := r.db.GetContext(ctx, &existingID, `
        SELECT c.id FROM conversations c
        JOIN conversation_participants p ON p.conversation_id = c.id
        WHERE c.status = 'active'
        GROUP BY c.id
        HAVING array_agg(p.user_id ORDER BY p.user_id) = $1::int[]
        LIMIT 1`, pq.Array(ids))
	if err == nil {
		conv, err := r.Get(ctx, existingID)
		return conv, false, err
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return models.Conversation{}, false, err
	}

	priority := opts.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return models.Conversation{}, false, err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	var convID int
	if err = tx.QueryRowxContext(ctx, `
        INSERT INTO conversations (conversation_type, subject, priority, tags, job_id, application_id, related_to)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING id`,
		convType, opts.Subject, priority, pq.Array(opts.Tags), opts.JobID, opts.ApplicationID, opts.RelatedTo,
	).Scan(&convID); err != nil {
		return models.Conversation{}, false, err
	}

	for _, p := range participants {
		if _, dup := seen[p.UserID]; !dup {
			continue
		}
		delete(seen, p.UserID)
		if _, err = tx.ExecContext(ctx, `
            INSERT INTO conversation_participants (conversation_id, user_id, user_type, employer_type)
            VALUES ($1, $2, $3, $4)`,
			convID, p.UserID, p.UserType, p.EmployerType); err != nil {
			return models.Conversation{}, false, err
		}
	}

	if err = tx.Commit(); err != nil {
		return models.Conversation{}, false, err
	}

	conv, err := r.Get(ctx, convID)
	return conv, true, err
}

// Get fetches a conversation with its participant roster.
func (r *ConversationRepo) Get(ctx context.Context, conversationID int) (models.Conversation, error) {
	var conv models.Conversation
	err := r.db.GetContext(ctx, &conv,
		`SELECT `+conversationColumns+` FROM conversations WHERE id=$1`, conversationID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Conversation{}, ErrConversationNotFound
	}
	if err != nil {
		return models.Conversation{}, err
	}

	err = r.db.SelectContext(ctx, &conv.Participants, `
        SELECT conversation_id, user_id, user_type, employer_type, unread_count, last_seen, is_active
        FROM conversation_participants WHERE conversation_id=$1 ORDER BY user_id`, conversationID)
	return conv, err
}

// ListForUser returns active conversations containing the user, restricted
// to the conversation types the role may see, newest activity first.
func (r *ConversationRepo) ListForUser(ctx context.Context, userID int, role models.Role) ([]models.ConversationSummary, error) {
	allowed := role.ConversationTypes()
	types := make([]string, 0, len(allowed))
	for _, t := range allowed {
		types = append(types, string(t))
	}

	var result []models.ConversationSummary
	err := r.db.SelectContext(ctx, &result, `
        SELECT c.id, c.conversation_type, c.subject, c.status, c.priority, c.tags,
               c.last_message_content, c.last_message_sender_id, c.last_message_at,
               c.job_id, c.application_id, c.related_to, c.created_at, c.updated_at,
               cp.unread_count
        FROM conversations c
        JOIN conversation_participants cp
          ON cp.conversation_id = c.id AND cp.user_id = $1 AND cp.is_active
        WHERE c.status = 'active' AND c.conversation_type = ANY($2)
        ORDER BY COALESCE(c.last_message_at, c.created_at) DESC`,
		userID, pq.Array(types))
	return result, err
}

// MarkAsRead resets the user's unread counter and refreshes last_seen.
func (r *ConversationRepo) MarkAsRead(ctx context.Context, conversationID int, userID int) error {
	_, err := r.db.ExecContext(ctx, `
        UPDATE conversation_participants
        SET unread_count = 0, last_seen = NOW()
        WHERE conversation_id=$1 AND user_id=$2`, conversationID, userID)
	return err
}

// IncrementUnreadOthers bumps the unread counter of every active participant
// except the sender in a single statement. The increment happens in the
// database, never as a read-modify-write round trip, so concurrent sends
// cannot lose updates.
func (r *ConversationRepo) IncrementUnreadOthers(ctx context.Context, conversationID int, senderID int) ([]UnreadEntry, error) {
	var entries []UnreadEntry
	err := r.db.SelectContext(ctx, &entries, `
        UPDATE conversation_participants
        SET unread_count = unread_count + 1
        WHERE conversation_id=$1 AND user_id <> $2 AND is_active
        RETURNING user_id, unread_count`, conversationID, senderID)
	return entries, err
}

// UpdateLastMessage refreshes the denormalized preview of the newest message.
func (r *ConversationRepo) UpdateLastMessage(ctx context.Context, conversationID int, content string, senderID int, at time.Time) error {
	_, err := r.db.ExecContext(ctx, `
        UPDATE conversations
        SET last_message_content=$2, last_message_sender_id=$3, last_message_at=$4, updated_at=NOW()
        WHERE id=$1`, conversationID, content, senderID, at)
	return err
}

// SetStatus moves the conversation through its lifecycle. Conversations are
// never deleted.
func (r *ConversationRepo) SetStatus(ctx context.Context, conversationID int, status models.ConversationStatus) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE conversations SET status=$2, updated_at=NOW() WHERE id=$1`, conversationID, status)
	if err != nil {
		return err
	}
	count, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrConversationNotFound
	}
	return nil
}
