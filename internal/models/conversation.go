package models

import (
	"time"

	"github.com/lib/pq"
)

// ConversationType classifies who a thread connects.
type ConversationType string

const (
	ConversationJobseekerEmployer ConversationType = "jobseeker_employer"
	ConversationJobseekerSupport  ConversationType = "jobseeker_support"
	ConversationEmployerSupport   ConversationType = "employer_support"
	ConversationAdminSupport      ConversationType = "admin_support"
)

// ConversationStatus is the thread lifecycle state. Conversations are never
// hard-deleted; they move to closed or archived.
type ConversationStatus string

const (
	ConversationActive   ConversationStatus = "active"
	ConversationClosed   ConversationStatus = "closed"
	ConversationArchived ConversationStatus = "archived"
)

// ConversationPriority orders support queues.
type ConversationPriority string

const (
	PriorityLow    ConversationPriority = "low"
	PriorityMedium ConversationPriority = "medium"
	PriorityHigh   ConversationPriority = "high"
	PriorityUrgent ConversationPriority = "urgent"
)

// Conversation is a durable thread between a fixed participant set. The
// last_message_* columns are a denormalized cache of the newest message, not
// the source of truth.
type Conversation struct {
	ID                  int                  `db:"id" json:"id"`
	ConversationType    ConversationType     `db:"conversation_type" json:"conversation_type"`
	Subject             string               `db:"subject" json:"subject,omitempty"`
	Status              ConversationStatus   `db:"status" json:"status"`
	Priority            ConversationPriority `db:"priority" json:"priority"`
	Tags                pq.StringArray       `db:"tags" json:"tags"`
	LastMessageContent  *string              `db:"last_message_content" json:"last_message_content,omitempty"`
	LastMessageSenderID *int                 `db:"last_message_sender_id" json:"last_message_sender_id,omitempty"`
	LastMessageAt       *time.Time           `db:"last_message_at" json:"last_message_at,omitempty"`
	JobID               *int                 `db:"job_id" json:"job_id,omitempty"`
	ApplicationID       *int                 `db:"application_id" json:"application_id,omitempty"`
	RelatedTo           string               `db:"related_to" json:"related_to,omitempty"`
	CreatedAt           time.Time            `db:"created_at" json:"created_at"`
	UpdatedAt           time.Time            `db:"updated_at" json:"updated_at"`

	Participants []Participant `db:"-" json:"participants,omitempty"`
}

// Participant is a member row of a conversation. UnreadCount is mutated only
// through atomic increments and resets in the repository.
type Participant struct {
	ConversationID int           `db:"conversation_id" json:"conversation_id"`
	UserID         int           `db:"user_id" json:"user_id"`
	UserType       UserType      `db:"user_type" json:"user_type"`
	EmployerType   *EmployerType `db:"employer_type" json:"employer_type,omitempty"`
	UnreadCount    int           `db:"unread_count" json:"unread_count"`
	LastSeen       time.Time     `db:"last_seen" json:"last_seen"`
	IsActive       bool          `db:"is_active" json:"is_active"`
}

// ParticipantRef is the caller-supplied identity used when opening a
// conversation, before any participant row exists.
type ParticipantRef struct {
	UserID       int           `json:"user_id" binding:"required"`
	UserType     UserType      `json:"user_type" binding:"required"`
	EmployerType *EmployerType `json:"employer_type,omitempty"`
}

// ConversationOptions carries optional attributes for a new conversation.
type ConversationOptions struct {
	Subject       string
	Priority      ConversationPriority
	Tags          []string
	JobID         *int
	ApplicationID *int
	RelatedTo     string
}

// ConversationSummary is the list-view shape with the caller's unread count
// merged in.
type ConversationSummary struct {
	Conversation
	UnreadCount int `db:"unread_count" json:"unread_count"`
}

// HasActiveParticipant reports whether userID is an active member.
func (c Conversation) HasActiveParticipant(userID int) bool {
	for _, p := range c.Participants {
		if p.UserID == userID && p.IsActive {
			return true
		}
	}
	return false
}
