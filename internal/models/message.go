package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// MessageType classifies message payloads.
type MessageType string

const (
	MessageText   MessageType = "text"
	MessageImage  MessageType = "image"
	MessageFile   MessageType = "file"
	MessageSystem MessageType = "system"
)

// MessageStatus is a display-level delivery state. It only moves forward
// (sent -> delivered -> read) and flips to read on the first receipt from any
// reader; per-user truth lives in the message_reads rows.
type MessageStatus string

const (
	StatusSent      MessageStatus = "sent"
	StatusDelivered MessageStatus = "delivered"
	StatusRead      MessageStatus = "read"
)

// MaxMessageContentLength caps message content after trimming.
const MaxMessageContentLength = 2000

// Attachment records metadata of an uploaded file referenced by a message.
// The upload pipeline itself lives outside this service.
type Attachment struct {
	Filename     string    `json:"filename"`
	OriginalName string    `json:"original_name"`
	MimeType     string    `json:"mime_type"`
	Size         int64     `json:"size"`
	URL          string    `json:"url"`
	UploadedAt   time.Time `json:"uploaded_at"`
}

// Attachments is stored as a JSONB column.
type Attachments []Attachment

func (a Attachments) Value() (driver.Value, error) {
	if len(a) == 0 {
		return "[]", nil
	}
	return json.Marshal(a)
}

func (a *Attachments) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*a = nil
		return nil
	case []byte:
		return json.Unmarshal(v, a)
	case string:
		return json.Unmarshal([]byte(v), a)
	default:
		return fmt.Errorf("unsupported attachments column type %T", src)
	}
}

// Message is an append-only record in a conversation. Deletion is soft:
// content is retained and presentation layers hide it.
type Message struct {
	ID              int           `db:"id" json:"id"`
	ConversationID  int           `db:"conversation_id" json:"conversation_id"`
	SenderID        int           `db:"sender_id" json:"sender_id"`
	Content         string        `db:"content" json:"content"`
	MessageType     MessageType   `db:"message_type" json:"message_type"`
	Status          MessageStatus `db:"status" json:"status"`
	Attachments     Attachments   `db:"attachments" json:"attachments"`
	ReplyTo         *int          `db:"reply_to" json:"reply_to,omitempty"`
	IsEdited        bool          `db:"is_edited" json:"is_edited"`
	EditedAt        *time.Time    `db:"edited_at" json:"edited_at,omitempty"`
	OriginalContent *string       `db:"original_content" json:"original_content,omitempty"`
	IsDeleted       bool          `db:"is_deleted" json:"is_deleted"`
	DeletedAt       *time.Time    `db:"deleted_at" json:"deleted_at,omitempty"`
	DeletedBy       *int          `db:"deleted_by" json:"deleted_by,omitempty"`
	IPAddress       string        `db:"ip_address" json:"-"`
	UserAgent       string        `db:"user_agent" json:"-"`
	CreatedAt       time.Time     `db:"created_at" json:"created_at"`
}

// ReadReceipt marks that a user has read a message. At most one row exists
// per (message, user).
type ReadReceipt struct {
	MessageID int       `db:"message_id" json:"message_id"`
	UserID    int       `db:"user_id" json:"user_id"`
	ReadAt    time.Time `db:"read_at" json:"read_at"`
}

// RequestMeta captures request-level context stored alongside a message.
type RequestMeta struct {
	IPAddress string
	UserAgent string
}
