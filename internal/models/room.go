package models

import (
	"time"

	"github.com/lib/pq"
)

// RoomType classifies named group channels.
type RoomType string

const (
	RoomSupport         RoomType = "support"
	RoomGeneral         RoomType = "general"
	RoomJobSpecific     RoomType = "job_specific"
	RoomCompanyWide     RoomType = "company_wide"
	RoomConsultancyWide RoomType = "consultancy_wide"
)

// RoomRole is a participant's role within a room.
type RoomRole string

const (
	RoomMember    RoomRole = "member"
	RoomModerator RoomRole = "moderator"
	RoomAdmin     RoomRole = "admin"
)

// ChatRoom is a named group channel. Rooms are deactivated, never destroyed,
// and participant removal is soft.
type ChatRoom struct {
	ID                   int            `db:"id" json:"id"`
	Name                 string         `db:"name" json:"name"`
	Description          string         `db:"description" json:"description,omitempty"`
	RoomType             RoomType       `db:"room_type" json:"room_type"`
	CreatedBy            int            `db:"created_by" json:"created_by"`
	IsPublic             bool           `db:"is_public" json:"is_public"`
	IsActive             bool           `db:"is_active" json:"is_active"`
	AllowFileUploads     bool           `db:"allow_file_uploads" json:"allow_file_uploads"`
	MaxFileSize          int64          `db:"max_file_size" json:"max_file_size"`
	AllowedFileTypes     pq.StringArray `db:"allowed_file_types" json:"allowed_file_types"`
	MessageRetentionDays int            `db:"message_retention_days" json:"message_retention_days"`
	JobID                *int           `db:"job_id" json:"job_id,omitempty"`
	CompanyID            *int           `db:"company_id" json:"company_id,omitempty"`
	ConsultancyID        *int           `db:"consultancy_id" json:"consultancy_id,omitempty"`
	CreatedAt            time.Time      `db:"created_at" json:"created_at"`
}

// RoomParticipant is a member row of a chat room.
type RoomParticipant struct {
	RoomID   int       `db:"room_id" json:"room_id"`
	UserID   int       `db:"user_id" json:"user_id"`
	Role     RoomRole  `db:"role" json:"role"`
	JoinedAt time.Time `db:"joined_at" json:"joined_at"`
	LastSeen time.Time `db:"last_seen" json:"last_seen"`
	IsActive bool      `db:"is_active" json:"is_active"`
}

// RoomSettings carries optional settings at room creation.
type RoomSettings struct {
	AllowFileUploads     bool     `json:"allow_file_uploads"`
	MaxFileSize          int64    `json:"max_file_size"`
	AllowedFileTypes     []string `json:"allowed_file_types"`
	MessageRetentionDays int      `json:"message_retention_days"`
}
