package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"jobboard-chat/internal/models"
)

var ErrRoomNotFound = errors.New("room not found")

// RoomRepository abstracts chat-room persistence.
type RoomRepository interface {
	Create(ctx context.Context, room models.ChatRoom) (models.ChatRoom, error)
	Get(ctx context.Context, roomID int) (models.ChatRoom, error)
	ListForUser(ctx context.Context, userID int, role models.Role) ([]models.ChatRoom, error)
	AddParticipant(ctx context.Context, roomID int, userID int, roomRole models.RoomRole) error
	RemoveParticipant(ctx context.Context, roomID int, userID int) error
	IsParticipant(ctx context.Context, roomID int, userID int) (bool, error)
}

// RoomRepo is a sqlx implementation of RoomRepository.
type RoomRepo struct {
	db *sqlx.DB
}

// NewRoomRepo constructs a RoomRepo.
func NewRoomRepo(db *sqlx.DB) *RoomRepo {
	return &RoomRepo{db: db}
}

const roomColumns = `id, name, description, room_type, created_by, is_public, is_active,
    allow_file_uploads, max_file_size, allowed_file_types, message_retention_days,
    job_id, company_id, consultancy_id, created_at`

// Create inserts a room and its creator as an admin participant atomically.
func (r *RoomRepo) Create(ctx context.Context, room models.ChatRoom) (models.ChatRoom, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return models.ChatRoom{}, err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	var created models.ChatRoom
	if err = tx.GetContext(ctx, &created, `
        INSERT INTO chat_rooms
            (name, description, room_type, created_by, is_public,
             allow_file_uploads, max_file_size, allowed_file_types, message_retention_days,
             job_id, company_id, consultancy_id)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
        RETURNING `+roomColumns,
		room.Name, room.Description, room.RoomType, room.CreatedBy, room.IsPublic,
		room.AllowFileUploads, room.MaxFileSize, room.AllowedFileTypes, room.MessageRetentionDays,
		room.JobID, room.CompanyID, room.ConsultancyID); err != nil {
		return models.ChatRoom{}, err
	}

	if _, err = tx.ExecContext(ctx, `
        INSERT INTO chat_room_participants (room_id, user_id, role)
        VALUES ($1, $2, 'admin')`, created.ID, room.CreatedBy); err != nil {
		return models.ChatRoom{}, err
	}

	if err = tx.Commit(); err != nil {
		return models.ChatRoom{}, err
	}
	return created, nil
}

// Get fetches a room by id.
func (r *RoomRepo) Get(ctx context.Context, roomID int) (models.ChatRoom, error) {
	var room models.ChatRoom
	err := r.db.GetContext(ctx, &room,
		`SELECT `+roomColumns+` FROM chat_rooms WHERE id=$1`, roomID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.ChatRoom{}, ErrRoomNotFound
	}
	return room, err
}

// ListForUser returns the active rooms visible to the user. Staff see every
// active room; jobseekers and employers see rooms they actively belong to
// whose type their role allows, employers additionally any room scoped to
// their own company or consultancy id.
func (r *RoomRepo) ListForUser(ctx context.Context, userID int, role models.Role) ([]models.ChatRoom, error) {
	var rooms []models.ChatRoom

	if role.IsStaff() {
		err := r.db.SelectContext(ctx, &rooms,
			`SELECT `+roomColumns+` FROM chat_rooms WHERE is_active ORDER BY created_at DESC`)
		return rooms, err
	}

	allowed := role.RoomTypes()
	types := make([]string, 0, len(allowed))
	for _, t := range allowed {
		types = append(types, string(t))
	}

	query := `
        SELECT ` + roomColumns + ` FROM chat_rooms r
        WHERE r.is_active
          AND EXISTS (
            SELECT 1 FROM chat_room_participants p
            WHERE p.room_id = r.id AND p.user_id = $1 AND p.is_active
          )
          AND r.room_type = ANY($2)
        ORDER BY r.created_at DESC`
	args := []interface{}{userID, pq.Array(types)}

	if role.Type == models.UserTypeEmployer {
		scopeColumn := "r.company_id"
		if role.EmployerType == models.EmployerTypeConsultancy {
			scopeColumn = "r.consultancy_id"
		}
		query = `
        SELECT ` + roomColumns + ` FROM chat_rooms r
        WHERE r.is_active
          AND EXISTS (
            SELECT 1 FROM chat_room_participants p
            WHERE p.room_id = r.id AND p.user_id = $1 AND p.is_active
          )
          AND (r.room_type = ANY($2) OR ` + scopeColumn + ` = $3)
        ORDER BY r.created_at DESC`
		args = append(args, userID)
	}

	err := r.db.SelectContext(ctx, &rooms, query, args...)
	return rooms, err
}

// AddParticipant joins a user to a room. A previously removed participant is
// reactivated with its last_seen refreshed and its existing role kept.
func (r *RoomRepo) AddParticipant(ctx context.Context, roomID int, userID int, roomRole models.RoomRole) error {
	if roomRole == "" {
		roomRole = models.RoomMember
	}
	_, err := r.db.ExecContext(ctx, `
        INSERT INTO chat_room_participants (room_id, user_id, role)
        VALUES ($1, $2, $3)
        ON CONFLICT (room_id, user_id)
        DO UPDATE SET is_active = TRUE, last_seen = NOW()`,
		roomID, userID, roomRole)
	return err
}

// RemoveParticipant soft-deactivates a room membership. Removing a user who
// was never a participant resolves successfully.
func (r *RoomRepo) RemoveParticipant(ctx context.Context, roomID int, userID int) error {
	_, err := r.db.ExecContext(ctx, `
        UPDATE chat_room_participants SET is_active = FALSE
        WHERE room_id=$1 AND user_id=$2`, roomID, userID)
	return err
}

// IsParticipant checks active membership.
func (r *RoomRepo) IsParticipant(ctx context.Context, roomID int, userID int) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `
        SELECT EXISTS(
            SELECT 1 FROM chat_room_participants
            WHERE room_id=$1 AND user_id=$2 AND is_active
        )`, roomID, userID)
	return exists, err
}
