package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	grpcclient "jobboard-chat/internal/grpc"
	"jobboard-chat/internal/models"
	"jobboard-chat/internal/repositories"
	"jobboard-chat/internal/telemetry"
)

// RoomHandler manages chat-room endpoints.
type RoomHandler struct {
	roomRepo repositories.RoomRepository
	users    grpcclient.UserDirectory
	emitter  *telemetry.AuditEmitter
}

// NewRoomHandler builds a RoomHandler.
func NewRoomHandler(roomRepo repositories.RoomRepository, users grpcclient.UserDirectory, emitter *telemetry.AuditEmitter) *RoomHandler {
	return &RoomHandler{roomRepo: roomRepo, users: users, emitter: emitter}
}

func (h *RoomHandler) caller(c *gin.Context) (grpcclient.DirectoryUser, bool) {
	userID := c.GetInt("userID")
	user, err := h.users.GetUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, http.StatusBadGateway, "failed to resolve user")
		return grpcclient.DirectoryUser{}, false
	}
	return user, true
}

// ListRooms returns the rooms visible to the caller's role.
func (h *RoomHandler) ListRooms(c *gin.Context) {
	user, ok := h.caller(c)
	if !ok {
		return
	}

	rooms, err := h.roomRepo.ListForUser(c.Request.Context(), user.ID, user.Role)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to load rooms")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "rooms": rooms})
}

type createRoomRequest struct {
	Name        string              `json:"name" binding:"required"`
	Description string              `json:"description"`
	RoomType    models.RoomType     `json:"room_type" binding:"required"`
	IsPublic    *bool               `json:"is_public"`
	Settings    models.RoomSettings `json:"settings"`
	Metadata    struct {
		JobID         *int `json:"job_id"`
		CompanyID     *int `json:"company_id"`
		ConsultancyID *int `json:"consultancy_id"`
	} `json:"metadata"`
}

// CreateRoom creates a named group channel. Restricted to staff; the
// creator joins automatically as a room admin.
func (h *RoomHandler) CreateRoom(c *gin.Context) {
	user, ok := h.caller(c)
	if !ok {
		return
	}
	if !user.Role.IsStaff() {
		respondError(c, http.StatusForbidden, "admin access required")
		return
	}

	var req createRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	switch req.RoomType {
	case models.RoomSupport, models.RoomGeneral, models.RoomJobSpecific,
		models.RoomCompanyWide, models.RoomConsultancyWide:
	default:
		respondError(c, http.StatusBadRequest, "invalid room type")
		return
	}

	isPublic := true
	if req.IsPublic != nil {
		isPublic = *req.IsPublic
	}

	settings := req.Settings
	if settings.MaxFileSize == 0 {
		settings.MaxFileSize = 10 << 20
	}
	if settings.MessageRetentionDays == 0 {
		settings.MessageRetentionDays = 365
	}

	room, err := h.roomRepo.Create(c.Request.Context(), models.ChatRoom{
		Name:                 req.Name,
		Description:          req.Description,
		RoomType:             req.RoomType,
		CreatedBy:            user.ID,
		IsPublic:             isPublic,
		AllowFileUploads:     settings.AllowFileUploads,
		MaxFileSize:          settings.MaxFileSize,
		AllowedFileTypes:     settings.AllowedFileTypes,
		MessageRetentionDays: settings.MessageRetentionDays,
		JobID:                req.Metadata.JobID,
		CompanyID:            req.Metadata.CompanyID,
		ConsultancyID:        req.Metadata.ConsultancyID,
	})
	if err != nil {
		respondError(c, http.StatusInternalServerError, "could not create room")
		return
	}

	h.emitter.Emit(c.Request.Context(), "INFO",
		fmt.Sprintf("room %d created type=%s", room.ID, room.RoomType),
		requestIDFromContext(c), userIDFromContext(c))
	c.JSON(http.StatusCreated, gin.H{"success": true, "room": room})
}

// JoinRoom adds the caller to a room. Rejoining after removal reactivates
// the old membership.
func (h *RoomHandler) JoinRoom(c *gin.Context) {
	roomID, ok := paramInt(c, "room_id")
	if !ok {
		return
	}

	room, err := h.roomRepo.Get(c.Request.Context(), roomID)
	if err != nil {
		if errors.Is(err, repositories.ErrRoomNotFound) {
			respondError(c, http.StatusNotFound, "room not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "failed to load room")
		return
	}
	if !room.IsActive {
		respondError(c, http.StatusConflict, "room is not active")
		return
	}

	userID := c.GetInt("userID")
	if err := h.roomRepo.AddParticipant(c.Request.Context(), roomID, userID, models.RoomMember); err != nil {
		respondError(c, http.StatusInternalServerError, "could not join room")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// LeaveRoom soft-removes the caller from a room. Leaving a room the caller
// never joined resolves successfully.
func (h *RoomHandler) LeaveRoom(c *gin.Context) {
	roomID, ok := paramInt(c, "room_id")
	if !ok {
		return
	}

	userID := c.GetInt("userID")
	if err := h.roomRepo.RemoveParticipant(c.Request.Context(), roomID, userID); err != nil {
		respondError(c, http.StatusInternalServerError, "could not leave room")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
