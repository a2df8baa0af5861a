package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	grpcclient "jobboard-chat/internal/grpc"
	"jobboard-chat/internal/models"
	"jobboard-chat/internal/observability"
	"jobboard-chat/internal/repositories"
	"jobboard-chat/internal/service"
	"jobboard-chat/internal/telemetry"
)

// ChatHandler manages conversation and message endpoints.
type ChatHandler struct {
	convRepo repositories.ConversationRepository
	msgRepo  repositories.MessageRepository
	messages *service.Messages
	users    grpcclient.UserDirectory
	emitter  *telemetry.AuditEmitter
}

// NewChatHandler builds a ChatHandler.
func NewChatHandler(convRepo repositories.ConversationRepository, msgRepo repositories.MessageRepository, messages *service.Messages, users grpcclient.UserDirectory, emitter *telemetry.AuditEmitter) *ChatHandler {
	return &ChatHandler{
		convRepo: convRepo,
		msgRepo:  msgRepo,
		messages: messages,
		users:    users,
		emitter:  emitter,
	}
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "message": message})
}

// caller resolves the authenticated user's directory record, including its
// role, and fails the request on directory errors.
func (h *ChatHandler) caller(c *gin.Context) (grpcclient.DirectoryUser, bool) {
	userID := c.GetInt("userID")
	user, err := h.users.GetUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, http.StatusBadGateway, "failed to resolve user")
		return grpcclient.DirectoryUser{}, false
	}
	return user, true
}

// ListConversations returns the caller's active conversations, restricted to
// the conversation types its role may see, with unread counts merged in.
func (h *ChatHandler) ListConversations(c *gin.Context) {
	user, ok := h.caller(c)
	if !ok {
		return
	}

	conversations, err := h.convRepo.ListForUser(c.Request.Context(), user.ID, user.Role)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to load conversations")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "conversations": conversations})
}

type createConversationRequest struct {
	Participants     []models.ParticipantRef     `json:"participants" binding:"required"`
	ConversationType models.ConversationType     `json:"conversation_type" binding:"required"`
	Subject          string                      `json:"subject"`
	Priority         models.ConversationPriority `json:"priority"`
	Tags             []string                    `json:"tags"`
	Metadata         struct {
		JobID         *int   `json:"job_id"`
		ApplicationID *int   `json:"application_id"`
		RelatedTo     string `json:"related_to"`
	} `json:"metadata"`
}

// CreateConversation finds or creates the active conversation for the exact
// participant set. Every participant is validated against the user directory
// before anything is written.
func (h *ChatHandler) CreateConversation(c *gin.Context) {
	var req createConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	if len(req.Participants) == 0 {
		respondError(c, http.StatusBadRequest, "participants must not be empty")
		return
	}

	ids := make([]int, 0, len(req.Participants))
	for _, p := range req.Participants {
		var employerType string
		if p.EmployerType != nil {
			employerType = string(*p.EmployerType)
		}
		if _, err := models.NewRole(string(p.UserType), employerType); err != nil {
			respondError(c, http.StatusBadRequest, err.Error())
			return
		}
		ids = append(ids, p.UserID)
	}

	known, err := h.users.BulkUsers(c.Request.Context(), ids)
	if err != nil {
		respondError(c, http.StatusBadGateway, "failed to validate participants")
		return
	}
	knownIDs := make(map[int]struct{}, len(known))
	for _, u := range known {
		knownIDs[u.ID] = struct{}{}
	}
	for _, id := range ids {
		if _, ok := knownIDs[id]; !ok {
			respondError(c, http.StatusNotFound, fmt.Sprintf("participant %d not found", id))
			return
		}
	}

	conv, created, err := h.convRepo.FindOrCreate(c.Request.Context(), req.Participants, req.ConversationType, models.ConversationOptions{
		Subject:       req.Subject,
		Priority:      req.Priority,
		Tags:          req.Tags,
		JobID:         req.Metadata.JobID,
		ApplicationID: req.Metadata.ApplicationID,
		RelatedTo:     req.Metadata.RelatedTo,
	})
	if err != nil {
		respondError(c, http.StatusInternalServerError, "could not create conversation")
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
		h.emitter.Emit(c.Request.Context(), "INFO",
			fmt.Sprintf("conversation %d created type=%s", conv.ID, conv.ConversationType),
			requestIDFromContext(c), userIDFromContext(c))
	}
	c.JSON(status, gin.H{"success": true, "conversation": conv, "created": created})
}

// GetConversationMessages returns a chronological page of non-deleted
// messages. Fetching a page marks the conversation read for the caller.
func (h *ChatHandler) GetConversationMessages(c *gin.Context) {
	conversationID, ok := paramInt(c, "conversation_id")
	if !ok {
		return
	}

	userID := c.GetInt("userID")
	conv, err := h.convRepo.Get(c.Request.Context(), conversationID)
	if err != nil {
		conversationErrorResponse(c, err)
		return
	}
	if !conv.HasActiveParticipant(userID) {
		respondError(c, http.StatusForbidden, "not a participant of this conversation")
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(repositories.DefaultMessagePageSize)))

	msgs, err := h.msgRepo.ListPage(c.Request.Context(), conversationID, page, limit)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to load messages")
		return
	}

	// The store returns newest-first; present the page chronologically.
	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}

	if err := h.convRepo.MarkAsRead(c.Request.Context(), conversationID, userID); err != nil {
		respondError(c, http.StatusInternalServerError, "failed to mark conversation read")
		return
	}

	senders, err := h.senderNames(c, msgs)
	if err != nil {
		respondError(c, http.StatusBadGateway, "failed to load senders")
		return
	}

	type messageResponse struct {
		models.Message
		SenderName string `json:"sender_name,omitempty"`
	}
	resp := make([]messageResponse, 0, len(msgs))
	for _, m := range msgs {
		resp = append(resp, messageResponse{Message: m, SenderName: senders[m.SenderID]})
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "messages": resp, "page": page, "limit": limit})
}

func (h *ChatHandler) senderNames(c *gin.Context, msgs []models.Message) (map[int]string, error) {
	senderIDs := make([]int, 0, len(msgs))
	seen := map[int]struct{}{}
	for _, m := range msgs {
		if _, ok := seen[m.SenderID]; !ok {
			seen[m.SenderID] = struct{}{}
			senderIDs = append(senderIDs, m.SenderID)
		}
	}

	users, err := h.users.BulkUsers(c.Request.Context(), senderIDs)
	if err != nil {
		return nil, err
	}
	names := make(map[int]string, len(users))
	for _, u := range users {
		names[u.ID] = u.FirstName + " " + u.LastName
	}
	return names, nil
}

type postMessageRequest struct {
	Content string `json:"content" binding:"required"`
	ReplyTo *int   `json:"reply_to"`
}

// PostConversationMessage stores a message and fans it out to connected
// clients through the shared send path.
func (h *ChatHandler) PostConversationMessage(c *gin.Context) {
	conversationID, ok := paramInt(c, "conversation_id")
	if !ok {
		return
	}

	var req postMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	userID := c.GetInt("userID")
	meta := models.RequestMeta{
		IPAddress: observability.ClientIP(c.Request),
		UserAgent: c.Request.UserAgent(),
	}

	msg, err := h.messages.Send(c.Request.Context(), conversationID, userID, req.Content, req.ReplyTo, meta)
	if err != nil {
		sendErrorResponse(c, err)
		return
	}

	observability.IncMessageSent("rest")
	c.JSON(http.StatusCreated, gin.H{"success": true, "message": msg})
}

// MarkConversationRead resets the caller's unread counter. Idempotent.
func (h *ChatHandler) MarkConversationRead(c *gin.Context) {
	conversationID, ok := paramInt(c, "conversation_id")
	if !ok {
		return
	}

	userID := c.GetInt("userID")
	if err := h.messages.MarkConversationRead(c.Request.Context(), conversationID, userID); err != nil {
		sendErrorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// MarkMessageRead records a read receipt for the caller on one message.
func (h *ChatHandler) MarkMessageRead(c *gin.Context) {
	conversationID, messageID, ok := paramIDs(c)
	if !ok {
		return
	}

	userID := c.GetInt("userID")
	conv, err := h.convRepo.Get(c.Request.Context(), conversationID)
	if err != nil {
		conversationErrorResponse(c, err)
		return
	}
	if !conv.HasActiveParticipant(userID) {
		respondError(c, http.StatusForbidden, "not a participant of this conversation")
		return
	}

	msg, err := h.msgRepo.Get(c.Request.Context(), messageID)
	if err != nil {
		messageErrorResponse(c, err)
		return
	}
	if msg.ConversationID != conversationID {
		respondError(c, http.StatusBadRequest, "message does not belong to conversation")
		return
	}

	if err := h.msgRepo.MarkRead(c.Request.Context(), messageID, userID); err != nil {
		respondError(c, http.StatusInternalServerError, "failed to mark message read")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

type editMessageRequest struct {
	Content string `json:"content" binding:"required"`
}

// EditMessage replaces the content of the caller's own message.
func (h *ChatHandler) EditMessage(c *gin.Context) {
	_, messageID, ok := paramIDs(c)
	if !ok {
		return
	}

	var req editMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	userID := c.GetInt("userID")
	msg, err := h.messages.Edit(c.Request.Context(), messageID, userID, req.Content)
	if err != nil {
		sendErrorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": msg})
}

// DeleteMessage soft-deletes a message. The record survives with its content
// intact; it is only excluded from listings.
func (h *ChatHandler) DeleteMessage(c *gin.Context) {
	_, messageID, ok := paramIDs(c)
	if !ok {
		return
	}

	user, ok := h.caller(c)
	if !ok {
		return
	}

	if err := h.messages.SoftDelete(c.Request.Context(), messageID, user.ID, user.Role); err != nil {
		sendErrorResponse(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type setStatusRequest struct {
	Status models.ConversationStatus `json:"status" binding:"required"`
}

// SetConversationStatus moves a conversation to closed or archived. Staff
// only; conversations are never deleted.
func (h *ChatHandler) SetConversationStatus(c *gin.Context) {
	conversationID, ok := paramInt(c, "conversation_id")
	if !ok {
		return
	}

	user, ok := h.caller(c)
	if !ok {
		return
	}
	if !user.Role.IsStaff() {
		respondError(c, http.StatusForbidden, "admin access required")
		return
	}

	var req setStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	switch req.Status {
	case models.ConversationActive, models.ConversationClosed, models.ConversationArchived:
	default:
		respondError(c, http.StatusBadRequest, "invalid status")
		return
	}

	if err := h.convRepo.SetStatus(c.Request.Context(), conversationID, req.Status); err != nil {
		conversationErrorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ListChatPartners returns the directory users the caller's role may open
// conversations with.
func (h *ChatHandler) ListChatPartners(c *gin.Context) {
	user, ok := h.caller(c)
	if !ok {
		return
	}

	partners, err := h.users.ListPartners(c.Request.Context(), user.Role, c.Query("search"))
	if err != nil {
		respondError(c, http.StatusBadGateway, "failed to load chat partners")
		return
	}

	// The caller is not a partner of itself.
	filtered := partners[:0]
	for _, p := range partners {
		if p.ID != user.ID {
			filtered = append(filtered, p)
		}
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "partners": filtered})
}

func paramInt(c *gin.Context, name string) (int, bool) {
	value, err := strconv.Atoi(c.Param(name))
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid "+name)
		return 0, false
	}
	return value, true
}

func paramIDs(c *gin.Context) (int, int, bool) {
	conversationID, ok := paramInt(c, "conversation_id")
	if !ok {
		return 0, 0, false
	}
	messageID, ok := paramInt(c, "message_id")
	if !ok {
		return 0, 0, false
	}
	return conversationID, messageID, true
}

func conversationErrorResponse(c *gin.Context, err error) {
	if errors.Is(err, repositories.ErrConversationNotFound) {
		respondError(c, http.StatusNotFound, "conversation not found")
		return
	}
	respondError(c, http.StatusInternalServerError, "failed to load conversation")
}

func messageErrorResponse(c *gin.Context, err error) {
	if errors.Is(err, repositories.ErrMessageNotFound) {
		respondError(c, http.StatusNotFound, "message not found")
		return
	}
	respondError(c, http.StatusInternalServerError, "failed to load message")
}

func sendErrorResponse(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repositories.ErrConversationNotFound):
		respondError(c, http.StatusNotFound, "conversation not found")
	case errors.Is(err, repositories.ErrMessageNotFound):
		respondError(c, http.StatusNotFound, "message not found")
	case errors.Is(err, service.ErrNotParticipant):
		respondError(c, http.StatusForbidden, "not a participant of this conversation")
	case errors.Is(err, service.ErrNotMessageSender):
		respondError(c, http.StatusForbidden, "only the sender may modify this message")
	case errors.Is(err, service.ErrNotDeletable):
		respondError(c, http.StatusForbidden, "not allowed to delete this message")
	case errors.Is(err, service.ErrEmptyContent), errors.Is(err, service.ErrContentTooLong):
		respondError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrConversationClosed):
		respondError(c, http.StatusConflict, "conversation is not active")
	default:
		respondError(c, http.StatusInternalServerError, "request failed")
	}
}
