package ws

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel"

	grpcclient "jobboard-chat/internal/grpc"
	"jobboard-chat/internal/models"
	"jobboard-chat/internal/observability"
	"jobboard-chat/internal/repositories"
	"jobboard-chat/internal/service"
)

// Gateway authenticates websocket connections, assigns them to broadcast
// rooms and relays message/typing/presence events.
type Gateway struct {
	hub        *Hub
	convRepo   repositories.ConversationRepository
	messages   *service.Messages
	authClient *grpcclient.AuthClient
	users      grpcclient.UserDirectory
}

// NewGateway constructs a Gateway.
func NewGateway(hub *Hub, convRepo repositories.ConversationRepository, messages *service.Messages, authClient *grpcclient.AuthClient, users grpcclient.UserDirectory) *Gateway {
	return &Gateway{hub: hub, convRepo: convRepo, messages: messages, authClient: authClient, users: users}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Handle upgrades the connection, authenticates it against the user
// directory and starts the per-connection event loop. A failed handshake is
// rejected before the upgrade; no events are processed for it.
func (g *Gateway) Handle(c *gin.Context) {
	ctx, span := otel.Tracer("jobboard-chat/ws").Start(c.Request.Context(), "ws.handshake")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	token := c.GetHeader("Authorization")
	if token == "" {
		token = c.Query("token")
		if token != "" {
			token = "Bearer " + token
		}
	}

	userID, err := g.validateToken(c.Request.Context(), token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	user, err := g.users.GetUser(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unknown user"})
		return
	}
	if !user.IsActive {
		c.JSON(http.StatusForbidden, gin.H{"error": "user is inactive"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	traceID := span.SpanContext().TraceID().String()
	requestID := observability.RequestID(c.Request)
	client := NewClient(conn, ConnInfo{
		ConnID:      newConnID(),
		UserID:      userID,
		Role:        user.Role,
		DeviceID:    observability.DeviceID(c.Request),
		IP:          observability.ClientIP(c.Request),
		UserAgent:   c.Request.UserAgent(),
		RequestID:   requestID,
		TraceID:     traceID,
		ConnectedAt: time.Now(),
	})

	g.hub.Register(client)
	g.hub.Join(client, models.UserRoom(userID))
	for _, room := range user.Role.GatewayRooms() {
		g.hub.Join(client, room)
	}

	observability.IncWSActive()
	observability.IncWSEvent("ws_connect")
	g.publishLifecycleEvent(ctx, client, "ws_connect", "")

	// The request context dies when this handler returns, but the
	// connection outlives it. The read loop gets a connection-lifetime
	// context that keeps the request's trace values.
	go g.readLoop(context.WithoutCancel(ctx), client)
}

func (g *Gateway) readLoop(ctx context.Context, client *Client) {
	var closeReason string
	defer func() {
		g.hub.Unregister(client)
		client.Close()
		observability.DecWSActive()
		observability.IncWSEvent("ws_disconnect")
		g.publishLifecycleEvent(ctx, client, "ws_disconnect", closeReason)
		g.hub.BroadcastAll(models.GatewayEvent{
			Type:   models.EventUserOffline,
			UserID: client.Info.UserID,
		})
	}()

	for {
		var event models.ClientEvent
		if err := client.conn.ReadJSON(&event); err != nil {
			closeReason = err.Error()
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				observability.IncWSEvent("ws_error")
				g.publishLifecycleEvent(ctx, client, "ws_error", closeReason)
			}
			return
		}
		g.dispatch(ctx, client, event)
	}
}

// dispatch handles one client event. A panic or error in one handler is
// contained to the originating connection.
func (g *Gateway) dispatch(ctx context.Context, client *Client, event models.ClientEvent) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("gateway event %q panicked for conn %s: %v", event.Type, client.Info.ConnID, r)
			_ = client.Send(models.NewErrorEvent("internal error"))
		}
	}()

	switch event.Type {
	case models.EventJoinConversation:
		g.handleJoin(ctx, client, event.ConversationID)
	case models.EventLeaveConversation:
		g.hub.Leave(client, models.ConversationRoom(event.ConversationID))
	case models.EventSendMessage:
		g.handleSend(ctx, client, event)
	case models.EventTypingStart:
		g.handleTyping(client, event.ConversationID, models.EventUserTyping)
	case models.EventTypingStop:
		g.handleTyping(client, event.ConversationID, models.EventUserStoppedTyping)
	case models.EventUpdateStatus:
		g.hub.BroadcastAll(models.GatewayEvent{
			Type:   models.EventUserStatusUpdate,
			UserID: client.Info.UserID,
			Status: event.Status,
		})
	default:
		_ = client.Send(models.NewErrorEvent(fmt.Sprintf("unknown event type %q", event.Type)))
	}
}

func (g *Gateway) handleJoin(ctx context.Context, client *Client, conversationID int) {
	conv, err := g.convRepo.Get(ctx, conversationID)
	if err != nil {
		if errors.Is(err, repositories.ErrConversationNotFound) {
			_ = client.Send(models.NewErrorEvent("conversation not found"))
			return
		}
		_ = client.Send(models.NewErrorEvent("failed to load conversation"))
		return
	}
	if !conv.HasActiveParticipant(client.Info.UserID) {
		_ = client.Send(models.NewErrorEvent("not a participant of this conversation"))
		return
	}
	g.hub.Join(client, models.ConversationRoom(conversationID))
}

func (g *Gateway) handleSend(ctx context.Context, client *Client, event models.ClientEvent) {
	meta := models.RequestMeta{IPAddress: client.Info.IP, UserAgent: client.Info.UserAgent}
	_, err := g.messages.Send(ctx, event.ConversationID, client.Info.UserID, event.Content, event.ReplyTo, meta)
	if err != nil {
		// Scoped to the sender only; other participants see nothing.
		_ = client.Send(models.NewErrorEvent(sendErrorMessage(err)))
		return
	}
	observability.IncMessageSent("ws")
}

// handleTyping relays fire-and-forget typing indicators to the other members
// of the conversation room. Nothing is persisted.
func (g *Gateway) handleTyping(client *Client, conversationID int, eventType string) {
	g.hub.BroadcastToRoomExcept(models.ConversationRoom(conversationID), client, models.GatewayEvent{
		Type:           eventType,
		ConversationID: conversationID,
		UserID:         client.Info.UserID,
	})
}

func sendErrorMessage(err error) string {
	switch {
	case errors.Is(err, repositories.ErrConversationNotFound):
		return "conversation not found"
	case errors.Is(err, service.ErrNotParticipant):
		return "not a participant of this conversation"
	case errors.Is(err, service.ErrEmptyContent):
		return "message content is empty"
	case errors.Is(err, service.ErrContentTooLong):
		return "message content is too long"
	case errors.Is(err, service.ErrConversationClosed):
		return "conversation is not active"
	default:
		return "failed to send message"
	}
}

func (g *Gateway) publishLifecycleEvent(ctx context.Context, client *Client, name string, reason string) {
	info := client.Info
	_ = observability.PublishEvent(ctx, "ws_events.gateway", observability.LifecycleEvent{
		Stream: "ws_events",
		Name:   name,
		Payload: map[string]interface{}{
			"ws": map[string]interface{}{
				"event":       name,
				"conn_id":     info.ConnID,
				"duration_ms": time.Since(info.ConnectedAt).Milliseconds(),
				"reason":      reason,
			},
			"identity": map[string]interface{}{
				"user_id":   info.UserID,
				"device_id": info.DeviceID,
				"ip":        info.IP,
			},
		},
	}, observability.TraceHeaders(info.RequestID, info.TraceID))
}

func (g *Gateway) validateToken(ctx context.Context, header string) (int, error) {
	parts := strings.Split(header, " ")
	if len(parts) == 2 {
		return g.authClient.ValidateToken(ctx, parts[1])
	}
	return 0, fmt.Errorf("invalid token")
}
