package models

import "strconv"

// UserRoom names the personal broadcast group of a user, used for direct
// notification targeting.
func UserRoom(userID int) string {
	return "user:" + strconv.Itoa(userID)
}

// ConversationRoom names the broadcast group of a conversation.
func ConversationRoom(conversationID int) string {
	return "conversation:" + strconv.Itoa(conversationID)
}

// Client-to-server gateway event types.
const (
	EventJoinConversation  = "join_conversation"
	EventLeaveConversation = "leave_conversation"
	EventSendMessage       = "send_message"
	EventTypingStart       = "typing_start"
	EventTypingStop        = "typing_stop"
	EventUpdateStatus      = "update_status"
)

// Server-to-client gateway event types.
const (
	EventNewMessage          = "new_message"
	EventMessageNotification = "message_notification"
	EventUserTyping          = "user_typing"
	EventUserStoppedTyping   = "user_stopped_typing"
	EventUserStatusUpdate    = "user_status_update"
	EventUserOffline         = "user_offline"
	EventError               = "error"
)

// ClientEvent is the envelope read from gateway connections.
type ClientEvent struct {
	Type           string `json:"type"`
	ConversationID int    `json:"conversation_id,omitempty"`
	Content        string `json:"content,omitempty"`
	ReplyTo        *int   `json:"reply_to,omitempty"`
	Status         string `json:"status,omitempty"`
}

// GatewayEvent is the envelope written to gateway connections.
type GatewayEvent struct {
	Type           string   `json:"type"`
	ConversationID int      `json:"conversation_id,omitempty"`
	Message        *Message `json:"message,omitempty"`
	UnreadCount    int      `json:"unread_count,omitempty"`
	UserID         int      `json:"user_id,omitempty"`
	Status         string   `json:"status,omitempty"`
	Error          string   `json:"error,omitempty"`
}

// NewErrorEvent builds a scoped error event for a single connection.
func NewErrorEvent(message string) GatewayEvent {
	return GatewayEvent{Type: EventError, Error: message}
}
