package ws

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"jobboard-chat/internal/models"
	"jobboard-chat/internal/observability"
)

// Client is one gateway connection. Writes are serialized through a per
// connection mutex; gorilla connections do not allow concurrent writers.
type Client struct {
	Info ConnInfo

	conn *websocket.Conn
	mu   sync.Mutex
}

// NewClient wraps an upgraded connection.
func NewClient(conn *websocket.Conn, info ConnInfo) *Client {
	return &Client{conn: conn, Info: info}
}

// Send writes one event to the connection.
func (c *Client) Send(event models.GatewayEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, payload)
}

// Close tears the transport down.
func (c *Client) Close() error {
	return c.conn.Close()
}

// Hub maintains active gateway connections grouped into named broadcast
// rooms: personal rooms ("user:<id>"), role rooms ("admin_room", ...) and
// conversation rooms ("conversation:<id>").
type Hub struct {
	mu          sync.RWMutex
	rooms       map[string]map[*Client]bool
	clientRooms map[*Client]map[string]bool
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{
		rooms:       make(map[string]map[*Client]bool),
		clientRooms: make(map[*Client]map[string]bool),
	}
}

// Register adds a connection to the hub without any room membership.
func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clientRooms[client]; !ok {
		h.clientRooms[client] = make(map[string]bool)
	}
}

// Unregister removes a connection from every room it joined.
func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for room := range h.clientRooms[client] {
		h.removeLocked(room, client)
	}
	delete(h.clientRooms, client)
}

// Join subscribes a connection to a room. Multiple connections of the same
// user may join the same room concurrently.
func (h *Hub) Join(client *Client, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.rooms[room]; !ok {
		h.rooms[room] = make(map[*Client]bool)
	}
	h.rooms[room][client] = true
	if _, ok := h.clientRooms[client]; !ok {
		h.clientRooms[client] = make(map[string]bool)
	}
	h.clientRooms[client][room] = true
}

// Leave unsubscribes a connection from a room.
func (h *Hub) Leave(client *Client, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(room, client)
	delete(h.clientRooms[client], room)
}

func (h *Hub) removeLocked(room string, client *Client) {
	if members, ok := h.rooms[room]; ok {
		delete(members, client)
		if len(members) == 0 {
			delete(h.rooms, room)
		}
	}
}

// RoomSize reports the current member count of a room.
func (h *Hub) RoomSize(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}

// BroadcastToRoom sends an event to every member of a room.
func (h *Hub) BroadcastToRoom(room string, event models.GatewayEvent) {
	h.broadcast(room, nil, event)
}

// BroadcastToRoomExcept sends an event to every member of a room except one
// connection, used for typing indicators.
func (h *Hub) BroadcastToRoomExcept(room string, except *Client, event models.GatewayEvent) {
	h.broadcast(room, except, event)
}

// BroadcastAll sends an event to every registered connection.
func (h *Hub) BroadcastAll(event models.GatewayEvent) {
	h.mu.RLock()
	clients := make([]*Client, 0, len(h.clientRooms))
	for client := range h.clientRooms {
		clients = append(clients, client)
	}
	h.mu.RUnlock()

	for _, client := range clients {
		h.deliver(client, event)
	}
}

func (h *Hub) broadcast(room string, except *Client, event models.GatewayEvent) {
	h.mu.RLock()
	members := make([]*Client, 0, len(h.rooms[room]))
	for client := range h.rooms[room] {
		if client != except {
			members = append(members, client)
		}
	}
	h.mu.RUnlock()

	for _, client := range members {
		h.deliver(client, event)
	}
}

// deliver writes to one connection; a failed write closes and removes only
// that connection, never affecting the rest of the room.
func (h *Hub) deliver(client *Client, event models.GatewayEvent) {
	if err := client.Send(event); err != nil {
		log.Printf("websocket write error: %v", err)
		client.Close()
		h.Unregister(client)
		h.publishWSError(client, err)
	}
}

func (h *Hub) publishWSError(client *Client, err error) {
	info := client.Info
	payload := map[string]interface{}{
		"ws": map[string]interface{}{
			"event":       "ws_error",
			"conn_id":     info.ConnID,
			"duration_ms": time.Since(info.ConnectedAt).Milliseconds(),
			"reason":      err.Error(),
		},
		"identity": map[string]interface{}{
			"user_id":   info.UserID,
			"device_id": info.DeviceID,
			"ip":        info.IP,
		},
	}

	headers := observability.TraceHeaders(info.RequestID, info.TraceID)
	_ = observability.PublishEvent(context.Background(), "ws_events.gateway", observability.LifecycleEvent{
		Stream:  "ws_events",
		Name:    "ws_error",
		Payload: payload,
	}, headers)
	observability.IncWSEvent("ws_error")
}
