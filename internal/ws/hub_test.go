package ws

import (
	"fmt"
	"sync"
	"testing"

	"jobboard-chat/internal/models"
)

func TestHubJoinAndLeave(t *testing.T) {
	hub := NewHub()
	client := NewClient(nil, ConnInfo{ConnID: "c1", UserID: 1})

	hub.Register(client)
	hub.Join(client, models.UserRoom(1))
	if hub.RoomSize(models.UserRoom(1)) != 1 {
		t.Fatalf("expected personal room to have one member")
	}

	hub.Leave(client, models.UserRoom(1))
	if hub.RoomSize(models.UserRoom(1)) != 0 {
		t.Fatalf("expected personal room to be empty")
	}
	if len(hub.rooms) != 0 {
		t.Fatalf("expected empty room to be dropped")
	}
}

func TestHubUnregisterLeavesAllRooms(t *testing.T) {
	hub := NewHub()
	client := NewClient(nil, ConnInfo{ConnID: "c1", UserID: 1})

	hub.Register(client)
	hub.Join(client, models.UserRoom(1))
	hub.Join(client, models.ConversationRoom(5))
	hub.Join(client, "jobseeker_room")

	hub.Unregister(client)
	if len(hub.rooms) != 0 {
		t.Fatalf("expected all rooms to be dropped, have %d", len(hub.rooms))
	}
	if len(hub.clientRooms) != 0 {
		t.Fatalf("expected client registry to be empty")
	}
}

func TestHubMultipleConnectionsSameUser(t *testing.T) {
	hub := NewHub()
	first := NewClient(nil, ConnInfo{ConnID: "c1", UserID: 1})
	second := NewClient(nil, ConnInfo{ConnID: "c2", UserID: 1})

	hub.Register(first)
	hub.Register(second)
	hub.Join(first, models.UserRoom(1))
	hub.Join(second, models.UserRoom(1))

	if hub.RoomSize(models.UserRoom(1)) != 2 {
		t.Fatalf("expected both connections in the personal room")
	}

	hub.Unregister(first)
	if hub.RoomSize(models.UserRoom(1)) != 1 {
		t.Fatalf("expected the second connection to survive")
	}
}

func TestHubJoinIsIdempotent(t *testing.T) {
	hub := NewHub()
	client := NewClient(nil, ConnInfo{ConnID: "c1", UserID: 1})

	hub.Register(client)
	hub.Join(client, models.ConversationRoom(5))
	hub.Join(client, models.ConversationRoom(5))

	if hub.RoomSize(models.ConversationRoom(5)) != 1 {
		t.Fatalf("expected a single membership")
	}
}

func TestHubLeaveUnknownRoomIsSafe(t *testing.T) {
	hub := NewHub()
	client := NewClient(nil, ConnInfo{ConnID: "c1", UserID: 1})

	hub.Register(client)
	hub.Leave(client, models.ConversationRoom(99))
	hub.Unregister(client)
}

func TestHubConcurrentMembership(t *testing.T) {
	hub := NewHub()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			client := NewClient(nil, ConnInfo{ConnID: fmt.Sprintf("c%d", i), UserID: i})
			hub.Register(client)
			hub.Join(client, "jobseeker_room")
			hub.Join(client, models.UserRoom(i))
			hub.RoomSize("jobseeker_room")
			hub.Leave(client, models.UserRoom(i))
			hub.Unregister(client)
		}(i)
	}
	wg.Wait()

	if len(hub.rooms) != 0 {
		t.Fatalf("expected no rooms after all clients left, have %d", len(hub.rooms))
	}
	if len(hub.clientRooms) != 0 {
		t.Fatalf("expected no registered clients, have %d", len(hub.clientRooms))
	}
}
