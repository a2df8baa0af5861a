package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	grpcclient "jobboard-chat/internal/grpc"
	"jobboard-chat/internal/models"
	"jobboard-chat/internal/repositories"
)

type ConversationRepositoryMock struct {
	mock.Mock
}

func (m *ConversationRepositoryMock) FindOrCreate(ctx context.Context, participants []models.ParticipantRef, convType models.ConversationType, opts models.ConversationOptions) (models.Conversation, bool, error) {
	args := m.Called(ctx, participants, convType, opts)
	var conv models.Conversation
	if val := args.Get(0); val != nil {
		conv = val.(models.Conversation)
	}
	return conv, args.Bool(1), args.Error(2)
}

func (m *ConversationRepositoryMock) Get(ctx context.Context, conversationID int) (models.Conversation, error) {
	args := m.Called(ctx, conversationID)
	var conv models.Conversation
	if val := args.Get(0); val != nil {
		conv = val.(models.Conversation)
	}
	return conv, args.Error(1)
}

func (m *ConversationRepositoryMock) ListForUser(ctx context.Context, userID int, role models.Role) ([]models.ConversationSummary, error) {
	args := m.Called(ctx, userID, role)
	var list []models.ConversationSummary
	if val := args.Get(0); val != nil {
		list = val.([]models.ConversationSummary)
	}
	return list, args.Error(1)
}

func (m *ConversationRepositoryMock) MarkAsRead(ctx context.Context, conversationID int, userID int) error {
	args := m.Called(ctx, conversationID, userID)
	return args.Error(0)
}

func (m *ConversationRepositoryMock) IncrementUnreadOthers(ctx context.Context, conversationID int, senderID int) ([]repositories.UnreadEntry, error) {
	args := m.Called(ctx, conversationID, senderID)
	var entries []repositories.UnreadEntry
	if val := args.Get(0); val != nil {
		entries = val.([]repositories.UnreadEntry)
	}
	return entries, args.Error(1)
}

func (m *ConversationRepositoryMock) UpdateLastMessage(ctx context.Context, conversationID int, content string, senderID int, at time.Time) error {
	args := m.Called(ctx, conversationID, content, senderID, at)
	return args.Error(0)
}

func (m *ConversationRepositoryMock) SetStatus(ctx context.Context, conversationID int, status models.ConversationStatus) error {
	args := m.Called(ctx, conversationID, status)
	return args.Error(0)
}

type MessageRepositoryMock struct {
	mock.Mock
}

func (m *MessageRepositoryMock) Create(ctx context.Context, conversationID int, senderID int, content string, msgType models.MessageType, replyTo *int, meta models.RequestMeta) (models.Message, error) {
	args := m.Called(ctx, conversationID, senderID, content, msgType, replyTo, meta)
	var msg models.Message
	if val := args.Get(0); val != nil {
		msg = val.(models.Message)
	}
	return msg, args.Error(1)
}

func (m *MessageRepositoryMock) ListPage(ctx context.Context, conversationID int, page int, limit int) ([]models.Message, error) {
	args := m.Called(ctx, conversationID, page, limit)
	var msgs []models.Message
	if val := args.Get(0); val != nil {
		msgs = val.([]models.Message)
	}
	return msgs, args.Error(1)
}

func (m *MessageRepositoryMock) Get(ctx context.Context, messageID int) (models.Message, error) {
	args := m.Called(ctx, messageID)
	var msg models.Message
	if val := args.Get(0); val != nil {
		msg = val.(models.Message)
	}
	return msg, args.Error(1)
}

func (m *MessageRepositoryMock) MarkRead(ctx context.Context, messageID int, userID int) error {
	args := m.Called(ctx, messageID, userID)
	return args.Error(0)
}

func (m *MessageRepositoryMock) Edit(ctx context.Context, messageID int, senderID int, content string) (models.Message, error) {
	args := m.Called(ctx, messageID, senderID, content)
	var msg models.Message
	if val := args.Get(0); val != nil {
		msg = val.(models.Message)
	}
	return msg, args.Error(1)
}

func (m *MessageRepositoryMock) SoftDelete(ctx context.Context, messageID int, byUserID int) error {
	args := m.Called(ctx, messageID, byUserID)
	return args.Error(0)
}

type RoomRepositoryMock struct {
	mock.Mock
}

func (m *RoomRepositoryMock) Create(ctx context.Context, room models.ChatRoom) (models.ChatRoom, error) {
	args := m.Called(ctx, room)
	var created models.ChatRoom
	if val := args.Get(0); val != nil {
		created = val.(models.ChatRoom)
	}
	return created, args.Error(1)
}

func (m *RoomRepositoryMock) Get(ctx context.Context, roomID int) (models.ChatRoom, error) {
	args := m.Called(ctx, roomID)
	var room models.ChatRoom
	if val := args.Get(0); val != nil {
		room = val.(models.ChatRoom)
	}
	return room, args.Error(1)
}

func (m *RoomRepositoryMock) ListForUser(ctx context.Context, userID int, role models.Role) ([]models.ChatRoom, error) {
	args := m.Called(ctx, userID, role)
	var rooms []models.ChatRoom
	if val := args.Get(0); val != nil {
		rooms = val.([]models.ChatRoom)
	}
	return rooms, args.Error(1)
}

func (m *RoomRepositoryMock) AddParticipant(ctx context.Context, roomID int, userID int, roomRole models.RoomRole) error {
	args := m.Called(ctx, roomID, userID, roomRole)
	return args.Error(0)
}

func (m *RoomRepositoryMock) RemoveParticipant(ctx context.Context, roomID int, userID int) error {
	args := m.Called(ctx, roomID, userID)
	return args.Error(0)
}

func (m *RoomRepositoryMock) IsParticipant(ctx context.Context, roomID int, userID int) (bool, error) {
	args := m.Called(ctx, roomID, userID)
	return args.Bool(0), args.Error(1)
}

type UserDirectoryMock struct {
	mock.Mock
}

func (m *UserDirectoryMock) GetUser(ctx context.Context, userID int) (grpcclient.DirectoryUser, error) {
	args := m.Called(ctx, userID)
	var user grpcclient.DirectoryUser
	if val := args.Get(0); val != nil {
		user = val.(grpcclient.DirectoryUser)
	}
	return user, args.Error(1)
}

func (m *UserDirectoryMock) BulkUsers(ctx context.Context, ids []int) ([]grpcclient.DirectoryUser, error) {
	args := m.Called(ctx, ids)
	var users []grpcclient.DirectoryUser
	if val := args.Get(0); val != nil {
		users = val.([]grpcclient.DirectoryUser)
	}
	return users, args.Error(1)
}

func (m *UserDirectoryMock) ListPartners(ctx context.Context, role models.Role, search string) ([]grpcclient.DirectoryUser, error) {
	args := m.Called(ctx, role, search)
	var users []grpcclient.DirectoryUser
	if val := args.Get(0); val != nil {
		users = val.([]grpcclient.DirectoryUser)
	}
	return users, args.Error(1)
}

type BroadcasterMock struct {
	mock.Mock
}

func (m *BroadcasterMock) BroadcastToRoom(room string, event models.GatewayEvent) {
	m.Called(room, event)
}

var _ repositories.ConversationRepository = (*ConversationRepositoryMock)(nil)
var _ repositories.MessageRepository = (*MessageRepositoryMock)(nil)
var _ repositories.RoomRepository = (*RoomRepositoryMock)(nil)
var _ grpcclient.UserDirectory = (*UserDirectoryMock)(nil)
