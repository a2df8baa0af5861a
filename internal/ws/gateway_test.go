package ws

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"

	grpcclient "jobboard-chat/internal/grpc"
	"jobboard-chat/internal/mocks"
	"jobboard-chat/internal/models"
	"jobboard-chat/internal/repositories"
	"jobboard-chat/internal/service"
	authpb "jobboard-chat/pb/auth"
)

type staticAuthService struct {
	userID int64
}

func (s staticAuthService) ValidateToken(ctx context.Context, in *authpb.ValidateTokenRequest, opts ...grpc.CallOption) (*authpb.ValidateTokenResponse, error) {
	return &authpb.ValidateTokenResponse{Valid: true, UserId: s.userID}, nil
}

// Store calls made by socket events must run on a connection-lifetime
// context, not the handshake request's, which net/http cancels as soon as
// the upgrade handler returns.
func TestGatewayEventsOutliveHandshakeRequest(t *testing.T) {
	gin.SetMode(gin.TestMode)

	convRepo := new(mocks.ConversationRepositoryMock)
	msgRepo := new(mocks.MessageRepositoryMock)
	users := new(mocks.UserDirectoryMock)

	conv := models.Conversation{
		ID:     5,
		Status: models.ConversationActive,
		Participants: []models.Participant{
			{ConversationID: 5, UserID: 1, IsActive: true},
			{ConversationID: 5, UserID: 2, IsActive: true},
		},
	}

	storeCtxErrs := make(chan error, 4)
	convRepo.On("Get", mock.Anything, 5).Run(func(args mock.Arguments) {
		storeCtxErrs <- args.Get(0).(context.Context).Err()
	}).Return(conv, nil)
	msgRepo.On("Create", mock.Anything, 5, 1, "hello", models.MessageText, (*int)(nil), mock.Anything).
		Return(models.Message{ID: 10, ConversationID: 5, SenderID: 1, Content: "hello"}, nil).Once()
	convRepo.On("UpdateLastMessage", mock.Anything, 5, "hello", 1, mock.Anything).Return(nil).Once()
	convRepo.On("IncrementUnreadOthers", mock.Anything, 5, 1).
		Return([]repositories.UnreadEntry(nil), nil).Once()
	users.On("GetUser", mock.Anything, 1).Return(grpcclient.DirectoryUser{
		ID:       1,
		Role:     models.Role{Type: models.UserTypeJobseeker},
		IsActive: true,
	}, nil).Once()

	hub := NewHub()
	messages := service.NewMessages(convRepo, msgRepo, hub)
	gateway := NewGateway(hub, convRepo, messages, grpcclient.NewAuthClient(staticAuthService{userID: 1}), users)

	router := gin.New()
	router.GET("/ws", gateway.Handle)
	srv := httptest.NewServer(router)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?token=credential"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	// Let the upgrade handler return so its request context is canceled.
	time.Sleep(300 * time.Millisecond)

	require.NoError(t, conn.WriteJSON(models.ClientEvent{Type: models.EventJoinConversation, ConversationID: 5}))
	require.NoError(t, conn.WriteJSON(models.ClientEvent{Type: models.EventSendMessage, ConversationID: 5, Content: "hello"}))

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var event models.GatewayEvent
	require.NoError(t, conn.ReadJSON(&event))
	require.Equal(t, models.EventNewMessage, event.Type, "got %+v instead of a delivered message", event)
	require.NotNil(t, event.Message)
	assert.Equal(t, "hello", event.Message.Content)

	for len(storeCtxErrs) > 0 {
		assert.NoError(t, <-storeCtxErrs, "store saw a dead context")
	}
	msgRepo.AssertExpectations(t)
}
