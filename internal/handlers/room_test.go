package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"jobboard-chat/internal/mocks"
	"jobboard-chat/internal/models"
	"jobboard-chat/internal/repositories"
)

func setupRoomRouter(handler *RoomHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("userID", 1)
		c.Next()
	})
	r.GET("/rooms", handler.ListRooms)
	r.POST("/rooms", handler.CreateRoom)
	r.POST("/rooms/:room_id/join", handler.JoinRoom)
	r.POST("/rooms/:room_id/leave", handler.LeaveRoom)
	return r
}

func TestListRoomsSuccess(t *testing.T) {
	roomRepo := new(mocks.RoomRepositoryMock)
	users := new(mocks.UserDirectoryMock)
	handler := NewRoomHandler(roomRepo, users, nil)
	router := setupRoomRouter(handler)

	users.On("GetUser", mock.Anything, 1).Return(jobseekerUser(1), nil).Once()
	roomRepo.On("ListForUser", mock.Anything, 1, models.Role{Type: models.UserTypeJobseeker}).
		Return([]models.ChatRoom{{ID: 3, Name: "support", RoomType: models.RoomSupport}}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/rooms", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	roomRepo.AssertExpectations(t)
}

func TestCreateRoomRequiresStaff(t *testing.T) {
	users := new(mocks.UserDirectoryMock)
	handler := NewRoomHandler(new(mocks.RoomRepositoryMock), users, nil)
	router := setupRoomRouter(handler)

	users.On("GetUser", mock.Anything, 1).Return(jobseekerUser(1), nil).Once()

	body := bytes.NewBufferString(`{"name": "general", "room_type": "general"}`)
	req := httptest.NewRequest(http.MethodPost, "/rooms", body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestCreateRoomSuccess(t *testing.T) {
	roomRepo := new(mocks.RoomRepositoryMock)
	users := new(mocks.UserDirectoryMock)
	handler := NewRoomHandler(roomRepo, users, nil)
	router := setupRoomRouter(handler)

	users.On("GetUser", mock.Anything, 1).Return(adminUser(1), nil).Once()
	roomRepo.On("Create", mock.Anything, mock.MatchedBy(func(room models.ChatRoom) bool {
		return room.Name == "announcements" &&
			room.RoomType == models.RoomGeneral &&
			room.CreatedBy == 1 &&
			room.IsPublic &&
			room.MaxFileSize > 0 &&
			room.MessageRetentionDays > 0
	})).Return(models.ChatRoom{ID: 9, Name: "announcements", RoomType: models.RoomGeneral, IsActive: true}, nil).Once()

	body := bytes.NewBufferString(`{"name": "announcements", "room_type": "general"}`)
	req := httptest.NewRequest(http.MethodPost, "/rooms", body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	var resp struct {
		Room struct {
			ID int `json:"id"`
		} `json:"room"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, 9, resp.Room.ID)
	roomRepo.AssertExpectations(t)
}

func TestCreateRoomRejectsUnknownType(t *testing.T) {
	users := new(mocks.UserDirectoryMock)
	handler := NewRoomHandler(new(mocks.RoomRepositoryMock), users, nil)
	router := setupRoomRouter(handler)

	users.On("GetUser", mock.Anything, 1).Return(adminUser(1), nil).Once()

	body := bytes.NewBufferString(`{"name": "x", "room_type": "secret"}`)
	req := httptest.NewRequest(http.MethodPost, "/rooms", body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestJoinRoomSuccess(t *testing.T) {
	roomRepo := new(mocks.RoomRepositoryMock)
	handler := NewRoomHandler(roomRepo, new(mocks.UserDirectoryMock), nil)
	router := setupRoomRouter(handler)

	roomRepo.On("Get", mock.Anything, 3).
		Return(models.ChatRoom{ID: 3, IsActive: true}, nil).Once()
	roomRepo.On("AddParticipant", mock.Anything, 3, 1, models.RoomMember).Return(nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/rooms/3/join", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	roomRepo.AssertExpectations(t)
}

func TestJoinRoomNotFound(t *testing.T) {
	roomRepo := new(mocks.RoomRepositoryMock)
	handler := NewRoomHandler(roomRepo, new(mocks.UserDirectoryMock), nil)
	router := setupRoomRouter(handler)

	roomRepo.On("Get", mock.Anything, 3).
		Return(models.ChatRoom{}, repositories.ErrRoomNotFound).Once()

	req := httptest.NewRequest(http.MethodPost, "/rooms/3/join", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestJoinInactiveRoomConflict(t *testing.T) {
	roomRepo := new(mocks.RoomRepositoryMock)
	handler := NewRoomHandler(roomRepo, new(mocks.UserDirectoryMock), nil)
	router := setupRoomRouter(handler)

	roomRepo.On("Get", mock.Anything, 3).
		Return(models.ChatRoom{ID: 3, IsActive: false}, nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/rooms/3/join", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusConflict, rec.Code)
}

func TestLeaveRoomIdempotent(t *testing.T) {
	roomRepo := new(mocks.RoomRepositoryMock)
	handler := NewRoomHandler(roomRepo, new(mocks.UserDirectoryMock), nil)
	router := setupRoomRouter(handler)

	roomRepo.On("RemoveParticipant", mock.Anything, 3, 1).Return(nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/rooms/3/leave", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	roomRepo.AssertExpectations(t)
}
