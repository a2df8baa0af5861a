package grpc

import (
	"context"
	"errors"

	"jobboard-chat/internal/models"
	userpb "jobboard-chat/pb/user"
)

// ErrUserNotFound is returned when the directory has no record of a user id.
var ErrUserNotFound = errors.New("user not found")

// DirectoryUser is the identity record owned by the external user directory.
type DirectoryUser struct {
	ID        int         `json:"id"`
	Role      models.Role `json:"-"`
	UserType  string      `json:"user_type"`
	IsActive  bool        `json:"is_active"`
	FirstName string      `json:"first_name"`
	LastName  string      `json:"last_name"`
	Avatar    string      `json:"avatar,omitempty"`
}

// UserDirectory is the read surface this service consumes from the user
// directory.
type UserDirectory interface {
	GetUser(ctx context.Context, userID int) (DirectoryUser, error)
	BulkUsers(ctx context.Context, ids []int) ([]DirectoryUser, error)
	ListPartners(ctx context.Context, role models.Role, search string) ([]DirectoryUser, error)
}

// UserClient wraps the user-service gRPC client.
type UserClient struct {
	client userpb.UserInternalClient
}

// NewUserClient constructs the wrapper.
func NewUserClient(client userpb.UserInternalClient) *UserClient {
	return &UserClient{client: client}
}

// GetUser retrieves a single directory record.
func (u *UserClient) GetUser(ctx context.Context, userID int) (DirectoryUser, error) {
	resp, err := u.client.GetUser(ctx, &userpb.GetUserRequest{UserId: int64(userID)})
	if err != nil {
		return DirectoryUser{}, err
	}
	if resp == nil || resp.GetId() == 0 {
		return DirectoryUser{}, ErrUserNotFound
	}
	return toDirectoryUser(resp)
}

// BulkUsers fetches multiple directory records in one call.
func (u *UserClient) BulkUsers(ctx context.Context, ids []int) ([]DirectoryUser, error) {
	if len(ids) == 0 {
		return []DirectoryUser{}, nil
	}
	id64s := make([]int64, 0, len(ids))
	for _, id := range ids {
		id64s = append(id64s, int64(id))
	}

	resp, err := u.client.BulkUsers(ctx, &userpb.BulkUsersRequest{Ids: id64s})
	if err != nil {
		return nil, err
	}

	users := make([]DirectoryUser, 0, len(resp.GetUsers()))
	for _, pb := range resp.GetUsers() {
		user, err := toDirectoryUser(pb)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, nil
}

// ListPartners returns active users the caller's role is allowed to open
// conversations with, optionally filtered by a search term.
func (u *UserClient) ListPartners(ctx context.Context, role models.Role, search string) ([]DirectoryUser, error) {
	resp, err := u.client.ListUsers(ctx, &userpb.ListUsersRequest{
		UserTypes:  role.PartnerUserTypes(),
		Search:     search,
		OnlyActive: true,
	})
	if err != nil {
		return nil, err
	}

	users := make([]DirectoryUser, 0, len(resp.GetUsers()))
	for _, pb := range resp.GetUsers() {
		user, err := toDirectoryUser(pb)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, nil
}

func toDirectoryUser(pb *userpb.GetUserResponse) (DirectoryUser, error) {
	role, err := models.NewRole(pb.GetUserType(), pb.GetEmployerType())
	if err != nil {
		return DirectoryUser{}, err
	}
	return DirectoryUser{
		ID:        int(pb.GetId()),
		Role:      role,
		UserType:  pb.GetUserType(),
		IsActive:  pb.GetIsActive(),
		FirstName: pb.GetFirstName(),
		LastName:  pb.GetLastName(),
		Avatar:    pb.GetAvatar(),
	}, nil
}
