// Package user contains hand-maintained message and client stubs for the
// user-directory gRPC API. The wire shapes mirror the directory's proto
// definitions; only the internal surface this service consumes is included.
package user

import (
	"context"

	"github.com/golang/protobuf/proto"
	"google.golang.org/grpc"
)

type GetUserRequest struct {
	UserId int64 `protobuf:"varint,1,opt,name=user_id,json=userId,proto3" json:"user_id,omitempty"`
}

func (m *GetUserRequest) Reset()         { *m = GetUserRequest{} }
func (m *GetUserRequest) String() string { return proto.CompactTextString(m) }
func (*GetUserRequest) ProtoMessage()    {}

func (m *GetUserRequest) GetUserId() int64 {
	if m != nil {
		return m.UserId
	}
	return 0
}

type GetUserResponse struct {
	Id           int64  `protobuf:"varint,1,opt,name=id,proto3" json:"id,omitempty"`
	UserType     string `protobuf:"bytes,2,opt,name=user_type,json=userType,proto3" json:"user_type,omitempty"`
	EmployerType string `protobuf:"bytes,3,opt,name=employer_type,json=employerType,proto3" json:"employer_type,omitempty"`
	IsActive     bool   `protobuf:"varint,4,opt,name=is_active,json=isActive,proto3" json:"is_active,omitempty"`
	FirstName    string `protobuf:"bytes,5,opt,name=first_name,json=firstName,proto3" json:"first_name,omitempty"`
	LastName     string `protobuf:"bytes,6,opt,name=last_name,json=lastName,proto3" json:"last_name,omitempty"`
	Avatar       string `protobuf:"bytes,7,opt,name=avatar,proto3" json:"avatar,omitempty"`
}

func (m *GetUserResponse) Reset()         { *m = GetUserResponse{} }
func (m *GetUserResponse) String() string { return proto.CompactTextString(m) }
func (*GetUserResponse) ProtoMessage()    {}

func (m *GetUserResponse) GetId() int64 {
	if m != nil {
		return m.Id
	}
	return 0
}

func (m *GetUserResponse) GetUserType() string {
	if m != nil {
		return m.UserType
	}
	return ""
}

func (m *GetUserResponse) GetEmployerType() string {
	if m != nil {
		return m.EmployerType
	}
	return ""
}

func (m *GetUserResponse) GetIsActive() bool {
	if m != nil {
		return m.IsActive
	}
	return false
}

func (m *GetUserResponse) GetFirstName() string {
	if m != nil {
		return m.FirstName
	}
	return ""
}

func (m *GetUserResponse) GetLastName() string {
	if m != nil {
		return m.LastName
	}
	return ""
}

func (m *GetUserResponse) GetAvatar() string {
	if m != nil {
		return m.Avatar
	}
	return ""
}

type BulkUsersRequest struct {
	Ids []int64 `protobuf:"varint,1,rep,packed,name=ids,proto3" json:"ids,omitempty"`
}

func (m *BulkUsersRequest) Reset()         { *m = BulkUsersRequest{} }
func (m *BulkUsersRequest) String() string { return proto.CompactTextString(m) }
func (*BulkUsersRequest) ProtoMessage()    {}

func (m *BulkUsersRequest) GetIds() []int64 {
	if m != nil {
		return m.Ids
	}
	return nil
}

type BulkUsersResponse struct {
	Users []*GetUserResponse `protobuf:"bytes,1,rep,name=users,proto3" json:"users,omitempty"`
}

func (m *BulkUsersResponse) Reset()         { *m = BulkUsersResponse{} }
func (m *BulkUsersResponse) String() string { return proto.CompactTextString(m) }
func (*BulkUsersResponse) ProtoMessage()    {}

func (m *BulkUsersResponse) GetUsers() []*GetUserResponse {
	if m != nil {
		return m.Users
	}
	return nil
}

type ListUsersRequest struct {
	UserTypes  []string `protobuf:"bytes,1,rep,name=user_types,json=userTypes,proto3" json:"user_types,omitempty"`
	Search     string   `protobuf:"bytes,2,opt,name=search,proto3" json:"search,omitempty"`
	OnlyActive bool     `protobuf:"varint,3,opt,name=only_active,json=onlyActive,proto3" json:"only_active,omitempty"`
}

func (m *ListUsersRequest) Reset()         { *m = ListUsersRequest{} }
func (m *ListUsersRequest) String() string { return proto.CompactTextString(m) }
func (*ListUsersRequest) ProtoMessage()    {}

func (m *ListUsersRequest) GetUserTypes() []string {
	if m != nil {
		return m.UserTypes
	}
	return nil
}

func (m *ListUsersRequest) GetSearch() string {
	if m != nil {
		return m.Search
	}
	return ""
}

func (m *ListUsersRequest) GetOnlyActive() bool {
	if m != nil {
		return m.OnlyActive
	}
	return false
}

type ListUsersResponse struct {
	Users []*GetUserResponse `protobuf:"bytes,1,rep,name=users,proto3" json:"users,omitempty"`
}

func (m *ListUsersResponse) Reset()         { *m = ListUsersResponse{} }
func (m *ListUsersResponse) String() string { return proto.CompactTextString(m) }
func (*ListUsersResponse) ProtoMessage()    {}

func (m *ListUsersResponse) GetUsers() []*GetUserResponse {
	if m != nil {
		return m.Users
	}
	return nil
}

// UserInternalClient is the client API for the UserInternal service.
type UserInternalClient interface {
	GetUser(ctx context.Context, in *GetUserRequest, opts ...grpc.CallOption) (*GetUserResponse, error)
	BulkUsers(ctx context.Context, in *BulkUsersRequest, opts ...grpc.CallOption) (*BulkUsersResponse, error)
	ListUsers(ctx context.Context, in *ListUsersRequest, opts ...grpc.CallOption) (*ListUsersResponse, error)
}

type userInternalClient struct {
	cc grpc.ClientConnInterface
}

func NewUserInternalClient(cc grpc.ClientConnInterface) UserInternalClient {
	return &userInternalClient{cc}
}

func (c *userInternalClient) GetUser(ctx context.Context, in *GetUserRequest, opts ...grpc.CallOption) (*GetUserResponse, error) {
	out := new(GetUserResponse)
	if err := c.cc.Invoke(ctx, "/user.UserInternal/GetUser", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *userInternalClient) BulkUsers(ctx context.Context, in *BulkUsersRequest, opts ...grpc.CallOption) (*BulkUsersResponse, error) {
	out := new(BulkUsersResponse)
	if err := c.cc.Invoke(ctx, "/user.UserInternal/BulkUsers", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *userInternalClient) ListUsers(ctx context.Context, in *ListUsersRequest, opts ...grpc.CallOption) (*ListUsersResponse, error) {
	out := new(ListUsersResponse)
	if err := c.cc.Invoke(ctx, "/user.UserInternal/ListUsers", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
