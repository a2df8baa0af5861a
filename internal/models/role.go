package models

import "fmt"

// UserType identifies the broad account category of a platform user.
type UserType string

const (
	UserTypeJobseeker  UserType = "jobseeker"
	UserTypeEmployer   UserType = "employer"
	UserTypeAdmin      UserType = "admin"
	UserTypeSuperAdmin UserType = "superadmin"
)

// EmployerType further qualifies employer accounts.
type EmployerType string

const (
	EmployerTypeCompany     EmployerType = "company"
	EmployerTypeConsultancy EmployerType = "consultancy"
)

// Role is the closed caller-role variant used for all conversation and room
// filtering. EmployerType is set iff Type is UserTypeEmployer.
type Role struct {
	Type         UserType
	EmployerType EmployerType
}

// NewRole builds a Role from the raw directory strings and validates the
// employer-subtype invariant.
func NewRole(userType, employerType string) (Role, error) {
	ut := UserType(userType)
	switch ut {
	case UserTypeJobseeker, UserTypeAdmin, UserTypeSuperAdmin:
		if employerType != "" {
			return Role{}, fmt.Errorf("employer type %q not allowed for user type %q", employerType, userType)
		}
		return Role{Type: ut}, nil
	case UserTypeEmployer:
		et := EmployerType(employerType)
		if et != EmployerTypeCompany && et != EmployerTypeConsultancy {
			return Role{}, fmt.Errorf("invalid employer type %q", employerType)
		}
		return Role{Type: ut, EmployerType: et}, nil
	default:
		return Role{}, fmt.Errorf("invalid user type %q", userType)
	}
}

// IsStaff reports whether the role carries admin privileges.
func (r Role) IsStaff() bool {
	return r.Type == UserTypeAdmin || r.Type == UserTypeSuperAdmin
}

// ConversationTypes returns the conversation types visible to the role.
func (r Role) ConversationTypes() []ConversationType {
	switch r.Type {
	case UserTypeJobseeker:
		return []ConversationType{ConversationJobseekerEmployer, ConversationJobseekerSupport}
	case UserTypeEmployer:
		return []ConversationType{ConversationJobseekerEmployer, ConversationEmployerSupport}
	case UserTypeAdmin, UserTypeSuperAdmin:
		return []ConversationType{ConversationJobseekerSupport, ConversationEmployerSupport, ConversationAdminSupport}
	default:
		return nil
	}
}

// RoomTypes returns the room types the role may see through the generic type
// filter. Staff roles return nil, meaning no type restriction applies.
func (r Role) RoomTypes() []RoomType {
	switch r.Type {
	case UserTypeJobseeker:
		return []RoomType{RoomSupport, RoomGeneral}
	case UserTypeEmployer:
		if r.EmployerType == EmployerTypeConsultancy {
			return []RoomType{RoomSupport, RoomConsultancyWide}
		}
		return []RoomType{RoomSupport, RoomCompanyWide}
	default:
		return nil
	}
}

// GatewayRooms returns the broadcast groups a connection joins automatically,
// besides its personal room.
func (r Role) GatewayRooms() []string {
	switch r.Type {
	case UserTypeAdmin, UserTypeSuperAdmin:
		return []string{"admin_room", "support_room"}
	case UserTypeEmployer:
		if r.EmployerType == EmployerTypeConsultancy {
			return []string{"employer_room", "consultancy_room"}
		}
		return []string{"employer_room", "company_room"}
	case UserTypeJobseeker:
		return []string{"jobseeker_room"}
	default:
		return nil
	}
}

// PartnerUserTypes returns the user types the role may open conversations
// with, used for the chat-partner directory listing.
func (r Role) PartnerUserTypes() []string {
	switch r.Type {
	case UserTypeJobseeker:
		return []string{string(UserTypeEmployer), string(UserTypeAdmin), string(UserTypeSuperAdmin)}
	case UserTypeEmployer:
		return []string{string(UserTypeJobseeker), string(UserTypeAdmin), string(UserTypeSuperAdmin)}
	case UserTypeAdmin, UserTypeSuperAdmin:
		return []string{string(UserTypeJobseeker), string(UserTypeEmployer), string(UserTypeAdmin), string(UserTypeSuperAdmin)}
	default:
		return nil
	}
}
