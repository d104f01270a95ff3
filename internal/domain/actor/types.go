package actor

import "errors"

var ErrInvalidRole = errors.New("invalid role")

// Role orders the actors of the hotel backend: guests book rooms and chat,
// agents handle support conversations, supervisors may override agent locks.
type Role string

const (
	RoleGuest      Role = "guest"
	RoleAgent      Role = "agent"
	RoleSupervisor Role = "supervisor"
)

func (r Role) String() string {
	return string(r)
}

func (r Role) IsValid() bool {
	switch r {
	case RoleGuest, RoleAgent, RoleSupervisor:
		return true
	default:
		return false
	}
}

func (r Role) IsStaff() bool {
	return r == RoleAgent || r == RoleSupervisor
}

func NewRole(s string) (Role, error) {
	role := Role(s)
	if !role.IsValid() {
		return "", ErrInvalidRole
	}
	return role, nil
}
