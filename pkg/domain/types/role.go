package types

import (
	"strings"

	"github.com/m-mizutani/goerr/v2"
)

// ErrInvalidRole is returned when a role is neither unset nor one of AllRoles
var ErrInvalidRole = goerr.New("invalid role")

// Role is the role selected for a roster row. The zero value means the role
// has not been selected yet.
type Role string

const (
	RoleUnset   Role = ""
	RoleStudent Role = "Student"
	RoleTeacher Role = "Teacher"
	RoleStaff   Role = "Staff"
)

// AllRoles returns the selectable roles in display order
func AllRoles() []Role {
	return []Role{
		RoleStudent,
		RoleTeacher,
		RoleStaff,
	}
}

// IsValid checks if the role is one of the selectable roles
func (r Role) IsValid() bool {
	switch r {
	case RoleStudent,
		RoleTeacher,
		RoleStaff:
		return true
	default:
		return false
	}
}

// IsSet reports whether a role has been selected
func (r Role) IsSet() bool {
	return r != RoleUnset
}

// Validate accepts an unset role or a selectable one
func (r Role) Validate() error {
	if r == RoleUnset || r.IsValid() {
		return nil
	}
	return goerr.Wrap(ErrInvalidRole, "role is not selectable", goerr.V("role", string(r)))
}

// String returns the string representation of the role
func (r Role) String() string {
	return string(r)
}

// ParseRole parses user input into a Role. Surrounding whitespace is ignored
// and the empty string yields RoleUnset.
func ParseRole(s string) (Role, error) {
	role := Role(strings.TrimSpace(s))
	if err := role.Validate(); err != nil {
		return RoleUnset, err
	}
	return role, nil
}
