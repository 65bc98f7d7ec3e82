package model

import (
	"maps"
	"strings"

	"github.com/secmon-lab/rosterform/pkg/domain/types"
)

// Field is one (name, role) row of the roster form
type Field struct {
	ID   types.FieldID `json:"id"`
	Name string        `json:"name"`
	Role types.Role    `json:"role"`
}

// HasName reports whether the name contains anything other than whitespace
func (f Field) HasName() bool {
	return strings.TrimSpace(f.Name) != ""
}

// IsValid reports whether both the name and the role are filled in
func (f Field) IsValid() bool {
	return f.HasName() && f.Role.IsSet()
}

// FieldError holds the messages for the attributes of one field that failed
// validation. An empty message means that attribute is fine.
type FieldError struct {
	Name string `json:"name,omitempty"`
	Role string `json:"role,omitempty"`
}

// IsEmpty reports whether neither attribute carries a message
func (e FieldError) IsEmpty() bool {
	return e.Name == "" && e.Role == ""
}

// ErrorMap maps field IDs to their validation errors. Valid fields have no
// entry at all.
type ErrorMap map[types.FieldID]FieldError

// Clone returns a copy of the map
func (m ErrorMap) Clone() ErrorMap {
	if m == nil {
		return ErrorMap{}
	}
	return maps.Clone(m)
}

// checkField returns the validation errors for a single field
func checkField(f Field) FieldError {
	var fe FieldError
	if !f.HasName() {
		fe.Name = MessageNameRequired
	}
	if !f.Role.IsSet() {
		fe.Role = MessageRoleRequired
	}
	return fe
}
