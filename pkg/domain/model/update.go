package model

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/rosterform/pkg/domain/types"
)

// FieldUpdate is a single mutation of one field. The only implementations are
// SetName and SetRole.
type FieldUpdate interface {
	Target() types.FieldID
	validate() error
	apply(f *Field)
}

// SetName replaces the name of a field
type SetName struct {
	ID   types.FieldID
	Name string
}

// Target returns the ID of the field to update
func (u SetName) Target() types.FieldID { return u.ID }

func (u SetName) validate() error { return nil }

func (u SetName) apply(f *Field) { f.Name = u.Name }

// SetRole replaces the role of a field. RoleUnset clears the selection.
type SetRole struct {
	ID   types.FieldID
	Role types.Role
}

// Target returns the ID of the field to update
func (u SetRole) Target() types.FieldID { return u.ID }

func (u SetRole) validate() error {
	if err := u.Role.Validate(); err != nil {
		return goerr.Wrap(err, "invalid role update", goerr.V(FieldIDKey, u.ID))
	}
	return nil
}

func (u SetRole) apply(f *Field) { f.Role = u.Role }

// UpdateKind names the attribute a FieldUpdate changes, as used on the wire
type UpdateKind string

const (
	UpdateKindName UpdateKind = "name"
	UpdateKindRole UpdateKind = "role"
)

// ErrInvalidUpdateKind is returned by NewFieldUpdate for unknown kinds
var ErrInvalidUpdateKind = goerr.New("invalid update kind")

// NewFieldUpdate builds the FieldUpdate for kind from a raw input value
func NewFieldUpdate(id types.FieldID, kind UpdateKind, value string) (FieldUpdate, error) {
	switch kind {
	case UpdateKindName:
		return SetName{ID: id, Name: value}, nil
	case UpdateKindRole:
		role, err := types.ParseRole(value)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to parse role", goerr.V(FieldIDKey, id))
		}
		return SetRole{ID: id, Role: role}, nil
	default:
		return nil, goerr.Wrap(ErrInvalidUpdateKind, "unknown update kind",
			goerr.V(FieldIDKey, id), goerr.V(FieldKindKey, string(kind)))
	}
}
