package model

import "github.com/m-mizutani/goerr/v2"

// Form errors
var (
	ErrFieldNotFound = goerr.New("field not found")
	ErrLastField     = goerr.New("the last remaining field cannot be removed")
)

// Validation messages shown next to the offending input
const (
	MessageNameRequired = "Name is required."
	MessageRoleRequired = "Type is required."
)

// Context keys for error values
const (
	FieldIDKey   = "field_id"
	FieldKindKey = "field_kind"
	RoleKey      = "role"
)
