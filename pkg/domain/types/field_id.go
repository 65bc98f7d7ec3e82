package types

import (
	"strconv"

	"github.com/m-mizutani/goerr/v2"
)

// ErrInvalidFieldID is returned when a field ID cannot be parsed
var ErrInvalidFieldID = goerr.New("invalid field ID")

// FieldID identifies a row within one form. IDs are assigned by the form
// from a monotonic counter and never reused.
type FieldID int64

// String returns the decimal representation of FieldID
func (id FieldID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

// ParseFieldID parses the decimal representation of a FieldID
func ParseFieldID(s string) (FieldID, error) {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, goerr.Wrap(ErrInvalidFieldID, "field ID must be an integer", goerr.V("field_id", s))
	}
	if v <= 0 {
		return 0, goerr.Wrap(ErrInvalidFieldID, "field ID must be positive", goerr.V("field_id", s))
	}
	return FieldID(v), nil
}
