package model

import (
	"slices"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/rosterform/pkg/domain/types"
)

// Form owns the ordered list of roster fields and the errors produced by the
// most recent validation. It is not safe for concurrent use; callers hand
// each Form to exactly one writer (see FormRepository.Update).
type Form struct {
	fields []Field
	index  map[types.FieldID]int
	nextID types.FieldID
	errors ErrorMap
	status ValidationStatus
}

// ValidationStatus describes the outcome of the latest Validate or Submit. It
// is reset to the zero value whenever the fields change afterwards.
type ValidationStatus struct {
	Validated bool `json:"validated"`
	Valid     bool `json:"valid"`
}

// Row is the render view of one field
type Row struct {
	Index     int           `json:"index"`
	ID        types.FieldID `json:"id"`
	Name      string        `json:"name"`
	Role      types.Role    `json:"role"`
	NameError string        `json:"name_error,omitempty"`
	RoleError string        `json:"role_error,omitempty"`
	Removable bool          `json:"removable"`
}

// SubmitResult is returned by Submit. Fields is only populated when the form
// was accepted; Errors is only populated when it was rejected.
type SubmitResult struct {
	Accepted bool
	Fields   []Field
	Errors   ErrorMap
}

// NewForm returns a form holding a single empty field
func NewForm() *Form {
	f := &Form{
		index:  make(map[types.FieldID]int),
		nextID: 1,
		errors: ErrorMap{},
	}
	f.Add()
	return f
}

// Add appends an empty field and returns it
func (f *Form) Add() Field {
	field := Field{ID: f.nextID}
	f.nextID++

	f.index[field.ID] = len(f.fields)
	f.fields = append(f.fields, field)
	f.status = ValidationStatus{}
	return field
}

// Remove deletes the field with id and its error entry. Unknown IDs are
// ignored. The last remaining field cannot be removed.
func (f *Form) Remove(id types.FieldID) error {
	pos, ok := f.index[id]
	if !ok {
		return nil
	}
	if len(f.fields) == 1 {
		return goerr.Wrap(ErrLastField, "refusing to empty the form", goerr.V(FieldIDKey, id))
	}

	f.fields = slices.Delete(f.fields, pos, pos+1)
	delete(f.index, id)
	for i := pos; i < len(f.fields); i++ {
		f.index[f.fields[i].ID] = i
	}
	delete(f.errors, id)
	f.status = ValidationStatus{}
	return nil
}

// Apply performs a single field update. Errors are not recomputed.
func (f *Form) Apply(u FieldUpdate) error {
	if u == nil {
		return goerr.New("field update is nil")
	}
	pos, ok := f.index[u.Target()]
	if !ok {
		return goerr.Wrap(ErrFieldNotFound, "cannot update unknown field", goerr.V(FieldIDKey, u.Target()))
	}
	if err := u.validate(); err != nil {
		return err
	}
	before := f.fields[pos]
	u.apply(&f.fields[pos])
	if f.fields[pos] != before {
		f.status = ValidationStatus{}
	}
	return nil
}

// Validate rebuilds the error map from scratch and reports whether every
// field has a non-blank name and a selected role.
func (f *Form) Validate() bool {
	errs := ErrorMap{}
	for _, field := range f.fields {
		if fe := checkField(field); !fe.IsEmpty() {
			errs[field.ID] = fe
		}
	}

	f.errors = errs
	f.status = ValidationStatus{
		Validated: true,
		Valid:     len(errs) == 0,
	}
	return f.status.Valid
}

// Submit validates the form and, when it is valid, returns a snapshot of the
// fields. The fields are kept as they are in both cases.
func (f *Form) Submit() SubmitResult {
	if !f.Validate() {
		return SubmitResult{Errors: f.errors.Clone()}
	}
	return SubmitResult{
		Accepted: true,
		Fields:   f.Fields(),
	}
}

// Rows returns the render view of the fields in order
func (f *Form) Rows() []Row {
	removable := len(f.fields) > 1
	rows := make([]Row, len(f.fields))
	for i, field := range f.fields {
		fe := f.errors[field.ID]
		rows[i] = Row{
			Index:     i + 1,
			ID:        field.ID,
			Name:      field.Name,
			Role:      field.Role,
			NameError: fe.Name,
			RoleError: fe.Role,
			Removable: removable,
		}
	}
	return rows
}

// Fields returns a copy of the fields in order
func (f *Form) Fields() []Field {
	return slices.Clone(f.fields)
}

// Field returns the field with id
func (f *Form) Field(id types.FieldID) (Field, bool) {
	pos, ok := f.index[id]
	if !ok {
		return Field{}, false
	}
	return f.fields[pos], true
}

// Errors returns a copy of the current error map
func (f *Form) Errors() ErrorMap {
	return f.errors.Clone()
}

// Status returns the outcome of the latest validation
func (f *Form) Status() ValidationStatus {
	return f.status
}

// Len returns the number of fields
func (f *Form) Len() int {
	return len(f.fields)
}

// Clone returns a deep copy of the form
func (f *Form) Clone() *Form {
	index := make(map[types.FieldID]int, len(f.index))
	for id, pos := range f.index {
		index[id] = pos
	}
	return &Form{
		fields: slices.Clone(f.fields),
		index:  index,
		nextID: f.nextID,
		errors: f.errors.Clone(),
		status: f.status,
	}
}
