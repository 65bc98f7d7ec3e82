package prompt

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/rosterform/pkg/domain/model"
	"github.com/secmon-lab/rosterform/pkg/domain/types"
	"github.com/secmon-lab/rosterform/pkg/usecase"
)

// Menu entries, in display order
const (
	MenuAdd      = "Add field"
	MenuName     = "Edit name"
	MenuRole     = "Edit role"
	MenuRemove   = "Remove field"
	MenuValidate = "Validate"
	MenuSubmit   = "Submit"
	MenuQuit     = "Quit"
)

// RoleUnsetOption is the role choice that clears the role
const RoleUnsetOption = "(unset)"

var menu = []string{MenuAdd, MenuName, MenuRole, MenuRemove, MenuValidate, MenuSubmit, MenuQuit}

// Session edits one roster form from a terminal
type Session struct {
	formUC         *usecase.FormUseCase
	driver         Driver
	out            io.Writer
	title          string
	successMessage string

	errColor    *color.Color
	okColor     *color.Color
	warnColor   *color.Color
	headerColor *color.Color
	emptyColor  *color.Color
}

type Option func(*Session)

// WithColor enables or disables ANSI colors in the output
func WithColor(enabled bool) Option {
	return func(s *Session) {
		for _, c := range []*color.Color{s.errColor, s.okColor, s.warnColor, s.headerColor, s.emptyColor} {
			if enabled {
				c.EnableColor()
			} else {
				c.DisableColor()
			}
		}
	}
}

// WithText sets the title printed above the table and the message printed
// after an accepted submission
func WithText(title, successMessage string) Option {
	return func(s *Session) {
		s.title = title
		s.successMessage = successMessage
	}
}

func New(formUC *usecase.FormUseCase, driver Driver, out io.Writer, opts ...Option) *Session {
	s := &Session{
		formUC:         formUC,
		driver:         driver,
		out:            out,
		title:          "Dynamic Form Builder",
		successMessage: "The form data has been added.",
		errColor:       color.New(color.FgRed),
		okColor:        color.New(color.FgGreen, color.Bold),
		warnColor:      color.New(color.FgYellow),
		headerColor:    color.New(color.Bold),
		emptyColor:     color.New(color.Faint, color.Italic),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run opens a fresh form and loops over the menu until the user quits or
// aborts. It returns the final form.
func (s *Session) Run(ctx context.Context) (*model.Form, error) {
	sessionID, form, err := s.formUC.Open(ctx, "")
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open form")
	}

	for {
		s.printForm(form)

		choice, err := s.driver.Select(ctx, "What next?", menu)
		if err != nil {
			if errors.Is(err, ErrAborted) {
				return form, nil
			}
			return form, err
		}
		if choice < 0 || choice >= len(menu) || menu[choice] == MenuQuit {
			return form, nil
		}

		next, err := s.dispatch(ctx, sessionID, form, menu[choice])
		switch {
		case errors.Is(err, ErrAborted):
			return form, nil
		case errors.Is(err, model.ErrLastField):
			s.warnColor.Fprintln(s.out, "The last field cannot be removed.")
		case err != nil:
			return form, err
		default:
			form = next
		}
	}
}

func (s *Session) dispatch(ctx context.Context, sessionID types.SessionID, form *model.Form, action string) (*model.Form, error) {
	switch action {
	case MenuAdd:
		next, _, err := s.formUC.AddField(ctx, sessionID)
		return next, err

	case MenuName:
		id, err := s.chooseField(ctx, form, "Edit which field?")
		if err != nil {
			return form, err
		}
		current, _ := form.Field(id)
		name, err := s.driver.Input(ctx, "Name", current.Name)
		if err != nil {
			return form, err
		}
		return s.formUC.UpdateFields(ctx, sessionID, model.SetName{ID: id, Name: name})

	case MenuRole:
		id, err := s.chooseField(ctx, form, "Edit which field?")
		if err != nil {
			return form, err
		}
		role, err := s.chooseRole(ctx)
		if err != nil {
			return form, err
		}
		return s.formUC.UpdateFields(ctx, sessionID, model.SetRole{ID: id, Role: role})

	case MenuRemove:
		id, err := s.chooseField(ctx, form, "Remove which field?")
		if err != nil {
			return form, err
		}
		return s.formUC.RemoveField(ctx, sessionID, id)

	case MenuValidate:
		next, valid, err := s.formUC.Validate(ctx, sessionID)
		if err != nil {
			return form, err
		}
		if valid {
			s.okColor.Fprintln(s.out, "All fields are valid.")
		}
		return next, nil

	case MenuSubmit:
		next, result, err := s.formUC.Submit(ctx, sessionID)
		if err != nil {
			return form, err
		}
		if result.Accepted {
			s.okColor.Fprintln(s.out, s.successMessage)
		} else {
			s.errColor.Fprintf(s.out, "%d field(s) need attention.\n", len(result.Errors))
		}
		return next, nil
	}

	return form, goerr.New("unknown menu action", goerr.V("action", action))
}

func (s *Session) chooseField(ctx context.Context, form *model.Form, message string) (types.FieldID, error) {
	rows := form.Rows()
	options := make([]string, len(rows))
	for i, row := range rows {
		options[i] = fmt.Sprintf("#%d %s", row.Index, displayName(row.Name))
	}

	idx, err := s.driver.Select(ctx, message, options)
	if err != nil {
		return 0, err
	}
	if idx < 0 || idx >= len(rows) {
		return 0, goerr.Wrap(model.ErrFieldNotFound, "no field selected", goerr.V("index", idx))
	}
	return rows[idx].ID, nil
}

func (s *Session) chooseRole(ctx context.Context) (types.Role, error) {
	roles := types.AllRoles()
	options := make([]string, 0, len(roles)+1)
	options = append(options, RoleUnsetOption)
	for _, role := range roles {
		options = append(options, role.String())
	}

	idx, err := s.driver.Select(ctx, "Role", options)
	if err != nil {
		return types.RoleUnset, err
	}
	if idx <= 0 || idx >= len(options) {
		return types.RoleUnset, nil
	}
	return types.ParseRole(options[idx])
}

// printForm writes the live state table with inline errors
func (s *Session) printForm(form *model.Form) {
	fmt.Fprintln(s.out)
	s.headerColor.Fprintln(s.out, s.title)
	s.headerColor.Fprintf(s.out, "%-4s %-24s %-10s\n", "#", "Name", "Role")

	for _, row := range form.Rows() {
		name := fmt.Sprintf("%-24s", row.Name)
		if row.Name == "" {
			name = s.emptyColor.Sprintf("%-24s", "empty")
		}
		role := fmt.Sprintf("%-10s", row.Role.String())
		if !row.Role.IsSet() {
			role = s.emptyColor.Sprintf("%-10s", "empty")
		}
		fmt.Fprintf(s.out, "%-4d %s %s\n", row.Index, name, role)

		var problems []string
		if row.NameError != "" {
			problems = append(problems, row.NameError)
		}
		if row.RoleError != "" {
			problems = append(problems, row.RoleError)
		}
		if len(problems) > 0 {
			s.errColor.Fprintf(s.out, "     %s\n", strings.Join(problems, " "))
		}
	}
}

func displayName(name string) string {
	if strings.TrimSpace(name) == "" {
		return "(no name)"
	}
	return name
}
