package http

import (
	"bytes"
	"maps"
	"net/http"
	"net/url"
	"slices"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/rosterform/pkg/domain/model"
	"github.com/secmon-lab/rosterform/pkg/domain/types"
	"github.com/secmon-lab/rosterform/pkg/utils/errutil"
	"github.com/secmon-lab/rosterform/pkg/utils/safe"
)

// Form post actions
const (
	actionAdd      = "add"
	actionRemove   = "remove"
	actionValidate = "validate"
	actionSubmit   = "submit"
)

// Posted input names are "name-<fieldID>" and "role-<fieldID>"
const (
	namePrefix = "name-"
	rolePrefix = "role-"
)

type pageView struct {
	Page      PageText
	Rows      []model.Row
	Roles     []types.Role
	Status    model.ValidationStatus
	Submitted bool
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	form, err := s.formUC.Get(ctx, sessionFromContext(ctx))
	if err != nil {
		errutil.HandleHTTP(ctx, w, err, statusOf(err))
		return
	}
	s.renderPage(w, r, http.StatusOK, form, false)
}

// handlePagePost saves the posted row values, then runs the requested action
func (s *Server) handlePagePost(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sessionID := sessionFromContext(ctx)

	if err := r.ParseForm(); err != nil {
		errutil.HandleHTTP(ctx, w, goerr.Wrap(errBadRequest, "failed to parse form", goerr.V("error", err.Error())), http.StatusBadRequest)
		return
	}

	form, err := s.formUC.Get(ctx, sessionID)
	if err != nil {
		errutil.HandleHTTP(ctx, w, err, statusOf(err))
		return
	}

	updates, err := postedUpdates(form, r.PostForm)
	if err != nil {
		errutil.HandleHTTP(ctx, w, err, statusOf(err))
		return
	}
	if len(updates) > 0 {
		if form, err = s.formUC.UpdateFields(ctx, sessionID, updates...); err != nil {
			errutil.HandleHTTP(ctx, w, err, statusOf(err))
			return
		}
	}

	status := http.StatusOK
	submitted := false

	switch action := r.FormValue("action"); action {
	case actionAdd:
		form, _, err = s.formUC.AddField(ctx, sessionID)

	case actionRemove:
		var id types.FieldID
		id, err = types.ParseFieldID(r.FormValue("field"))
		if err == nil {
			form, err = s.formUC.RemoveField(ctx, sessionID, id)
		}

	case actionValidate:
		form, _, err = s.formUC.Validate(ctx, sessionID)

	case actionSubmit:
		var result model.SubmitResult
		form, result, err = s.formUC.Submit(ctx, sessionID)
		if err == nil {
			submitted = result.Accepted
			if !result.Accepted {
				status = http.StatusUnprocessableEntity
			}
		}

	case "":
		// values only

	default:
		err = goerr.Wrap(errBadRequest, "unknown form action", goerr.V("action", action))
	}
	if err != nil {
		errutil.HandleHTTP(ctx, w, err, statusOf(err))
		return
	}

	s.renderPage(w, r, status, form, submitted)
}

// postedUpdates converts the posted row inputs into field updates ordered by
// field ID. Inputs for fields that no longer exist in form are ignored.
func postedUpdates(form *model.Form, values url.Values) ([]model.FieldUpdate, error) {
	var updates []model.FieldUpdate
	for _, key := range slices.Sorted(maps.Keys(values)) {
		var kind model.UpdateKind
		var rawID string
		switch {
		case strings.HasPrefix(key, namePrefix):
			kind, rawID = model.UpdateKindName, strings.TrimPrefix(key, namePrefix)
		case strings.HasPrefix(key, rolePrefix):
			kind, rawID = model.UpdateKindRole, strings.TrimPrefix(key, rolePrefix)
		default:
			continue
		}

		id, err := types.ParseFieldID(rawID)
		if err != nil {
			return nil, goerr.Wrap(err, "invalid field input name", goerr.V("input", key))
		}
		if _, ok := form.Field(id); !ok {
			continue
		}

		update, err := model.NewFieldUpdate(id, kind, values.Get(key))
		if err != nil {
			return nil, err
		}
		updates = append(updates, update)
	}
	return updates, nil
}

func (s *Server) renderPage(w http.ResponseWriter, r *http.Request, status int, form *model.Form, submitted bool) {
	s.render(w, r, status, "page.html.tmpl", pageView{
		Page:      s.page,
		Rows:      form.Rows(),
		Roles:     types.AllRoles(),
		Status:    form.Status(),
		Submitted: submitted,
	})
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusNotFound, "not_found.html.tmpl", pageView{Page: s.page})
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, name string, view pageView) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, view); err != nil {
		errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "failed to render page", goerr.V("template", name)), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	safe.Write(r.Context(), w, buf.Bytes())
}
