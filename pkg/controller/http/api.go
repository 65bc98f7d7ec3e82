package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/rosterform/pkg/domain/model"
	"github.com/secmon-lab/rosterform/pkg/domain/types"
	"github.com/secmon-lab/rosterform/pkg/utils/errutil"
	"github.com/secmon-lab/rosterform/pkg/utils/safe"
)

// formResponse is the JSON view of a form
type formResponse struct {
	Rows   []model.Row            `json:"rows"`
	Status model.ValidationStatus `json:"status"`
}

type addFieldResponse struct {
	Field model.Field  `json:"field"`
	Form  formResponse `json:"form"`
}

type submitResponse struct {
	Accepted bool          `json:"accepted"`
	Fields   []model.Field `json:"fields,omitempty"`
	Form     formResponse  `json:"form"`
}

type updateFieldRequest struct {
	Kind  model.UpdateKind `json:"kind"`
	Value string           `json:"value"`
}

func newFormResponse(form *model.Form) formResponse {
	return formResponse{
		Rows:   form.Rows(),
		Status: form.Status(),
	}
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "failed to marshal response"), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	safe.Write(r.Context(), w, data)
}

func fieldIDParam(r *http.Request) (types.FieldID, error) {
	raw := chi.URLParam(r, "fieldID")
	id, err := types.ParseFieldID(raw)
	if err != nil {
		return 0, goerr.Wrap(err, "invalid field id in path", goerr.V("field_id", raw))
	}
	return id, nil
}

func (s *Server) handleGetForm(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	form, err := s.formUC.Get(ctx, sessionFromContext(ctx))
	if err != nil {
		errutil.HandleHTTP(ctx, w, err, statusOf(err))
		return
	}
	writeJSON(w, r, http.StatusOK, newFormResponse(form))
}

func (s *Server) handleAddField(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	form, field, err := s.formUC.AddField(ctx, sessionFromContext(ctx))
	if err != nil {
		errutil.HandleHTTP(ctx, w, err, statusOf(err))
		return
	}
	writeJSON(w, r, http.StatusCreated, addFieldResponse{
		Field: field,
		Form:  newFormResponse(form),
	})
}

func (s *Server) handleUpdateField(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := fieldIDParam(r)
	if err != nil {
		errutil.HandleHTTP(ctx, w, err, http.StatusBadRequest)
		return
	}

	var req updateFieldRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errutil.HandleHTTP(ctx, w, goerr.Wrap(errBadRequest, "invalid request body", goerr.V("error", err.Error())), http.StatusBadRequest)
		return
	}

	update, err := model.NewFieldUpdate(id, req.Kind, req.Value)
	if err != nil {
		errutil.HandleHTTP(ctx, w, err, statusOf(err))
		return
	}

	form, err := s.formUC.UpdateFields(ctx, sessionFromContext(ctx), update)
	if err != nil {
		errutil.HandleHTTP(ctx, w, err, statusOf(err))
		return
	}
	writeJSON(w, r, http.StatusOK, newFormResponse(form))
}

func (s *Server) handleRemoveField(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := fieldIDParam(r)
	if err != nil {
		errutil.HandleHTTP(ctx, w, err, http.StatusBadRequest)
		return
	}

	form, err := s.formUC.RemoveField(ctx, sessionFromContext(ctx), id)
	if err != nil {
		errutil.HandleHTTP(ctx, w, err, statusOf(err))
		return
	}
	writeJSON(w, r, http.StatusOK, newFormResponse(form))
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	form, _, err := s.formUC.Validate(ctx, sessionFromContext(ctx))
	if err != nil {
		errutil.HandleHTTP(ctx, w, err, statusOf(err))
		return
	}
	writeJSON(w, r, http.StatusOK, newFormResponse(form))
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	form, result, err := s.formUC.Submit(ctx, sessionFromContext(ctx))
	if err != nil {
		errutil.HandleHTTP(ctx, w, err, statusOf(err))
		return
	}

	status := http.StatusOK
	if !result.Accepted {
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, r, status, submitResponse{
		Accepted: result.Accepted,
		Fields:   result.Fields,
		Form:     newFormResponse(form),
	})
}
