package http

import (
	"errors"
	"net/http"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/rosterform/pkg/domain/model"
	"github.com/secmon-lab/rosterform/pkg/domain/types"
	"github.com/secmon-lab/rosterform/pkg/usecase"
)

var errBadRequest = goerr.New("bad request")

// statusOf maps a use case error to the HTTP status reported to the client
func statusOf(err error) int {
	switch {
	case errors.Is(err, errBadRequest),
		errors.Is(err, types.ErrInvalidRole),
		errors.Is(err, types.ErrInvalidFieldID),
		errors.Is(err, model.ErrInvalidUpdateKind):
		return http.StatusBadRequest
	case errors.Is(err, model.ErrFieldNotFound),
		errors.Is(err, usecase.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, model.ErrLastField):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
