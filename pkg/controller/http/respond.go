package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/safesight-lab/safesight/pkg/domain/model"
	"github.com/safesight-lab/safesight/pkg/utils/errutil"
)

// statusFor maps the domain error taxonomy to HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, model.ErrSchema):
		return http.StatusUnprocessableEntity
	case errors.Is(err, model.ErrInvalidRequest), errors.Is(err, model.ErrInvalidReport):
		return http.StatusBadRequest
	case errors.Is(err, model.ErrServiceUnavailable):
		return http.StatusBadGateway
	case errors.Is(err, model.ErrIncidentNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func handleError(ctx context.Context, w http.ResponseWriter, err error) {
	errutil.HandleHTTP(ctx, w, err, statusFor(err))
}

func respondJSON(ctx context.Context, w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		errutil.Handle(ctx, err, "failed to encode response")
	}
}
