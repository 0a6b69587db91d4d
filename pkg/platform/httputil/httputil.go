// Package httputil holds the shared JSON read/write helpers for HTTP handlers.
// Handlers stay thin: decode, call the service, write the result or the error.
package httputil

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	dErrors "assetgate/pkg/domain-errors"
	"assetgate/pkg/platform/sentinel"
)

type errorBody struct {
	Error       string `json:"error"`
	Description string `json:"error_description,omitempty"`
}

// WriteJSON writes v as a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// WriteError translates a domain or sentinel error into a JSON error response.
// Internal errors omit the description so infrastructure details never reach
// clients.
func WriteError(w http.ResponseWriter, err error) {
	var de *dErrors.Error
	if !errors.As(err, &de) {
		switch {
		case errors.Is(err, sentinel.ErrNotFound):
			de = dErrors.New(dErrors.CodeNotFound, "resource not found")
		case errors.Is(err, sentinel.ErrUnavailable):
			de = dErrors.New(dErrors.CodeUnavailable, "storage unavailable, retry")
		default:
			de = dErrors.New(dErrors.CodeInternal, err.Error())
		}
	}

	body := errorBody{Error: string(de.Code)}
	if de.Code != dErrors.CodeInternal {
		body.Description = de.Message
	}
	WriteJSON(w, de.HTTPStatus(), body)
}

// Decode reads the request body into T, returning false after writing a 400
// when the body is not valid JSON for T.
func Decode[T any](w http.ResponseWriter, r *http.Request, logger *slog.Logger, ctx context.Context, requestID string) (T, bool) {
	var req T
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if logger != nil {
			logger.WarnContext(ctx, "invalid request body",
				"request_id", requestID,
				"error", err,
			)
		}
		WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return req, false
	}
	return req, true
}
