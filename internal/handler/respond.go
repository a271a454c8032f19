package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/stridelog/stridelog/internal/apperr"
	"github.com/stridelog/stridelog/internal/ctxkeys"
	"github.com/stridelog/stridelog/internal/problem"
)

const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// decodeJSON reads a single JSON object from the request body.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	dec := json.NewDecoder(r.Body)
	err := dec.Decode(dst)
	if err != nil {
		return err
	}

	if dec.More() {
		return errors.New("request body must contain a single JSON object")
	}
	_, err = dec.Token()
	if err != io.EOF {
		return errors.New("request body must contain a single JSON object")
	}
	return nil
}

func writeValidation(w http.ResponseWriter, r *http.Request, rules ...string) {
	problem.WriteDetail(w, &problem.Detail{
		Type:     "https://stridelog.dev/errors/400",
		Title:    http.StatusText(http.StatusBadRequest),
		Status:   http.StatusBadRequest,
		Detail:   "The request is invalid",
		Instance: r.URL.Path,
		Rules:    rules,
	})
}

// writeError maps an application error to a problem response and logs it.
// Internal details never reach the client.
func writeError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	userID := ctxkeys.UserID(r.Context())
	requestID := ctxkeys.RequestID(r.Context())

	var validationErr *apperr.ValidationError
	switch {
	case errors.As(err, &validationErr):
		writeValidation(w, r, validationErr.Rules...)

	case apperr.IsUnauthorized(err):
		slog.Warn(msg, "error", err, "user_id", userID, "request_id", requestID)
		problem.Write(w, r, http.StatusForbidden, "You do not have access to this resource")

	case apperr.IsNotFound(err):
		if r.Method == http.MethodDelete {
			slog.Warn(msg, "error", err, "user_id", userID, "request_id", requestID)
		}
		problem.Write(w, r, http.StatusNotFound, "The requested resource was not found")

	case apperr.IsPersistence(err):
		slog.Error(msg, "error", err, "user_id", userID, "request_id", requestID)
		problem.Write(w, r, http.StatusServiceUnavailable, "The service is temporarily unavailable")

	default:
		slog.Error(msg, "error", err, "user_id", userID, "request_id", requestID)
		problem.Write(w, r, http.StatusInternalServerError, "An unexpected error occurred")
	}
}
