package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/GuoYangtuo/potato-timer/internal/apperror"
)

// envelope is the uniform wire shape for every response.
type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
	Field   string `json:"field,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, message string, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	err := json.NewEncoder(w).Encode(envelope{
		Success: status < 400,
		Message: message,
		Data:    data,
	})
	if err != nil {
		slog.Error("write response", "error", err)
	}
}

// writeError maps the service error taxonomy onto status codes in one
// place. Unknown errors and store failures read as a plain 500 with no
// internals leaked.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	message := "internal server error"
	field := ""

	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		message = appErr.Message
		field = appErr.Field

		switch {
		case errors.Is(appErr, apperror.ErrValidation):
			status = http.StatusBadRequest
		case errors.Is(appErr, apperror.ErrNotFound):
			status = http.StatusNotFound
		case errors.Is(appErr, apperror.ErrForbidden):
			status = http.StatusForbidden
		case errors.Is(appErr, apperror.ErrConflict):
			status = http.StatusConflict
		default:
			message = "internal server error"
			field = ""
		}
	}

	if status == http.StatusInternalServerError {
		slog.Error("request failed", "error", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	encodeErr := json.NewEncoder(w).Encode(envelope{
		Success: false,
		Message: message,
		Field:   field,
	})
	if encodeErr != nil {
		slog.Error("write response", "error", encodeErr)
	}
}

// decodeJSON reads the request body into dst, rejecting unknown garbage
// early with a validation error.
func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperror.Validation("body", "invalid request body")
	}
	return nil
}
