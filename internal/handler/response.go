// Package handler contains the HTTP layer: request schemas, their
// validation, and the mapping from domain errors to transport status codes.
//
// Every error crosses HTTP in exactly one place, writeError — handlers never
// pick status codes themselves. The error body shape is always:
//
//	{"error": "<kind>", "message": "<human-readable>"}
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/sakif/kickstart-blog/internal/apperror"
)

// DevMode controls whether unexpected (500) errors expose their underlying
// message. Set once at wiring time, before the server starts. Outside dev,
// internal messages are suppressed — they can contain SQL fragments or file
// paths.
var DevMode bool

// validate is the shared request-schema validator. Handlers validate their
// decoded request structs with checkRequest before any business logic runs.
var validate = validator.New(validator.WithRequiredStructEnabled())

// ErrorResponse is the standard error format returned by all API endpoints.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// Headers are already sent; all we can do is log.
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// writeError maps a domain error to its HTTP status and sends it.
//
// Status mapping:
//
//	validation        → 400
//	conflict          → 400  (duplicate signup, already published — the
//	                          frontend treats these as form errors, so they
//	                          share the 400 status with validation)
//	unauthorized      → 401
//	forbidden         → 403
//	not found         → 404
//	anything else     → 500, message replaced unless DevMode
func writeError(w http.ResponseWriter, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		status := http.StatusInternalServerError
		kind := "internal_error"

		switch {
		case errors.Is(err, apperror.ErrValidation):
			status = http.StatusBadRequest
			kind = "validation_error"
		case errors.Is(err, apperror.ErrConflict):
			status = http.StatusBadRequest
			kind = "conflict"
		case errors.Is(err, apperror.ErrUnauthorized):
			status = http.StatusUnauthorized
			kind = "unauthorized"
		case errors.Is(err, apperror.ErrForbidden):
			status = http.StatusForbidden
			kind = "forbidden"
		case errors.Is(err, apperror.ErrNotFound):
			status = http.StatusNotFound
			kind = "not_found"
		}

		writeJSON(w, status, ErrorResponse{Error: kind, Message: appErr.Message})
		return
	}

	message := "An internal error occurred"
	if DevMode {
		message = err.Error()
	}
	writeJSON(w, http.StatusInternalServerError, ErrorResponse{
		Error:   "internal_error",
		Message: message,
	})
}

// checkRequest runs struct-tag validation on a decoded request body and
// converts the first failure into a field-level validation error.
func checkRequest(req any) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return apperror.ValidationFailed(fe.Field(), fe.Field()+" is missing or invalid")
	}
	return apperror.ValidationFailed("", "invalid request")
}

// decodeJSON decodes a JSON request body into dst, translating decode
// failures into a validation error instead of a bare 400 string.
func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperror.ValidationFailed("", "invalid JSON body")
	}
	return nil
}
