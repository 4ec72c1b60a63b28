package response

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/shashiranjanraj/brewandco/pkg/apperr"
	"github.com/shashiranjanraj/brewandco/pkg/logger"
	"github.com/shashiranjanraj/brewandco/pkg/orm"
)

// Envelope is the single JSON shape every endpoint answers with.
type Envelope struct {
	Success bool              `json:"success"`
	Status  int               `json:"status"`
	Message string            `json:"message,omitempty"`
	Data    interface{}       `json:"data,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// Write sends body with the given status. Success is derived from status.
func Write(w http.ResponseWriter, status int, body Envelope) {
	body.Status = status
	body.Success = status < http.StatusBadRequest
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body) //nolint:errcheck
}

// Success sends a 200 JSON response with data.
func Success(w http.ResponseWriter, data interface{}) {
	Write(w, http.StatusOK, Envelope{Data: data})
}

// Message sends a 200 with a message and optional data.
func Message(w http.ResponseWriter, message string, data interface{}) {
	Write(w, http.StatusOK, Envelope{Message: message, Data: data})
}

// Created sends a 201 JSON response with data.
func Created(w http.ResponseWriter, message string, data interface{}) {
	Write(w, http.StatusCreated, Envelope{Message: message, Data: data})
}

// Error sends a JSON error response.
func Error(w http.ResponseWriter, status int, message string) {
	Write(w, status, Envelope{Message: message})
}

// ValidationError sends a 400 with field-level error map.
func ValidationError(w http.ResponseWriter, errs map[string]string) {
	Write(w, http.StatusBadRequest, Envelope{
		Message: "Validation failed",
		Errors:  errs,
	})
}

// Paginated sends a 200 response with data and pagination metadata.
func Paginated(w http.ResponseWriter, data interface{}, pagination orm.Pagination) {
	body := map[string]interface{}{
		"items":      data,
		"pagination": pagination,
	}
	Write(w, http.StatusOK, Envelope{Data: body})
}

// Fail writes err as an envelope. Errors outside the apperr taxonomy and
// Internal errors are logged with the request id and answered with a
// generic message.
func Fail(w http.ResponseWriter, r *http.Request, err error) {
	var e *apperr.Error
	if !errors.As(err, &e) {
		e = apperr.Internal("", err)
	}

	if e.Kind == apperr.KindInternal {
		logger.WithCtx(r.Context()).Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
	}

	Write(w, e.Kind.Status(), Envelope{Message: e.Message, Errors: e.Fields})
}

// Unauthorized sends a 401.
func Unauthorized(w http.ResponseWriter) {
	Error(w, http.StatusUnauthorized, "Unauthorized")
}

// Forbidden sends a 403.
func Forbidden(w http.ResponseWriter) {
	Error(w, http.StatusForbidden, "Forbidden")
}

// NotFound sends a 404.
func NotFound(w http.ResponseWriter) {
	Error(w, http.StatusNotFound, "Not found")
}

// MethodNotAllowed sends a 405.
func MethodNotAllowed(w http.ResponseWriter) {
	Error(w, http.StatusMethodNotAllowed, "Method not allowed")
}
