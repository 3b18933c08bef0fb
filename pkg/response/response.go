// Package response writes JSON bodies and converts handler errors into
// responses. Every error body has the shape {"error": "<message>"}.
package response

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/neomdavid/IAX-ROLEX-backend/pkg/apperr"
	"github.com/neomdavid/IAX-ROLEX-backend/pkg/logger"
)

// ErrorBody is the JSON shape of every failed request.
type ErrorBody struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// JSON writes v with the given status code. v is encoded before the
// header goes out; a value that cannot be encoded becomes a 500.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	body, err := Encode(v)
	if err != nil {
		logger.Error("response: encode body", "error", err)
		status = http.StatusInternalServerError
		body, _ = Encode(ErrorBody{Error: apperr.GenericMessage})
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(body) //nolint:errcheck
}

// Encode marshals v the way JSON writes it, with a trailing newline.
func Encode(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// OK sends a 200 JSON response.
func OK(w http.ResponseWriter, v interface{}) {
	JSON(w, http.StatusOK, v)
}

// Created sends a 201 JSON response.
func Created(w http.ResponseWriter, v interface{}) {
	JSON(w, http.StatusCreated, v)
}

// Error sends {"error": message} with status.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, ErrorBody{Error: message})
}

// Fail is the single translation point from errors to responses. Classified
// errors keep their message; anything else is logged and answered with a
// generic 500.
func Fail(w http.ResponseWriter, r *http.Request, err error) {
	kind := apperr.KindOf(err)
	status := kind.Status()

	body := ErrorBody{Error: apperr.Message(err)}
	var e *apperr.Error
	if errors.As(err, &e) && len(e.Fields) > 0 {
		body.Fields = e.Fields
	}

	log := logger.L
	if r != nil {
		log = logger.WithCtx(r.Context())
	}
	if status >= http.StatusInternalServerError {
		log.Error("request failed", "error", err)
	} else {
		log.Debug("request rejected", "kind", kind.String(), "error", err)
	}

	JSON(w, status, body)
}

// Unauthenticated sends a 401 with the standard guard message.
func Unauthenticated(w http.ResponseWriter, r *http.Request) {
	Fail(w, r, apperr.Unauthenticated("Authentication invalid"))
}

// Forbidden sends a 403.
func Forbidden(w http.ResponseWriter, r *http.Request) {
	Fail(w, r, apperr.Forbidden("Not authorized to access this route"))
}

// NotFound sends a 404 for unknown routes.
func NotFound(w http.ResponseWriter, r *http.Request) {
	Fail(w, r, apperr.NotFound("Route does not exist"))
}

// MethodNotAllowed sends a 405.
func MethodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	Error(w, http.StatusMethodNotAllowed, "Method not allowed")
}
