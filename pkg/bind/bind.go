// Package bind decodes and validates an HTTP request body into a struct.
//
// Both JSON and form bodies are accepted. Fields are matched by their json
// tag, unknown JSON fields are rejected, and the result is validated with
// pkg/validate. Every failure comes back as an *apperr.Error.
package bind

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/neomdavid/IAX-ROLEX-backend/config"
	"github.com/neomdavid/IAX-ROLEX-backend/pkg/apperr"
	"github.com/neomdavid/IAX-ROLEX-backend/pkg/validate"
)

// maxBodyBytes returns the configured request body size limit (default 1 MB).
func maxBodyBytes() int64 {
	n := config.Int64("MAX_BODY_BYTES", 1<<20)
	if n <= 0 {
		return 1 << 20
	}
	return n
}

// Request binds r into dest, choosing JSON or form decoding from the
// Content-Type header. Multipart forms must already be parsed by the caller
// when files are involved (see media.Ingestor).
func Request(r *http.Request, dest interface{}) error {
	if isForm(r) {
		return Form(r, dest)
	}
	return JSON(r, dest)
}

// JSON decodes r.Body as JSON into dest and runs validation.
// The body is capped at MAX_BODY_BYTES to prevent memory exhaustion.
func JSON(r *http.Request, dest interface{}) error {
	r.Body = http.MaxBytesReader(nil, r.Body, maxBodyBytes())

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dest); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			return apperr.BadRequest("request body too large (max %d bytes)", maxErr.Limit)
		case errors.Is(err, io.EOF):
			// An empty body leaves dest zero-valued; validation decides.
		default:
			return apperr.BadRequest("invalid JSON: %s", strings.TrimPrefix(err.Error(), "json: "))
		}
	}

	return Validate(dest)
}

// Form copies url-encoded or multipart form values into dest and runs
// validation. Keys that are not fields of dest are ignored, so a form can
// never set anything the type does not declare.
func Form(r *http.Request, dest interface{}) error {
	if r.PostForm == nil {
		var err error
		if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/") {
			err = r.ParseMultipartForm(maxBodyBytes())
		} else {
			err = r.ParseForm()
		}
		if err != nil {
			return apperr.BadRequest("invalid form body: %v", err)
		}
	}

	if err := assignForm(r.PostForm, dest); err != nil {
		return err
	}
	return Validate(dest)
}

// Validate runs struct-tag validation and converts failures into a
// validation error.
func Validate(dest interface{}) error {
	if errs := validate.Struct(dest); validate.HasErrors(errs) {
		return apperr.Fields(errs)
	}
	return nil
}

func isForm(r *http.Request) bool {
	ct, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return false
	}
	return ct == "multipart/form-data" || ct == "application/x-www-form-urlencoded"
}

func fieldError(field string, err error) error {
	return apperr.Fields(map[string]string{field: fmt.Sprintf("%s is invalid: %v", field, err)})
}
