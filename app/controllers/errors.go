package controllers

import (
	"errors"

	"github.com/neomdavid/IAX-ROLEX-backend/app/store"
	"github.com/neomdavid/IAX-ROLEX-backend/pkg/apperr"
)

// notFound turns store.ErrNotFound into a 404 with the given message and
// passes any other error through.
func notFound(err error, format string, args ...any) error {
	if errors.Is(err, store.ErrNotFound) {
		return apperr.NotFound(format, args...)
	}
	return err
}
