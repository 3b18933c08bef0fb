package apperr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/neomdavid/IAX-ROLEX-backend/pkg/apperr"
)

func TestKindStatus(t *testing.T) {
	cases := map[apperr.Kind]int{
		apperr.KindValidation:      http.StatusBadRequest,
		apperr.KindBadRequest:      http.StatusBadRequest,
		apperr.KindUnauthenticated: http.StatusUnauthorized,
		apperr.KindForbidden:       http.StatusForbidden,
		apperr.KindNotFound:        http.StatusNotFound,
		apperr.KindUnexpected:      http.StatusInternalServerError,
	}
	for kind, status := range cases {
		assert.Equal(t, status, kind.Status(), kind.String())
	}
}

func TestKindOf_Wrapped(t *testing.T) {
	err := fmt.Errorf("controller: %w", apperr.NotFound("No watch id : %s", "42"))

	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
	assert.Equal(t, "No watch id : 42", apperr.Message(err))
}

func TestUnexpected_HidesCause(t *testing.T) {
	cause := errors.New("connection reset by peer")
	err := apperr.Unexpected(cause)

	assert.Equal(t, apperr.KindUnexpected, apperr.KindOf(err))
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, apperr.GenericMessage, apperr.Message(err))
	assert.Equal(t, apperr.GenericMessage, apperr.Message(errors.New("plain")))
}

func TestFields_StableMessage(t *testing.T) {
	err := apperr.Fields(map[string]string{
		"price": "price must be greater than 0",
		"name":  "name is required",
	})

	assert.Equal(t, apperr.KindValidation, err.Kind)
	assert.Equal(t, "name is required, price must be greater than 0", err.Msg)
}
