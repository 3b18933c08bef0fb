package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neomdavid/IAX-ROLEX-backend/app/models"
	"github.com/neomdavid/IAX-ROLEX-backend/app/store"
	"github.com/neomdavid/IAX-ROLEX-backend/pkg/apperr"
	"github.com/neomdavid/IAX-ROLEX-backend/pkg/auth"
)

func newService() (*AuthService, *auth.Signer) {
	signer := auth.NewSigner("test-secret", time.Hour)
	return NewAuthService(store.NewMemoryUsers(), signer), signer
}

func TestRegisterThenLogin(t *testing.T) {
	ctx := context.Background()
	svc, signer := newService()

	u, token, err := svc.Register(ctx, models.RegisterInput{Name: "john", Email: "john@example.com", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, auth.RoleUser, u.Role)
	assert.NotEqual(t, "secret123", u.Password)

	p, err := signer.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, u.ID.Hex(), p.UserID)

	u2, _, err := svc.Login(ctx, models.LoginInput{Email: "JOHN@example.com", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, u.ID, u2.ID)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService()
	in := models.RegisterInput{Name: "john", Email: "john@example.com", Password: "secret123"}

	_, _, err := svc.Register(ctx, in)
	require.NoError(t, err)
	_, _, err = svc.Register(ctx, in)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestLogin_Failures(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService()
	_, _, err := svc.Register(ctx, models.RegisterInput{Name: "john", Email: "john@example.com", Password: "secret123"})
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, models.LoginInput{Email: "john@example.com"})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	assert.Equal(t, "Please provide email and password", apperr.Message(err))

	_, _, err = svc.Login(ctx, models.LoginInput{Email: "john@example.com", Password: "wrong-one"})
	assert.Equal(t, apperr.KindUnauthenticated, apperr.KindOf(err))
	assert.Equal(t, "Invalid Credentials", apperr.Message(err))

	_, _, err = svc.Login(ctx, models.LoginInput{Email: "nobody@example.com", Password: "secret123"})
	assert.Equal(t, apperr.KindUnauthenticated, apperr.KindOf(err))
}

func TestPromote(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService()
	_, _, err := svc.Register(ctx, models.RegisterInput{Name: "john", Email: "john@example.com", Password: "secret123"})
	require.NoError(t, err)

	u, err := svc.Promote(ctx, "john@example.com")
	require.NoError(t, err)
	assert.Equal(t, auth.RoleAdmin, u.Role)

	_, err = svc.Promote(ctx, "nobody@example.com")
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}
