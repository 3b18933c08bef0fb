package seeders

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neomdavid/IAX-ROLEX-backend/app/models"
	"github.com/neomdavid/IAX-ROLEX-backend/app/store"
	"github.com/neomdavid/IAX-ROLEX-backend/config"
	"github.com/neomdavid/IAX-ROLEX-backend/pkg/auth"
)

func setConfig(t *testing.T, kv map[string]string) {
	t.Helper()
	for k, v := range kv {
		prev := config.Get(k, "")
		config.Set(k, v)
		t.Cleanup(func() { config.Set(k, prev) })
	}
}

func TestSeedAdmin_Creates(t *testing.T) {
	setConfig(t, map[string]string{"ADMIN_EMAIL": "root@iax.dev", "ADMIN_PASSWORD": "hunter22"})
	s := store.NewMemory()

	var out bytes.Buffer
	require.NoError(t, RunAll(context.Background(), s, &out))
	assert.Contains(t, out.String(), "Running seeder: admin")

	u, err := s.Users.FindByEmail(context.Background(), "root@iax.dev")
	require.NoError(t, err)
	assert.Equal(t, auth.RoleAdmin, u.Role)
	assert.True(t, auth.CheckPassword(u.Password, "hunter22"))
}

func TestSeedAdmin_PromotesExisting(t *testing.T) {
	setConfig(t, map[string]string{"ADMIN_EMAIL": "john@iax.dev", "ADMIN_PASSWORD": ""})
	s := store.NewMemory()
	require.NoError(t, s.Users.Create(context.Background(), &models.User{Name: "john", Email: "john@iax.dev", Role: auth.RoleUser}))

	require.NoError(t, SeedAdmin(context.Background(), s))

	u, err := s.Users.FindByEmail(context.Background(), "john@iax.dev")
	require.NoError(t, err)
	assert.Equal(t, auth.RoleAdmin, u.Role)
}

func TestSeedAdmin_SkipsWithoutEmail(t *testing.T) {
	setConfig(t, map[string]string{"ADMIN_EMAIL": ""})
	s := store.NewMemory()

	require.NoError(t, SeedAdmin(context.Background(), s))
	_, err := s.Users.FindByEmail(context.Background(), "")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestSeedAdmin_ShortPassword(t *testing.T) {
	setConfig(t, map[string]string{"ADMIN_EMAIL": "root@iax.dev", "ADMIN_PASSWORD": "abc"})
	assert.Error(t, SeedAdmin(context.Background(), store.NewMemory()))
}
