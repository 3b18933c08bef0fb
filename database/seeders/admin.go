package seeders

import (
	"context"
	"errors"
	"fmt"

	"github.com/neomdavid/IAX-ROLEX-backend/app/models"
	"github.com/neomdavid/IAX-ROLEX-backend/app/store"
	"github.com/neomdavid/IAX-ROLEX-backend/config"
	"github.com/neomdavid/IAX-ROLEX-backend/pkg/auth"
	"github.com/neomdavid/IAX-ROLEX-backend/pkg/logger"
)

func init() {
	Register("admin", SeedAdmin)
}

// SeedAdmin creates the account named by ADMIN_EMAIL / ADMIN_PASSWORD with
// the admin role. An existing account is promoted instead; without
// ADMIN_EMAIL nothing happens.
func SeedAdmin(ctx context.Context, s store.Stores) error {
	email := config.Get("ADMIN_EMAIL", "")
	if email == "" {
		logger.Info("seed admin: ADMIN_EMAIL not set, skipping")
		return nil
	}

	if _, err := s.Users.FindByEmail(ctx, email); err == nil {
		_, err := s.Users.SetRole(ctx, email, auth.RoleAdmin)
		return err
	} else if !errors.Is(err, store.ErrNotFound) {
		return err
	}

	password := config.Get("ADMIN_PASSWORD", "")
	if len(password) < 6 {
		return fmt.Errorf("ADMIN_PASSWORD must be at least 6 characters")
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	return s.Users.Create(ctx, &models.User{
		Name:     config.Get("ADMIN_NAME", "admin"),
		Email:    email,
		Password: hash,
		Role:     auth.RoleAdmin,
	})
}
