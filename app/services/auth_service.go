package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/neomdavid/IAX-ROLEX-backend/app/models"
	"github.com/neomdavid/IAX-ROLEX-backend/app/store"
	"github.com/neomdavid/IAX-ROLEX-backend/pkg/apperr"
	"github.com/neomdavid/IAX-ROLEX-backend/pkg/auth"
	"github.com/neomdavid/IAX-ROLEX-backend/pkg/metrics"
)

// AuthService registers users and exchanges credentials for tokens.
type AuthService struct {
	users  store.Users
	signer *auth.Signer
}

func NewAuthService(users store.Users, signer *auth.Signer) *AuthService {
	return &AuthService{users: users, signer: signer}
}

// Register creates a user with the "user" role and signs a token for it.
func (s *AuthService) Register(ctx context.Context, in models.RegisterInput) (u *models.User, token string, err error) {
	defer func() { countAttempt("register", err) }()

	hash, err := auth.HashPassword(in.Password)
	if errors.Is(err, auth.ErrPasswordTooLong) {
		return nil, "", apperr.Validation("password must not exceed 72 bytes")
	}
	if err != nil {
		return nil, "", fmt.Errorf("auth: hash password: %w", err)
	}

	u = &models.User{
		Name:     strings.TrimSpace(in.Name),
		Email:    in.Email,
		Password: hash,
		Role:     auth.RoleUser,
	}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, "", apperr.Validation("Email %s is already registered", strings.TrimSpace(in.Email))
		}
		return nil, "", err
	}

	token, err = s.issue(u)
	return u, token, err
}

// Login checks the credentials and signs a token.
func (s *AuthService) Login(ctx context.Context, in models.LoginInput) (u *models.User, token string, err error) {
	defer func() { countAttempt("login", err) }()

	if strings.TrimSpace(in.Email) == "" || in.Password == "" {
		return nil, "", apperr.Validation("Please provide email and password")
	}

	u, err = s.users.FindByEmail(ctx, in.Email)
	if errors.Is(err, store.ErrNotFound) {
		return nil, "", apperr.Unauthenticated("Invalid Credentials")
	}
	if err != nil {
		return nil, "", err
	}
	if !auth.CheckPassword(u.Password, in.Password) {
		return nil, "", apperr.Unauthenticated("Invalid Credentials")
	}

	token, err = s.issue(u)
	return u, token, err
}

// Promote grants the admin role to the user with email.
func (s *AuthService) Promote(ctx context.Context, email string) (*models.User, error) {
	u, err := s.users.SetRole(ctx, email, auth.RoleAdmin)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperr.NotFound("No user with email: %s", email)
	}
	return u, err
}

func (s *AuthService) issue(u *models.User) (string, error) {
	token, err := s.signer.Issue(auth.Principal{UserID: u.ID.Hex(), Name: u.Name, Role: u.Role})
	if err != nil {
		return "", fmt.Errorf("auth: sign token: %w", err)
	}
	return token, nil
}

func countAttempt(action string, err error) {
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	metrics.AuthAttempts.WithLabelValues(action, outcome).Inc()
}
