package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/neomdavid/IAX-ROLEX-backend/config"
)

// Roles a user can carry.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Claims holds the typed JWT payload.
type Claims struct {
	UserID string `json:"userId"`
	Name   string `json:"name"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Signer issues and verifies tokens with one HMAC secret.
type Signer struct {
	secret   []byte
	lifetime time.Duration
	now      func() time.Time
}

// NewSigner builds a Signer. A zero lifetime means one day.
func NewSigner(secret string, lifetime time.Duration) *Signer {
	if lifetime <= 0 {
		lifetime = 24 * time.Hour
	}
	return &Signer{secret: []byte(secret), lifetime: lifetime, now: time.Now}
}

// DefaultSigner reads JWT_SECRET and JWT_LIFETIME.
func DefaultSigner() *Signer {
	return NewSigner(config.JWTSecret(), config.JWTLifetime())
}

// Issue creates a signed token for p.
func (s *Signer) Issue(p Principal) (string, error) {
	now := s.now()
	claims := Claims{
		UserID: p.UserID,
		Name:   p.Name,
		Role:   p.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.UserID,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.lifetime)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Verify parses and validates a token and returns its principal.
func (s *Signer) Verify(token string) (Principal, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(tok *jwt.Token) (interface{}, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", tok.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return Principal{}, err
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.UserID == "" {
		return Principal{}, jwt.ErrTokenInvalidClaims
	}

	return Principal{UserID: claims.UserID, Name: claims.Name, Role: claims.Role}, nil
}

// ErrPasswordTooLong is returned for passwords bcrypt cannot hash.
var ErrPasswordTooLong = errors.New("auth: password exceeds 72 bytes")

// HashPassword returns a bcrypt hash of the plain-text password.
func HashPassword(plain string) (string, error) {
	if len(plain) > 72 {
		return "", ErrPasswordTooLong
	}
	bytes, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	return string(bytes), err
}

// CheckPassword compares a bcrypt hash against the plain-text candidate.
func CheckPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
