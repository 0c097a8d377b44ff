// Package auth issues and validates the access tokens clients send as
// Bearer credentials. Auth is disabled when no signing secret is configured,
// which is the default for local development.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	issuer          = "lorekeep"
	DefaultTokenTTL = 30 * 24 * time.Hour
)

var (
	ErrDisabled     = errors.New("auth is disabled, set a signing secret first")
	ErrInvalidToken = errors.New("invalid or expired token")
)

type Config struct {
	Secret   string
	TokenTTL time.Duration
}

type Claims struct {
	jwt.RegisteredClaims
}

// User is the account the token was minted for.
func (c *Claims) User() string {
	return c.Subject
}

type AuthService struct {
	config *Config
}

func New(config *Config) *AuthService {
	if config.TokenTTL == 0 {
		config.TokenTTL = DefaultTokenTTL
	}
	return &AuthService{config: config}
}

func (s *AuthService) IsEnabled() bool {
	return s.config.Secret != ""
}

// GenerateAccessToken mints a signed token for email.
func (s *AuthService) GenerateAccessToken(email string) (string, error) {
	if !s.IsEnabled() {
		return "", ErrDisabled
	}

	now := time.Now().UTC()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.config.TokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.Secret))
}

// ValidateAccessToken parses and verifies a token string.
func (s *AuthService) ValidateAccessToken(tokenString string) (*Claims, error) {
	if !s.IsEnabled() {
		return nil, ErrDisabled
	}

	var claims Claims
	_, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return []byte(s.config.Secret), nil
	}, jwt.WithIssuer(issuer), jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	return &claims, nil
}
