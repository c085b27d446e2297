// Package auth implements login by username or email, logout, and the
// resolution of session cookies into request principals.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bookreview/internal/entity"
	"bookreview/internal/httpx"
	"bookreview/internal/metrics"
	"bookreview/internal/platform/crypto"
	"bookreview/internal/user"
)

var (
	ErrInvalidCredentials = errors.New("invalid login credentials")

	// ErrUnauthorized wraps httpx.ErrNoSession so the session middleware
	// treats the request as anonymous.
	ErrUnauthorized = fmt.Errorf("unauthorized: %w", httpx.ErrNoSession)
)

type Service struct {
	secret string
	ttl    time.Duration
	users  UserFinder
	tokens TokenRevoker
}

func NewService(secret string, ttl time.Duration, users UserFinder, tokens TokenRevoker) *Service {
	return &Service{
		secret: secret,
		ttl:    ttl,
		users:  users,
		tokens: tokens,
	}
}

// TTL is the lifetime of issued session tokens.
func (s *Service) TTL() time.Duration {
	return s.ttl
}

// Authenticate treats identifier as a username first. When that fails it
// looks the identifier up as an email address and checks the password of
// the account found.
func (s *Service) Authenticate(ctx context.Context, identifier, password string) (entity.User, error) {
	u, err := s.users.GetByUsername(ctx, identifier)
	switch {
	case err == nil:
		if crypto.VerifyPassword(u.Password, password) {
			return u, nil
		}
	case !errors.Is(err, user.ErrNotFound):
		return entity.User{}, err
	}

	byEmail, err := s.users.GetByEmail(ctx, identifier)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return entity.User{}, ErrInvalidCredentials
		}
		return entity.User{}, err
	}
	if !crypto.VerifyPassword(byEmail.Password, password) {
		return entity.User{}, ErrInvalidCredentials
	}
	return byEmail, nil
}

// Login authenticates and issues a signed session token.
func (s *Service) Login(ctx context.Context, identifier, password string) (string, entity.User, error) {
	u, err := s.Authenticate(ctx, identifier, password)
	metrics.RecordLogin(err == nil)
	if err != nil {
		return "", entity.User{}, err
	}

	token, _, err := crypto.GenerateToken(s.secret, u.ID, s.ttl)
	if err != nil {
		return "", entity.User{}, err
	}
	return token, u, nil
}

// Logout revokes token until its expiry. Invalid or expired tokens need no
// revocation and are ignored.
func (s *Service) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	claims, err := crypto.ParseToken(s.secret, token)
	if err != nil {
		return nil
	}

	expiresAt := time.Now().Add(s.ttl)
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}
	if err := s.tokens.Revoke(ctx, claims.ID, claims.Sub, expiresAt); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

// ResolveSession returns the principal of a valid, unrevoked token.
func (s *Service) ResolveSession(ctx context.Context, token string) (*httpx.Principal, error) {
	claims, err := crypto.ParseToken(s.secret, token)
	if err != nil {
		return nil, ErrUnauthorized
	}

	revoked, err := s.tokens.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("check revocation: %w", err)
	}
	if revoked {
		return nil, ErrUnauthorized
	}

	u, err := s.users.GetByID(ctx, claims.Sub)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, fmt.Errorf("load session user: %w", err)
	}
	return &httpx.Principal{ID: u.ID, Username: u.Username, IsSuperuser: u.IsSuperuser}, nil
}
