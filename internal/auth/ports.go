package auth

import (
	"context"
	"time"

	"bookreview/internal/entity"
)

//go:generate mockgen -source=ports.go -destination=mock_ports.go -package=auth

// UserFinder looks up accounts. *user.Service satisfies it.
type UserFinder interface {
	GetByID(ctx context.Context, id string) (entity.User, error)
	GetByUsername(ctx context.Context, username string) (entity.User, error)
	GetByEmail(ctx context.Context, email string) (entity.User, error)
}

// TokenRevoker records logged-out tokens. *session.Service satisfies it.
type TokenRevoker interface {
	Revoke(ctx context.Context, jti, userID string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}
