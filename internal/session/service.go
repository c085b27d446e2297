// Package session tracks revoked session tokens.
package session

import (
	"context"
	"time"

	"bookreview/internal/logging"
)

type Service struct {
	blacklistRepo BlacklistRepository
}

func NewService(blacklistRepo BlacklistRepository) *Service {
	return &Service{blacklistRepo: blacklistRepo}
}

// Revoke blacklists jti until expiresAt, when the token would stop being
// accepted anyway.
func (s *Service) Revoke(ctx context.Context, jti, userID string, expiresAt time.Time) error {
	return s.blacklistRepo.AddToken(ctx, jti, userID, expiresAt)
}

func (s *Service) IsRevoked(ctx context.Context, jti string) (bool, error) {
	return s.blacklistRepo.IsBlacklisted(ctx, jti)
}

// RunCleanup removes expired entries every interval until ctx is done.
func (s *Service) RunCleanup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := s.blacklistRepo.CleanupExpired(ctx)
			if err != nil {
				logging.Warn().Err(err).Msg("token blacklist cleanup failed")
				continue
			}
			if n > 0 {
				logging.Info().Int64("removed", n).Msg("token blacklist cleaned up")
			}
		}
	}
}
