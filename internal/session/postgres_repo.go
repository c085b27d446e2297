package session

import (
	"context"
	"fmt"
	"time"

	"bookreview/internal/metrics"

	"github.com/jackc/pgx/v5/pgxpool"
)

// BlacklistPostgresRepo stores revoked session token ids until the tokens
// would have expired.
type BlacklistPostgresRepo struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewBlacklistPostgresRepo(db *pgxpool.Pool, timeout time.Duration) *BlacklistPostgresRepo {
	return &BlacklistPostgresRepo{db: db, timeout: timeout}
}

func (r *BlacklistPostgresRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

// AddToken is idempotent: revoking the same jti twice keeps the first row.
func (r *BlacklistPostgresRepo) AddToken(ctx context.Context, jti, userID string, expiresAt time.Time) (err error) {
	defer func(start time.Time) { metrics.RecordDBQuery("blacklist_add", time.Since(start), err) }(time.Now())

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	_, err = r.db.Exec(ctx, `
		INSERT INTO token_blacklist (jti, user_id, expires_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (jti) DO NOTHING`,
		jti, userID, expiresAt,
	)
	if err != nil {
		return fmt.Errorf("blacklist token: %w", err)
	}
	return nil
}

// IsBlacklisted ignores rows whose token has already expired.
func (r *BlacklistPostgresRepo) IsBlacklisted(ctx context.Context, jti string) (blacklisted bool, err error) {
	defer func(start time.Time) { metrics.RecordDBQuery("blacklist_check", time.Since(start), err) }(time.Now())

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	err = r.db.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM token_blacklist
			WHERE jti = $1 AND expires_at > now()
		)`, jti,
	).Scan(&blacklisted)
	if err != nil {
		return false, fmt.Errorf("check blacklist: %w", err)
	}
	return blacklisted, nil
}

func (r *BlacklistPostgresRepo) CleanupExpired(ctx context.Context) (removed int64, err error) {
	defer func(start time.Time) { metrics.RecordDBQuery("blacklist_cleanup", time.Since(start), err) }(time.Now())

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	tag, err := r.db.Exec(ctx, `DELETE FROM token_blacklist WHERE expires_at < now()`)
	if err != nil {
		return 0, fmt.Errorf("cleanup blacklist: %w", err)
	}
	return tag.RowsAffected(), nil
}
