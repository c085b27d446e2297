package user

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"bookreview/internal/entity"
	"bookreview/internal/metrics"
)

const uniqueViolation = "23505"

type PostgresRepo struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewPostgresRepo(db *pgxpool.Pool, timeout time.Duration) *PostgresRepo {
	return &PostgresRepo{db: db, timeout: timeout}
}

func (r *PostgresRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

func (r *PostgresRepo) Create(ctx context.Context, u *entity.User) (err error) {
	defer func(start time.Time) { metrics.RecordDBQuery("user_create", time.Since(start), err) }(time.Now())

	const query = `
	INSERT INTO users (id, username, email, password_hash, is_superuser)
	VALUES (gen_random_uuid(), $1, $2, $3, $4)
	RETURNING id, created_at
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err = r.db.QueryRow(timeoutCtx, query, u.Username, u.Email, u.Password, u.IsSuperuser).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			switch pgErr.ConstraintName {
			case "users_username_key":
				return ErrUsernameTaken
			case "users_email_lower_key":
				return ErrEmailTaken
			}
			return ErrAlreadyExists
		}
		return err
	}
	return nil
}

const selectUser = `SELECT id, username, email, password_hash, is_superuser, created_at FROM users`

func (r *PostgresRepo) getOne(ctx context.Context, operation, query string, arg any) (entity.User, error) {
	var u entity.User
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	start := time.Now()
	err := r.db.QueryRow(timeoutCtx, query, arg).Scan(
		&u.ID, &u.Username, &u.Email, &u.Password, &u.IsSuperuser, &u.CreatedAt,
	)
	metrics.RecordDBQuery(operation, time.Since(start), err)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return entity.User{}, ErrNotFound
		}
		return entity.User{}, err
	}
	return u, nil
}

func (r *PostgresRepo) GetByID(ctx context.Context, id string) (entity.User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return entity.User{}, ErrNotFound
	}
	return r.getOne(ctx, "user_get", selectUser+` WHERE id = $1`, id)
}

func (r *PostgresRepo) GetByUsername(ctx context.Context, username string) (entity.User, error) {
	return r.getOne(ctx, "user_get_by_username", selectUser+` WHERE username = $1`, username)
}

func (r *PostgresRepo) GetByEmail(ctx context.Context, email string) (entity.User, error) {
	return r.getOne(ctx, "user_get_by_email", selectUser+` WHERE lower(email) = lower($1) LIMIT 1`, email)
}
