package author

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"bookreview/internal/entity"
	"bookreview/internal/metrics"
)

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

func (r *PostgresRepo) Create(ctx context.Context, a *entity.Author) (err error) {
	defer func(start time.Time) { metrics.RecordDBQuery("author_create", time.Since(start), err) }(time.Now())

	const query = `
	INSERT INTO authors (id, name, nationality, birth_date)
	VALUES (gen_random_uuid(), $1, $2, $3)
	RETURNING id, created_at
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	return r.db.QueryRow(timeoutCtx, query, a.Name, a.Nationality, a.BirthDate).Scan(&a.ID, &a.CreatedAt)
}

func (r *PostgresRepo) GetByID(ctx context.Context, id string) (entity.Author, error) {
	if _, err := uuid.Parse(id); err != nil {
		return entity.Author{}, ErrNotFound
	}

	const query = `SELECT id, name, nationality, birth_date, created_at FROM authors WHERE id = $1`
	var a entity.Author
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	start := time.Now()
	err := r.db.QueryRow(timeoutCtx, query, id).Scan(&a.ID, &a.Name, &a.Nationality, &a.BirthDate, &a.CreatedAt)
	metrics.RecordDBQuery("author_get", time.Since(start), err)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return entity.Author{}, ErrNotFound
		}
		return entity.Author{}, err
	}
	return a, nil
}

func (r *PostgresRepo) List(ctx context.Context) (authors []entity.Author, err error) {
	defer func(start time.Time) { metrics.RecordDBQuery("author_list", time.Since(start), err) }(time.Now())

	const query = `SELECT id, name, nationality, birth_date, created_at FROM authors ORDER BY name, id`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var a entity.Author
		if err := rows.Scan(&a.ID, &a.Name, &a.Nationality, &a.BirthDate, &a.CreatedAt); err != nil {
			return nil, err
		}
		authors = append(authors, a)
	}
	return authors, rows.Err()
}
