package ingest

import (
	"context"
	"errors"
	"time"

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

const findAuthorByName = `
	SELECT id, name, nationality, birth_date, created_at
	FROM authors
	WHERE lower(name) = lower($1)
	ORDER BY created_at, id
	LIMIT 1`

func (r *PostgresRepo) FindAuthorByName(ctx context.Context, name string) (*entity.Author, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	start := time.Now()
	a, err := scanAuthor(r.db.QueryRow(timeoutCtx, findAuthorByName, name))
	metrics.RecordDBQuery("ingest_find_author", time.Since(start), err)
	return a, err
}

func scanAuthor(row pgx.Row) (*entity.Author, error) {
	var a entity.Author
	err := row.Scan(&a.ID, &a.Name, &a.Nationality, &a.BirthDate, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

func (r *PostgresRepo) SaveImport(ctx context.Context, item *Item) (out Outcome, err error) {
	defer func(start time.Time) { metrics.RecordDBQuery("ingest_save", time.Since(start), err) }(time.Now())

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err = pgx.BeginFunc(timeoutCtx, r.db, func(tx pgx.Tx) error {
		out = Outcome{}
		if item.Author.ID == "" {
			// Another import may have created the author since the lookup.
			existing, err := scanAuthor(tx.QueryRow(timeoutCtx, findAuthorByName, item.Author.Name))
			if err != nil {
				return err
			}
			if existing != nil {
				item.Author = *existing
			} else {
				const insertAuthor = `
				INSERT INTO authors (id, name, nationality, birth_date)
				VALUES (gen_random_uuid(), $1, $2, $3)
				RETURNING id, created_at`
				if err := tx.QueryRow(timeoutCtx, insertAuthor,
					item.Author.Name, item.Author.Nationality, item.Author.BirthDate,
				).Scan(&item.Author.ID, &item.Author.CreatedAt); err != nil {
					return err
				}
				out.AuthorCreated = true
			}
		}

		var exists bool
		if err := tx.QueryRow(timeoutCtx,
			`SELECT EXISTS (SELECT 1 FROM books WHERE author_id = $1 AND lower(title) = lower($2))`,
			item.Author.ID, item.Book.Title,
		).Scan(&exists); err != nil {
			return err
		}
		if exists {
			return nil
		}

		item.Book.AuthorID = item.Author.ID
		const insertBook = `
		INSERT INTO books (id, title, genre, release_date, cover_url, author_id)
		VALUES (gen_random_uuid(), $1, $2, $3, $4, $5)
		RETURNING id, created_at`
		if err := tx.QueryRow(timeoutCtx, insertBook,
			item.Book.Title, item.Book.Genre, item.Book.ReleaseDate, item.Book.CoverURL, item.Book.AuthorID,
		).Scan(&item.Book.ID, &item.Book.CreatedAt); err != nil {
			return err
		}
		out.BookCreated = true
		return nil
	})
	if err != nil {
		return Outcome{}, err
	}
	return out, nil
}
