package book

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"bookreview/internal/entity"
	"bookreview/internal/metrics"
)

const foreignKeyViolation = "23503"

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

// selectBooks yields one row per book with the mean rating (NULL without
// reviews) and the review count.
const selectBooks = `
	SELECT b.id, b.title, b.genre, b.release_date, b.cover_url, b.author_id, a.name, b.created_at,
	       AVG(rv.rating)::float8, COUNT(rv.id)
	FROM books b
	JOIN authors a ON a.id = b.author_id
	LEFT JOIN reviews rv ON rv.book_id = b.id
`

const groupBooks = ` GROUP BY b.id, a.name `

func (r *PostgresRepo) queryBooks(ctx context.Context, op, query string, args ...any) (books []entity.Book, err error) {
	defer func(start time.Time) { metrics.RecordDBQuery(op, time.Since(start), err) }(time.Now())

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var b entity.Book
		if err := rows.Scan(
			&b.ID, &b.Title, &b.Genre, &b.ReleaseDate, &b.CoverURL, &b.AuthorID, &b.AuthorName, &b.CreatedAt,
			&b.AvgRating, &b.ReviewCount,
		); err != nil {
			return nil, err
		}
		books = append(books, b)
	}
	return books, rows.Err()
}

// escapeLike quotes the LIKE metacharacters of s.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func (r *PostgresRepo) List(ctx context.Context, query string) ([]entity.Book, error) {
	if query == "" {
		return r.queryBooks(ctx, "book_list", selectBooks+groupBooks+`ORDER BY b.title, b.id`)
	}
	pattern := "%" + escapeLike(query) + "%"
	return r.queryBooks(ctx, "book_search",
		selectBooks+`WHERE b.title ILIKE $1 ESCAPE '\' OR a.name ILIKE $1 ESCAPE '\'`+groupBooks+`ORDER BY b.title, b.id`,
		pattern)
}

func (r *PostgresRepo) GetByID(ctx context.Context, id string) (entity.Book, error) {
	if _, err := uuid.Parse(id); err != nil {
		return entity.Book{}, ErrNotFound
	}
	books, err := r.queryBooks(ctx, "book_get", selectBooks+`WHERE b.id = $1`+groupBooks, id)
	if err != nil {
		return entity.Book{}, err
	}
	if len(books) == 0 {
		return entity.Book{}, ErrNotFound
	}
	return books[0], nil
}

func (r *PostgresRepo) ListByAuthor(ctx context.Context, authorID string) ([]entity.Book, error) {
	if _, err := uuid.Parse(authorID); err != nil {
		return nil, nil
	}
	return r.queryBooks(ctx, "book_list_by_author",
		selectBooks+`WHERE b.author_id = $1`+groupBooks+`ORDER BY b.title, b.id`, authorID)
}

func (r *PostgresRepo) Recommendable(ctx context.Context, minRating float64, minReviews int) ([]entity.Book, error) {
	return r.queryBooks(ctx, "book_recommendable",
		selectBooks+groupBooks+`HAVING AVG(rv.rating) >= $1 AND COUNT(rv.id) >= $2 ORDER BY b.title, b.id`,
		minRating, minReviews)
}

func (r *PostgresRepo) Create(ctx context.Context, b *entity.Book) (err error) {
	defer func(start time.Time) { metrics.RecordDBQuery("book_create", time.Since(start), err) }(time.Now())

	const query = `
	INSERT INTO books (id, title, genre, release_date, cover_url, author_id)
	VALUES (gen_random_uuid(), $1, $2, $3, $4, $5)
	RETURNING id, created_at
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err = r.db.QueryRow(timeoutCtx, query, b.Title, b.Genre, b.ReleaseDate, b.CoverURL, b.AuthorID).Scan(&b.ID, &b.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation {
			return ErrUnknownAuthor
		}
		return err
	}
	return nil
}

func (r *PostgresRepo) Delete(ctx context.Context, id string) (err error) {
	if _, err := uuid.Parse(id); err != nil {
		return ErrNotFound
	}
	defer func(start time.Time) { metrics.RecordDBQuery("book_delete", time.Since(start), err) }(time.Now())

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	return pgx.BeginFunc(timeoutCtx, r.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(timeoutCtx, `DELETE FROM reviews WHERE book_id = $1`, id); err != nil {
			return fmt.Errorf("delete reviews: %w", err)
		}
		tag, err := tx.Exec(timeoutCtx, `DELETE FROM books WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("delete book: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return ErrNotFound
		}
		return nil
	})
}
