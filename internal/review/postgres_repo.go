package review

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

const foreignKeyViolation = "23503"

// querier is satisfied by both the pool and a transaction.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

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

func (r *PostgresRepo) Create(ctx context.Context, rv *entity.Review) (err error) {
	defer func(start time.Time) { metrics.RecordDBQuery("review_create", time.Since(start), err) }(time.Now())

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	return insertReview(timeoutCtx, r.db, rv)
}

func insertReview(ctx context.Context, q querier, rv *entity.Review) error {
	if _, err := uuid.Parse(rv.BookID); err != nil {
		return ErrUnknownBook
	}
	const query = `
	INSERT INTO reviews (id, book_id, user_id, rating, content)
	VALUES (gen_random_uuid(), $1, $2, $3, $4)
	RETURNING id, created_at
	`
	err := q.QueryRow(ctx, query, rv.BookID, rv.UserID, rv.Rating, rv.Content).Scan(&rv.ID, &rv.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation && pgErr.ConstraintName == "reviews_book_id_fkey" {
			return ErrUnknownBook
		}
		return err
	}
	return nil
}

const selectReviews = `
	SELECT rv.id, rv.book_id, rv.user_id, rv.rating, rv.content, rv.created_at, u.username, b.title
	FROM reviews rv
	JOIN users u ON u.id = rv.user_id
	JOIN books b ON b.id = rv.book_id
`

func (r *PostgresRepo) list(ctx context.Context, op, query string, arg string) (reviews []entity.Review, err error) {
	if _, err := uuid.Parse(arg); err != nil {
		return nil, nil
	}
	defer func(start time.Time) { metrics.RecordDBQuery(op, time.Since(start), err) }(time.Now())

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var rv entity.Review
		if err := rows.Scan(
			&rv.ID, &rv.BookID, &rv.UserID, &rv.Rating, &rv.Content, &rv.CreatedAt, &rv.Username, &rv.BookTitle,
		); err != nil {
			return nil, err
		}
		reviews = append(reviews, rv)
	}
	return reviews, rows.Err()
}

func (r *PostgresRepo) ListByBook(ctx context.Context, bookID string) ([]entity.Review, error) {
	return r.list(ctx, "review_list_by_book",
		selectReviews+`WHERE rv.book_id = $1 ORDER BY rv.created_at DESC, rv.id`, bookID)
}

func (r *PostgresRepo) ListByUser(ctx context.Context, userID string) ([]entity.Review, error) {
	return r.list(ctx, "review_list_by_user",
		selectReviews+`WHERE rv.user_id = $1 ORDER BY rv.created_at DESC, rv.id`, userID)
}

func (r *PostgresRepo) WithinTx(ctx context.Context, fn func(TxStore) error) (err error) {
	defer func(start time.Time) { metrics.RecordDBQuery("review_tx", time.Since(start), err) }(time.Now())

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	return pgx.BeginFunc(timeoutCtx, r.db, func(tx pgx.Tx) error {
		return fn(&txStore{tx: tx})
	})
}

type txStore struct {
	tx pgx.Tx
}

func (s *txStore) CreateAuthor(ctx context.Context, a *entity.Author) error {
	const query = `
	INSERT INTO authors (id, name, nationality, birth_date)
	VALUES (gen_random_uuid(), $1, $2, $3)
	RETURNING id, created_at
	`
	return s.tx.QueryRow(ctx, query, a.Name, a.Nationality, a.BirthDate).Scan(&a.ID, &a.CreatedAt)
}

func (s *txStore) exists(ctx context.Context, query, id string) (bool, error) {
	if _, err := uuid.Parse(id); err != nil {
		return false, nil
	}
	var ok bool
	err := s.tx.QueryRow(ctx, query, id).Scan(&ok)
	return ok, err
}

func (s *txStore) AuthorExists(ctx context.Context, id string) (bool, error) {
	return s.exists(ctx, `SELECT EXISTS (SELECT 1 FROM authors WHERE id = $1)`, id)
}

func (s *txStore) CreateBook(ctx context.Context, b *entity.Book) error {
	const query = `
	INSERT INTO books (id, title, genre, release_date, cover_url, author_id)
	VALUES (gen_random_uuid(), $1, $2, $3, $4, $5)
	RETURNING id, created_at
	`
	return s.tx.QueryRow(ctx, query, b.Title, b.Genre, b.ReleaseDate, b.CoverURL, b.AuthorID).Scan(&b.ID, &b.CreatedAt)
}

func (s *txStore) BookExists(ctx context.Context, id string) (bool, error) {
	return s.exists(ctx, `SELECT EXISTS (SELECT 1 FROM books WHERE id = $1)`, id)
}

func (s *txStore) SetBookCover(ctx context.Context, bookID, coverURL string) error {
	_, err := s.tx.Exec(ctx, `UPDATE books SET cover_url = $2 WHERE id = $1`, bookID, coverURL)
	return err
}

func (s *txStore) CreateReview(ctx context.Context, rv *entity.Review) error {
	return insertReview(ctx, s.tx, rv)
}
