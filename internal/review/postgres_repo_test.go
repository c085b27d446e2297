package review

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookreview/internal/entity"
	"bookreview/internal/testutil"
)

func seed(t *testing.T, db *pgxpool.Pool) (userID, bookID string) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, db.QueryRow(ctx, `
		INSERT INTO users (id, username, email, password_hash)
		VALUES (gen_random_uuid(), 'reader', 'reader@example.com', 'hash') RETURNING id`).Scan(&userID))
	var authorID string
	require.NoError(t, db.QueryRow(ctx,
		`INSERT INTO authors (id, name) VALUES (gen_random_uuid(), 'Author') RETURNING id`).Scan(&authorID))
	require.NoError(t, db.QueryRow(ctx,
		`INSERT INTO books (id, title, author_id) VALUES (gen_random_uuid(), 'Book', $1) RETURNING id`, authorID).Scan(&bookID))
	return userID, bookID
}

func count(t *testing.T, db *pgxpool.Pool, table string) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRow(context.Background(), `SELECT COUNT(*) FROM `+table).Scan(&n))
	return n
}

func TestPostgresRepo_CreateAndList(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewPostgresRepo(db, 3*time.Second)
	ctx := context.Background()
	userID, bookID := seed(t, db)

	first := &entity.Review{BookID: bookID, UserID: userID, Rating: 3, Content: "first"}
	require.NoError(t, repo.Create(ctx, first))
	second := &entity.Review{BookID: bookID, UserID: userID, Rating: 5, Content: "second"}
	require.NoError(t, repo.Create(ctx, second))

	byBook, err := repo.ListByBook(ctx, bookID)
	require.NoError(t, err)
	require.Len(t, byBook, 2)
	assert.Equal(t, "second", byBook[0].Content)
	assert.Equal(t, "reader", byBook[0].Username)

	byUser, err := repo.ListByUser(ctx, userID)
	require.NoError(t, err)
	require.Len(t, byUser, 2)
	assert.Equal(t, "Book", byUser[0].BookTitle)

	err = repo.Create(ctx, &entity.Review{BookID: "00000000-0000-4000-8000-000000000000", UserID: userID, Rating: 3, Content: "x"})
	assert.ErrorIs(t, err, ErrUnknownBook)

	err = repo.Create(ctx, &entity.Review{BookID: bookID, UserID: userID, Rating: 6, Content: "x"})
	assert.Error(t, err)
}

func TestPostgresRepo_WithinTx(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewPostgresRepo(db, 3*time.Second)
	ctx := context.Background()
	userID, bookID := seed(t, db)

	t.Run("commit", func(t *testing.T) {
		err := repo.WithinTx(ctx, func(tx TxStore) error {
			ok, err := tx.BookExists(ctx, bookID)
			require.NoError(t, err)
			require.True(t, ok)
			if err := tx.SetBookCover(ctx, bookID, "https://cdn.example.com/c.png"); err != nil {
				return err
			}
			return tx.CreateReview(ctx, &entity.Review{BookID: bookID, UserID: userID, Rating: 4, Content: "x"})
		})
		require.NoError(t, err)

		var cover string
		require.NoError(t, db.QueryRow(ctx, `SELECT cover_url FROM books WHERE id = $1`, bookID).Scan(&cover))
		assert.Equal(t, "https://cdn.example.com/c.png", cover)
	})

	t.Run("failed review rolls back the new author and book", func(t *testing.T) {
		authorsBefore, booksBefore := count(t, db, "authors"), count(t, db, "books")

		err := repo.WithinTx(ctx, func(tx TxStore) error {
			a := &entity.Author{Name: "Rolled Back"}
			if err := tx.CreateAuthor(ctx, a); err != nil {
				return err
			}
			b := &entity.Book{Title: "Rolled Back", AuthorID: a.ID}
			if err := tx.CreateBook(ctx, b); err != nil {
				return err
			}
			return tx.CreateReview(ctx, &entity.Review{BookID: b.ID, UserID: userID, Rating: 0, Content: "x"})
		})
		require.Error(t, err)

		assert.Equal(t, authorsBefore, count(t, db, "authors"))
		assert.Equal(t, booksBefore, count(t, db, "books"))
	})

	t.Run("callback error rolls back", func(t *testing.T) {
		stop := errors.New("stop")
		err := repo.WithinTx(ctx, func(tx TxStore) error {
			if err := tx.CreateAuthor(ctx, &entity.Author{Name: "Ghost"}); err != nil {
				return err
			}
			return stop
		})
		assert.ErrorIs(t, err, stop)

		var n int
		require.NoError(t, db.QueryRow(ctx, `SELECT COUNT(*) FROM authors WHERE name = 'Ghost'`).Scan(&n))
		assert.Zero(t, n)
	})

	t.Run("exists checks", func(t *testing.T) {
		err := repo.WithinTx(ctx, func(tx TxStore) error {
			ok, err := tx.AuthorExists(ctx, "not-a-uuid")
			require.NoError(t, err)
			assert.False(t, ok)
			ok, err = tx.BookExists(ctx, "00000000-0000-4000-8000-000000000000")
			require.NoError(t, err)
			assert.False(t, ok)
			return nil
		})
		require.NoError(t, err)
	})
}
