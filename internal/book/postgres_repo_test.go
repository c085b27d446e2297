package book

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookreview/internal/entity"
	"bookreview/internal/testutil"
)

func insertAuthor(t *testing.T, db *pgxpool.Pool, name string) string {
	t.Helper()
	var id string
	err := db.QueryRow(context.Background(),
		`INSERT INTO authors (id, name) VALUES (gen_random_uuid(), $1) RETURNING id`, name).Scan(&id)
	require.NoError(t, err)
	return id
}

func insertUsers(t *testing.T, db *pgxpool.Pool, n int) []string {
	t.Helper()
	ids := make([]string, 0, n)
	for i := range n {
		var id string
		err := db.QueryRow(context.Background(), `
			INSERT INTO users (id, username, email, password_hash)
			VALUES (gen_random_uuid(), $1, $2, 'hash') RETURNING id`,
			fmt.Sprintf("reader%d", i), fmt.Sprintf("reader%d@example.com", i)).Scan(&id)
		require.NoError(t, err)
		ids = append(ids, id)
	}
	return ids
}

func insertReviews(t *testing.T, db *pgxpool.Pool, bookID string, users []string, ratings ...int) {
	t.Helper()
	for i, rating := range ratings {
		_, err := db.Exec(context.Background(), `
			INSERT INTO reviews (id, book_id, user_id, rating, content)
			VALUES (gen_random_uuid(), $1, $2, $3, 'text')`, bookID, users[i%len(users)], rating)
		require.NoError(t, err)
	}
}

func TestPostgresRepo_ListAndSearch(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewPostgresRepo(db, 3*time.Second)
	ctx := context.Background()

	leGuin := insertAuthor(t, db, "Ursula K. Le Guin")
	herbert := insertAuthor(t, db, "Frank Herbert")

	dispossessed := &entity.Book{Title: "The Dispossessed", AuthorID: leGuin}
	require.NoError(t, repo.Create(ctx, dispossessed))
	require.NoError(t, repo.Create(ctx, &entity.Book{Title: "Dune", AuthorID: herbert}))
	require.NoError(t, repo.Create(ctx, &entity.Book{Title: "100% Pure_Fiction", AuthorID: herbert}))

	users := insertUsers(t, db, 3)
	insertReviews(t, db, dispossessed.ID, users, 5, 4, 3)

	all, err := repo.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "100% Pure_Fiction", all[0].Title)
	assert.Equal(t, "Dune", all[1].Title)
	assert.Nil(t, all[1].AvgRating)
	require.NotNil(t, all[2].AvgRating)
	assert.InDelta(t, 4.0, *all[2].AvgRating, 1e-9)
	assert.Equal(t, 3, all[2].ReviewCount)

	byTitle, err := repo.List(ctx, "dispo")
	require.NoError(t, err)
	require.Len(t, byTitle, 1)
	assert.Equal(t, "Ursula K. Le Guin", byTitle[0].AuthorName)

	byAuthor, err := repo.List(ctx, "HERBERT")
	require.NoError(t, err)
	assert.Len(t, byAuthor, 2)

	percent, err := repo.List(ctx, "%")
	require.NoError(t, err)
	require.Len(t, percent, 1)
	assert.Equal(t, "100% Pure_Fiction", percent[0].Title)

	underscore, err := repo.List(ctx, "_")
	require.NoError(t, err)
	require.Len(t, underscore, 1)

	none, err := repo.List(ctx, "zzz")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestPostgresRepo_GetByIDAndListByAuthor(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewPostgresRepo(db, 3*time.Second)
	ctx := context.Background()

	authorID := insertAuthor(t, db, "Italo Calvino")
	cover := "https://covers.example.com/1.jpg"
	released := time.Date(1972, 1, 1, 0, 0, 0, 0, time.UTC)
	b := &entity.Book{Title: "Invisible Cities", Genre: "Fiction", AuthorID: authorID, CoverURL: &cover, ReleaseDate: &released}
	require.NoError(t, repo.Create(ctx, b))

	got, err := repo.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "Italo Calvino", got.AuthorName)
	assert.True(t, got.HasCover())
	require.NotNil(t, got.ReleaseDate)
	assert.True(t, released.Equal(*got.ReleaseDate))

	books, err := repo.ListByAuthor(ctx, authorID)
	require.NoError(t, err)
	assert.Len(t, books, 1)

	_, err = repo.GetByID(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = repo.GetByID(ctx, "00000000-0000-4000-8000-000000000000")
	assert.ErrorIs(t, err, ErrNotFound)

	err = repo.Create(ctx, &entity.Book{Title: "Orphan", AuthorID: "00000000-0000-4000-8000-000000000000"})
	assert.ErrorIs(t, err, ErrUnknownAuthor)
}

func TestPostgresRepo_DeleteCascadesReviews(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewPostgresRepo(db, 3*time.Second)
	ctx := context.Background()

	authorID := insertAuthor(t, db, "Author")
	b := &entity.Book{Title: "Doomed", AuthorID: authorID}
	require.NoError(t, repo.Create(ctx, b))
	insertReviews(t, db, b.ID, insertUsers(t, db, 2), 3, 4)

	require.NoError(t, repo.Delete(ctx, b.ID))

	var reviews int
	require.NoError(t, db.QueryRow(ctx, `SELECT COUNT(*) FROM reviews WHERE book_id = $1`, b.ID).Scan(&reviews))
	assert.Zero(t, reviews)
	_, err := repo.GetByID(ctx, b.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, repo.Delete(ctx, b.ID), ErrNotFound)
}

func TestPostgresRepo_Recommendable(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewPostgresRepo(db, 3*time.Second)
	ctx := context.Background()

	authorID := insertAuthor(t, db, "Author")
	users := insertUsers(t, db, 10)

	create := func(title string) string {
		b := &entity.Book{Title: title, AuthorID: authorID}
		require.NoError(t, repo.Create(ctx, b))
		return b.ID
	}

	// mean 4.8 over exactly ten reviews qualifies
	insertReviews(t, db, create("Qualifies"), users, 5, 5, 5, 5, 5, 5, 5, 5, 4, 4)
	// mean 5.0 but only nine reviews
	insertReviews(t, db, create("Too few"), users, 5, 5, 5, 5, 5, 5, 5, 5, 5)
	// mean 4.7
	insertReviews(t, db, create("Too low"), users, 5, 5, 5, 5, 5, 5, 5, 4, 4, 4)
	create("Unreviewed")

	got, err := repo.Recommendable(ctx, RecommendMinRating, RecommendMinReviews)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Qualifies", got[0].Title)
	assert.Equal(t, 10, got[0].ReviewCount)
}
