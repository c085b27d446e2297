package author

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookreview/internal/entity"
	"bookreview/internal/testutil"
)

func TestPostgresRepo_CreateGetList(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewPostgresRepo(db, 3*time.Second)
	ctx := context.Background()

	born := time.Date(1929, 10, 21, 0, 0, 0, 0, time.UTC)
	leGuin := &entity.Author{Name: "Ursula K. Le Guin", Nationality: "American", BirthDate: &born}
	require.NoError(t, repo.Create(ctx, leGuin))
	require.NoError(t, repo.Create(ctx, &entity.Author{Name: "Italo Calvino"}))

	got, err := repo.GetByID(ctx, leGuin.ID)
	require.NoError(t, err)
	assert.Equal(t, "American", got.Nationality)
	require.NotNil(t, got.BirthDate)
	assert.True(t, born.Equal(*got.BirthDate))

	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Italo Calvino", all[0].Name)

	_, err = repo.GetByID(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = repo.GetByID(ctx, "00000000-0000-4000-8000-000000000000")
	assert.ErrorIs(t, err, ErrNotFound)
}
