package user

import (
	"context"
	"testing"
	"time"

	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookreview/internal/entity"
	"bookreview/internal/metrics"
	"bookreview/internal/testutil"
)

func TestPostgresRepo_CreateAndLookup(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewPostgresRepo(db, 3*time.Second)
	ctx := context.Background()

	u := &entity.User{Username: "alice", Email: "Alice@Example.com", Password: "hash"}
	require.NoError(t, repo.Create(ctx, u))
	require.NotEmpty(t, u.ID)
	require.NotZero(t, u.CreatedAt)

	byName, err := repo.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byName.ID)

	byEmail, err := repo.GetByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byEmail.ID)

	_, err = repo.GetByUsername(ctx, "ALICE")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = repo.GetByID(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPostgresRepo_UniqueViolations(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewPostgresRepo(db, 3*time.Second)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &entity.User{Username: "bob", Email: "bob@example.com", Password: "hash"}))

	err := repo.Create(ctx, &entity.User{Username: "bob", Email: "other@example.com", Password: "hash"})
	assert.ErrorIs(t, err, ErrUsernameTaken)

	err = repo.Create(ctx, &entity.User{Username: "bobby", Email: "BOB@example.com", Password: "hash"})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestPostgresRepo_RecordsQueryMetrics(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewPostgresRepo(db, 3*time.Second)
	ctx := context.Background()

	createErrors := metrics.DBQueryErrors.WithLabelValues("user_create")
	lookupErrors := metrics.DBQueryErrors.WithLabelValues("user_get_by_username")
	createBefore := promtestutil.ToFloat64(createErrors)
	lookupBefore := promtestutil.ToFloat64(lookupErrors)

	require.NoError(t, repo.Create(ctx, &entity.User{Username: "carol", Email: "carol@example.com", Password: "hash"}))
	err := repo.Create(ctx, &entity.User{Username: "carol", Email: "carol2@example.com", Password: "hash"})
	require.ErrorIs(t, err, ErrUsernameTaken)
	assert.Equal(t, createBefore+1, promtestutil.ToFloat64(createErrors))

	_, err = repo.GetByUsername(ctx, "nobody")
	require.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, lookupBefore, promtestutil.ToFloat64(lookupErrors), "a missing row is not a query error")
	assert.Positive(t, promtestutil.CollectAndCount(metrics.DBQueryDuration, "bookreview_db_query_duration_seconds"))
}
