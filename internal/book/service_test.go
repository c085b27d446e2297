package book

import (
	"context"
	"fmt"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookreview/internal/entity"
	"bookreview/internal/testutil"
)

func newTestService(t *testing.T) (*Service, *MockRepository, *MockReviewLister) {
	ctrl := gomock.NewController(t)
	repo := NewMockRepository(ctrl)
	reviews := NewMockReviewLister(ctrl)
	return NewService(repo, reviews), repo, reviews
}

func TestService_List_TrimsQuery(t *testing.T) {
	svc, repo, _ := newTestService(t)
	repo.EXPECT().List(gomock.Any(), "dune").Return([]entity.Book{testutil.TestBook}, nil)

	books, err := svc.List(context.Background(), "  dune ")
	require.NoError(t, err)
	assert.Len(t, books, 1)
}

func TestService_Detail(t *testing.T) {
	ctx := context.Background()

	t.Run("mean of reviews", func(t *testing.T) {
		svc, repo, reviews := newTestService(t)
		repo.EXPECT().GetByID(gomock.Any(), testutil.TestBook.ID).Return(testutil.TestBook, nil)
		reviews.EXPECT().ListByBook(gomock.Any(), testutil.TestBook.ID).Return([]entity.Review{
			{Rating: 5}, {Rating: 4}, {Rating: 3},
		}, nil)

		d, err := svc.Detail(ctx, testutil.TestBook.ID)
		require.NoError(t, err)
		require.NotNil(t, d.AvgRating)
		assert.InDelta(t, 4.0, *d.AvgRating, 1e-9)
		assert.Len(t, d.Reviews, 3)
	})

	t.Run("no reviews", func(t *testing.T) {
		svc, repo, reviews := newTestService(t)
		repo.EXPECT().GetByID(gomock.Any(), testutil.TestBook.ID).Return(testutil.TestBook, nil)
		reviews.EXPECT().ListByBook(gomock.Any(), testutil.TestBook.ID).Return(nil, nil)

		d, err := svc.Detail(ctx, testutil.TestBook.ID)
		require.NoError(t, err)
		assert.Nil(t, d.AvgRating)
	})

	t.Run("not found", func(t *testing.T) {
		svc, repo, _ := newTestService(t)
		repo.EXPECT().GetByID(gomock.Any(), "x").Return(entity.Book{}, ErrNotFound)

		_, err := svc.Detail(ctx, "x")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestService_Recommendations(t *testing.T) {
	ctx := context.Background()

	t.Run("samples at most five distinct books", func(t *testing.T) {
		svc, repo, _ := newTestService(t)
		var candidates []entity.Book
		for i := range 12 {
			candidates = append(candidates, entity.Book{ID: fmt.Sprintf("book-%d", i)})
		}
		repo.EXPECT().Recommendable(gomock.Any(), RecommendMinRating, RecommendMinReviews).Return(candidates, nil)

		got, err := svc.Recommendations(ctx)
		require.NoError(t, err)
		assert.Len(t, got, RecommendSampleSize)

		seen := map[string]bool{}
		for _, b := range got {
			assert.False(t, seen[b.ID], "duplicate %s", b.ID)
			seen[b.ID] = true
		}
	})

	t.Run("fewer candidates than the sample size", func(t *testing.T) {
		svc, repo, _ := newTestService(t)
		repo.EXPECT().Recommendable(gomock.Any(), gomock.Any(), gomock.Any()).Return([]entity.Book{{ID: "a"}, {ID: "b"}}, nil)

		got, err := svc.Recommendations(ctx)
		require.NoError(t, err)
		assert.ElementsMatch(t, []entity.Book{{ID: "a"}, {ID: "b"}}, got)
	})

	t.Run("uses the shuffled order", func(t *testing.T) {
		svc, repo, _ := newTestService(t)
		svc.shuffle = func(n int, swap func(i, j int)) {
			for i := 0; i < n/2; i++ {
				swap(i, n-1-i)
			}
		}
		repo.EXPECT().Recommendable(gomock.Any(), gomock.Any(), gomock.Any()).Return([]entity.Book{{ID: "a"}, {ID: "b"}, {ID: "c"}}, nil)

		got, err := svc.Recommendations(ctx)
		require.NoError(t, err)
		assert.Equal(t, []entity.Book{{ID: "c"}, {ID: "b"}, {ID: "a"}}, got)
	})

	t.Run("none", func(t *testing.T) {
		svc, repo, _ := newTestService(t)
		repo.EXPECT().Recommendable(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)

		got, err := svc.Recommendations(ctx)
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

func TestService_Create_RequiresTitle(t *testing.T) {
	svc, _, _ := newTestService(t)
	assert.Error(t, svc.Create(context.Background(), &entity.Book{Title: " "}))
}
