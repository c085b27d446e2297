package main

import (
	"math/rand/v2"
	"strings"
	"testing"

	"bookreview/internal/book"
	"bookreview/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildDemoPlan_Shape(t *testing.T) {
	plan := buildDemoPlan(rand.New(rand.NewPCG(1, 1)), 4, 3, 12)

	require.Len(t, plan, 4)
	titles := make(map[string]bool)
	for _, a := range plan {
		assert.NotEmpty(t, a.Name)
		require.Len(t, a.Books, 3)
		for _, b := range a.Books {
			assert.False(t, titles[b.Title], "duplicate title %q", b.Title)
			titles[b.Title] = true
			require.Len(t, b.Ratings, 12)
			for _, r := range b.Ratings {
				assert.True(t, r == 0 || (r >= entity.MinRating && r <= entity.MaxRating), "rating %d", r)
			}
		}
	}
}

func TestBuildDemoPlan_FirstBookIsRecommendable(t *testing.T) {
	plan := buildDemoPlan(rand.New(rand.NewPCG(7, 7)), 2, 2, book.RecommendMinReviews)

	first := plan[0].Books[0]
	reviews := make([]entity.Review, 0, len(first.Ratings))
	for _, r := range first.Ratings {
		require.Equal(t, entity.MaxRating, r)
		reviews = append(reviews, entity.Review{Rating: r})
	}
	assert.GreaterOrEqual(t, len(reviews), book.RecommendMinReviews)
	assert.GreaterOrEqual(t, *entity.MeanRating(reviews), book.RecommendMinRating)
}

func TestBuildDemoPlan_Deterministic(t *testing.T) {
	a := buildDemoPlan(rand.New(rand.NewPCG(3, 3)), 3, 2, 5)
	b := buildDemoPlan(rand.New(rand.NewPCG(3, 3)), 3, 2, 5)
	assert.Equal(t, a, b)
}

func TestParseISBNList(t *testing.T) {
	in := "# classics\n9780140449136\n\n  0441172717  \n#9780000000000\n"

	got, err := parseISBNList(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, []string{"9780140449136", "0441172717"}, got)
}

func TestImportCommand_RequiresISBNs(t *testing.T) {
	root := newRootCommand()
	root.SetArgs([]string{"import"})
	root.SetErr(new(strings.Builder))

	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no ISBNs")
}

func TestSuperuserCommand_RejectsWeakPassword(t *testing.T) {
	root := newRootCommand()
	root.SetArgs([]string{"superuser", "--username", "admin", "--email", "admin@example.com", "--password", "short"})
	root.SetErr(new(strings.Builder))

	assert.Error(t, root.Execute())
}
