package entity

import "time"

const (
	MinRating = 1
	MaxRating = 5
)

// Review is a user's rating and commentary on a Book. Reviews are never
// updated in place.
type Review struct {
	ID        string
	BookID    string
	UserID    string
	Rating    int
	Content   string
	CreatedAt time.Time

	// Display fields joined in by read queries.
	Username  string
	BookTitle string
}

// MeanRating returns the arithmetic mean of the ratings, or nil when there
// are none.
func MeanRating(reviews []Review) *float64 {
	if len(reviews) == 0 {
		return nil
	}
	sum := 0
	for _, r := range reviews {
		sum += r.Rating
	}
	mean := float64(sum) / float64(len(reviews))
	return &mean
}
