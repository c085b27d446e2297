package entity

import "time"

// Book is a catalog entry owned by exactly one Author.
type Book struct {
	ID          string
	Title       string
	Genre       string
	ReleaseDate *time.Time
	CoverURL    *string
	AuthorID    string
	AuthorName  string
	CreatedAt   time.Time

	// Aggregates filled by list queries. AvgRating is nil when the book
	// has no reviews.
	AvgRating   *float64
	ReviewCount int
}

// HasCover reports whether a cover image is attached.
func (b Book) HasCover() bool {
	return b.CoverURL != nil && *b.CoverURL != ""
}
