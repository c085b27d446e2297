package book

import (
	"errors"

	"bookreview/internal/entity"
)

var (
	// ErrNotFound is returned when a book is not found.
	ErrNotFound = errors.New("book not found")
	// ErrUnknownAuthor is returned when a book references a missing author.
	ErrUnknownAuthor = errors.New("book author does not exist")
)

// Recommendation thresholds.
const (
	RecommendMinRating  = 4.8
	RecommendMinReviews = 10
	RecommendSampleSize = 5
)

// Detail is a book with its reviews, newest first.
type Detail struct {
	Book      entity.Book
	Reviews   []entity.Review
	AvgRating *float64
}

// ListPage is the data of the book list page.
type ListPage struct {
	Query string
	Books []entity.Book
}
