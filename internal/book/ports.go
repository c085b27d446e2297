package book

import (
	"context"

	"bookreview/internal/entity"
)

//go:generate mockgen -source=ports.go -destination=mock_ports.go -package=book

// Repository defines the contract for book data storage. Read methods fill
// the rating aggregates of every book returned.
type Repository interface {
	List(ctx context.Context, query string) ([]entity.Book, error)
	GetByID(ctx context.Context, id string) (entity.Book, error)
	ListByAuthor(ctx context.Context, authorID string) ([]entity.Book, error)
	Recommendable(ctx context.Context, minRating float64, minReviews int) ([]entity.Book, error)
	Create(ctx context.Context, b *entity.Book) error
	// Delete removes the book and all of its reviews atomically.
	Delete(ctx context.Context, id string) error
}

type ReviewLister interface {
	ListByBook(ctx context.Context, bookID string) ([]entity.Review, error)
}
