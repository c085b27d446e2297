package author

import (
	"context"

	"bookreview/internal/entity"
)

//go:generate mockgen -source=ports.go -destination=mock_ports.go -package=author

type Repository interface {
	Create(ctx context.Context, a *entity.Author) error
	GetByID(ctx context.Context, id string) (entity.Author, error)
	List(ctx context.Context) ([]entity.Author, error)
}

// BookLister lists the books of one author with their mean ratings.
type BookLister interface {
	ListByAuthor(ctx context.Context, authorID string) ([]entity.Book, error)
}
