package review

import (
	"context"

	"bookreview/internal/entity"
)

//go:generate mockgen -source=ports.go -destination=mock_ports.go -package=review

type Repository interface {
	Create(ctx context.Context, rv *entity.Review) error
	ListByBook(ctx context.Context, bookID string) ([]entity.Review, error)
	ListByUser(ctx context.Context, userID string) ([]entity.Review, error)
	// WithinTx runs fn in one transaction, committed only when fn returns nil.
	WithinTx(ctx context.Context, fn func(TxStore) error) error
}

// TxStore is the set of writes the comprehensive workflow performs inside
// a transaction.
type TxStore interface {
	CreateAuthor(ctx context.Context, a *entity.Author) error
	AuthorExists(ctx context.Context, id string) (bool, error)
	CreateBook(ctx context.Context, b *entity.Book) error
	BookExists(ctx context.Context, id string) (bool, error)
	SetBookCover(ctx context.Context, bookID, coverURL string) error
	CreateReview(ctx context.Context, rv *entity.Review) error
}

type BookCatalog interface {
	GetByID(ctx context.Context, id string) (entity.Book, error)
	List(ctx context.Context, query string) ([]entity.Book, error)
}

type AuthorLister interface {
	List(ctx context.Context) ([]entity.Author, error)
}
