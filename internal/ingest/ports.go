package ingest

import (
	"context"

	"bookreview/internal/entity"
	"bookreview/internal/platform/openlibrary"
)

type OpenLibraryClient interface {
	GetBooksByISBN(ctx context.Context, isbns []string) (map[string]openlibrary.BookDetails, error)
	GetAuthor(ctx context.Context, authorKey string) (*openlibrary.AuthorDetails, error)
}

// Catalog is the storage side of an import.
type Catalog interface {
	// FindAuthorByName matches case-insensitively and returns nil when no
	// author has the name.
	FindAuthorByName(ctx context.Context, name string) (*entity.Author, error)
	// SaveImport creates the author when needed and the book unless one with
	// the same title already exists for that author, in one transaction.
	SaveImport(ctx context.Context, item *Item) (Outcome, error)
}
