package author

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"bookreview/internal/entity"
)

type Service struct {
	repo  Repository
	books BookLister
}

func NewService(repo Repository, books BookLister) *Service {
	return &Service{repo: repo, books: books}
}

// Detail returns the author with all of their books.
func (s *Service) Detail(ctx context.Context, id string) (Detail, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Detail{}, err
	}
	books, err := s.books.ListByAuthor(ctx, a.ID)
	if err != nil {
		return Detail{}, fmt.Errorf("list books of author %s: %w", a.ID, err)
	}
	return Detail{Author: a, Books: books}, nil
}

// List returns every author ordered by name.
func (s *Service) List(ctx context.Context) ([]entity.Author, error) {
	return s.repo.List(ctx)
}

func (s *Service) Create(ctx context.Context, a *entity.Author) error {
	a.Name = strings.TrimSpace(a.Name)
	if a.Name == "" {
		return errors.New("author name is required")
	}
	return s.repo.Create(ctx, a)
}
