package book

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"

	"bookreview/internal/entity"
)

// Service provides book-related business logic.
type Service struct {
	repo    Repository
	reviews ReviewLister
	shuffle func(n int, swap func(i, j int))
}

// NewService creates a new book service.
func NewService(repo Repository, reviews ReviewLister) *Service {
	return &Service{repo: repo, reviews: reviews, shuffle: rand.Shuffle}
}

// List returns the books whose title or author name contains query, or all
// books when query is blank.
func (s *Service) List(ctx context.Context, query string) ([]entity.Book, error) {
	return s.repo.List(ctx, strings.TrimSpace(query))
}

// Detail returns the book with its reviews and their mean rating.
func (s *Service) Detail(ctx context.Context, id string) (Detail, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Detail{}, err
	}
	reviews, err := s.reviews.ListByBook(ctx, b.ID)
	if err != nil {
		return Detail{}, fmt.Errorf("list reviews of book %s: %w", b.ID, err)
	}
	return Detail{Book: b, Reviews: reviews, AvgRating: entity.MeanRating(reviews)}, nil
}

// GetByID returns a single book.
func (s *Service) GetByID(ctx context.Context, id string) (entity.Book, error) {
	return s.repo.GetByID(ctx, id)
}

// ListByAuthor returns the books of one author.
func (s *Service) ListByAuthor(ctx context.Context, authorID string) ([]entity.Book, error) {
	return s.repo.ListByAuthor(ctx, authorID)
}

// Recommendations returns a random sample of the highly rated books.
func (s *Service) Recommendations(ctx context.Context) ([]entity.Book, error) {
	candidates, err := s.repo.Recommendable(ctx, RecommendMinRating, RecommendMinReviews)
	if err != nil {
		return nil, err
	}
	s.shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})
	if len(candidates) > RecommendSampleSize {
		candidates = candidates[:RecommendSampleSize]
	}
	return candidates, nil
}

func (s *Service) Create(ctx context.Context, b *entity.Book) error {
	b.Title = strings.TrimSpace(b.Title)
	if b.Title == "" {
		return errors.New("book title is required")
	}
	return s.repo.Create(ctx, b)
}

// Delete removes the book together with its reviews.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
