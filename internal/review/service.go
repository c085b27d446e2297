package review

import (
	"context"
	"fmt"

	"bookreview/internal/entity"
	"bookreview/internal/httpx"
	"bookreview/internal/logging"
	"bookreview/internal/metrics"
	"bookreview/internal/platform/objectstore"
)

const coverPrefix = "covers"

type Service struct {
	repo    Repository
	books   BookCatalog
	authors AuthorLister
	covers  objectstore.Store
}

func NewService(repo Repository, books BookCatalog, authors AuthorLister, covers objectstore.Store) *Service {
	return &Service{
		repo:    repo,
		books:   books,
		authors: authors,
		covers:  covers,
	}
}

// Book returns the book being reviewed.
func (s *Service) Book(ctx context.Context, id string) (entity.Book, error) {
	return s.books.GetByID(ctx, id)
}

// ListByBook returns the reviews of a book, newest first.
func (s *Service) ListByBook(ctx context.Context, bookID string) ([]entity.Review, error) {
	return s.repo.ListByBook(ctx, bookID)
}

// Profile returns the reviews written by userID, newest first.
func (s *Service) Profile(ctx context.Context, userID string) ([]entity.Review, error) {
	return s.repo.ListByUser(ctx, userID)
}

// AddReview attaches a review by in.UserID to an existing book.
func (s *Service) AddReview(ctx context.Context, in AddInput) (entity.Review, error) {
	if fields := httpx.ValidateStruct(in); len(fields) > 0 {
		return entity.Review{}, &ValidationError{Fields: fields}
	}

	rv := entity.Review{
		BookID:  in.BookID,
		UserID:  in.UserID,
		Rating:  in.Rating,
		Content: in.Content,
	}
	if err := s.repo.Create(ctx, &rv); err != nil {
		return entity.Review{}, err
	}
	metrics.ReviewsCreated.WithLabelValues("simple").Inc()
	return rv, nil
}

// FormOptions lists the authors and books the comprehensive form offers.
func (s *Service) FormOptions(ctx context.Context) (FormOptions, error) {
	authors, err := s.authors.List(ctx)
	if err != nil {
		return FormOptions{}, fmt.Errorf("list authors: %w", err)
	}
	books, err := s.books.List(ctx, "")
	if err != nil {
		return FormOptions{}, fmt.Errorf("list books: %w", err)
	}
	return FormOptions{Authors: authors, Books: books}, nil
}

// Comprehensive resolves or creates the author, resolves or creates the
// book and stores the review, all in one transaction. An uploaded cover is
// stored first and removed again when the transaction fails.
//
// The error is a *ValidationError when the submission was rejected; any
// other error is a storage failure.
func (s *Service) Comprehensive(ctx context.Context, in ComprehensiveInput) (entity.Review, error) {
	if err := in.validate(); err != nil {
		return entity.Review{}, err
	}

	var coverKey, coverURL string
	if in.Cover != nil {
		key, url, err := objectstore.PutImage(ctx, s.covers, coverPrefix, in.Cover)
		if err != nil {
			metrics.CoverUploads.WithLabelValues(s.covers.Backend(), "error").Inc()
			return entity.Review{}, fmt.Errorf("store cover: %w", err)
		}
		metrics.CoverUploads.WithLabelValues(s.covers.Backend(), "success").Inc()
		coverKey, coverURL = key, url
	}

	var rv entity.Review
	err := s.repo.WithinTx(ctx, func(tx TxStore) error {
		authorID, err := resolveAuthor(ctx, tx, in)
		if err != nil {
			return err
		}
		bookID, err := resolveBook(ctx, tx, in, authorID, coverURL)
		if err != nil {
			return err
		}
		rv = entity.Review{
			BookID:  bookID,
			UserID:  in.UserID,
			Rating:  in.Rating,
			Content: in.Content,
		}
		return tx.CreateReview(ctx, &rv)
	})
	if err != nil {
		if coverKey != "" {
			if derr := s.covers.Delete(context.WithoutCancel(ctx), coverKey); derr != nil {
				logging.Ctx(ctx).Warn().Err(derr).Str("key", coverKey).Msg("could not remove orphaned cover")
			}
		}
		return entity.Review{}, err
	}

	metrics.ReviewsCreated.WithLabelValues("comprehensive").Inc()
	return rv, nil
}

func resolveAuthor(ctx context.Context, tx TxStore, in ComprehensiveInput) (string, error) {
	if in.NewAuthorName != "" {
		a := entity.Author{
			Name:        in.NewAuthorName,
			Nationality: in.Nationality,
			BirthDate:   in.BirthDate,
		}
		if err := tx.CreateAuthor(ctx, &a); err != nil {
			return "", fmt.Errorf("create author: %w", err)
		}
		return a.ID, nil
	}

	ok, err := tx.AuthorExists(ctx, in.AuthorID)
	if err != nil {
		return "", fmt.Errorf("find author: %w", err)
	}
	if !ok {
		return "", invalid("author", "Select a valid choice. That choice is not one of the available choices.")
	}
	return in.AuthorID, nil
}

func resolveBook(ctx context.Context, tx TxStore, in ComprehensiveInput, authorID, coverURL string) (string, error) {
	if in.NewBookTitle != "" {
		b := entity.Book{
			Title:       in.NewBookTitle,
			Genre:       in.Genre,
			ReleaseDate: in.ReleaseDate,
			AuthorID:    authorID,
		}
		if coverURL != "" {
			b.CoverURL = &coverURL
		}
		if err := tx.CreateBook(ctx, &b); err != nil {
			return "", fmt.Errorf("create book: %w", err)
		}
		return b.ID, nil
	}

	ok, err := tx.BookExists(ctx, in.BookID)
	if err != nil {
		return "", fmt.Errorf("find book: %w", err)
	}
	if !ok {
		return "", invalid("book", "Select a valid choice. That choice is not one of the available choices.")
	}
	if coverURL != "" {
		if err := tx.SetBookCover(ctx, in.BookID, coverURL); err != nil {
			return "", fmt.Errorf("replace cover: %w", err)
		}
	}
	return in.BookID, nil
}
