package ingest

import (
	"context"
	"fmt"

	"bookreview/internal/entity"
	"bookreview/internal/logging"
	"bookreview/internal/platform/openlibrary"
)

const (
	defaultBatchSize = 20
	unknownAuthor    = "Unknown"
	maxGenreLen      = 100
)

type Config struct {
	BatchSize int
}

type Service struct {
	olClient OpenLibraryClient
	catalog  Catalog
	cfg      Config
}

func NewService(olClient OpenLibraryClient, catalog Catalog, cfg Config) *Service {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = defaultBatchSize
	}
	return &Service{
		olClient: olClient,
		catalog:  catalog,
		cfg:      cfg,
	}
}

// Import creates the books with the given ISBNs, and their authors, from
// Open Library. A failed Open Library lookup aborts the import; a book that
// cannot be stored is recorded in Result.Failed and the import continues.
func (s *Service) Import(ctx context.Context, isbns []string) (Result, error) {
	var res Result
	isbns = NormalizeISBNs(isbns)

	for start := 0; start < len(isbns); start += s.cfg.BatchSize {
		batch := isbns[start:min(start+s.cfg.BatchSize, len(isbns))]
		details, err := s.olClient.GetBooksByISBN(ctx, batch)
		if err != nil {
			return res, fmt.Errorf("fetch books %v: %w", batch, err)
		}

		for _, isbn := range batch {
			d, ok := details["ISBN:"+isbn]
			if !ok {
				logging.Warn().Str("isbn", isbn).Msg("ISBN not found on Open Library")
				res.NotFound = append(res.NotFound, isbn)
				continue
			}

			item, err := s.prepare(ctx, isbn, d)
			if err != nil {
				logging.Error().Err(err).Str("isbn", isbn).Msg("Failed to prepare book")
				res.Failed = append(res.Failed, isbn)
				continue
			}
			out, err := s.catalog.SaveImport(ctx, item)
			if err != nil {
				logging.Error().Err(err).Str("isbn", isbn).Msg("Failed to save book")
				res.Failed = append(res.Failed, isbn)
				continue
			}

			if out.AuthorCreated {
				res.AuthorsCreated++
			}
			if out.BookCreated {
				res.BooksCreated++
			} else {
				res.Skipped = append(res.Skipped, isbn)
			}
		}
	}

	logging.Info().
		Int("authors_created", res.AuthorsCreated).
		Int("books_created", res.BooksCreated).
		Int("skipped", len(res.Skipped)).
		Int("not_found", len(res.NotFound)).
		Int("failed", len(res.Failed)).
		Msg("Import finished")
	return res, nil
}

func (s *Service) prepare(ctx context.Context, isbn string, d openlibrary.BookDetails) (*Item, error) {
	name := unknownAuthor
	if len(d.Authors) > 0 && d.Authors[0].Name != "" {
		name = d.Authors[0].Name
	}

	existing, err := s.catalog.FindAuthorByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("find author %q: %w", name, err)
	}

	item := &Item{ISBN: isbn}
	if existing != nil {
		item.Author = *existing
	} else {
		item.Author = entity.Author{Name: name}
		if key := d.AuthorKey(); key != "" {
			ad, err := s.olClient.GetAuthor(ctx, key)
			if err != nil {
				logging.Warn().Err(err).Str("author_key", key).Msg("Failed to fetch author details")
			} else {
				item.Author.BirthDate = parseLooseDate(ad.BirthDate)
			}
		}
	}

	item.Book = entity.Book{
		Title:       d.Title,
		ReleaseDate: parseLooseDate(d.PublishDate),
	}
	if len(d.Subjects) > 0 {
		item.Book.Genre = truncate(d.Subjects[0].Name, maxGenreLen)
	}
	cover := d.Cover.Large
	if cover == "" {
		cover = d.Cover.Medium
	}
	if cover != "" {
		item.Book.CoverURL = &cover
	}
	return item, nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
