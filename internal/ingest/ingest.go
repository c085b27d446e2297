package ingest

import (
	"strings"
	"time"

	"bookreview/internal/entity"
)

// Item is one book prepared for import. Author.ID is set when the author
// already exists.
type Item struct {
	ISBN   string
	Author entity.Author
	Book   entity.Book
}

// Outcome reports what SaveImport wrote for one Item.
type Outcome struct {
	AuthorCreated bool
	BookCreated   bool
}

// Result summarizes an import.
type Result struct {
	AuthorsCreated int
	BooksCreated   int
	// Skipped books already existed under the same title and author.
	Skipped  []string
	NotFound []string
	Failed   []string
}

// NormalizeISBNs strips separators, drops blanks and duplicates, and keeps
// the input order.
func NormalizeISBNs(raw []string) []string {
	seen := make(map[string]bool, len(raw))
	out := make([]string, 0, len(raw))
	for _, r := range raw {
		isbn := strings.ToUpper(strings.NewReplacer("-", "", " ", "").Replace(strings.TrimSpace(r)))
		if isbn == "" || seen[isbn] {
			continue
		}
		seen[isbn] = true
		out = append(out, isbn)
	}
	return out
}

var dateLayouts = []string{
	time.DateOnly,
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
	"2 Jan 2006",
	"January 2006",
	"Jan 2006",
	"2006",
}

// parseLooseDate reads the free-form dates Open Library returns. It yields
// nil when none of the known layouts match.
func parseLooseDate(s string) *time.Time {
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "."))
	if s == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}
