package author

import (
	"errors"

	"bookreview/internal/entity"
)

// ErrNotFound is returned when an author is not found.
var ErrNotFound = errors.New("author not found")

// Detail is an author together with the books they wrote.
type Detail struct {
	Author entity.Author
	Books  []entity.Book
}
