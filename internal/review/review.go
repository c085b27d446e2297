package review

import (
	"errors"
	"strings"
	"time"

	"bookreview/internal/entity"
	"bookreview/internal/httpx"
	"bookreview/internal/platform/objectstore"
)

// ErrUnknownBook is returned when a review references a missing book.
var ErrUnknownBook = errors.New("review book does not exist")

// ValidationError lists the fields of a submission that were rejected.
// Nothing was persisted when it is returned.
type ValidationError struct {
	Fields []httpx.FieldError
}

func (e *ValidationError) Error() string {
	return "invalid review: " + strings.Join(e.Messages(), "; ")
}

// Messages renders every field error as "field: message".
func (e *ValidationError) Messages() []string {
	out := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		out = append(out, f.String())
	}
	return out
}

func (e *ValidationError) Map() map[string]string {
	return httpx.ErrorMap(e.Fields)
}

func invalid(field, message string) *ValidationError {
	return &ValidationError{Fields: []httpx.FieldError{{Field: field, Message: message}}}
}

// AddInput is a review of an existing book.
type AddInput struct {
	BookID  string
	UserID  string
	Rating  int    `form:"rating" validate:"required,min=1,max=5"`
	Content string `form:"content" validate:"required"`
}

// ComprehensiveInput is a review whose author and book may be created in the
// same submission. A non-empty NewAuthorName takes precedence over AuthorID,
// and a non-empty NewBookTitle over BookID.
type ComprehensiveInput struct {
	UserID string

	AuthorID      string     `form:"author" validate:"omitempty,uuid"`
	NewAuthorName string     `form:"new_author_name" validate:"max=255"`
	Nationality   string     `form:"nationality" validate:"max=100"`
	BirthDate     *time.Time `form:"birth_date"`

	BookID       string     `form:"book" validate:"omitempty,uuid"`
	NewBookTitle string     `form:"new_book_title" validate:"max=255"`
	Genre        string     `form:"genre" validate:"max=100"`
	ReleaseDate  *time.Time `form:"release_date"`
	Cover        *objectstore.Image

	Rating  int    `form:"rating" validate:"required,min=1,max=5"`
	Content string `form:"content" validate:"required"`
}

func (in ComprehensiveInput) validate() error {
	fields := httpx.ValidateStruct(in)
	if in.NewAuthorName == "" && in.AuthorID == "" {
		fields = append(fields, httpx.FieldError{Field: "author", Message: "Select an existing author or enter a new one."})
	}
	if in.NewBookTitle == "" && in.BookID == "" {
		fields = append(fields, httpx.FieldError{Field: "book", Message: "Select an existing book or enter a new one."})
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// FormOptions are the existing authors and books offered by the
// comprehensive form.
type FormOptions struct {
	Authors []entity.Author
	Books   []entity.Book
}
