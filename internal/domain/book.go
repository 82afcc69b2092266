package domain

import (
	"strconv"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
)

// Length limits for book fields.
const (
	MaxBookTitleLength       = 100
	MaxBookDescriptionLength = 500
)

// Book belongs to exactly one author.
type Book struct {
	ID          uuid.UUID
	AuthorID    uuid.UUID
	Title       string
	Description string
}

// NewBook creates a Book for authorID. A nil id is replaced by a fresh one,
// so callers can upsert under a client-chosen id.
func NewBook(id, authorID uuid.UUID, title, description string) (*Book, error) {
	if id == uuid.Nil {
		id = uuid.New()
	}
	b := &Book{
		ID:          id,
		AuthorID:    authorID,
		Title:       title,
		Description: description,
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return b, nil
}

// Validate checks the book content. The author binding is not checked here
// because nested books receive it when their author is created.
func (b *Book) Validate() error {
	var c checker

	if c.required("title", b.Title) {
		c.maxLen("title", b.Title, MaxBookTitleLength)
	}
	c.maxLen("description", b.Description, MaxBookDescriptionLength)
	if b.Description != "" && b.Description == b.Title {
		c.add("description", "should be different from the title", ErrDescriptionMatchesTitle)
	}
	return c.err()
}

// appendIndexed prefixes a nested validation error with its position,
// e.g. "books[1].title".
func appendIndexed(errs *multierror.Error, collection string, index int, err error) *multierror.Error {
	if ve, ok := err.(*ValidationError); ok {
		err = NewValidationError(collection+"["+strconv.Itoa(index)+"]."+ve.Field, ve.Message, ve.Err)
	}
	return multierror.Append(errs, err)
}
