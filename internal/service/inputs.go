package service

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"github.com/phrazzld/library-api/internal/domain"
)

// AuthorInput carries the data of an author to create, optionally with the
// books they wrote.
type AuthorInput struct {
	FirstName   string
	LastName    string
	DateOfBirth time.Time
	DateOfDeath *time.Time
	Genre       string
	Books       []BookInput
}

// BookInput carries the data of a book to create. A nil ID is replaced by a
// fresh one.
type BookInput struct {
	ID          uuid.UUID
	Title       string
	Description string
}

// BookUpdate carries the full replacement content of a book. Unlike
// BookInput, the description is required.
type BookUpdate struct {
	Title       string
	Description string
}

func (in AuthorInput) toDomain() (*domain.Author, error) {
	books := make([]domain.Book, len(in.Books))
	for i, b := range in.Books {
		books[i] = domain.Book{ID: b.ID, Title: b.Title, Description: b.Description}
	}
	return domain.NewAuthor(in.FirstName, in.LastName, in.Genre, in.DateOfBirth, in.DateOfDeath, books)
}

// toDomain builds the book with the given identity, reporting every problem
// of the update including a missing description.
func (u BookUpdate) toDomain(authorID, bookID uuid.UUID) (*domain.Book, error) {
	book := &domain.Book{
		ID:          bookID,
		AuthorID:    authorID,
		Title:       u.Title,
		Description: u.Description,
	}

	var errs *multierror.Error
	if err := book.Validate(); err != nil {
		errs = multierror.Append(errs, err)
	}
	if strings.TrimSpace(u.Description) == "" {
		errs = multierror.Append(errs,
			domain.NewValidationError("description", "is required", domain.ErrEmptyContent))
	}
	if err := errs.ErrorOrNil(); err != nil {
		return nil, err
	}
	return book, nil
}
