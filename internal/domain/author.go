package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
)

// Length limits for author fields.
const (
	MaxAuthorNameLength  = 50
	MaxAuthorGenreLength = 50
)

// Author is a writer in the catalog. An author owns zero or more books;
// deleting the author deletes them.
type Author struct {
	ID          uuid.UUID
	FirstName   string
	LastName    string
	DateOfBirth time.Time
	DateOfDeath *time.Time
	Genre       string
	Books       []Book
}

// NewAuthor creates an Author with a fresh ID. Nested books are assigned IDs
// and bound to the author. Returns the aggregated validation errors of the
// author and its books.
func NewAuthor(firstName, lastName, genre string, dateOfBirth time.Time, dateOfDeath *time.Time, books []Book) (*Author, error) {
	a := &Author{
		ID:          uuid.New(),
		FirstName:   firstName,
		LastName:    lastName,
		DateOfBirth: dateOfBirth,
		DateOfDeath: dateOfDeath,
		Genre:       genre,
	}
	for _, b := range books {
		if b.ID == uuid.Nil {
			b.ID = uuid.New()
		}
		b.AuthorID = a.ID
		a.Books = append(a.Books, b)
	}

	if err := a.Validate(); err != nil {
		return nil, err
	}
	return a, nil
}

// Name returns the display name, first name followed by last name.
func (a *Author) Name() string {
	return a.FirstName + " " + a.LastName
}

// Age returns the number of full years the author lived up to now, or up to
// the date of death when one is recorded.
func (a *Author) Age(now time.Time) int {
	end := now
	if a.DateOfDeath != nil {
		end = *a.DateOfDeath
	}

	age := end.Year() - a.DateOfBirth.Year()
	if end.Before(a.DateOfBirth.AddDate(age, 0, 0)) {
		age--
	}
	return age
}

// Validate checks the author and all nested books, reporting every problem.
func (a *Author) Validate() error {
	var c checker

	if a.ID == uuid.Nil {
		c.add("id", "is required", ErrInvalidID)
	}
	if c.required("firstName", a.FirstName) {
		c.maxLen("firstName", a.FirstName, MaxAuthorNameLength)
	}
	if c.required("lastName", a.LastName) {
		c.maxLen("lastName", a.LastName, MaxAuthorNameLength)
	}
	if c.required("genre", a.Genre) {
		c.maxLen("genre", a.Genre, MaxAuthorGenreLength)
	}
	if a.DateOfBirth.IsZero() {
		c.add("dateOfBirth", "is required", ErrEmptyContent)
	} else if a.DateOfDeath != nil && a.DateOfDeath.Before(a.DateOfBirth) {
		c.add("dateOfDeath", "cannot precede the date of birth", ErrInvalidLifespan)
	}

	for i := range a.Books {
		if err := a.Books[i].Validate(); err != nil {
			c.errs = multierror.Append(c.errs, IndexErrors("books", i, err))
		}
	}
	return c.err()
}
