package service

import (
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/library-api/internal/domain"
	"github.com/phrazzld/library-api/internal/projection"
)

// AuthorView is the client-facing representation of an author.
type AuthorView struct {
	ID    uuid.UUID
	Name  string
	Age   int
	Genre string
}

// NewAuthorView derives the view of a at the instant now.
func NewAuthorView(a *domain.Author, now time.Time) AuthorView {
	return AuthorView{
		ID:    a.ID,
		Name:  a.Name(),
		Age:   a.Age(now),
		Genre: a.Genre,
	}
}

// BookView is the client-facing representation of a book.
type BookView struct {
	ID          uuid.UUID
	Title       string
	Description string
	AuthorID    uuid.UUID
}

// NewBookView derives the view of b.
func NewBookView(b *domain.Book) BookView {
	return BookView{
		ID:          b.ID,
		Title:       b.Title,
		Description: b.Description,
		AuthorID:    b.AuthorID,
	}
}

// AuthorShape declares the fields clients may select on an author.
var AuthorShape = projection.NewShape("AuthorView",
	projection.FieldOf("id", func(v AuthorView) uuid.UUID { return v.ID }),
	projection.FieldOf("name", func(v AuthorView) string { return v.Name }),
	projection.FieldOf("age", func(v AuthorView) int { return v.Age }),
	projection.FieldOf("genre", func(v AuthorView) string { return v.Genre }),
)

// BookShape declares the fields clients may select on a book.
var BookShape = projection.NewShape("BookView",
	projection.FieldOf("id", func(v BookView) uuid.UUID { return v.ID }),
	projection.FieldOf("title", func(v BookView) string { return v.Title }),
	projection.FieldOf("description", func(v BookView) string { return v.Description }),
	projection.FieldOf("authorId", func(v BookView) uuid.UUID { return v.AuthorID }),
)

func authorViews(authors []*domain.Author, now time.Time) []AuthorView {
	views := make([]AuthorView, len(authors))
	for i, a := range authors {
		views[i] = NewAuthorView(a, now)
	}
	return views
}

func bookViews(books []*domain.Book) []BookView {
	views := make([]BookView, len(books))
	for i, b := range books {
		views[i] = NewBookView(b)
	}
	return views
}
