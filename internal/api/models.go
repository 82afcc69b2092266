package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/library-api/internal/service"
)

// CreateBookRequest is the body of POST /api/authors/{authorId}/books and of a
// book nested in an author.
type CreateBookRequest struct {
	Title       string `json:"title" validate:"required,max=100"`
	Description string `json:"description" validate:"max=500"`
}

// UpdateBookRequest is the body of PUT /api/authors/{authorId}/books/{id}.
// Unlike creation, a description is required.
type UpdateBookRequest struct {
	Title       string `json:"title" validate:"required,max=100"`
	Description string `json:"description" validate:"required,max=500"`
}

// CreateAuthorRequest is the body of POST /api/authors, with optional books.
type CreateAuthorRequest struct {
	FirstName   string              `json:"firstName" validate:"required,max=50"`
	LastName    string              `json:"lastName" validate:"required,max=50"`
	DateOfBirth time.Time           `json:"dateOfBirth" validate:"required"`
	Genre       string              `json:"genre" validate:"required,max=50"`
	Books       []CreateBookRequest `json:"books" validate:"dive"`
}

// CreateAuthorWithDateOfDeathRequest is the body of POST /api/authors sent as
// application/vnd.marvin.authorwithdateofdeath.full+json.
type CreateAuthorWithDateOfDeathRequest struct {
	FirstName   string     `json:"firstName" validate:"required,max=50"`
	LastName    string     `json:"lastName" validate:"required,max=50"`
	DateOfBirth time.Time  `json:"dateOfBirth" validate:"required"`
	DateOfDeath *time.Time `json:"dateOfDeath" validate:"omitempty,gtfield=DateOfBirth"`
	Genre       string     `json:"genre" validate:"required,max=50"`
}

// PatchOperation is one operation of an RFC 6902 JSON Patch document.
type PatchOperation struct {
	Op    string      `json:"op" validate:"required,oneof=add replace remove test copy move"`
	Path  string      `json:"path" validate:"required"`
	From  string      `json:"from,omitempty"`
	Value interface{} `json:"value,omitempty"`
}

// BookResponse is the plain representation of a book.
type BookResponse struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	AuthorID    uuid.UUID `json:"authorId"`
}

// AuthorResponse is the plain representation of an author.
type AuthorResponse struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Age   int       `json:"age"`
	Genre string    `json:"genre"`
}

func (req CreateBookRequest) toInput() service.BookInput {
	return service.BookInput{Title: req.Title, Description: req.Description}
}

func (req UpdateBookRequest) toUpdate() service.BookUpdate {
	return service.BookUpdate{Title: req.Title, Description: req.Description}
}

func (req CreateAuthorRequest) toInput() service.AuthorInput {
	books := make([]service.BookInput, len(req.Books))
	for i, b := range req.Books {
		books[i] = b.toInput()
	}
	return service.AuthorInput{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		DateOfBirth: req.DateOfBirth,
		Genre:       req.Genre,
		Books:       books,
	}
}

func (req CreateAuthorWithDateOfDeathRequest) toInput() service.AuthorInput {
	return service.AuthorInput{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		DateOfBirth: req.DateOfBirth,
		DateOfDeath: req.DateOfDeath,
		Genre:       req.Genre,
	}
}

func authorResponse(v service.AuthorView) AuthorResponse {
	return AuthorResponse{ID: v.ID, Name: v.Name, Age: v.Age, Genre: v.Genre}
}

func bookResponse(v service.BookView) BookResponse {
	return BookResponse{ID: v.ID, Title: v.Title, Description: v.Description, AuthorID: v.AuthorID}
}
