package service

import (
	"github.com/phrazzld/library-api/internal/projection"
)

// Resource pairs whose property mappings the service relies on.
var (
	AuthorViewToAuthor = projection.Pair{Source: "AuthorView", Destination: "Author"}
	BookViewToBook     = projection.Pair{Source: "BookView", Destination: "Book"}
)

// RequiredPairs lists every pair the catalog service looks up at runtime.
var RequiredPairs = []projection.Pair{AuthorViewToAuthor, BookViewToBook}

// MappingDefinitions returns the property mappings of the catalog views.
// Age sorts by date of birth in the opposite direction and Name sorts by
// first name, then last name.
func MappingDefinitions() []projection.Definition {
	return []projection.Definition{
		{
			Pair: AuthorViewToAuthor,
			Mappings: []projection.PropertyMapping{
				projection.Map("Id", "Id"),
				projection.Map("Genre", "Genre"),
				projection.Map("Age", "DateOfBirth").Reversed(),
				projection.Map("Name", "FirstName", "LastName"),
			},
		},
		{
			Pair: BookViewToBook,
			Mappings: []projection.PropertyMapping{
				projection.Map("Id", "Id"),
				projection.Map("Title", "Title"),
				projection.Map("Description", "Description"),
			},
		},
	}
}

// NewMappingRegistry builds the registry used by the catalog service.
func NewMappingRegistry() (*projection.Registry, error) {
	return projection.NewRegistry(MappingDefinitions()...)
}
