package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/library-api/internal/domain"
	"github.com/phrazzld/library-api/internal/platform/logger"
	"github.com/phrazzld/library-api/internal/store"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func sampleAuthor(id, first, last, genre string, born time.Time, died *time.Time, books ...domain.Book) *domain.Author {
	a := &domain.Author{
		ID:          uuid.MustParse(id),
		FirstName:   first,
		LastName:    last,
		DateOfBirth: born,
		DateOfDeath: died,
		Genre:       genre,
	}
	for _, b := range books {
		b.AuthorID = a.ID
		a.Books = append(a.Books, b)
	}
	return a
}

func sampleBook(id, title, description string) domain.Book {
	return domain.Book{ID: uuid.MustParse(id), Title: title, Description: description}
}

// SampleAuthors returns the sample catalog with fixed IDs, so seeding twice
// yields the same resources.
func SampleAuthors() []*domain.Author {
	adamsDied := date(2001, time.May, 11)
	pratchettDied := date(2015, time.March, 12)

	return []*domain.Author{
		sampleAuthor("25320c5e-f58a-4b1f-b63a-8ee07a840bdf", "Stephen", "King", "Horror", date(1947, time.September, 21), nil,
			sampleBook("c7ba6add-09c4-45f8-8dd0-eaca221e5d93", "The Shining",
				"A family heads to an isolated hotel for the winter where a sinister presence influences the father."),
			sampleBook("a3749477-f823-4124-aa4a-fc9ad5e79cd6", "Misery",
				"A novelist is held captive by his number one fan."),
			sampleBook("70a1f9b9-0a37-4c1a-99b1-c7709fc64167", "It",
				"Seven friends confront an ancient evil that preys on the children of Derry."),
		),
		sampleAuthor("76053df4-6687-4353-8937-b45556748abe", "George", "RR Martin", "Fantasy", date(1948, time.September, 20), nil,
			sampleBook("447eb762-95e9-4c31-95e1-b20053fbe215", "A Game of Thrones",
				"The first novel in A Song of Ice and Fire."),
			sampleBook("bc4c35c3-3857-4250-9449-155fcf5109ec", "The Winds of Winter",
				"Forthcoming sixth novel in A Song of Ice and Fire."),
		),
		sampleAuthor("412c3012-d891-4f5e-9613-ff7aa63e6bb3", "Neil", "Gaiman", "Fantasy", date(1960, time.November, 10), nil,
			sampleBook("9edf91ee-ab77-4521-a402-5f188bc0c577", "American Gods",
				"A recently released convict becomes bodyguard to a con man who claims to be an old god."),
		),
		sampleAuthor("578359b7-1967-41d6-8b87-64ab7605587e", "Tom", "Lanoye", "Various", date(1958, time.August, 27), nil,
			sampleBook("01457142-358f-495f-aafa-fb23de3d67e9", "Speechless",
				"A novel about the death of the narrator's mother."),
		),
		sampleAuthor("f74d6899-9ed2-4137-9876-66b070553f8f", "Douglas", "Adams", "Science fiction", date(1952, time.March, 11), &adamsDied,
			sampleBook("e57b605f-8b3c-4089-b672-6ce9e6d6c23f", "The Hitchhiker's Guide to the Galaxy",
				"Arthur Dent escapes the destruction of Earth with his friend Ford Prefect."),
		),
		sampleAuthor("a1da1d8e-1988-4634-b538-a01709477b77", "Terry", "Pratchett", "Fantasy", date(1948, time.April, 28), &pratchettDied,
			sampleBook("1325360c-8253-473a-a20f-55c269c20407", "Guards! Guards!",
				"The Night Watch of Ankh-Morpork faces a summoned dragon."),
		),
	}
}

// Seed stores the sample catalog when the store holds no authors yet. It
// returns the number of authors created, which is zero when the store was
// already populated.
func Seed(ctx context.Context, authors store.AuthorStore, log *slog.Logger) (int, error) {
	log = logger.FromContextOrDefault(ctx, log)

	existing, err := authors.List(ctx, store.AuthorQuery{PageNumber: 1, PageSize: 1})
	if err != nil {
		return 0, wrapStoreError("seed", "failed to inspect catalog", err)
	}
	if existing.TotalCount > 0 {
		log.Info("catalog already populated, skipping seed", slog.Int("authors", existing.TotalCount))
		return 0, nil
	}

	sample := SampleAuthors()
	if err := authors.CreateMultiple(ctx, sample); err != nil {
		return 0, wrapStoreError("seed", "failed to store sample catalog", err)
	}

	log.Info("sample catalog seeded", slog.Int("authors", len(sample)))
	return len(sample), nil
}
