package repository

import (
	"context"
	"fmt"

	"github.com/portfolio-api/internal/database"
	"github.com/portfolio-api/internal/models"
)

// Collection defines the data operations shared by every document type.
// Implementations return apperror values: NotFound for a missing id,
// InvalidKey for an id the backend cannot parse, Conflict on a unique
// violation and Unavailable when the store cannot be reached.
type Collection[D models.Document] interface {
	// List returns the matching documents in insertion order.
	List(ctx context.Context, f Filter) ([]D, error)
	// Stream calls fn for every matching document in insertion order and
	// stops at the first error fn returns.
	Stream(ctx context.Context, f Filter, fn func(D) error) error
	Count(ctx context.Context, f Filter) (int, error)
	Get(ctx context.Context, id string) (D, error)
	// FindOne returns the first matching document or NotFound.
	FindOne(ctx context.Context, f Filter) (D, error)
	// Insert assigns the document a new id and stores it.
	Insert(ctx context.Context, d D) error
	// Replace overwrites the stored document with the same id.
	Replace(ctx context.Context, d D) error
	Delete(ctx context.Context, id string) error
}

// Repositories holds one collection per content type
type Repositories struct {
	Projects Collection[*models.Project]
	Posts    Collection[*models.BlogPost]
}

// New creates all repositories on the open store
func New(store *database.Store) (*Repositories, error) {
	switch {
	case store.SQL != nil:
		return &Repositories{
			Projects: NewPostgresCollection(store.SQL, models.ProjectSchema),
			Posts:    NewPostgresCollection(store.SQL, models.BlogPostSchema),
		}, nil
	case store.Mongo != nil:
		return &Repositories{
			Projects: NewMongoCollection(store.Mongo, models.ProjectSchema),
			Posts:    NewMongoCollection(store.Mongo, models.BlogPostSchema),
		}, nil
	default:
		return nil, fmt.Errorf("store has no open connection")
	}
}
