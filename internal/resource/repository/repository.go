package repository

import (
	"context"

	"github.com/varshinivarma16/booksbackend/internal/resource"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Repository is the persistence contract shared by the memory and Mongo
// implementations. Filters use the Mongo query shape; the memory
// implementation understands equality, primitive.Regex, $in and $ne.
type Repository interface {
	Insert(ctx context.Context, docs ...resource.Document) error
	Find(ctx context.Context, filter resource.Document, opts resource.FindOptions) ([]resource.Document, error)
	FindOne(ctx context.Context, filter resource.Document, proj resource.Projection) (resource.Document, error)
	FindByID(ctx context.Context, id primitive.ObjectID, proj resource.Projection) (resource.Document, error)
	UpdateByID(ctx context.Context, id primitive.ObjectID, set resource.Document) (resource.Document, error)
	UpdateMany(ctx context.Context, filter resource.Document, set resource.Document) (int64, error)
	Push(ctx context.Context, id primitive.ObjectID, field string, values ...interface{}) (resource.Document, error)
	DeleteByID(ctx context.Context, id primitive.ObjectID) (resource.Document, error)
	DeleteMany(ctx context.Context, filter resource.Document) (int64, error)
	Count(ctx context.Context, filter resource.Document) (int64, error)
	EnsureUnique(ctx context.Context, fields ...string) error
	Collection() string
}

// Backend hands out one repository per collection.
type Backend interface {
	Repository(collection string) Repository
	Name() string
}
