package service

import (
	"context"
	"errors"
	"time"

	"github.com/varshinivarma16/booksbackend/internal/resource"
	"github.com/varshinivarma16/booksbackend/internal/resource/repository"
	"github.com/varshinivarma16/booksbackend/pkg/metrics"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Service binds a schema to a repository and is what handlers talk to.
type Service struct {
	schema *resource.Schema
	repo   repository.Repository
}

// New returns a Service for schema backed by the backend's collection.
func New(schema *resource.Schema, backend repository.Backend) *Service {
	return &Service{schema: schema, repo: backend.Repository(schema.Collection)}
}

func (s *Service) Schema() *resource.Schema { return s.schema }

// Create validates and inserts one document.
func (s *Service) Create(ctx context.Context, in resource.Document) (resource.Document, error) {
	out, err := s.CreateMany(ctx, []resource.Document{in})
	if err != nil {
		return nil, err
	}
	return out[0], nil
}

// CreateMany validates every document before inserting any of them.
func (s *Service) CreateMany(ctx context.Context, in []resource.Document) ([]resource.Document, error) {
	docs := make([]resource.Document, 0, len(in))
	for _, raw := range in {
		d, err := s.schema.Prepare(raw)
		if err != nil {
			return nil, err
		}
		docs = append(docs, d)
	}
	return s.Insert(ctx, docs...)
}

// Insert stores documents that already went through Schema().Prepare,
// assigning ids and timestamps.
func (s *Service) Insert(ctx context.Context, docs ...resource.Document) ([]resource.Document, error) {
	now := time.Now().UTC()
	for _, d := range docs {
		d["_id"] = primitive.NewObjectID()
		if s.schema.Timestamps {
			d["createdAt"] = now
			d["updatedAt"] = now
		}
	}
	err := s.repo.Insert(ctx, docs...)
	metrics.ObserveStore(s.repo.Collection(), "insert", err)
	if err != nil {
		return nil, err
	}
	return docs, nil
}

func (s *Service) List(ctx context.Context, filter resource.Document, opts resource.FindOptions) ([]resource.Document, error) {
	out, err := s.repo.Find(ctx, filter, opts)
	metrics.ObserveStore(s.repo.Collection(), "find", err)
	return out, err
}

// Get looks a document up by its hex id.
func (s *Service) Get(ctx context.Context, id string, proj resource.Projection) (resource.Document, error) {
	oid, err := resource.ParseID(id)
	if err != nil {
		return nil, err
	}
	return s.GetByID(ctx, oid, proj)
}

func (s *Service) GetByID(ctx context.Context, id primitive.ObjectID, proj resource.Projection) (resource.Document, error) {
	d, err := s.repo.FindByID(ctx, id, proj)
	metrics.ObserveStore(s.repo.Collection(), "find", ignoreNotFound(err))
	return d, err
}

func (s *Service) FindOne(ctx context.Context, filter resource.Document, proj resource.Projection) (resource.Document, error) {
	d, err := s.repo.FindOne(ctx, filter, proj)
	metrics.ObserveStore(s.repo.Collection(), "find", ignoreNotFound(err))
	return d, err
}

// Update validates the supplied fields and merges them into the document.
func (s *Service) Update(ctx context.Context, id string, patch resource.Document) (resource.Document, error) {
	oid, err := resource.ParseID(id)
	if err != nil {
		return nil, err
	}
	return s.UpdateByID(ctx, oid, patch)
}

func (s *Service) UpdateByID(ctx context.Context, id primitive.ObjectID, patch resource.Document) (resource.Document, error) {
	set, err := s.schema.PreparePatch(patch)
	if err != nil {
		return nil, err
	}
	if s.schema.Timestamps {
		set["updatedAt"] = time.Now().UTC()
	}
	if len(set) == 0 {
		return s.GetByID(ctx, id, resource.Projection{})
	}
	d, err := s.repo.UpdateByID(ctx, id, set)
	metrics.ObserveStore(s.repo.Collection(), "update", ignoreNotFound(err))
	return d, err
}

// UpdateWhere updates the first document matching filter.
func (s *Service) UpdateWhere(ctx context.Context, filter resource.Document, patch resource.Document) (resource.Document, error) {
	cur, err := s.FindOne(ctx, filter, resource.Include("_id"))
	if err != nil {
		return nil, err
	}
	return s.UpdateByID(ctx, resource.ID(cur), patch)
}

// SetMany writes raw values into every matching document without schema
// checks. Used for relational resets such as emptying reference arrays.
func (s *Service) SetMany(ctx context.Context, filter resource.Document, set resource.Document) (int64, error) {
	n, err := s.repo.UpdateMany(ctx, filter, set)
	metrics.ObserveStore(s.repo.Collection(), "update", err)
	return n, err
}

// Push appends values to an array field.
func (s *Service) Push(ctx context.Context, id primitive.ObjectID, field string, values ...interface{}) (resource.Document, error) {
	d, err := s.repo.Push(ctx, id, field, values...)
	metrics.ObserveStore(s.repo.Collection(), "update", ignoreNotFound(err))
	return d, err
}

// Delete removes a document by hex id and returns it.
func (s *Service) Delete(ctx context.Context, id string) (resource.Document, error) {
	oid, err := resource.ParseID(id)
	if err != nil {
		return nil, err
	}
	d, err := s.repo.DeleteByID(ctx, oid)
	metrics.ObserveStore(s.repo.Collection(), "delete", ignoreNotFound(err))
	return d, err
}

func (s *Service) DeleteWhere(ctx context.Context, filter resource.Document) (int64, error) {
	n, err := s.repo.DeleteMany(ctx, filter)
	metrics.ObserveStore(s.repo.Collection(), "delete", err)
	return n, err
}

func (s *Service) Count(ctx context.Context, filter resource.Document) (int64, error) {
	n, err := s.repo.Count(ctx, filter)
	metrics.ObserveStore(s.repo.Collection(), "count", err)
	return n, err
}

func (s *Service) EnsureUnique(ctx context.Context, fields ...string) error {
	return s.repo.EnsureUnique(ctx, fields...)
}

func ignoreNotFound(err error) error {
	if errors.Is(err, resource.ErrNotFound) {
		return nil
	}
	return err
}
