package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/varshinivarma16/booksbackend/internal/resource"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoRepo implements Repository on a MongoDB collection.
type MongoRepo struct {
	col *mongo.Collection
}

func NewMongoRepo(col *mongo.Collection) *MongoRepo {
	return &MongoRepo{col: col}
}

func (m *MongoRepo) Collection() string { return m.col.Name() }

func (m *MongoRepo) Insert(ctx context.Context, docs ...resource.Document) error {
	if len(docs) == 0 {
		return nil
	}
	batch := make([]interface{}, len(docs))
	for i, d := range docs {
		if resource.ID(d).IsZero() {
			d["_id"] = primitive.NewObjectID()
		}
		batch[i] = d
	}
	if _, err := m.col.InsertMany(ctx, batch); err != nil {
		return m.wrap(err)
	}
	return nil
}

func (m *MongoRepo) Find(ctx context.Context, filter resource.Document, opts resource.FindOptions) ([]resource.Document, error) {
	fo := options.Find()
	if p := opts.Projection.BSON(); p != nil {
		fo.SetProjection(p)
	}
	if opts.Sort != "" {
		dir := 1
		if opts.Desc {
			dir = -1
		}
		fo.SetSort(bson.D{{Key: opts.Sort, Value: dir}})
	}
	cur, err := m.col.Find(ctx, normalize(filter), fo)
	if err != nil {
		return nil, m.wrap(err)
	}
	defer cur.Close(ctx)
	out := []resource.Document{}
	for cur.Next(ctx) {
		var d resource.Document
		if err := cur.Decode(&d); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, cur.Err()
}

func (m *MongoRepo) FindOne(ctx context.Context, filter resource.Document, proj resource.Projection) (resource.Document, error) {
	fo := options.FindOne()
	if p := proj.BSON(); p != nil {
		fo.SetProjection(p)
	}
	var d resource.Document
	if err := m.col.FindOne(ctx, normalize(filter), fo).Decode(&d); err != nil {
		return nil, m.wrap(err)
	}
	return d, nil
}

func (m *MongoRepo) FindByID(ctx context.Context, id primitive.ObjectID, proj resource.Projection) (resource.Document, error) {
	return m.FindOne(ctx, resource.Document{"_id": id}, proj)
}

func (m *MongoRepo) UpdateByID(ctx context.Context, id primitive.ObjectID, set resource.Document) (resource.Document, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var d resource.Document
	err := m.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&d)
	if err != nil {
		return nil, m.wrap(err)
	}
	return d, nil
}

func (m *MongoRepo) UpdateMany(ctx context.Context, filter resource.Document, set resource.Document) (int64, error) {
	res, err := m.col.UpdateMany(ctx, normalize(filter), bson.M{"$set": set})
	if err != nil {
		return 0, m.wrap(err)
	}
	return res.MatchedCount, nil
}

func (m *MongoRepo) Push(ctx context.Context, id primitive.ObjectID, field string, values ...interface{}) (resource.Document, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	update := bson.M{"$push": bson.M{field: bson.M{"$each": values}}}
	var d resource.Document
	if err := m.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&d); err != nil {
		return nil, m.wrap(err)
	}
	return d, nil
}

func (m *MongoRepo) DeleteByID(ctx context.Context, id primitive.ObjectID) (resource.Document, error) {
	var d resource.Document
	if err := m.col.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&d); err != nil {
		return nil, m.wrap(err)
	}
	return d, nil
}

func (m *MongoRepo) DeleteMany(ctx context.Context, filter resource.Document) (int64, error) {
	res, err := m.col.DeleteMany(ctx, normalize(filter))
	if err != nil {
		return 0, m.wrap(err)
	}
	return res.DeletedCount, nil
}

func (m *MongoRepo) Count(ctx context.Context, filter resource.Document) (int64, error) {
	n, err := m.col.CountDocuments(ctx, normalize(filter))
	if err != nil {
		return 0, m.wrap(err)
	}
	return n, nil
}

func (m *MongoRepo) EnsureUnique(ctx context.Context, fields ...string) error {
	keys := bson.D{}
	for _, f := range fields {
		keys = append(keys, bson.E{Key: f, Value: 1})
	}
	idx := mongo.IndexModel{Keys: keys, Options: options.Index().SetUnique(true)}
	if _, err := m.col.Indexes().CreateOne(ctx, idx); err != nil {
		return fmt.Errorf("ensure unique index on %s: %w", m.col.Name(), err)
	}
	return nil
}

func (m *MongoRepo) wrap(err error) error {
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return resource.ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return fmt.Errorf("%s: %v: %w", m.col.Name(), err, resource.ErrDuplicate)
	}
	return fmt.Errorf("%s: %w", m.col.Name(), err)
}

// normalize turns a nil filter into an empty document; the driver rejects nil.
func normalize(filter resource.Document) resource.Document {
	if filter == nil {
		return resource.Document{}
	}
	return filter
}

// MongoBackend hands out repositories bound to one database.
type MongoBackend struct {
	db *mongo.Database
}

func NewMongoBackend(db *mongo.Database) *MongoBackend {
	return &MongoBackend{db: db}
}

func (b *MongoBackend) Name() string { return "mongo" }

func (b *MongoBackend) Repository(collection string) Repository {
	return NewMongoRepo(b.db.Collection(collection))
}
