package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/varshinivarma16/booksbackend/internal/resource"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryRepo keeps a collection in process. Used when MongoDB is not
// configured and by unit tests.
type MemoryRepo struct {
	mu         sync.RWMutex
	collection string
	store      map[primitive.ObjectID]resource.Document
	order      []primitive.ObjectID
	unique     [][]string
}

func NewMemoryRepo(collection string) *MemoryRepo {
	return &MemoryRepo{collection: collection, store: make(map[primitive.ObjectID]resource.Document)}
}

func (m *MemoryRepo) Collection() string { return m.collection }

func (m *MemoryRepo) Insert(ctx context.Context, docs ...resource.Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	pending := make([]resource.Document, 0, len(docs))
	for _, d := range docs {
		if resource.ID(d).IsZero() {
			d["_id"] = primitive.NewObjectID()
		}
		if err := m.checkUnique(d, pending, primitive.NilObjectID); err != nil {
			return err
		}
		pending = append(pending, d)
	}
	for _, d := range pending {
		id := resource.ID(d)
		m.store[id] = resource.Clone(d)
		m.order = append(m.order, id)
	}
	return nil
}

func (m *MemoryRepo) Find(ctx context.Context, filter resource.Document, opts resource.FindOptions) ([]resource.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []resource.Document{}
	for _, id := range m.order {
		d := m.store[id]
		if matches(d, filter) {
			out = append(out, d)
		}
	}
	if opts.Sort != "" {
		sort.SliceStable(out, func(i, j int) bool {
			c := compareValues(lookup(out[i], opts.Sort), lookup(out[j], opts.Sort))
			if opts.Desc {
				return c > 0
			}
			return c < 0
		})
	}
	for i, d := range out {
		out[i] = opts.Projection.Apply(resource.Clone(d))
	}
	return out, nil
}

func (m *MemoryRepo) FindOne(ctx context.Context, filter resource.Document, proj resource.Projection) (resource.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, id := range m.order {
		if d := m.store[id]; matches(d, filter) {
			return proj.Apply(resource.Clone(d)), nil
		}
	}
	return nil, resource.ErrNotFound
}

func (m *MemoryRepo) FindByID(ctx context.Context, id primitive.ObjectID, proj resource.Projection) (resource.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	d, ok := m.store[id]
	if !ok {
		return nil, resource.ErrNotFound
	}
	return proj.Apply(resource.Clone(d)), nil
}

func (m *MemoryRepo) UpdateByID(ctx context.Context, id primitive.ObjectID, set resource.Document) (resource.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.store[id]
	if !ok {
		return nil, resource.ErrNotFound
	}
	next := resource.Clone(d)
	for k, v := range set {
		next[k] = v
	}
	if err := m.checkUnique(next, nil, id); err != nil {
		return nil, err
	}
	m.store[id] = resource.Clone(next)
	return next, nil
}

func (m *MemoryRepo) UpdateMany(ctx context.Context, filter resource.Document, set resource.Document) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, id := range m.order {
		d := m.store[id]
		if !matches(d, filter) {
			continue
		}
		for k, v := range set {
			d[k] = cloneAny(v)
		}
		n++
	}
	return n, nil
}

func (m *MemoryRepo) Push(ctx context.Context, id primitive.ObjectID, field string, values ...interface{}) (resource.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.store[id]
	if !ok {
		return nil, resource.ErrNotFound
	}
	cur := append([]interface{}{}, resource.ToSlice(d[field])...)
	d[field] = append(cur, values...)
	return resource.Clone(d), nil
}

func (m *MemoryRepo) DeleteByID(ctx context.Context, id primitive.ObjectID) (resource.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.store[id]
	if !ok {
		return nil, resource.ErrNotFound
	}
	delete(m.store, id)
	m.dropOrder(map[primitive.ObjectID]bool{id: true})
	return d, nil
}

func (m *MemoryRepo) DeleteMany(ctx context.Context, filter resource.Document) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	gone := map[primitive.ObjectID]bool{}
	for _, id := range m.order {
		if matches(m.store[id], filter) {
			gone[id] = true
			delete(m.store, id)
		}
	}
	m.dropOrder(gone)
	return int64(len(gone)), nil
}

func (m *MemoryRepo) Count(ctx context.Context, filter resource.Document) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var n int64
	for _, id := range m.order {
		if matches(m.store[id], filter) {
			n++
		}
	}
	return n, nil
}

func (m *MemoryRepo) EnsureUnique(ctx context.Context, fields ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.unique = append(m.unique, fields)
	return nil
}

func (m *MemoryRepo) dropOrder(gone map[primitive.ObjectID]bool) {
	kept := m.order[:0]
	for _, id := range m.order {
		if !gone[id] {
			kept = append(kept, id)
		}
	}
	m.order = kept
}

// checkUnique must be called with the write lock held.
func (m *MemoryRepo) checkUnique(d resource.Document, pending []resource.Document, self primitive.ObjectID) error {
	for _, fields := range m.unique {
		key := uniqueKey(d, fields)
		if key == "" {
			continue
		}
		for id, other := range m.store {
			if id != self && uniqueKey(other, fields) == key {
				return fmt.Errorf("%s %s: %w", m.collection, strings.Join(fields, ","), resource.ErrDuplicate)
			}
		}
		for _, other := range pending {
			if uniqueKey(other, fields) == key {
				return fmt.Errorf("%s %s: %w", m.collection, strings.Join(fields, ","), resource.ErrDuplicate)
			}
		}
	}
	return nil
}

func uniqueKey(d resource.Document, fields []string) string {
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		v, ok := d[f]
		if !ok || v == nil {
			return ""
		}
		parts = append(parts, fmt.Sprint(v))
	}
	return strings.Join(parts, "\x00")
}

func cloneAny(v interface{}) interface{} {
	if s := resource.ToSlice(v); s != nil {
		return append([]interface{}{}, s...)
	}
	return v
}

// MemoryBackend hands out process-local repositories.
type MemoryBackend struct {
	mu    sync.Mutex
	repos map[string]*MemoryRepo
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{repos: map[string]*MemoryRepo{}}
}

func (b *MemoryBackend) Name() string { return "memory" }

func (b *MemoryBackend) Repository(collection string) Repository {
	b.mu.Lock()
	defer b.mu.Unlock()
	r, ok := b.repos[collection]
	if !ok {
		r = NewMemoryRepo(collection)
		b.repos[collection] = r
	}
	return r
}
