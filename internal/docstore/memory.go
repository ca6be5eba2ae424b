package docstore

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Memory is an in-process Store used in tests and local development.
type Memory struct {
	mu          sync.RWMutex
	collections map[string]map[string]*Document
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{collections: make(map[string]map[string]*Document)}
}

// Collection returns a handle for the named collection.
func (m *Memory) Collection(name string) Collection {
	return &memoryCollection{store: m, name: name}
}

// Capabilities reports no native range support, forcing the in-memory
// post-filter path that mirrors the production document backend.
func (m *Memory) Capabilities() Capabilities {
	return Capabilities{NativeRange: false}
}

// Ping always succeeds.
func (m *Memory) Ping(ctx context.Context) error {
	return nil
}

type memoryCollection struct {
	store *Memory
	name  string
}

// mutable returns the collection map for writing, creating it on first
// use. The caller must hold the write lock.
func (c *memoryCollection) mutable() map[string]*Document {
	coll, ok := c.store.collections[c.name]
	if !ok {
		coll = make(map[string]*Document)
		c.store.collections[c.name] = coll
	}
	return coll
}

// view returns the collection map for reading, nil when the collection has
// never been written. The caller must hold at least the read lock; an
// absent collection is never created here.
func (c *memoryCollection) view() map[string]*Document {
	return c.store.collections[c.name]
}

func (c *memoryCollection) Add(ctx context.Context, data map[string]any) (string, error) {
	c.store.mu.Lock()
	defer c.store.mu.Unlock()
	id := uuid.NewString()
	c.mutable()[id] = &Document{ID: id, Data: cloneMap(data), CreatedAt: time.Now()}
	return id, nil
}

func (c *memoryCollection) Get(ctx context.Context, id string) (*Document, error) {
	c.store.mu.RLock()
	defer c.store.mu.RUnlock()
	doc, ok := c.view()[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &Document{ID: doc.ID, Data: cloneMap(doc.Data), CreatedAt: doc.CreatedAt}, nil
}

func (c *memoryCollection) Set(ctx context.Context, id string, data map[string]any, merge bool) error {
	c.store.mu.Lock()
	defer c.store.mu.Unlock()
	coll := c.mutable()
	existing, ok := coll[id]
	if !ok {
		coll[id] = &Document{ID: id, Data: cloneMap(data), CreatedAt: time.Now()}
		return nil
	}
	if !merge {
		existing.Data = cloneMap(data)
		return nil
	}
	for k, v := range data {
		existing.Data[k] = v
	}
	return nil
}

func (c *memoryCollection) Update(ctx context.Context, id string, fields map[string]any) error {
	c.store.mu.Lock()
	defer c.store.mu.Unlock()
	existing, ok := c.mutable()[id]
	if !ok {
		return ErrNotFound
	}
	for k, v := range fields {
		existing.Data[k] = v
	}
	return nil
}

func (c *memoryCollection) Delete(ctx context.Context, id string) error {
	c.store.mu.Lock()
	defer c.store.mu.Unlock()
	coll := c.mutable()
	if _, ok := coll[id]; !ok {
		return ErrNotFound
	}
	delete(coll, id)
	return nil
}

func (c *memoryCollection) Query(ctx context.Context, q Query) ([]Document, error) {
	c.store.mu.RLock()
	defer c.store.mu.RUnlock()
	var result []Document
	for _, doc := range c.view() {
		if matches(doc, q) {
			result = append(result, Document{ID: doc.ID, Data: cloneMap(doc.Data), CreatedAt: doc.CreatedAt})
		}
	}
	if q.OrderByCreated {
		sort.SliceStable(result, func(i, j int) bool {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		})
	}
	return result, nil
}

func (c *memoryCollection) Count(ctx context.Context, q Query) (int, error) {
	c.store.mu.RLock()
	defer c.store.mu.RUnlock()
	count := 0
	for _, doc := range c.view() {
		if matches(doc, q) {
			count++
		}
	}
	return count, nil
}

func matches(doc *Document, q Query) bool {
	for _, f := range q.Filters {
		val, ok := Lookup(doc.Data, f.Field)
		if !ok {
			return false
		}
		if fmt.Sprint(val) != fmt.Sprint(f.Value) {
			return false
		}
	}
	if q.Range != nil {
		val, ok := Lookup(doc.Data, q.Range.Field)
		if !ok {
			return false
		}
		num, ok := asFloat(val)
		if !ok {
			return false
		}
		if q.Range.Min != nil && num < *q.Range.Min {
			return false
		}
		if q.Range.Max != nil && num > *q.Range.Max {
			return false
		}
	}
	return true
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

func cloneMap(src map[string]any) map[string]any {
	dst := make(map[string]any, len(src))
	for k, v := range src {
		if nested, ok := v.(map[string]any); ok {
			dst[k] = cloneMap(nested)
			continue
		}
		dst[k] = v
	}
	return dst
}
