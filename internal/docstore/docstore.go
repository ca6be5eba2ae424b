package docstore

import (
	"context"
	"errors"
	"strings"
	"time"
)

// ErrNotFound is returned when a document id does not resolve.
var ErrNotFound = errors.New("document not found")

// Collection names used by the service.
const (
	CollectionListings  = "listings"
	CollectionInterests = "interests"
	CollectionUsers     = "users"
)

// Document is a stored record with its assigned id.
type Document struct {
	ID        string
	Data      map[string]any
	CreatedAt time.Time
}

// Filter is a single equality predicate. Field may be a dotted path into
// nested maps, e.g. "owner.uid".
type Filter struct {
	Field string
	Value any
}

// RangeFilter is a numeric range predicate on one field. Only backends
// reporting NativeRange support executing it; otherwise callers post-filter
// in memory.
type RangeFilter struct {
	Field string
	Min   *float64
	Max   *float64
}

// Query combines equality filters with an optional single-field descending
// order by creation time. Compound ordering is deliberately not part of the
// contract.
type Query struct {
	Filters        []Filter
	Range          *RangeFilter
	OrderByCreated bool
}

// Capabilities describes optional backend features.
type Capabilities struct {
	NativeRange bool
}

// Store is the schemaless document database port. Implementations provide
// named collections written by document id and queried by equality filters.
type Store interface {
	Collection(name string) Collection
	Capabilities() Capabilities
	Ping(ctx context.Context) error
}

// Collection exposes per-collection operations.
type Collection interface {
	// Add stores data under a new id and returns it.
	Add(ctx context.Context, data map[string]any) (string, error)
	// Get fetches a document by id, ErrNotFound when absent.
	Get(ctx context.Context, id string) (*Document, error)
	// Set writes a document at a known id. With merge, existing top-level
	// fields not present in data are preserved; the document is created if
	// absent.
	Set(ctx context.Context, id string, data map[string]any, merge bool) error
	// Update merges fields into an existing document, ErrNotFound when absent.
	Update(ctx context.Context, id string, fields map[string]any) error
	// Delete removes a document. Deleting an absent id is ErrNotFound.
	Delete(ctx context.Context, id string) error
	// Query returns documents matching all equality filters.
	Query(ctx context.Context, q Query) ([]Document, error)
	// Count returns the number of matching documents.
	Count(ctx context.Context, q Query) (int, error)
}

// Lookup resolves a dotted field path inside a document data map.
func Lookup(data map[string]any, path string) (any, bool) {
	parts := strings.Split(path, ".")
	var current any = data
	for _, part := range parts {
		m, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = m[part]
		if !ok {
			return nil, false
		}
	}
	return current, true
}
