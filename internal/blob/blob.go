package blob

import (
	"context"
	"errors"
	"io"
)

// ErrNotFound is returned when an object key does not resolve.
var ErrNotFound = errors.New("object not found")

// Object describes a stored blob addressable by key and reachable at a
// public URL.
type Object struct {
	URL  string
	Key  string
	Size int64
}

// Upload carries one inbound file. The whole upload is a single awaited
// call; there is no multi-stage event wiring.
type Upload struct {
	Body        io.Reader
	Filename    string
	ContentType string
	Size        int64
}

// Store is the key-addressed binary object storage port.
type Store interface {
	// Put stores the upload under a generated key inside folder and returns
	// the public object reference.
	Put(ctx context.Context, folder string, upload Upload) (*Object, error)
	// Delete removes an object by key. Deleting an absent key is not an
	// error; callers treat cleanup as best-effort.
	Delete(ctx context.Context, key string) error
}
