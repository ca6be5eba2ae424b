package blob

import (
	"context"
	"io"
	"path"
	"sync"

	"github.com/google/uuid"
)

// Memory is an in-process Store for tests.
type Memory struct {
	mu      sync.Mutex
	objects map[string][]byte

	// FailDelete forces Delete to return an error, used to exercise the
	// best-effort cleanup path.
	FailDelete error
}

// NewMemory creates an empty in-memory blob store.
func NewMemory() *Memory {
	return &Memory{objects: make(map[string][]byte)}
}

// Put stores the upload content in memory.
func (s *Memory) Put(ctx context.Context, folder string, upload Upload) (*Object, error) {
	body, err := io.ReadAll(upload.Body)
	if err != nil {
		return nil, err
	}
	key := path.Join(folder, uuid.NewString()+path.Ext(upload.Filename))
	s.mu.Lock()
	s.objects[key] = body
	s.mu.Unlock()
	return &Object{URL: "memory://" + key, Key: key, Size: int64(len(body))}, nil
}

// Delete removes the object.
func (s *Memory) Delete(ctx context.Context, key string) error {
	if s.FailDelete != nil {
		return s.FailDelete
	}
	s.mu.Lock()
	delete(s.objects, key)
	s.mu.Unlock()
	return nil
}

// Has reports whether a key is stored.
func (s *Memory) Has(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.objects[key]
	return ok
}
