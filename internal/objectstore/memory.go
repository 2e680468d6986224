package objectstore

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"sync"
	"time"
)

// MemoryStore is an in-memory object store for tests and local development.
type MemoryStore struct {
	mu      sync.RWMutex
	objects map[string]memoryObject

	// FailRemove makes Remove return an error, to exercise best-effort paths.
	FailRemove bool
}

type memoryObject struct {
	data        []byte
	contentType string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{objects: make(map[string]memoryObject)}
}

func (m *MemoryStore) Put(path string, data []byte, contentType string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[path] = memoryObject{data: append([]byte(nil), data...), contentType: contentType}
}

func (m *MemoryStore) Has(path string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.objects[path]
	return ok
}

func (m *MemoryStore) Open(ctx context.Context, path string) (io.ReadCloser, Info, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	o, ok := m.objects[path]
	if !ok {
		return nil, Info{}, ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(o.data)), Info{Size: int64(len(o.data)), ContentType: o.contentType}, nil
}

func (m *MemoryStore) Remove(ctx context.Context, path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailRemove {
		return fmt.Errorf("remove object %s: simulated failure", path)
	}
	delete(m.objects, path)
	return nil
}

func (m *MemoryStore) PresignGet(ctx context.Context, path string, ttl time.Duration) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if _, ok := m.objects[path]; !ok {
		return "", ErrNotFound
	}
	return fmt.Sprintf("memory://%s?expires=%d", url.PathEscape(path), int64(ttl.Seconds())), nil
}
