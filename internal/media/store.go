package media

import (
	"context"
	"sync"
)

// ObjectStore keeps uploaded objects and returns their public URL.
type ObjectStore interface {
	Put(ctx context.Context, key string, body []byte, contentType string) (string, error)
}

// Memory keeps objects in process.
type Memory struct {
	mu      sync.Mutex
	BaseURL string
	objects map[string][]byte
}

func NewMemory(baseURL string) *Memory {
	return &Memory{BaseURL: baseURL, objects: map[string][]byte{}}
}

func (m *Memory) Put(_ context.Context, key string, body []byte, _ string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = append([]byte(nil), body...)
	return m.BaseURL + "/" + key, nil
}

func (m *Memory) Get(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.objects[key]
	return b, ok
}
