package snapshot

import (
	"context"
	"sync"
)

// Memory is an in-process Store, used in tests and as the default backend.
type Memory struct {
	mu   sync.Mutex
	blob []byte
	set  bool
}

// NewMemory returns an empty Memory store.
func NewMemory() *Memory { return &Memory{} }

// NewMemoryWith returns a Memory store pre-loaded with blob.
func NewMemoryWith(blob []byte) *Memory {
	m := &Memory{}
	m.blob = append([]byte(nil), blob...)
	m.set = true
	return m
}

func (m *Memory) Load(ctx context.Context) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.set {
		return nil, ErrNotFound
	}
	return append([]byte(nil), m.blob...), nil
}

func (m *Memory) Save(ctx context.Context, blob []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blob = append([]byte(nil), blob...)
	m.set = true
	return nil
}

func (m *Memory) Delete(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blob = nil
	m.set = false
	return nil
}
