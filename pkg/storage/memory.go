package storage

import (
	"context"
	"sync"
)

// Memory is an in-memory BlobStore for tests.
type Memory struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{blobs: make(map[string][]byte)}
}

func (m *Memory) Get(_ context.Context, path string) ([]byte, error) {
	m.mu.RLock()
	data, ok := m.blobs[path]
	m.mu.RUnlock()
	if !ok {
		return nil, notExist(path)
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	return cp, nil
}

func (m *Memory) Put(_ context.Context, path string, data []byte) error {
	cp := make([]byte, len(data))
	copy(cp, data)
	m.mu.Lock()
	m.blobs[path] = cp
	m.mu.Unlock()
	return nil
}

func (m *Memory) Delete(_ context.Context, path string) error {
	m.mu.Lock()
	delete(m.blobs, path)
	m.mu.Unlock()
	return nil
}

func (m *Memory) Exists(_ context.Context, path string) (bool, error) {
	m.mu.RLock()
	_, ok := m.blobs[path]
	m.mu.RUnlock()
	return ok, nil
}

var _ BlobStore = (*Memory)(nil)
