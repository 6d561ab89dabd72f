package kv

import (
	"context"
	"iter"
	"sort"
	"strings"
	"sync"
)

// Memory is an in-memory Store backed by a map. It is safe for
// concurrent use and intended primarily for testing.
type Memory struct {
	mu   sync.RWMutex
	data map[string][]byte
	opts *Options
}

// NewMemory creates a new in-memory Store. Pass nil for default options.
func NewMemory(opts *Options) *Memory {
	return &Memory{
		data: make(map[string][]byte),
		opts: opts,
	}
}

func (m *Memory) Get(_ context.Context, key Key) ([]byte, error) {
	k := string(m.opts.encode(key))
	m.mu.RLock()
	v, ok := m.data[k]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	// Return a copy to prevent mutation.
	cp := make([]byte, len(v))
	copy(cp, v)
	return cp, nil
}

func (m *Memory) Set(_ context.Context, key Key, value []byte) error {
	k := string(m.opts.encode(key))
	cp := make([]byte, len(value))
	copy(cp, value)
	m.mu.Lock()
	m.data[k] = cp
	m.mu.Unlock()
	return nil
}

func (m *Memory) Delete(_ context.Context, key Key) error {
	k := string(m.opts.encode(key))
	m.mu.Lock()
	delete(m.data, k)
	m.mu.Unlock()
	return nil
}

func (m *Memory) List(_ context.Context, prefix Key) iter.Seq2[Entry, error] {
	p := string(m.opts.encode(prefix))
	// Append separator so "a:b" prefix doesn't match "a:bc".
	// An empty prefix scans everything.
	if len(p) > 0 {
		p += string(m.opts.sep())
	}

	// Snapshot matching keys under read lock.
	m.mu.RLock()
	var keys []string
	for k := range m.data {
		if p == "" || strings.HasPrefix(k, p) {
			keys = append(keys, k)
		}
	}
	matches := make([]Entry, len(keys))
	sort.Strings(keys)
	for i, k := range keys {
		cp := make([]byte, len(m.data[k]))
		copy(cp, m.data[k])
		matches[i] = Entry{Key: m.opts.decode([]byte(k)), Value: cp}
	}
	m.mu.RUnlock()

	return func(yield func(Entry, error) bool) {
		for _, e := range matches {
			if !yield(e, nil) {
				return
			}
		}
	}
}

func (m *Memory) BatchSet(_ context.Context, entries []Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range entries {
		k := string(m.opts.encode(e.Key))
		cp := make([]byte, len(e.Value))
		copy(cp, e.Value)
		m.data[k] = cp
	}
	return nil
}

// Update runs fn under the write lock against a staged overlay, so a
// failing fn leaves the store untouched. Transactions serialize on the
// lock and never conflict.
func (m *Memory) Update(_ context.Context, fn func(Tx) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	tx := &memoryTx{m: m, writes: make(map[string][]byte)}
	if err := fn(tx); err != nil {
		return err
	}
	for k, v := range tx.writes {
		if v == nil {
			delete(m.data, k)
			continue
		}
		m.data[k] = v
	}
	return nil
}

func (m *Memory) Close() error {
	return nil
}

// memoryTx stages writes for Update. A nil value marks a delete.
type memoryTx struct {
	m      *Memory
	writes map[string][]byte
}

func (t *memoryTx) Get(key Key) ([]byte, error) {
	k := string(t.m.opts.encode(key))
	if v, ok := t.writes[k]; ok {
		if v == nil {
			return nil, ErrNotFound
		}
		cp := make([]byte, len(v))
		copy(cp, v)
		return cp, nil
	}
	v, ok := t.m.data[k]
	if !ok {
		return nil, ErrNotFound
	}
	cp := make([]byte, len(v))
	copy(cp, v)
	return cp, nil
}

func (t *memoryTx) Set(key Key, value []byte) error {
	cp := make([]byte, len(value))
	copy(cp, value)
	t.writes[string(t.m.opts.encode(key))] = cp
	return nil
}

func (t *memoryTx) Delete(key Key) error {
	t.writes[string(t.m.opts.encode(key))] = nil
	return nil
}
