package cachestore

import (
	"context"
	"net/http"
	"sync"
)

// Memory keeps buckets in process memory.
type Memory struct {
	mu      sync.RWMutex
	order   []string
	buckets map[string]map[string]Entry
	closed  bool
}

func NewMemory() *Memory {
	return &Memory{buckets: map[string]map[string]Entry{}}
}

func (m *Memory) Open(_ context.Context, bucket string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}
	m.openLocked(bucket)
	return nil
}

func (m *Memory) openLocked(bucket string) map[string]Entry {
	b, ok := m.buckets[bucket]
	if !ok {
		b = map[string]Entry{}
		m.buckets[bucket] = b
		m.order = append(m.order, bucket)
	}
	return b
}

func (m *Memory) Put(_ context.Context, bucket string, e Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}
	e.Bucket = bucket
	m.openLocked(bucket)[e.Identity] = e
	return nil
}

func (m *Memory) Match(_ context.Context, bucket string, req *http.Request) (Entry, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return Entry{}, false, ErrClosed
	}

	names := m.order
	if bucket != "" {
		names = []string{bucket}
	}

	id := Identity(req)
	for _, name := range names {
		if e, ok := m.buckets[name][id]; ok && e.Matches(req) {
			return e, true, nil
		}
	}
	return Entry{}, false, nil
}

func (m *Memory) Buckets(_ context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, ErrClosed
	}
	return append([]string(nil), m.order...), nil
}

func (m *Memory) Delete(_ context.Context, bucket string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return false, ErrClosed
	}
	if _, ok := m.buckets[bucket]; !ok {
		return false, nil
	}

	delete(m.buckets, bucket)
	for i, name := range m.order {
		if name == bucket {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return true, nil
}

func (m *Memory) Len(_ context.Context, bucket string) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return 0, ErrClosed
	}
	return len(m.buckets[bucket]), nil
}

func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	m.buckets = nil
	m.order = nil
	return nil
}
