package storage

import (
	"context"
	"sync"
)

// Memory is a process-local Repository, used when no storage file is wanted
// and as a fake in tests.
type Memory struct {
	mu   sync.Mutex
	data map[string][]byte
	rev  int64
}

func NewMemory() *Memory {
	return &Memory{data: make(map[string][]byte)}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return nil, nil
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

func (m *Memory) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = append([]byte{}, value...)
	m.rev++
	return nil
}

func (m *Memory) SetMany(_ context.Context, values map[string][]byte) error {
	if len(values) == 0 {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, v := range values {
		m.data[k] = append([]byte{}, v...)
	}
	m.rev++
	return nil
}

func (m *Memory) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	removed := false
	for _, k := range keys {
		if _, ok := m.data[k]; ok {
			delete(m.data, k)
			removed = true
		}
	}
	if removed {
		m.rev++
	}
	return nil
}

func (m *Memory) List(_ context.Context) (map[string][]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string][]byte, len(m.data))
	for k, v := range m.data {
		out[k] = append([]byte(nil), v...)
	}
	return out, nil
}

func (m *Memory) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = make(map[string][]byte)
	m.rev++
	return nil
}

func (m *Memory) Revision(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rev, nil
}
