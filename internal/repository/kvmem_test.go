package repository

import (
	"context"
	"encoding/json"
	"sync"
)

// memKV is an in-memory KV used across the repository tests.
type memKV struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemKV() *memKV {
	return &memKV{data: make(map[string][]byte)}
}

var _ KV = (*memKV)(nil)

func (m *memKV) Get(_ context.Context, key string, dst any) (bool, error) {
	m.mu.Lock()
	raw, ok := m.data[key]
	m.mu.Unlock()
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, nil
	}
	return true, nil
}

func (m *memKV) Set(_ context.Context, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.data[key] = b
	m.mu.Unlock()
	return nil
}

func (m *memKV) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.data, key)
	m.mu.Unlock()
	return nil
}

func (m *memKV) Update(_ context.Context, key string, fn func(raw []byte) (any, error)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	var raw []byte
	if cur, ok := m.data[key]; ok && json.Valid(cur) {
		raw = cur
	}
	next, err := fn(raw)
	if err != nil {
		return err
	}
	b, err := json.Marshal(next)
	if err != nil {
		return err
	}
	m.data[key] = b
	return nil
}

// corrupt plants a malformed JSON value under key.
func (m *memKV) corrupt(key string) {
	m.mu.Lock()
	m.data[key] = []byte(`{"broken`)
	m.mu.Unlock()
}
