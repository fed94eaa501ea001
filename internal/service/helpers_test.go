package service

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"greenpulse/internal/eventbus"
	"greenpulse/internal/repository"
)

// memKV backs the real repositories in service tests. It mirrors the sqlite
// store's behavior: corrupt values read as absent, writes publish change
// events when a bus is attached.
type memKV struct {
	mu   sync.Mutex
	data map[string][]byte
	bus  *eventbus.Bus
}

func newMemKV(bus *eventbus.Bus) *memKV {
	return &memKV{data: make(map[string][]byte), bus: bus}
}

var _ repository.KV = (*memKV)(nil)

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
	m.publish(key, false)
	return nil
}

func (m *memKV) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.data, key)
	m.mu.Unlock()
	m.publish(key, true)
	return nil
}

func (m *memKV) Update(_ context.Context, key string, fn func(raw []byte) (any, error)) error {
	m.mu.Lock()
	var raw []byte
	if cur, ok := m.data[key]; ok && json.Valid(cur) {
		raw = cur
	}
	next, err := fn(raw)
	if err != nil {
		m.mu.Unlock()
		return err
	}
	b, err := json.Marshal(next)
	if err != nil {
		m.mu.Unlock()
		return err
	}
	m.data[key] = b
	m.mu.Unlock()
	m.publish(key, false)
	return nil
}

func (m *memKV) publish(key string, deleted bool) {
	if m.bus != nil {
		m.bus.Publish(eventbus.Event{Key: key, Deleted: deleted})
	}
}

var testAuthConfig = AuthConfig{SigningKey: "test-signing-key", TokenTTL: time.Hour}

// newTestService wires real repositories over an in-memory KV.
func newTestService() (*Service, *eventbus.Bus) {
	bus := eventbus.New()
	repos := repository.NewRepository(newMemKV(bus))
	return NewService(repos, bus, testAuthConfig), bus
}

func strPtr(s string) *string { return &s }
