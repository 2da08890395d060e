// Package store persists the service collections as JSON documents in a durable
// string key/value store.
package store

import (
	"context"
	"sync"

	"github.com/pkg/errors"
)

var (
	// ErrKeyNotFound is returned by a KV when the key holds no value
	ErrKeyNotFound = errors.New("key not found")
	// ErrCorrupt marks a stored value that cannot be decoded
	ErrCorrupt = errors.New("stored value is corrupt")
	// ErrWriteFailed is returned when the backend rejects a write
	ErrWriteFailed = errors.New("store write failed")
)

// KV is a durable string key/value store
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	// Delete is idempotent
	Delete(ctx context.Context, key string) error
}

// MemoryKV keeps values in process memory
type MemoryKV struct {
	mu   sync.RWMutex
	data map[string]string
}

// NewMemoryKV creates an empty in-memory store
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{data: make(map[string]string)}
}

// Get returns the value stored under key
func (m *MemoryKV) Get(_ context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.data[key]
	if !ok {
		return "", ErrKeyNotFound
	}
	return v, nil
}

// Set stores value under key
func (m *MemoryKV) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.data[key] = value
	return nil
}

// Delete removes key
func (m *MemoryKV) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.data, key)
	return nil
}

// Close is a no-op
func (m *MemoryKV) Close() error { return nil }
