package session

import (
	"context"
	"sync"
)

// Keys persisted for a session.
const (
	KeyToken        = "token"
	KeyRefreshToken = "refresh_token"
	KeyUser         = "user"
)

var sessionKeys = []string{KeyToken, KeyRefreshToken, KeyUser}

// Storage is a flat durable key-value store. Get reports ok=false for a
// missing key rather than an error.
type Storage interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, keys ...string) error
	Close() error
}

// MemoryStorage keeps keys for the life of the process only.
type MemoryStorage struct {
	mu   sync.RWMutex
	data map[string]string
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{data: make(map[string]string)}
}

func (m *MemoryStorage) Get(ctx context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *MemoryStorage) Set(ctx context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *MemoryStorage) Delete(ctx context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}

func (m *MemoryStorage) Close() error { return nil }

// StorageTokens reads the persisted access token for every request, the
// way the browser client read it from local storage.
type StorageTokens struct {
	Storage Storage
}

func (s StorageTokens) Token(ctx context.Context) (string, error) {
	v, _, err := s.Storage.Get(ctx, KeyToken)
	return v, err
}
