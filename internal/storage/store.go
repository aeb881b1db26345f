package storage

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
)

// ErrInvalidPartition is returned by providers for partition names that
// cannot identify a client.
var ErrInvalidPartition = errors.New("invalid storage partition")

// Store is a client's persistent key-value store. Values are opaque text;
// the Storage adapter is responsible for encoding.
type Store interface {
	// GetItem returns the value for key and whether it was present.
	GetItem(ctx context.Context, key string) (string, bool, error)
	// SetItem writes value under key, replacing any previous value.
	SetItem(ctx context.Context, key, value string) error
	// RemoveItem deletes key. Removing an absent key is not an error.
	RemoveItem(ctx context.Context, key string) error
	// Keys lists every key currently held by the store.
	Keys(ctx context.Context) ([]string, error)
}

// BulkRemover is implemented by stores that can delete several keys at once.
type BulkRemover interface {
	RemoveItems(ctx context.Context, keys []string) error
}

// Provider hands out the Store owned by one client.
type Provider interface {
	Open(partition string) (Store, error)
}

// ValidatePartition rejects partition names that are empty or could escape
// a file-backed provider's directory.
func ValidatePartition(partition string) error {
	if partition == "" || partition == "." || partition == ".." ||
		strings.ContainsAny(partition, `/\:`) {
		return ErrInvalidPartition
	}
	return nil
}

// MemoryStore is an in-process Store.
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string]string
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: make(map[string]string)}
}

func (m *MemoryStore) GetItem(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.items[key]
	return v, ok, nil
}

func (m *MemoryStore) SetItem(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = value
	return nil
}

func (m *MemoryStore) RemoveItem(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, key)
	return nil
}

func (m *MemoryStore) Keys(_ context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]string, 0, len(m.items))
	for k := range m.items {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

// MemoryProvider keeps one MemoryStore per partition for the life of the process.
type MemoryProvider struct {
	mu     sync.Mutex
	stores map[string]*MemoryStore
}

// NewMemoryProvider returns an empty MemoryProvider.
func NewMemoryProvider() *MemoryProvider {
	return &MemoryProvider{stores: make(map[string]*MemoryStore)}
}

// Open returns the partition's store, creating it on first use.
func (p *MemoryProvider) Open(partition string) (Store, error) {
	if err := ValidatePartition(partition); err != nil {
		return nil, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	s, ok := p.stores[partition]
	if !ok {
		s = NewMemoryStore()
		p.stores[partition] = s
	}
	return s, nil
}
