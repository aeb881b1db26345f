// Package storage wraps a client's key-value Store with a fixed key prefix
// and JSON encoding. Failures are logged and degrade to false or the
// caller's default; they are never returned to the caller.
package storage

import (
	"context"
	"encoding/json"
	"reflect"
	"strings"

	"go.uber.org/zap"
)

// DefaultPrefix namespaces every key written by this application.
const DefaultPrefix = "authdemo-"

// Storage is the namespaced JSON view over a Store.
type Storage struct {
	store  Store
	prefix string
	log    *zap.Logger
}

// Option configures a Storage.
type Option func(*Storage)

// WithPrefix overrides DefaultPrefix. An empty prefix is ignored.
func WithPrefix(prefix string) Option {
	return func(s *Storage) {
		if prefix != "" {
			s.prefix = prefix
		}
	}
}

// New wraps store. A nil logger is replaced by a no-op logger.
func New(store Store, log *zap.Logger, opts ...Option) *Storage {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Storage{store: store, prefix: DefaultPrefix, log: log}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Prefix returns the namespace prefix in use.
func (s *Storage) Prefix() string {
	return s.prefix
}

// Save encodes value as JSON and writes it under key.
func (s *Storage) Save(ctx context.Context, key string, value any) bool {
	data, err := json.Marshal(value)
	if err != nil {
		s.log.Error("failed to encode value", zap.String("key", key), zap.Error(err))
		return false
	}
	if err := s.store.SetItem(ctx, s.prefix+key, string(data)); err != nil {
		s.log.Error("failed to save value", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

// Get decodes the value stored under key into dst, which must be a non-nil
// pointer. It returns false and leaves dst untouched when the key is absent,
// the stored value is empty, or decoding fails.
func (s *Storage) Get(ctx context.Context, key string, dst any) bool {
	rv := reflect.ValueOf(dst)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		s.log.Error("invalid destination", zap.String("key", key))
		return false
	}

	raw, ok, err := s.store.GetItem(ctx, s.prefix+key)
	if err != nil {
		s.log.Error("failed to read value", zap.String("key", key), zap.Error(err))
		return false
	}
	if !ok || raw == "" {
		return false
	}

	tmp := reflect.New(rv.Elem().Type())
	if err := json.Unmarshal([]byte(raw), tmp.Interface()); err != nil {
		s.log.Error("failed to decode value", zap.String("key", key), zap.Error(err))
		return false
	}
	rv.Elem().Set(tmp.Elem())
	return true
}

// Lookup returns the value stored under key, or def when Get would fail.
func Lookup[T any](ctx context.Context, s *Storage, key string, def T) T {
	var v T
	if !s.Get(ctx, key, &v) {
		return def
	}
	return v
}

// Remove deletes key.
func (s *Storage) Remove(ctx context.Context, key string) bool {
	if err := s.store.RemoveItem(ctx, s.prefix+key); err != nil {
		s.log.Error("failed to remove value", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

// Clear deletes every key under the prefix and nothing else.
func (s *Storage) Clear(ctx context.Context) bool {
	keys, err := s.store.Keys(ctx)
	if err != nil {
		s.log.Error("failed to list keys", zap.Error(err))
		return false
	}

	owned := make([]string, 0, len(keys))
	for _, k := range keys {
		if strings.HasPrefix(k, s.prefix) {
			owned = append(owned, k)
		}
	}
	if len(owned) == 0 {
		return true
	}

	if br, ok := s.store.(BulkRemover); ok {
		if err := br.RemoveItems(ctx, owned); err != nil {
			s.log.Error("failed to clear values", zap.Error(err))
			return false
		}
		return true
	}

	for _, k := range owned {
		if err := s.store.RemoveItem(ctx, k); err != nil {
			s.log.Error("failed to clear value", zap.String("key", k), zap.Error(err))
			return false
		}
	}
	return true
}
