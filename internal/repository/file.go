package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/atinyakov/GophLogin/internal/storage"
)

// FileProvider keeps each partition in <Dir>/<partition>.json.
type FileProvider struct {
	Dir string

	mu     sync.Mutex
	stores map[string]*FileStore
}

// NewFileProvider creates a FileProvider rooted at dir.
func NewFileProvider(dir string) *FileProvider {
	return &FileProvider{Dir: dir, stores: make(map[string]*FileStore)}
}

// Open returns the partition's store. Stores are cached so that concurrent
// requests for one partition share a mutex.
func (p *FileProvider) Open(partition string) (storage.Store, error) {
	if err := storage.ValidatePartition(partition); err != nil {
		return nil, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if s, ok := p.stores[partition]; ok {
		return s, nil
	}
	s := NewFileStore(filepath.Join(p.Dir, partition+".json"))
	p.stores[partition] = s
	return s, nil
}

// FileStore implements storage.Store as a single JSON object on disk. Every
// operation re-reads the file so that separate processes sharing it see each
// other's writes; concurrent writers can still overwrite one another.
type FileStore struct {
	Path string
	mu   sync.Mutex
}

// NewFileStore returns a store backed by path. The file is created on first write.
func NewFileStore(path string) *FileStore {
	return &FileStore{Path: path}
}

func (fs *FileStore) load() (map[string]string, error) {
	f, err := os.Open(fs.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("open storage file: %w", err)
	}
	defer f.Close()

	items := map[string]string{}
	if err := json.NewDecoder(f).Decode(&items); err != nil {
		return nil, fmt.Errorf("decode storage file: %w", err)
	}
	// A file holding JSON null decodes to a nil map.
	if items == nil {
		items = map[string]string{}
	}
	return items, nil
}

func (fs *FileStore) save(items map[string]string) error {
	if err := os.MkdirAll(filepath.Dir(fs.Path), 0o700); err != nil {
		return fmt.Errorf("create storage dir: %w", err)
	}
	tmp := fs.Path + ".tmp"
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("create storage file: %w", err)
	}
	if err := json.NewEncoder(f).Encode(items); err != nil {
		f.Close()
		return fmt.Errorf("encode storage file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close storage file: %w", err)
	}
	if err := os.Rename(tmp, fs.Path); err != nil {
		return fmt.Errorf("replace storage file: %w", err)
	}
	return nil
}

func (fs *FileStore) update(fn func(items map[string]string)) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	items, err := fs.load()
	if err != nil {
		return err
	}
	fn(items)
	return fs.save(items)
}

func (fs *FileStore) GetItem(_ context.Context, key string) (string, bool, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	items, err := fs.load()
	if err != nil {
		return "", false, err
	}
	v, ok := items[key]
	return v, ok, nil
}

func (fs *FileStore) SetItem(_ context.Context, key, value string) error {
	return fs.update(func(items map[string]string) { items[key] = value })
}

func (fs *FileStore) RemoveItem(_ context.Context, key string) error {
	return fs.update(func(items map[string]string) { delete(items, key) })
}

// RemoveItems deletes keys with a single rewrite of the file.
func (fs *FileStore) RemoveItems(_ context.Context, keys []string) error {
	return fs.update(func(items map[string]string) {
		for _, k := range keys {
			delete(items, k)
		}
	})
}

func (fs *FileStore) Keys(_ context.Context) ([]string, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	items, err := fs.load()
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(items))
	for k := range items {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}
