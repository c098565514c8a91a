// Package drafts persists local post drafts as a flat JSON map keyed by
// post ID. It is deliberately simple: one file, whole-map reads and
// atomic whole-map writes.
package drafts

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

// ErrNotFound is returned when no draft exists for a key.
var ErrNotFound = errors.New("draft not found")

// Draft is one locally saved draft.
type Draft struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Store is a file-backed draft map. All methods are safe for concurrent
// use within one process.
type Store struct {
	mu   sync.Mutex
	path string
}

// NewStore creates a store writing to the given file path. The parent
// directory is created on demand; the file itself appears on first save.
func NewStore(path string) (*Store, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("drafts: resolve path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return nil, fmt.Errorf("drafts: mkdir: %w", err)
	}
	return &Store{path: abs}, nil
}

// Save upserts a draft under the given key.
func (s *Store) Save(key string, d Draft) error {
	if key == "" {
		return fmt.Errorf("drafts: key must not be empty")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.load()
	if err != nil {
		return err
	}
	m[key] = d
	return s.write(m)
}

// Load returns the draft stored under key, or ErrNotFound.
func (s *Store) Load(key string) (Draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.load()
	if err != nil {
		return Draft{}, err
	}
	d, ok := m[key]
	if !ok {
		return Draft{}, fmt.Errorf("drafts: %q: %w", key, ErrNotFound)
	}
	return d, nil
}

// List returns the stored draft keys, sorted.
func (s *Store) List() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.load()
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

// Delete removes the draft under key. Deleting a missing key returns
// ErrNotFound.
func (s *Store) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.load()
	if err != nil {
		return err
	}
	if _, ok := m[key]; !ok {
		return fmt.Errorf("drafts: %q: %w", key, ErrNotFound)
	}
	delete(m, key)
	return s.write(m)
}

// load reads the whole map; a missing file is an empty map.
func (s *Store) load() (map[string]Draft, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]Draft{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("drafts: read: %w", err)
	}
	m := map[string]Draft{}
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("drafts: parse %s: %w", s.path, err)
	}
	return m, nil
}

// write atomically replaces the draft file: tmp file → fsync → rename.
func (s *Store) write(m map[string]Draft) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("drafts: encode: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".drafts-tmp-*")
	if err != nil {
		return fmt.Errorf("drafts: create temp: %w", err)
	}
	tmpName := tmp.Name()

	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("drafts: write temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("drafts: fsync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("drafts: close temp: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("drafts: rename: %w", err)
	}
	success = true
	return nil
}
