// Package cas implements build info storage.
package cas

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"go.trai.ch/ffbuild/internal/core/domain"
	"go.trai.ch/ffbuild/internal/core/ports"
	"go.trai.ch/zerr"
)

// StateFileName is the build info file inside the state directory.
const StateFileName = "state.json"

var _ ports.BuildInfoStore = (*Store)(nil)

// Store implements ports.BuildInfoStore using one flat JSON file per output directory.
type Store struct {
	mu     sync.Mutex
	caches map[string]map[string]domain.BuildInfo
}

// NewStore creates a new Store.
func NewStore() *Store {
	return &Store{caches: make(map[string]map[string]domain.BuildInfo)}
}

// Path returns the state file location for root.
func Path(root string) string {
	return filepath.Join(domain.StatePath(root), StateFileName)
}

// cacheFor returns the loaded entries for root. Callers hold s.mu.
func (s *Store) cacheFor(root string) (map[string]domain.BuildInfo, error) {
	key := filepath.Clean(root)
	if cache, ok := s.caches[key]; ok {
		return cache, nil
	}

	cache := make(map[string]domain.BuildInfo)
	path := Path(key)

	//nolint:gosec // Path is derived from the output directory
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, zerr.With(errors.Join(domain.ErrStoreReadFailed, err), "path", path)
	case len(data) > 0:
		if err := json.Unmarshal(data, &cache); err != nil {
			return nil, zerr.With(errors.Join(domain.ErrStoreReadFailed, err), "path", path)
		}
	}

	s.caches[key] = cache
	return cache, nil
}

func save(root string, cache map[string]domain.BuildInfo) error {
	path := Path(root)

	data, err := json.MarshalIndent(cache, "", "  ")
	if err != nil {
		return errors.Join(domain.ErrStoreWriteFailed, err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return zerr.With(errors.Join(domain.ErrStoreWriteFailed, err), "path", dir)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, domain.FilePerm); err != nil { //nolint:gosec // Path is derived from the output directory
		return zerr.With(errors.Join(domain.ErrStoreWriteFailed, err), "path", tmp)
	}
	if err := os.Rename(tmp, path); err != nil {
		return zerr.With(errors.Join(domain.ErrStoreWriteFailed, err), "path", path)
	}
	return nil
}

// Get retrieves the build info recorded for stage under root.
// Returns nil, nil if not found.
func (s *Store) Get(root, stage string) (*domain.BuildInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cache, err := s.cacheFor(root)
	if err != nil {
		return nil, err
	}

	info, ok := cache[stage]
	if !ok {
		return nil, nil
	}
	return &info, nil
}

// Put stores the build info and persists the state file.
func (s *Store) Put(root string, info domain.BuildInfo) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cache, err := s.cacheFor(root)
	if err != nil {
		return err
	}
	cache[info.Stage] = info

	return save(filepath.Clean(root), cache)
}
