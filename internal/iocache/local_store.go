package iocache

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/huangsam/mades/internal/contract"
	"github.com/natefinch/atomic"
)

var keyRe = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*$`)

// LocalStore keeps one file per key in a data directory.
// Writes go through a temp file and rename, so a crash never leaves a torn snapshot.
type LocalStore struct {
	dir string
}

var _ contract.SnapshotStore = &LocalStore{} // Compile-time check

// NewLocalStore creates the data directory if needed and returns a store over it.
func NewLocalStore(dir string) (*LocalStore, error) {
	if dir == "" {
		return nil, errors.New("data directory cannot be empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory %q: %w", dir, err)
	}
	return &LocalStore{dir: dir}, nil
}

// Dir returns the data directory.
func (s *LocalStore) Dir() string {
	return s.dir
}

func (s *LocalStore) path(key string) (string, error) {
	if !keyRe.MatchString(key) {
		return "", fmt.Errorf("invalid key %q", key)
	}
	return filepath.Join(s.dir, key+".json"), nil
}

// Get returns the stored value or contract.ErrKeyNotFound.
func (s *LocalStore) Get(key string) ([]byte, error) {
	p, err := s.path(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", contract.ErrKeyNotFound, key)
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

// Set atomically replaces the value of key.
func (s *LocalStore) Set(key string, value []byte) error {
	p, err := s.path(key)
	if err != nil {
		return err
	}
	if err := atomic.WriteFile(p, bytes.NewReader(value)); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (s *LocalStore) Delete(key string) error {
	p, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}
