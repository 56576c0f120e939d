package state

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// FileStore keeps one JSON file per key in a directory.
type FileStore struct {
	mu      sync.RWMutex
	baseDir string
}

// DefaultDir returns ~/.config/pianoxl/state.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".config", "pianoxl", "state"), nil
}

// NewFileStore creates a file store in baseDir, or in [DefaultDir] when
// baseDir is empty.
func NewFileStore(baseDir string) (*FileStore, error) {
	if baseDir == "" {
		dir, err := DefaultDir()
		if err != nil {
			return nil, err
		}
		baseDir = dir
	}
	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, fmt.Errorf("create state dir: %w", err)
	}
	return &FileStore{baseDir: baseDir}, nil
}

func (s *FileStore) statePath(key string) string {
	return filepath.Join(s.baseDir, key+".json")
}

func (s *FileStore) Load(ctx context.Context, key string) (State, error) {
	if err := checkKey(key); err != nil {
		return State{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.statePath(key))
	if err != nil {
		if os.IsNotExist(err) {
			return State{}, ErrNotFound
		}
		return State{}, unavailable("file", err)
	}

	var st State
	if err := json.Unmarshal(data, &st); err != nil {
		return State{}, fmt.Errorf("parse state %s: %w", key, err)
	}
	return st, nil
}

func (s *FileStore) Save(ctx context.Context, key string, st State) error {
	if err := checkKey(key); err != nil {
		return err
	}
	if err := checkState(st); err != nil {
		return err
	}
	st.UpdatedAt = time.Now().UTC()

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}
	// Write then rename so a reader never sees a half-written file.
	tmp := s.statePath(key) + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return unavailable("file", err)
	}
	if err := os.Rename(tmp, s.statePath(key)); err != nil {
		return unavailable("file", err)
	}
	return nil
}

func (s *FileStore) Delete(ctx context.Context, key string) error {
	if err := checkKey(key); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.statePath(key)); err != nil && !os.IsNotExist(err) {
		return unavailable("file", err)
	}
	return nil
}

func (s *FileStore) Close() error { return nil }

// Path returns the directory state files live in.
func (s *FileStore) Path() string { return s.baseDir }

var _ Store = (*FileStore)(nil)
