package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"smartshop.org/internal/snapshot"
)

// ErrNoSession is returned by Load when no durable copy exists. It is the
// expected outcome on first run and must not be treated as fatal.
var ErrNoSession = errors.New("session: no saved session")

const fileName = "auth.json"

// Store holds the single-slot durable copy of the authorization snapshot
// plus an in-memory mirror shared by request handlers. Every save replaces
// the whole snapshot; there is no eviction and no multi-session support.
type Store struct {
	dir string

	mu      sync.RWMutex
	current *snapshot.Snapshot
}

// NewStore creates a store rooted at dir. The directory is created lazily on
// first save.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

func (s *Store) path() string {
	return filepath.Join(s.dir, fileName)
}

// Save atomically replaces the durable copy and the in-memory mirror. The
// write goes to a temp file in the same directory and is renamed over the
// old copy, so a failed write leaves the previous copy intact.
func (s *Store) Save(snap *snapshot.Snapshot) error {
	if snap == nil {
		return errors.New("session: nil snapshot")
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("serialize session: %w", err)
	}

	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return fmt.Errorf("create state directory: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, fileName+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp session file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write session file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close session file: %w", err)
	}
	if err := os.Rename(tmpName, s.path()); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace session file: %w", err)
	}

	s.mu.Lock()
	s.current = snap
	s.mu.Unlock()
	return nil
}

// Load reads the durable copy, populates the in-memory mirror and returns
// the snapshot. A missing file yields ErrNoSession.
func (s *Store) Load() (*snapshot.Snapshot, error) {
	data, err := os.ReadFile(s.path())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoSession
		}
		return nil, fmt.Errorf("read session file: %w", err)
	}

	snap, err := snapshot.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("corrupt session file: %w", err)
	}

	s.mu.Lock()
	s.current = snap
	s.mu.Unlock()
	return snap, nil
}

// Current returns the in-memory mirror without touching durable storage.
func (s *Store) Current() (*snapshot.Snapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil, false
	}
	return s.current, true
}
