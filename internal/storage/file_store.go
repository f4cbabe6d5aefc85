package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gofrs/flock"
)

// lockRetry is how often a blocked lock attempt is retried.
const lockRetry = 10 * time.Millisecond

// FileStore keeps the device store in a single JSON object on disk. Several
// processes may share the file: reads go to disk under a shared lock, and
// writes re-read, merge and replace the file under an exclusive lock.
type FileStore struct {
	path string

	mu   sync.Mutex
	lock *flock.Flock
}

// NewFileStore opens (or lazily creates) the store at path. An existing
// file must parse.
func NewFileStore(path string) (*FileStore, error) {
	s := &FileStore{path: path, lock: flock.New(path + ".lock")}
	if _, err := s.read(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *FileStore) Get(ctx context.Context, key string) (string, error) {
	var (
		v  string
		ok bool
	)
	err := s.withLock(ctx, false, func() error {
		data, err := s.read()
		if err != nil {
			return err
		}
		v, ok = data[key]
		return nil
	})
	if err != nil {
		return "", err
	}
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (s *FileStore) Set(ctx context.Context, key, value string) error {
	return s.withLock(ctx, true, func() error {
		data, err := s.read()
		if err != nil {
			return err
		}
		data[key] = value
		return s.write(data)
	})
}

func (s *FileStore) Delete(ctx context.Context, key string) error {
	return s.withLock(ctx, true, func() error {
		data, err := s.read()
		if err != nil {
			return err
		}
		if _, ok := data[key]; !ok {
			return nil
		}
		delete(data, key)
		return s.write(data)
	})
}

// withLock runs fn holding the in-process mutex and the file lock,
// exclusive for writers and shared for readers.
func (s *FileStore) withLock(ctx context.Context, exclusive bool, fn func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create device store dir: %w", err)
	}
	var (
		ok  bool
		err error
	)
	if exclusive {
		ok, err = s.lock.TryLockContext(ctx, lockRetry)
	} else {
		ok, err = s.lock.TryRLockContext(ctx, lockRetry)
	}
	if err != nil {
		return fmt.Errorf("lock device store: %w", err)
	}
	if !ok {
		return fmt.Errorf("lock device store: %s is busy", s.path)
	}
	defer s.lock.Unlock()
	return fn()
}

// read loads the file; a missing or empty file is an empty store.
func (s *FileStore) read() (map[string]string, error) {
	data := map[string]string{}
	b, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return data, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read device store: %w", err)
	}
	if len(b) == 0 {
		return data, nil
	}
	if err := json.Unmarshal(b, &data); err != nil {
		return nil, fmt.Errorf("parse device store %s: %w", s.path, err)
	}
	return data, nil
}

// write replaces the file through a temp file and rename. The exclusive
// lock must be held.
func (s *FileStore) write(data map[string]string) error {
	b, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		return fmt.Errorf("write device store: %w", err)
	}
	return os.Rename(tmp, s.path)
}
