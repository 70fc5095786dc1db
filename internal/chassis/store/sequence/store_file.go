package sequence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	dErrors "chassisd/pkg/domain-errors"
	"chassisd/pkg/platform/sentinel"
)

// FileStore persists counters as a single JSON document of key → last
// issued value. The file is human-inspectable and safe to initialize
// empty: a missing file means no counters yet.
//
// Every allocation rewrites the document through a temp file and rename,
// and the rename completes before the allocated range is returned. A crash
// mid-allocation therefore loses at most the numbers of that allocation,
// never reissues older ones.
type FileStore struct {
	mu       sync.Mutex
	path     string
	counters map[string]int64
}

// NewFile loads (or lazily creates) a file-backed store at path.
func NewFile(path string) (*FileStore, error) {
	s := &FileStore{path: path, counters: make(map[string]int64)}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read sequence file: %w", err)
	}
	if len(data) == 0 {
		return s, nil
	}
	if err := json.Unmarshal(data, &s.counters); err != nil {
		return nil, fmt.Errorf("parse sequence file %s: %w", path, err)
	}
	return s, nil
}

func (s *FileStore) Allocate(_ context.Context, key string, count int) (int64, error) {
	if count < 1 {
		return 0, dErrors.New(dErrors.CodeInvalidParameter, "allocation count must be positive")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	last := s.counters[key]
	s.counters[key] = last + int64(count)

	if err := s.persistLocked(); err != nil {
		// Roll back the in-memory value so the store stays at its last
		// durable state and a later allocation can retry cleanly.
		if last == 0 {
			delete(s.counters, key)
		} else {
			s.counters[key] = last
		}
		return 0, dErrors.Wrap(err, dErrors.CodeStorageFailure, "persist sequence counters")
	}
	return last + 1, nil
}

func (s *FileStore) Peek(_ context.Context, key string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	last, ok := s.counters[key]
	if !ok {
		return 0, sentinel.ErrNotFound
	}
	return last, nil
}

func (s *FileStore) Reset(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	last, ok := s.counters[key]
	if !ok {
		return nil
	}
	delete(s.counters, key)
	if err := s.persistLocked(); err != nil {
		s.counters[key] = last
		return dErrors.Wrap(err, dErrors.CodeStorageFailure, "persist sequence counters")
	}
	return nil
}

// persistLocked writes the counter map durably. Must be called while
// holding s.mu.
func (s *FileStore) persistLocked() error {
	data, err := json.MarshalIndent(s.counters, "", "  ")
	if err != nil {
		return fmt.Errorf("encode counters: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".sequences-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace sequence file: %w", err)
	}
	return nil
}
