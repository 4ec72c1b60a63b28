// Package store is the key/value persistence used by the client state
// managers: a JSON file on disk, optionally sealed with pkg/crypt, or an
// in-memory map for tests.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/shashiranjanraj/brewandco/pkg/crypt"
)

// ErrClosed is returned by every call after Close.
var ErrClosed = errors.New("store: closed")

// Store holds JSON values by key.
type Store interface {
	// Get decodes the value under key into dest. A missing key reports false.
	Get(key string, dest any) (bool, error)
	Set(key string, v any) error
	Delete(key string) error
	Close() error
}

type values map[string]json.RawMessage

func (m values) get(key string, dest any) (bool, error) {
	raw, ok := m[key]
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return true, fmt.Errorf("store: decode %q: %w", key, err)
	}
	return true, nil
}

func (m values) set(key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("store: encode %q: %w", key, err)
	}
	m[key] = raw
	return nil
}

// Memory is a process-local Store.
type Memory struct {
	mu     sync.RWMutex
	data   values
	closed bool
}

func NewMemory() *Memory { return &Memory{data: values{}} }

func (s *Memory) Get(key string, dest any) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return false, ErrClosed
	}
	return s.data.get(key, dest)
}

func (s *Memory) Set(key string, v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	return s.data.set(key, v)
}

func (s *Memory) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	delete(s.data, key)
	return nil
}

func (s *Memory) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// File keeps every key in one JSON document at path. Each write rewrites
// the document through a temp file and rename; concurrent processes are
// last writer wins.
type File struct {
	path   string
	cipher *crypt.Cipher

	mu     sync.Mutex
	data   values
	closed bool
}

// OpenFile loads path, creating nothing until the first write. A non-empty
// secret seals the document with AES-GCM.
func OpenFile(path, secret string) (*File, error) {
	s := &File{path: path, data: values{}}
	if secret != "" {
		c, err := crypt.New(secret)
		if err != nil {
			return nil, err
		}
		s.cipher = c
	}

	raw, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return s, nil
	case err != nil:
		return nil, fmt.Errorf("store: read %s: %w", path, err)
	case len(raw) == 0:
		return s, nil
	}

	if s.cipher != nil {
		if raw, err = s.cipher.Open(raw); err != nil {
			return nil, fmt.Errorf("store: open %s: %w", path, err)
		}
	}
	if err := json.Unmarshal(raw, &s.data); err != nil {
		return nil, fmt.Errorf("store: decode %s: %w", path, err)
	}
	return s, nil
}

func (s *File) Get(key string, dest any) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false, ErrClosed
	}
	return s.data.get(key, dest)
}

func (s *File) Set(key string, v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if err := s.data.set(key, v); err != nil {
		return err
	}
	return s.flush()
}

func (s *File) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if _, ok := s.data[key]; !ok {
		return nil
	}
	delete(s.data, key)
	return s.flush()
}

func (s *File) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *File) flush() error {
	raw, err := json.Marshal(s.data)
	if err != nil {
		return fmt.Errorf("store: encode: %w", err)
	}
	if s.cipher != nil {
		if raw, err = s.cipher.Seal(raw); err != nil {
			return err
		}
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("store: mkdir %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, ".state-*")
	if err != nil {
		return fmt.Errorf("store: temp file: %w", err)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return fmt.Errorf("store: write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("store: write: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("store: replace %s: %w", s.path, err)
	}
	return nil
}
