package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

const fileName = "storage.json"

// FileStore keeps every key in one JSON document under the state directory.
// Writes replace the file atomically.
type FileStore struct {
	path string

	mu   sync.Mutex
	data map[string]json.RawMessage
}

// NewFileStore loads dir/storage.json, creating dir when needed. An unreadable
// or malformed document starts empty.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("storage dir: %w", err)
	}
	s := &FileStore{
		path: filepath.Join(dir, fileName),
		data: make(map[string]json.RawMessage),
	}
	raw, err := os.ReadFile(s.path)
	switch {
	case err == nil:
		if json.Unmarshal(raw, &s.data) != nil {
			s.data = make(map[string]json.RawMessage)
		}
	case !os.IsNotExist(err):
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}
	return s, nil
}

func (s *FileStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.data[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

// Set stores value verbatim when it is valid JSON and as a JSON string
// otherwise.
func (s *FileStore) Set(_ context.Context, key string, value []byte) error {
	v := json.RawMessage(append([]byte(nil), value...))
	if !json.Valid(v) {
		b, err := json.Marshal(string(value))
		if err != nil {
			return err
		}
		v = b
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	prev, had := s.data[key]
	s.data[key] = v
	if err := s.flushLocked(); err != nil {
		if had {
			s.data[key] = prev
		} else {
			delete(s.data, key)
		}
		return err
	}
	return nil
}

func (s *FileStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev, had := s.data[key]
	if !had {
		return nil
	}
	delete(s.data, key)
	if err := s.flushLocked(); err != nil {
		s.data[key] = prev
		return err
	}
	return nil
}

func (s *FileStore) Close(context.Context) error {
	return nil
}

func (s *FileStore) flushLocked() error {
	raw, err := json.Marshal(s.data)
	if err != nil {
		return fmt.Errorf("encode storage: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), fileName+".*")
	if err != nil {
		return fmt.Errorf("write storage: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return fmt.Errorf("write storage: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write storage: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("write storage: %w", err)
	}
	return nil
}
