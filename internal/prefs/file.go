package prefs

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// record is the on-disk shape of prefs.yaml.
type record struct {
	Version int               `yaml:"version"`
	Values  map[string]string `yaml:"values"`
}

// FileStore keeps all values in one YAML record. The file is read once at open
// and rewritten in full on every change.
type FileStore struct {
	path string

	mu     sync.Mutex
	values map[string]string
}

// OpenFile loads the record at path. A missing file is an empty record.
func OpenFile(path string) (*FileStore, error) {
	s := &FileStore{path: path, values: map[string]string{}}
	payload, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("read prefs: %w", err)
	}
	var rec record
	if err := yaml.Unmarshal(payload, &rec); err != nil {
		return nil, fmt.Errorf("decode prefs: %w", err)
	}
	if rec.Version > Version {
		return nil, fmt.Errorf("%s: version %d: %w", path, rec.Version, ErrUnsupportedVersion)
	}
	for k, v := range rec.Values {
		s.values[k] = v
	}
	return s, nil
}

// Path returns the record location.
func (s *FileStore) Path() string { return s.path }

func (s *FileStore) Get(key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	return v, ok, nil
}

func (s *FileStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev, had := s.values[key]
	s.values[key] = value
	if err := s.flush(); err != nil {
		if had {
			s.values[key] = prev
		} else {
			delete(s.values, key)
		}
		return err
	}
	return nil
}

func (s *FileStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev, had := s.values[key]
	if !had {
		return nil
	}
	delete(s.values, key)
	if err := s.flush(); err != nil {
		s.values[key] = prev
		return err
	}
	return nil
}

func (s *FileStore) Close() error { return nil }

// flush writes the record to a temp file and renames it over the old one.
// Caller holds s.mu.
func (s *FileStore) flush() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create prefs dir: %w", err)
	}
	payload, err := yaml.Marshal(record{Version: Version, Values: s.values})
	if err != nil {
		return fmt.Errorf("encode prefs: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".prefs-*.yaml")
	if err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(payload); err != nil {
		tmp.Close()        //nolint:errcheck
		os.Remove(tmpName) //nolint:errcheck
		return fmt.Errorf("write prefs: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()        //nolint:errcheck
		os.Remove(tmpName) //nolint:errcheck
		return fmt.Errorf("write prefs: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName) //nolint:errcheck
		return fmt.Errorf("write prefs: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName) //nolint:errcheck
		return fmt.Errorf("write prefs: %w", err)
	}
	return nil
}
