// Package prefs persists the small set of local values saasdash keeps between
// runs: the auth token, the display mode and the user-table page size.
package prefs

import (
	"errors"
	"fmt"
	"path/filepath"
)

// Keys. Every component reads and writes through these constants.
const (
	KeyToken    = "auth.token"
	KeyDarkMode = "display.dark_mode"
	KeyPageSize = "users.page_size"
)

// Version is the record schema this build reads and writes.
const Version = 1

// Backend names accepted by Open.
const (
	BackendYAML   = "yaml"
	BackendBolt   = "bolt"
	BackendMemory = "memory"
)

// ErrUnsupportedVersion is returned when a stored record was written by a newer build.
var ErrUnsupportedVersion = errors.New("prefs: unsupported record version")

// Store is a durable string key/value record.
type Store interface {
	// Get returns the value for key. ok is false when the key is absent.
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
	Delete(key string) error
	Close() error
}

// Open returns the store for backend, rooted at dir.
func Open(backend, dir string) (Store, error) {
	switch backend {
	case "", BackendYAML:
		s, err := OpenFile(filepath.Join(dir, "prefs.yaml"))
		if err != nil {
			return nil, err
		}
		return s, nil
	case BackendBolt:
		s, err := OpenBolt(filepath.Join(dir, "prefs.db"))
		if err != nil {
			return nil, err
		}
		return s, nil
	case BackendMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("prefs: unknown backend %q", backend)
	}
}
