package prefs

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/boltdb/bolt"
)

var (
	bucketName = []byte("prefs")
	versionKey = []byte("_version")
)

// BoltStore keeps values in a single bolt bucket.
type BoltStore struct {
	db *bolt.DB
}

// OpenBolt opens (creating if needed) the bolt file at path.
func OpenBolt(path string) (*BoltStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create prefs dir: %w", err)
	}
	// Timeout keeps a second saasdash process from blocking forever on the file lock.
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open prefs db: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(bucketName)
		if err != nil {
			return err
		}
		raw := b.Get(versionKey)
		if raw == nil {
			return b.Put(versionKey, []byte(strconv.Itoa(Version)))
		}
		v, err := strconv.Atoi(string(raw))
		if err != nil {
			return fmt.Errorf("parse version %q: %w", raw, err)
		}
		if v > Version {
			return fmt.Errorf("%s: version %d: %w", path, v, ErrUnsupportedVersion)
		}
		return nil
	})
	if err != nil {
		db.Close() //nolint:errcheck
		return nil, fmt.Errorf("init prefs db: %w", err)
	}
	return &BoltStore{db: db}, nil
}

func (s *BoltStore) Get(key string) (string, bool, error) {
	var (
		value string
		ok    bool
	)
	err := s.db.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket(bucketName).Get([]byte(key))
		if raw != nil {
			value, ok = string(raw), true
		}
		return nil
	})
	if err != nil {
		return "", false, fmt.Errorf("read pref %s: %w", key, err)
	}
	return value, ok, nil
}

func (s *BoltStore) Set(key, value string) error {
	if err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketName).Put([]byte(key), []byte(value))
	}); err != nil {
		return fmt.Errorf("write pref %s: %w", key, err)
	}
	return nil
}

func (s *BoltStore) Delete(key string) error {
	if err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketName).Delete([]byte(key))
	}); err != nil {
		return fmt.Errorf("delete pref %s: %w", key, err)
	}
	return nil
}

func (s *BoltStore) Close() error { return s.db.Close() }
