package manifest

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"time"

	bolt "go.etcd.io/bbolt"
)

var bOutputs = []byte("outputs") // relative output path -> sha256 hex

// Store remembers what the previous build wrote so unchanged files are not
// rewritten and files that are no longer produced can be removed.
type Store struct {
	db *bolt.DB
}

type OpenOptions struct {
	Path string // e.g. ".d2c/manifest.db"
}

func Open(opt OpenOptions) (*Store, error) {
	if opt.Path == "" {
		return nil, errors.New("manifest: missing path")
	}
	if err := os.MkdirAll(filepath.Dir(opt.Path), 0o755); err != nil {
		return nil, err
	}
	db, err := bolt.Open(opt.Path, 0o600, &bolt.Options{
		Timeout: 1 * time.Second,
	})
	if err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Hash returns the recorded hash for rel, or "" when rel is unknown.
func (s *Store) Hash(rel string) (string, error) {
	var h string
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bOutputs)
		if b == nil {
			return nil
		}
		if v := b.Get([]byte(filepath.ToSlash(rel))); v != nil {
			h = string(v)
		}
		return nil
	})
	return h, err
}

// Paths lists every recorded output in key order.
func (s *Store) Paths() ([]string, error) {
	var out []string
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bOutputs)
		if b == nil {
			return nil
		}
		return b.ForEach(func(k, _ []byte) error {
			out = append(out, string(k))
			return nil
		})
	})
	sort.Strings(out)
	return out, err
}

// replace swaps the whole outputs bucket for entries in one transaction.
func (s *Store) replace(entries map[string]string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		_ = tx.DeleteBucket(bOutputs)
		b, err := tx.CreateBucket(bOutputs)
		if err != nil {
			return err
		}
		for rel, h := range entries {
			if err := b.Put([]byte(rel), []byte(h)); err != nil {
				return err
			}
		}
		return nil
	})
}
