package manifest

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

func HashBytes(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Writer writes one build's outputs under Root.
type Writer struct {
	Root string

	store *Store
	seen  map[string]string

	Written int
	Skipped int
}

func (s *Store) NewWriter(root string) *Writer {
	return &Writer{
		Root:  root,
		store: s,
		seen:  make(map[string]string),
	}
}

// Write stores data at rel unless the same bytes were written there by a
// previous build and the file is still on disk.
func (w *Writer) Write(rel string, data []byte) error {
	rel = filepath.ToSlash(filepath.Clean(rel))
	h := HashBytes(data)
	w.seen[rel] = h

	full := filepath.Join(w.Root, filepath.FromSlash(rel))
	prev, err := w.store.Hash(rel)
	if err != nil {
		return err
	}
	if prev == h {
		if _, err := os.Stat(full); err == nil {
			w.Skipped++
			return nil
		}
	}

	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return err
	}
	w.Written++
	return nil
}

// Commit removes files recorded by the previous build that this build did
// not write, then records this build's outputs. It returns the removed paths.
func (w *Writer) Commit() ([]string, error) {
	prev, err := w.store.Paths()
	if err != nil {
		return nil, err
	}
	var pruned []string
	for _, rel := range prev {
		if _, ok := w.seen[rel]; ok {
			continue
		}
		full := filepath.Join(w.Root, filepath.FromSlash(rel))
		if err := os.Remove(full); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return pruned, err
		}
		pruned = append(pruned, rel)
	}
	return pruned, w.store.replace(w.seen)
}
