package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Snapshotter persists a whole collection after a mutation. The stores
// call it while holding their write lock, so implementations see a
// consistent view.
type Snapshotter interface {
	Snapshot(v interface{}) error
}

// FileSnapshotter writes the collection as a JSON file, matching the
// flat-list layout the storefront keeps on disk. The write goes through
// a temp file and a rename so a crash mid-write cannot truncate the
// collection.
type FileSnapshotter struct {
	Path string
}

// NewFileSnapshotter creates a snapshotter writing to path.
func NewFileSnapshotter(path string) *FileSnapshotter {
	return &FileSnapshotter{Path: path}
}

// Snapshot serializes v and atomically replaces the target file.
func (f *FileSnapshotter) Snapshot(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	dir := filepath.Dir(f.Path)
	tmp, err := os.CreateTemp(dir, filepath.Base(f.Path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp snapshot: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to close snapshot: %w", err)
	}

	if err := os.Rename(tmp.Name(), f.Path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to replace snapshot: %w", err)
	}

	return nil
}

// LoadCollection reads a JSON collection file into out. Missing files
// are not an error; the caller keeps its seed data.
func LoadCollection(path string, out interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}
