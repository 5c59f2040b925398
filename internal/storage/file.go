package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/yctseng/itemlist/internal/model"
)

// File stores the blob as a JSON document on disk. Writes go through a
// temporary file in the same directory followed by a rename, so a failed
// write never clobbers the previous blob.
type File struct {
	path string
}

// NewFile returns a file-backed blob at the given path. The file is
// created on first Save.
func NewFile(path string) *File {
	return &File{path: path}
}

// Load implements Blob.
func (f *File) Load() ([]model.Item, error) {
	data, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return []model.Item{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", f.path, err)
	}

	var items []model.Item
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("%w: parsing %s: %v", model.ErrCorruptData, f.path, err)
	}
	return items, nil
}

// Save implements Blob.
func (f *File) Save(items []model.Item) error {
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("%w: encoding collection: %v", model.ErrPersistence, err)
	}

	dir := filepath.Dir(f.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(f.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("%w: creating temp file: %v", model.ErrPersistence, err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("%w: writing blob: %v", model.ErrPersistence, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("%w: closing temp file: %v", model.ErrPersistence, err)
	}

	if err := os.Rename(tmp.Name(), f.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("%w: replacing blob: %v", model.ErrPersistence, err)
	}
	return nil
}
