// Package storage persists the full item collection as a single JSON blob
// under one fixed key. A flush always rewrites the whole blob; a failed
// flush leaves the previous blob untouched.
package storage

import (
	"strings"

	"github.com/yctseng/itemlist/internal/model"
)

// Key is the fixed storage key the collection lives under.
const Key = "inventory_local_data"

// Blob reads and writes the serialized item collection.
type Blob interface {
	// Load returns the stored collection, or an empty collection if no
	// blob has been written yet. A blob that exists but cannot be parsed
	// fails with model.ErrCorruptData.
	Load() ([]model.Item, error)

	// Save replaces the stored blob with the given collection. On failure
	// the previous blob is left intact and model.ErrPersistence is
	// returned.
	Save(items []model.Item) error
}

// Open selects a backend by path: SQLite for .sqlite3/.db paths, a plain
// JSON file otherwise.
func Open(path string) (Blob, error) {
	if strings.HasSuffix(path, ".sqlite3") || strings.HasSuffix(path, ".db") {
		return OpenSQLite(path)
	}
	return NewFile(path), nil
}
