// Package store holds the in-memory item collection, the single source of
// truth for a running session. Every mutation flushes the whole collection
// to the storage blob exactly once, after the in-memory change.
package store

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/yctseng/itemlist/internal/model"
	"github.com/yctseng/itemlist/internal/storage"
)

// Fields carries the editable fields of an item. ID and CreatedAt are
// assigned by the store and never supplied by callers.
type Fields struct {
	Name     string
	Photo    string
	Size     string
	Quantity int
	Location string
	Category string
}

// Store is the record store. Newest records sit at the front of the
// collection; display order is always a derived projection (see query.go).
type Store struct {
	mu    sync.Mutex
	blob  storage.Blob
	items []model.Item
}

// Open loads the collection from the blob. An absent blob yields an empty
// store; a corrupt blob fails with model.ErrCorruptData and the caller
// decides recovery.
func Open(blob storage.Blob) (*Store, error) {
	items, err := blob.Load()
	if err != nil {
		return nil, err
	}
	return &Store{blob: blob, items: items}, nil
}

// Create validates and prepends a new item, then flushes. The name must be
// non-empty after trimming. On a flush failure the item is still applied in
// memory and returned alongside the wrapped model.ErrPersistence.
func (s *Store) Create(f Fields) (model.Item, error) {
	if strings.TrimSpace(f.Name) == "" {
		return model.Item{}, fmt.Errorf("%w: name is required", model.ErrValidation)
	}

	item := model.Item{
		ID:        uuid.NewString(),
		Name:      f.Name,
		Photo:     f.Photo,
		Size:      f.Size,
		Quantity:  normalizeQuantity(f.Quantity),
		Location:  f.Location,
		Category:  normalizeCategory(f.Category),
		CreatedAt: time.Now().UnixMilli(),
	}

	s.mu.Lock()
	s.items = append([]model.Item{item}, s.items...)
	err := s.flush()
	s.mu.Unlock()

	return item, err
}

// Update replaces all editable fields of the item with the given id,
// preserving its id, creation time, and position in the collection.
func (s *Store) Update(id string, f Fields) (model.Item, error) {
	if strings.TrimSpace(f.Name) == "" {
		return model.Item{}, fmt.Errorf("%w: name is required", model.ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i, item := range s.items {
		if item.ID != id {
			continue
		}
		item.Name = f.Name
		item.Photo = f.Photo
		item.Size = f.Size
		item.Quantity = normalizeQuantity(f.Quantity)
		item.Location = f.Location
		item.Category = normalizeCategory(f.Category)
		s.items[i] = item
		return item, s.flush()
	}
	return model.Item{}, fmt.Errorf("%w: %s", model.ErrNotFound, id)
}

// Delete removes the item with the given id.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, item := range s.items {
		if item.ID == id {
			s.items = append(s.items[:i:i], s.items[i+1:]...)
			return s.flush()
		}
	}
	return fmt.Errorf("%w: %s", model.ErrNotFound, id)
}

// BulkPrepend inserts an already-validated batch (typically a spreadsheet
// import) ahead of the existing collection, keeping the batch's own order,
// with a single flush for the whole batch.
func (s *Store) BulkPrepend(items []model.Item) error {
	if len(items) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	merged := make([]model.Item, 0, len(items)+len(s.items))
	merged = append(merged, items...)
	merged = append(merged, s.items...)
	s.items = merged
	return s.flush()
}

// List returns a snapshot of the collection in storage order.
func (s *Store) List() []model.Item {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.Item, len(s.items))
	copy(out, s.items)
	return out
}

// Len returns the number of items.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// TotalQuantity returns the summed quantity across all items.
func (s *Store) TotalQuantity() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := 0
	for _, item := range s.items {
		total += item.Quantity
	}
	return total
}

// flush writes the whole collection to the blob. Callers hold s.mu.
func (s *Store) flush() error {
	return s.blob.Save(s.items)
}

func normalizeQuantity(q int) int {
	if q < 0 {
		return model.DefaultQuantity
	}
	return q
}

func normalizeCategory(c string) string {
	if strings.TrimSpace(c) == "" {
		return model.DefaultCategory
	}
	return c
}
