package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/yctseng/itemlist/internal/model"
)

func testItems() []model.Item {
	return []model.Item{
		{ID: "1", Name: "行李箱", Size: "28吋", Quantity: 2, Location: "儲藏室", Category: "旅行", CreatedAt: 1700000000000},
		{ID: "2", Name: "延長線", Quantity: 3, Location: "客廳", Category: "家電", CreatedAt: 1700000100000},
	}
}

func TestFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inventory_local_data.json")
	f := NewFile(path)

	if err := f.Save(testItems()); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := f.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := testItems()
	if len(got) != len(want) {
		t.Fatalf("expected %d items, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("item %d: got %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestFileLoadMissing(t *testing.T) {
	f := NewFile(filepath.Join(t.TempDir(), "absent.json"))

	got, err := f.Load()
	if err != nil {
		t.Fatalf("Load on missing file: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected empty collection, got %d items", len(got))
	}
}

func TestFileLoadCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := NewFile(path).Load()
	if !errors.Is(err, model.ErrCorruptData) {
		t.Errorf("expected ErrCorruptData, got %v", err)
	}
}

func TestFileSaveOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	f := NewFile(path)

	f.Save(testItems())
	if err := f.Save([]model.Item{{ID: "only", Name: "只剩一項", Quantity: 1}}); err != nil {
		t.Fatalf("second Save: %v", err)
	}

	got, _ := f.Load()
	if len(got) != 1 || got[0].ID != "only" {
		t.Errorf("expected the second blob, got %v", got)
	}
}

func TestFileSaveFailureSignalsPersistence(t *testing.T) {
	// Parent directory does not exist, so the temp file cannot be created.
	f := NewFile(filepath.Join(t.TempDir(), "no", "such", "dir", "data.json"))

	err := f.Save(testItems())
	if !errors.Is(err, model.ErrPersistence) {
		t.Errorf("expected ErrPersistence, got %v", err)
	}
}

func TestFileSaveLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	f := NewFile(filepath.Join(dir, "data.json"))
	f.Save(testItems())

	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		names := make([]string, len(entries))
		for i, e := range entries {
			names[i] = e.Name()
		}
		t.Errorf("expected only the blob file, found %v", names)
	}
}
