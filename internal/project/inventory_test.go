package project

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/piwi3910/RollCut/internal/model"
)

func TestSaveAndLoadInventory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inventory.json")

	inv := model.Inventory{Films: []model.FilmRoll{
		model.NewFilmRoll("Fumê G5", "3M", 152, 55),
	}}
	if err := SaveInventory(path, inv); err != nil {
		t.Fatalf("SaveInventory failed: %v", err)
	}

	loaded, err := LoadInventory(path)
	if err != nil {
		t.Fatalf("LoadInventory failed: %v", err)
	}
	if len(loaded.Films) != 1 {
		t.Fatalf("expected 1 film, got %d", len(loaded.Films))
	}
	if loaded.Films[0] != inv.Films[0] {
		t.Errorf("film did not round-trip: %+v", loaded.Films[0])
	}
}

func TestLoadInventory_CreatesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "inventory.json")

	inv, err := LoadInventory(path)
	if err != nil {
		t.Fatalf("LoadInventory failed: %v", err)
	}
	if len(inv.Films) != len(model.DefaultInventory().Films) {
		t.Errorf("expected default films, got %d", len(inv.Films))
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("default inventory should be saved: %v", err)
	}

	again, err := LoadInventory(path)
	if err != nil {
		t.Fatalf("second LoadInventory failed: %v", err)
	}
	if again.Films[0].ID != inv.Films[0].ID {
		t.Error("second load should read the saved file, not regenerate IDs")
	}
}

func TestLoadInventory_InvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inventory.json")
	if err := os.WriteFile(path, []byte("[]"), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}
	if _, err := LoadInventory(path); err == nil {
		t.Error("expected error for a JSON array")
	}
}

func TestImportInventory_MergesByID(t *testing.T) {
	existing := model.Inventory{Films: []model.FilmRoll{
		{ID: "a", Name: "Fumê", WidthCm: 152},
	}}
	imported := model.Inventory{Films: []model.FilmRoll{
		{ID: "a", Name: "Fumê (dup)", WidthCm: 152},
		{ID: "b", Name: "Jateado", WidthCm: 122},
	}}
	data, err := json.Marshal(imported)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	path := filepath.Join(t.TempDir(), "import.json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	merged, err := ImportInventory(path, existing)
	if err != nil {
		t.Fatalf("ImportInventory failed: %v", err)
	}
	if len(merged.Films) != 2 {
		t.Fatalf("expected 2 films, got %d", len(merged.Films))
	}
	if merged.Films[0].Name != "Fumê" {
		t.Errorf("existing film should win, got %q", merged.Films[0].Name)
	}
	if merged.Films[1].ID != "b" {
		t.Errorf("expected imported film b, got %q", merged.Films[1].ID)
	}
}

func TestImportInventory_MissingFile(t *testing.T) {
	existing := model.DefaultInventory()
	got, err := ImportInventory(filepath.Join(t.TempDir(), "missing.json"), existing)
	if err == nil {
		t.Error("expected error for missing file")
	}
	if len(got.Films) != len(existing.Films) {
		t.Error("existing inventory should be returned unchanged")
	}
}
