package project

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/piwi3910/RollCut/internal/model"
)

// DefaultInventoryPath returns ~/.rollcut/inventory.json.
func DefaultInventoryPath() string {
	return filepath.Join(DefaultConfigDir(), "inventory.json")
}

// SaveInventory writes the film roll inventory to the specified JSON file.
func SaveInventory(path string, inv model.Inventory) error {
	return writeJSON(path, inv)
}

// LoadInventory reads the inventory from the specified JSON file.
// If the file does not exist, it returns the default inventory and saves it.
func LoadInventory(path string) (model.Inventory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			inv := model.DefaultInventory()
			if saveErr := SaveInventory(path, inv); saveErr != nil {
				return inv, saveErr
			}
			return inv, nil
		}
		return model.Inventory{}, err
	}
	var inv model.Inventory
	if err := json.Unmarshal(data, &inv); err != nil {
		return model.Inventory{}, err
	}
	if inv.Films == nil {
		inv.Films = []model.FilmRoll{}
	}
	return inv, nil
}

// LoadOrCreateInventory loads the inventory from the default path.
// If the file does not exist, it creates one with default entries.
func LoadOrCreateInventory() (model.Inventory, string, error) {
	path := DefaultInventoryPath()
	inv, err := LoadInventory(path)
	return inv, path, err
}

// ImportInventory merges films from a user-specified JSON file into the
// existing inventory. Films whose ID is already present are skipped.
func ImportInventory(path string, existing model.Inventory) (model.Inventory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return existing, err
	}
	var imported model.Inventory
	if err := json.Unmarshal(data, &imported); err != nil {
		return existing, err
	}

	ids := make(map[string]bool, len(existing.Films))
	for _, f := range existing.Films {
		ids[f.ID] = true
	}
	for _, f := range imported.Films {
		if !ids[f.ID] {
			existing.Films = append(existing.Films, f)
			ids[f.ID] = true
		}
	}
	return existing, nil
}
