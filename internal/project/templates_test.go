package project

import (
	"path/filepath"
	"testing"

	"github.com/piwi3910/RollCut/internal/model"
)

func TestSaveAndLoadTemplates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "templates.json")

	p := model.NewProject()
	p.Demands = []model.PieceDemand{model.NewPieceDemand("Janela padrão", 70, 120, 4)}

	store := model.NewTemplateStore()
	store.Add(model.NewProjectTemplate("Apartamento 2Q", "Janelas de um apartamento típico", p))

	if err := SaveTemplates(path, store); err != nil {
		t.Fatalf("SaveTemplates error: %v", err)
	}

	loaded, err := LoadTemplates(path)
	if err != nil {
		t.Fatalf("LoadTemplates error: %v", err)
	}
	if len(loaded.Templates) != 1 {
		t.Fatalf("expected 1 template, got %d", len(loaded.Templates))
	}
	if loaded.Templates[0].Name != "Apartamento 2Q" {
		t.Errorf("expected 'Apartamento 2Q', got %q", loaded.Templates[0].Name)
	}
	if len(loaded.Templates[0].Demands) != 1 || loaded.Templates[0].Demands[0].Quantity != 4 {
		t.Errorf("demands did not round-trip: %+v", loaded.Templates[0].Demands)
	}
}

func TestLoadTemplates_MissingFile(t *testing.T) {
	store, err := LoadTemplates(filepath.Join(t.TempDir(), "nope.json"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.Templates == nil || len(store.Templates) != 0 {
		t.Errorf("expected empty non-nil store, got %+v", store.Templates)
	}
}
