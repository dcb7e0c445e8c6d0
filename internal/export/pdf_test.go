package export

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/piwi3910/RollCut/internal/engine"
	"github.com/piwi3910/RollCut/internal/model"
)

// buildTestLayout optimizes a small living-room quote on a 152 cm roll.
func buildTestLayout(t *testing.T) model.Layout {
	t.Helper()
	demands := []model.PieceDemand{
		{ID: "sala", Label: "Sala", WidthCm: 70, HeightCm: 200, Quantity: 3},
		{ID: "varanda", Label: "Varanda", WidthCm: 80, HeightCm: 200, Quantity: 2},
		{ID: "basc", Label: "Basculante Banheiro", WidthCm: 60, HeightCm: 40, Quantity: 2},
	}
	layout, err := engine.Optimize(demands, model.RollParameters{WidthCm: 152, BladeWidthCm: 2})
	if err != nil {
		t.Fatalf("optimize failed: %v", err)
	}
	return layout
}

func assertPDF(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("PDF file was not created: %v", err)
	}
	if info.Size() < 500 {
		t.Errorf("PDF file seems too small: %d bytes", info.Size())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read PDF: %v", err)
	}
	if string(data[:5]) != "%PDF-" {
		t.Errorf("file does not start with a PDF header: %q", data[:5])
	}
}

func TestExportPDF_CreatesFile(t *testing.T) {
	layout := buildTestLayout(t)
	path := filepath.Join(t.TempDir(), "plano.pdf")

	if err := ExportPDF(path, layout, engine.Report(layout, model.DefaultSettings())); err != nil {
		t.Fatalf("ExportPDF returned error: %v", err)
	}
	assertPDF(t, path)
}

func TestExportPDF_EmptyLayout(t *testing.T) {
	layout, err := engine.Optimize(nil, model.RollParameters{WidthCm: 152, BladeWidthCm: 2})
	if err != nil {
		t.Fatalf("optimize failed: %v", err)
	}
	path := filepath.Join(t.TempDir(), "empty.pdf")

	if err := ExportPDF(path, layout, engine.Report(layout, model.DefaultSettings())); err == nil {
		t.Fatal("expected error for empty layout, got nil")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("no file should be written for an empty layout")
	}
}

func TestExportPDF_LongRollSpansPages(t *testing.T) {
	demands := []model.PieceDemand{
		{ID: "porta", Label: "Porta de Vidro", WidthCm: 100, HeightCm: 220, Quantity: 12},
		{ID: "faixa", Label: "Faixa", WidthCm: 45, HeightCm: 220, Quantity: 12},
	}
	layout, err := engine.Optimize(demands, model.RollParameters{WidthCm: 152, BladeWidthCm: 2})
	if err != nil {
		t.Fatalf("optimize failed: %v", err)
	}
	path := filepath.Join(t.TempDir(), "longo.pdf")

	if err := ExportPDF(path, layout, engine.Report(layout, model.DefaultSettings())); err != nil {
		t.Fatalf("ExportPDF returned error: %v", err)
	}
	assertPDF(t, path)
}

func TestExportPDF_ManyRemnants(t *testing.T) {
	var demands []model.PieceDemand
	for i := 0; i < 60; i++ {
		demands = append(demands, model.PieceDemand{
			Label: "Vidro", WidthCm: float64(100 + i%40), HeightCm: float64(20 + i), Quantity: 1,
		})
	}
	layout, err := engine.Optimize(demands, model.RollParameters{WidthCm: 152, BladeWidthCm: 2})
	if err != nil {
		t.Fatalf("optimize failed: %v", err)
	}
	path := filepath.Join(t.TempDir(), "retalhos.pdf")

	if err := ExportPDF(path, layout, engine.Report(layout, model.DefaultSettings())); err != nil {
		t.Fatalf("ExportPDF returned error: %v", err)
	}
	assertPDF(t, path)
}

func TestPaginateRows(t *testing.T) {
	rows := []model.Row{{HeightCm: 100}, {HeightCm: 100}, {HeightCm: 100}, {HeightCm: 300}, {HeightCm: 10}}
	pages := paginateRows(rows, 2, 210)

	want := []int{2, 1, 1, 1}
	if len(pages) != len(want) {
		t.Fatalf("expected %d pages, got %d", len(want), len(pages))
	}
	for i, n := range want {
		if len(pages[i]) != n {
			t.Errorf("page %d: expected %d rows, got %d", i+1, n, len(pages[i]))
		}
	}

	if pages := paginateRows(nil, 2, 210); len(pages) != 0 {
		t.Errorf("expected no pages, got %d", len(pages))
	}
}

func TestDrawScale(t *testing.T) {
	layout := model.Layout{
		Roll: model.RollParameters{WidthCm: 152, BladeWidthCm: 2},
		Rows: []model.Row{{HeightCm: 100}},
	}
	if got, want := drawScale(layout), drawWidth/152.0; got != want {
		t.Errorf("expected width-bound scale %f, got %f", want, got)
	}

	layout.Rows = append(layout.Rows, model.Row{HeightCm: 998})
	if got, want := drawScale(layout), drawHeight/1000.0; got != want {
		t.Errorf("expected height-bound scale %f, got %f", want, got)
	}
}

func TestDemandColors_SharedPerDemand(t *testing.T) {
	layout := buildTestLayout(t)
	colors := demandColors(layout)
	if len(colors) != 3 {
		t.Fatalf("expected one color per demand, got %d", len(colors))
	}
	if colors["sala"] == colors["varanda"] {
		t.Error("different demands should get different colors")
	}
}

func TestLabelFontSize(t *testing.T) {
	tests := []struct {
		w, h float64
		want float64
	}{
		{100, 100, 8},
		{50, 30, 7},
		{15, 10, 6},
	}
	for _, tt := range tests {
		if got := labelFontSize(tt.w, tt.h); got != tt.want {
			t.Errorf("labelFontSize(%.0f, %.0f) = %.0f, want %.0f", tt.w, tt.h, got, tt.want)
		}
	}
}
