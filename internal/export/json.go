package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/piwi3910/RollCut/internal/engine"
)

// WriteReportJSON writes the layout report as indented JSON.
func WriteReportJSON(w io.Writer, report engine.LayoutReport) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return nil
}

// ExportReportJSON writes the layout report to a file.
func ExportReportJSON(path string, report engine.LayoutReport) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	if err := WriteReportJSON(f, report); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
