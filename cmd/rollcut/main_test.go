package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/RollCut/internal/engine"
	"github.com/piwi3910/RollCut/internal/project"
)

const pairingCSV = `label,width,height,quantity
Janela A,70,200,3
Janela B,80,200,3
`

// setup writes a measurement list and returns it with the base flags that
// keep config and inventory inside a temp dir.
func setup(t *testing.T, csv string) (string, []string) {
	t.Helper()
	dir := t.TempDir()
	in := filepath.Join(dir, "medidas.csv")
	require.NoError(t, os.WriteFile(in, []byte(csv), 0644))
	return dir, []string{
		"-in", in,
		"-config", filepath.Join(dir, "config.json"),
		"-inventory", filepath.Join(dir, "inventory.json"),
		"-templates", filepath.Join(dir, "templates.json"),
		"-roll", "152",
		"-blade", "2",
	}
}

func runCLI(args ...string) (int, string, string) {
	var stdout, stderr bytes.Buffer
	code := run(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRunTextReport(t *testing.T) {
	_, args := setup(t, pairingCSV)

	code, out, errOut := runCLI(args...)
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, "Roll 152.0 cm, blade 2.0 cm")
	assert.Contains(t, out, "Rows: 3  Pieces: 6  Length: 6.06 m  Efficiency: 99.0%")
	assert.Contains(t, out, "Janela A")
	assert.Contains(t, out, "Area estimate:")
}

func TestRunJSONReport(t *testing.T) {
	_, args := setup(t, pairingCSV)

	code, out, errOut := runCLI(append(args, "-json")...)
	require.Equal(t, 0, code, errOut)

	var rep engine.LayoutReport
	require.NoError(t, json.Unmarshal([]byte(out), &rep))
	assert.Equal(t, 3, rep.RowCount)
	assert.Equal(t, 6, rep.PieceCount)
	assert.InDelta(t, 606.0, rep.TotalLengthCm, 1e-6)
}

func TestRunJSONWithCompareKeepsStdoutParseable(t *testing.T) {
	_, args := setup(t, pairingCSV)

	code, out, errOut := runCLI(append(args, "-json", "-compare")...)
	require.Equal(t, 0, code, errOut)

	var rep engine.LayoutReport
	require.NoError(t, json.Unmarshal([]byte(out), &rep), out)
	assert.Equal(t, 3, rep.RowCount)
	assert.NotContains(t, out, "Scenario comparison:")
	assert.Contains(t, errOut, "Scenario comparison:")
	assert.Contains(t, errOut, "Least film: Blade 1.0 cm (half)")
}

func TestRunPieceTooWide(t *testing.T) {
	_, args := setup(t, "label,width,height,quantity\nPorta,160,210,1\nJanela,50,100,2\n")

	code, out, errOut := runCLI(args...)
	assert.Equal(t, 1, code)
	assert.Empty(t, out)
	assert.Contains(t, errOut, "do not fit across a 152 cm roll")
	assert.Contains(t, errOut, "Porta")
}

func TestRunMissingInput(t *testing.T) {
	code, _, errOut := runCLI("-roll", "152")
	assert.Equal(t, 2, code)
	assert.Contains(t, errOut, "Usage: rollcut")
}

func TestRunUnknownFilm(t *testing.T) {
	_, args := setup(t, pairingCSV)
	code, _, errOut := runCLI(append(args, "-film", "Nope")...)
	assert.Equal(t, 2, code)
	assert.Contains(t, errOut, `film "Nope" is not in the inventory`)
}

func TestRunImportErrors(t *testing.T) {
	_, args := setup(t, "nothing useful here\n")
	code, _, errOut := runCLI(args...)
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "Could not import")
}

func TestRunWritesPDFs(t *testing.T) {
	dir, args := setup(t, pairingCSV)
	plan := filepath.Join(dir, "plano.pdf")
	labels := filepath.Join(dir, "etiquetas.pdf")

	code, _, errOut := runCLI(append(args, "-pdf", plan, "-labels", labels)...)
	require.Equal(t, 0, code, errOut)

	for _, p := range []string{plan, labels} {
		data, err := os.ReadFile(p)
		require.NoError(t, err)
		assert.True(t, bytes.HasPrefix(data, []byte("%PDF")), p)
	}
}

func TestRunSaveProject(t *testing.T) {
	dir, args := setup(t, pairingCSV)
	target := filepath.Join(dir, "obra")

	code, _, errOut := runCLI(append(args, "-save", target)...)
	require.Equal(t, 0, code, errOut)

	saved := target + project.FileExtension
	p, err := project.LoadProject(saved)
	require.NoError(t, err)
	assert.Len(t, p.Demands, 2)
	require.NotNil(t, p.Layout)
	assert.Len(t, p.Layout.Rows, 3)

	cfg, err := project.LoadAppConfig(filepath.Join(dir, "config.json"))
	require.NoError(t, err)
	assert.Equal(t, []string{saved}, cfg.RecentProjects)
}

func TestRunTemplateAndBackup(t *testing.T) {
	dir, args := setup(t, pairingCSV)
	backup := filepath.Join(dir, "backup.json")

	// saving twice under one name replaces the template
	for i := 0; i < 2; i++ {
		code, _, errOut := runCLI(append(args, "-template", "Edificio Sol", "-backup", backup)...)
		require.Equal(t, 0, code, errOut)
	}

	store, err := project.LoadTemplates(filepath.Join(dir, "templates.json"))
	require.NoError(t, err)
	require.Len(t, store.Templates, 1)
	assert.Equal(t, "Edificio Sol", store.Templates[0].Name)
	assert.Len(t, store.Templates[0].Demands, 2)

	data, err := project.ImportAllData(backup)
	require.NoError(t, err)
	assert.Equal(t, project.BackupVersion, data.Version)
	assert.Len(t, data.Templates.Templates, 1)
	assert.NotEmpty(t, data.Inventory.Films)
}

func TestRunCompare(t *testing.T) {
	_, args := setup(t, pairingCSV)
	code, out, errOut := runCLI(append(args, "-compare")...)
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, "Scenario comparison:")
	assert.Contains(t, out, "Current Roll")
	assert.Contains(t, out, "Least film: Blade 1.0 cm (half)")
}

func TestRunFilmFromInventory(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "medidas.csv")
	require.NoError(t, os.WriteFile(in, []byte("label,width,height\nVitrine,100,50\n"), 0644))

	code, out, errOut := runCLI(
		"-in", in,
		"-config", filepath.Join(dir, "config.json"),
		"-inventory", filepath.Join(dir, "inventory.json"),
		"-film", "Jateado 1,22m",
		"-blade", "0",
	)
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, "Roll 122.0 cm")
	assert.Contains(t, out, "Reusable remnants (Jateado 1,22m)")
}

func TestDescribeError(t *testing.T) {
	msg := describeError(&engine.TooManyPiecesError{Count: 6000, Limit: 5000})
	assert.Equal(t, "The list expands to 6000 pieces, above the limit of 5000. Split the quote or raise -max-pieces.", msg)

	msg = describeError(&engine.InvalidDemandError{Index: 2, Label: "Box", Reason: "quantity must be positive"})
	assert.Equal(t, "Line item 3 (Box) is invalid: quantity must be positive", msg)

	assert.True(t, strings.HasPrefix(describeError(os.ErrNotExist), "Error: "))
}
