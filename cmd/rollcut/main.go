// RollCut - window film cutting planner
//
// Reads a measurement list (CSV, Excel or DXF), lays the pieces out in rows
// across a film roll and prints how much roll the job consumes. Optionally
// writes a PDF cutting plan and QR-coded piece labels.
//
// Build:
//
//	go build -o rollcut ./cmd/rollcut
//
// Example:
//
//	rollcut -in medidas.csv -roll 152 -blade 0.2 -pdf plano.pdf
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/piwi3910/RollCut/internal/engine"
	"github.com/piwi3910/RollCut/internal/export"
	"github.com/piwi3910/RollCut/internal/importer"
	"github.com/piwi3910/RollCut/internal/model"
	"github.com/piwi3910/RollCut/internal/project"
)

const (
	defaultRollWidthCm = 152.0
	maxRecentProjects  = 10
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

type options struct {
	in            string
	unit          string
	film          string
	rollWidth     float64
	blade         float64
	maxPieces     int
	pdfPath       string
	labelsPath    string
	jsonOut       bool
	compare       bool
	savePath      string
	templateName  string
	backupPath    string
	configPath    string
	inventoryPath string
	templatesPath string
	verbose       bool
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var o options
	fs := flag.NewFlagSet("rollcut", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&o.in, "in", "", "measurement list (.csv, .xlsx or .dxf)")
	fs.StringVar(&o.unit, "unit", "", "unit of the measurement list: mm, cm or m (default cm)")
	fs.StringVar(&o.film, "film", "", "film name from the inventory (sets roll width and price)")
	fs.Float64Var(&o.rollWidth, "roll", 0, "roll width in cm (overrides -film)")
	fs.Float64Var(&o.blade, "blade", -1, "blade allowance in cm (default from config)")
	fs.IntVar(&o.maxPieces, "max-pieces", 0, "refuse lists that expand to more pieces (default from config)")
	fs.StringVar(&o.pdfPath, "pdf", "", "write the cutting plan to this PDF")
	fs.StringVar(&o.labelsPath, "labels", "", "write QR piece labels to this PDF")
	fs.BoolVar(&o.jsonOut, "json", false, "print the report as JSON")
	fs.BoolVar(&o.compare, "compare", false, "compare other roll widths from the inventory and a thinner blade (to stderr with -json)")
	fs.StringVar(&o.savePath, "save", "", "save the project (list, roll and layout) to this file")
	fs.StringVar(&o.templateName, "template", "", "store the measurement list as a template under this name")
	fs.StringVar(&o.backupPath, "backup", "", "write config, inventory and templates to this backup file")
	fs.StringVar(&o.configPath, "config", project.DefaultConfigPath(), "app config file")
	fs.StringVar(&o.inventoryPath, "inventory", project.DefaultInventoryPath(), "film inventory file")
	fs.StringVar(&o.templatesPath, "templates", project.DefaultTemplatePath(), "template store file")
	fs.BoolVar(&o.verbose, "v", false, "verbose logging")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "Usage: rollcut -in medidas.csv [options]")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return o, err
	}
	if o.in == "" {
		fs.Usage()
		return o, errors.New("missing -in")
	}
	return o, nil
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func run(args []string, stdout, stderr io.Writer) int {
	o, err := parseFlags(args, stderr)
	if err != nil {
		return 2
	}
	logger := newLogger(stderr, o.verbose)

	cfg, err := project.LoadAppConfig(o.configPath)
	if err != nil {
		logger.Warn("rollcut: config unreadable, using defaults", "path", o.configPath, "error", err)
		cfg = model.DefaultAppConfig()
	}
	inv, err := project.LoadInventory(o.inventoryPath)
	if err != nil {
		logger.Warn("rollcut: inventory unreadable, using defaults", "path", o.inventoryPath, "error", err)
		inv = model.DefaultInventory()
	}

	settings := model.DefaultSettings()
	cfg.ApplyToSettings(&settings)
	if o.blade >= 0 {
		settings.BladeWidthCm = o.blade
	}
	if o.maxPieces > 0 {
		settings.MaxPieces = o.maxPieces
	}

	film, roll, err := resolveRoll(o, cfg, &inv, settings.BladeWidthCm)
	if err != nil {
		fmt.Fprintln(stderr, "Error:", err)
		return 2
	}

	unit, err := importer.ParseUnit(o.unit)
	if err != nil {
		fmt.Fprintln(stderr, "Error:", err)
		return 2
	}

	result := importer.ImportFile(o.in, unit)
	for _, w := range result.Warnings {
		logger.Warn("rollcut: import", "file", o.in, "note", w)
	}
	if len(result.Errors) > 0 {
		fmt.Fprintf(stderr, "Could not import %s:\n", o.in)
		for _, e := range result.Errors {
			fmt.Fprintln(stderr, "  "+e)
		}
		return 1
	}
	logger.Info("rollcut: measurement list imported", "file", o.in, "demands", len(result.Demands))

	opt := engine.New(settings)
	opt.Logger = logger
	layout, err := opt.Optimize(result.Demands, roll)
	if err != nil {
		fmt.Fprintln(stderr, describeError(err))
		return 1
	}
	report := engine.Report(layout, settings)

	if o.jsonOut {
		if err := export.WriteReportJSON(stdout, report); err != nil {
			fmt.Fprintln(stderr, "Error:", err)
			return 1
		}
	} else {
		printReport(stdout, report)
		printPurchase(stdout, result.Demands, roll, film, cfg.DefaultWastePercent)
		if film != nil {
			printRetalhos(stdout, layout, *film, settings)
		}
	}

	if o.compare {
		// stdout carries only the JSON document in -json mode
		out := stdout
		if o.jsonOut {
			out = stderr
		}
		scenarios := engine.BuildRollScenarios(roll, inv, settings)
		printComparison(out, engine.CompareScenarios(scenarios, result.Demands))
	}

	if code := writeOutputs(o, layout, report, stderr, logger); code != 0 {
		return code
	}

	p := model.NewProject()
	p.Name = o.in
	p.Demands = result.Demands
	p.Roll = roll
	p.Settings = settings
	p.Layout = &layout
	if film != nil {
		p.FilmID = film.ID
	}

	if o.templateName != "" || o.backupPath != "" {
		if code := saveTemplateAndBackup(o, p, cfg, inv, stderr, logger); code != 0 {
			return code
		}
	}

	if o.savePath != "" {
		path, err := project.SaveProject(o.savePath, p)
		if err != nil {
			fmt.Fprintln(stderr, "Error:", err)
			return 1
		}
		cfg.AddRecentProject(path, maxRecentProjects)
		if err := project.SaveAppConfig(o.configPath, cfg); err != nil {
			logger.Warn("rollcut: could not update recent projects", "error", err)
		}
		logger.Info("rollcut: project saved", "path", path)
	}
	return 0
}

// saveTemplateAndBackup adds the list to the template store when -template
// is set, then writes the backup bundle when -backup is set.
func saveTemplateAndBackup(o options, p model.Project, cfg model.AppConfig, inv model.Inventory, stderr io.Writer, logger *slog.Logger) int {
	store, err := project.LoadTemplates(o.templatesPath)
	if err != nil {
		fmt.Fprintln(stderr, "Error reading templates:", err)
		return 1
	}

	if o.templateName != "" {
		if old := store.FindByName(o.templateName); old != nil {
			store.Remove(old.ID)
		}
		store.Add(model.NewProjectTemplate(o.templateName, "Imported from "+o.in, p))
		if err := project.SaveTemplates(o.templatesPath, store); err != nil {
			fmt.Fprintln(stderr, "Error saving template:", err)
			return 1
		}
		logger.Info("rollcut: template saved", "name", o.templateName, "templates", len(store.Templates))
	}

	if o.backupPath != "" {
		if err := project.ExportAllData(o.backupPath, cfg, inv, store); err != nil {
			fmt.Fprintln(stderr, "Error writing backup:", err)
			return 1
		}
		logger.Info("rollcut: backup written", "path", o.backupPath)
	}
	return 0
}

// resolveRoll picks the roll width from -roll, then -film, then the
// configured default film, then the standard 152 cm roll.
func resolveRoll(o options, cfg model.AppConfig, inv *model.Inventory, blade float64) (*model.FilmRoll, model.RollParameters, error) {
	var film *model.FilmRoll
	switch {
	case o.film != "":
		film = inv.FindFilmByName(o.film)
		if film == nil {
			film = inv.FindFilmByID(o.film)
		}
		if film == nil {
			return nil, model.RollParameters{}, fmt.Errorf("film %q is not in the inventory", o.film)
		}
	case cfg.DefaultFilm != "":
		film = inv.FindFilmByName(cfg.DefaultFilm)
	}

	roll := model.RollParameters{WidthCm: defaultRollWidthCm, BladeWidthCm: blade}
	if film != nil {
		roll = film.ToRollParameters(blade)
	}
	if o.rollWidth > 0 {
		roll.WidthCm = o.rollWidth
	}
	return film, roll, nil
}

func writeOutputs(o options, layout model.Layout, report engine.LayoutReport, stderr io.Writer, logger *slog.Logger) int {
	if o.pdfPath != "" {
		if err := export.ExportPDF(o.pdfPath, layout, report); err != nil {
			fmt.Fprintln(stderr, "Error writing PDF:", err)
			return 1
		}
		logger.Info("rollcut: cutting plan written", "path", o.pdfPath)
	}
	if o.labelsPath != "" {
		if err := export.ExportLabels(o.labelsPath, layout); err != nil {
			fmt.Fprintln(stderr, "Error writing labels:", err)
			return 1
		}
		logger.Info("rollcut: labels written", "path", o.labelsPath)
	}
	return 0
}

// describeError turns an optimizer error into a message for the person
// preparing the quote.
func describeError(err error) string {
	var tooWide *engine.PieceTooWideError
	var tooMany *engine.TooManyPiecesError
	var badDemand *engine.InvalidDemandError
	var badRoll *engine.InvalidRollError

	switch {
	case errors.As(err, &badRoll):
		return fmt.Sprintf("The roll settings are invalid: %v", badRoll.Err)
	case errors.As(err, &badDemand):
		return fmt.Sprintf("Line item %d (%s) is invalid: %s", badDemand.Index+1, badDemand.Label, badDemand.Reason)
	case errors.As(err, &tooWide):
		return fmt.Sprintf("Some pieces do not fit across a %.0f cm roll. Split them or choose a wider film:\n%v",
			tooWide.RollWidthCm, err)
	case errors.As(err, &tooMany):
		return fmt.Sprintf("The list expands to %d pieces, above the limit of %d. Split the quote or raise -max-pieces.",
			tooMany.Count, tooMany.Limit)
	}
	return "Error: " + err.Error()
}

func printReport(w io.Writer, rep engine.LayoutReport) {
	fmt.Fprintf(w, "Roll %.1f cm, blade %.1f cm\n", rep.RollWidthCm, rep.BladeWidthCm)
	fmt.Fprintf(w, "Rows: %d  Pieces: %d  Length: %.2f m  Efficiency: %s\n",
		rep.RowCount, rep.PieceCount, rep.TotalLengthM, rep.EfficiencyLabel)
	if rep.RowCount == 0 {
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, r := range rep.Rows {
		fmt.Fprintf(tw, "\nRow %d\ty %.1f cm\theight %.1f cm\tused %.1f cm\tremnant %.1f cm\n",
			r.Index+1, r.YCm, r.HeightCm, r.UsedWidthCm, r.RemnantWidthCm)
		for _, p := range r.Pieces {
			fmt.Fprintf(tw, "  %s\t%s\t%.1f x %.1f\tx %.1f\t\n", p.ID, p.Label, p.WidthCm, p.HeightCm, p.XCm)
		}
	}
	tw.Flush()
}

func printPurchase(w io.Writer, demands []model.PieceDemand, roll model.RollParameters, film *model.FilmRoll, wastePercent float64) {
	price := 0.0
	if film != nil {
		price = film.PricePerMetre
	}
	est := model.CalculateFilmEstimate(demands, roll, wastePercent, price)
	if est.MinLengthCm == 0 {
		return
	}
	fmt.Fprintf(w, "\nArea estimate: at least %.2f m, buy %.1f m with %.0f%% waste", est.MinLengthCm/100, est.MetresToBuy, wastePercent)
	if price > 0 {
		fmt.Fprintf(w, " (about %.2f)", est.EstimatedCost)
	}
	fmt.Fprintln(w)
}

func printRetalhos(w io.Writer, layout model.Layout, film model.FilmRoll, settings model.CutSettings) {
	usable := model.UsableRemnants(layout, settings.MinRemnantWidthCm, settings.MinRemnantHeightCm)
	if len(usable) == 0 {
		return
	}
	fmt.Fprintf(w, "\nReusable remnants (%s):\n", film.Name)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, rem := range usable {
		ret := rem.ToRetalho(film, "")
		fmt.Fprintf(tw, "  Row %d\t%.1f x %.1f cm\tvalue %.2f\n", rem.RowIndex+1, ret.WidthCm, ret.HeightCm, ret.Value)
	}
	tw.Flush()
}

func printComparison(w io.Writer, results []engine.ComparisonResult) {
	fmt.Fprintln(w, "\nScenario comparison:")
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "  Scenario\tRows\tLength (m)\tFilm (m²)\tEfficiency\t")
	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(tw, "  %s\t-\t-\t-\t%s\t\n", r.Scenario.Name, shortReason(r.Err))
			continue
		}
		fmt.Fprintf(tw, "  %s\t%d\t%.2f\t%.2f\t%s\t\n", r.Scenario.Name, r.RowCount,
			r.TotalLengthCm/100, r.ConsumedAreaM2, engine.EfficiencyLabel(r.Layout))
	}
	tw.Flush()

	if best, ok := engine.BestScenario(results); ok {
		fmt.Fprintf(w, "Least film: %s\n", best.Scenario.Name)
	}
}

func shortReason(err error) string {
	var tooWide *engine.PieceTooWideError
	if errors.As(err, &tooWide) {
		return "pieces too wide"
	}
	return "failed"
}
