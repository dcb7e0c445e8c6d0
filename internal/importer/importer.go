// Package importer reads measurement lists (CSV, Excel and DXF) into piece
// demands. It supports automatic delimiter detection, English and Portuguese
// headers, decimal commas and per-column unit hints.
package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/piwi3910/RollCut/internal/model"
)

// ImportResult holds the results of an import operation.
type ImportResult struct {
	Demands  []model.PieceDemand
	Errors   []string
	Warnings []string
}

// Unit converts a measurement into centimetres. The zero value means the
// unit was not given and centimetres are assumed.
type Unit float64

const (
	Millimetres Unit = 0.1
	Centimetres Unit = 1
	Metres      Unit = 100
)

// ParseUnit accepts "mm", "cm" or "m" (case-insensitive).
func ParseUnit(s string) (Unit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "mm":
		return Millimetres, nil
	case "", "cm":
		return Centimetres, nil
	case "m":
		return Metres, nil
	}
	return 0, fmt.Errorf("unknown unit %q (want mm, cm or m)", s)
}

func (u Unit) String() string {
	switch u {
	case Millimetres:
		return "mm"
	case Metres:
		return "m"
	}
	return "cm"
}

// toCm converts v, rounding away float noise below a micrometre so that
// "0,7" metres is exactly 70 cm.
func (u Unit) toCm(v float64) float64 {
	if u == 0 {
		u = Centimetres
	}
	return math.Round(v*float64(u)*1e4) / 1e4
}

// ColumnMapping maps semantic column roles to their indices in the data.
// WidthUnit and HeightUnit are set when the header carries a unit hint
// such as "Largura (m)".
type ColumnMapping struct {
	Label      int
	Width      int
	Height     int
	Quantity   int
	WidthUnit  Unit
	HeightUnit Unit
}

type columnRole int

const (
	roleLabel columnRole = iota
	roleWidth
	roleHeight
	roleQuantity
)

// headerAliases lists accepted header names per role, lowercase and
// without accents.
var headerAliases = []struct {
	role    columnRole
	aliases []string
}{
	{roleLabel, []string{"label", "name", "part", "description", "desc", "piece", "item",
		"descricao", "peca", "ambiente", "local", "nome", "janela"}},
	{roleWidth, []string{"width", "w", "x", "largura", "larg", "l"}},
	{roleHeight, []string{"height", "h", "y", "length", "altura", "alt", "a", "comprimento", "comp"}},
	{roleQuantity, []string{"quantity", "qty", "count", "num", "amount", "pcs", "pieces",
		"quantidade", "qtd", "qtde", "quant"}},
}

// foldHeader lowercases a header cell and strips accents so "Descrição"
// matches "descricao".
func foldHeader(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return strings.ToLower(strings.TrimSpace(folded))
}

// splitUnitHint separates a trailing unit from a header name:
// "largura (m)", "width [mm]", "altura_cm" and "height cm" all carry one.
func splitUnitHint(header string) (string, Unit) {
	h := strings.TrimSpace(header)
	for _, pair := range [][2]string{{"(", ")"}, {"[", "]"}} {
		if strings.HasSuffix(h, pair[1]) {
			if open := strings.LastIndex(h, pair[0]); open > 0 {
				if u, err := ParseUnit(h[open+1 : len(h)-1]); err == nil {
					return strings.TrimSpace(h[:open]), u
				}
			}
		}
	}
	for _, sep := range []string{"_", " "} {
		if i := strings.LastIndex(h, sep); i > 0 {
			suffix := h[i+1:]
			if suffix != "" {
				if u, err := ParseUnit(suffix); err == nil {
					return strings.TrimSpace(h[:i]), u
				}
			}
		}
	}
	return h, 0
}

// DetectCSVDelimiter reads the file content and determines the most likely CSV delimiter.
// It tries comma, semicolon, tab, and pipe. The delimiter that produces the most
// consistent (non-one) column count across lines wins.
func DetectCSVDelimiter(data []byte) rune {
	candidates := []rune{',', ';', '\t', '|'}
	bestDelimiter := ','
	bestScore := 0

	for _, delim := range candidates {
		reader := csv.NewReader(bytes.NewReader(data))
		reader.Comma = delim
		reader.LazyQuotes = true
		reader.FieldsPerRecord = -1

		records, err := reader.ReadAll()
		if err != nil || len(records) < 1 {
			continue
		}

		firstCols := len(records[0])
		if firstCols < 2 {
			continue
		}

		score := 0
		for _, row := range records {
			if len(row) == firstCols {
				score++
			}
		}

		// Prefer delimiters with higher consistency and more columns
		weighted := score*10 + firstCols
		if weighted > bestScore {
			bestScore = weighted
			bestDelimiter = delim
		}
	}

	return bestDelimiter
}

// DetectColumns examines a header row and returns a ColumnMapping.
// Matching is case and accent insensitive. Returns the mapping and true if a
// header was detected, or a default positional mapping and false if not.
func DetectColumns(row []string) (ColumnMapping, bool) {
	mapping := ColumnMapping{Label: -1, Width: -1, Height: -1, Quantity: -1}

	isHeader := false
	for i, cell := range row {
		name, unit := splitUnitHint(foldHeader(cell))
		role, ok := lookupRole(name)
		if !ok {
			continue
		}
		isHeader = true
		switch role {
		case roleLabel:
			if mapping.Label == -1 {
				mapping.Label = i
			}
		case roleWidth:
			if mapping.Width == -1 {
				mapping.Width = i
				mapping.WidthUnit = unit
			}
		case roleHeight:
			if mapping.Height == -1 {
				mapping.Height = i
				mapping.HeightUnit = unit
			}
		case roleQuantity:
			if mapping.Quantity == -1 {
				mapping.Quantity = i
			}
		}
	}

	if !isHeader {
		// Positional: Label, Width, Height, Quantity
		return ColumnMapping{Label: 0, Width: 1, Height: 2, Quantity: 3}, false
	}
	return mapping, true
}

func lookupRole(name string) (columnRole, bool) {
	for _, entry := range headerAliases {
		for _, alias := range entry.aliases {
			if name == alias {
				return entry.role, true
			}
		}
	}
	return 0, false
}

// ParseNumber parses a measurement written either way: "0.70", "0,70",
// "1.234,5" or "1,234.5". Spaces are ignored.
func ParseNumber(s string) (float64, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), " ", "")
	lastComma := strings.LastIndex(s, ",")
	lastDot := strings.LastIndex(s, ".")
	switch {
	case lastComma >= 0 && lastDot >= 0 && lastComma > lastDot:
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	case lastComma >= 0 && lastDot >= 0:
		s = strings.ReplaceAll(s, ",", "")
	case lastComma >= 0:
		if strings.Count(s, ",") > 1 {
			return 0, fmt.Errorf("invalid number %q", s)
		}
		s = strings.Replace(s, ",", ".", 1)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	// ParseFloat accepts "NaN" and "Inf", which are never measurements
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("invalid number %q", s)
	}
	return v, nil
}

// getCell safely retrieves a cell value from a row by column index.
func getCell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// parseRow extracts a PieceDemand from a row using the given column mapping.
// Returns the demand and any error message.
func parseRow(row []string, mapping ColumnMapping, unit Unit, rowLabel string, count int) (model.PieceDemand, string) {
	label := getCell(row, mapping.Label)
	if label == "" {
		label = fmt.Sprintf("Piece %d", count+1)
	}

	widthStr := getCell(row, mapping.Width)
	if widthStr == "" {
		return model.PieceDemand{}, fmt.Sprintf("%s: Missing width value", rowLabel)
	}
	width, err := ParseNumber(widthStr)
	if err != nil {
		return model.PieceDemand{}, fmt.Sprintf("%s: Invalid width '%s'", rowLabel, widthStr)
	}

	heightStr := getCell(row, mapping.Height)
	if heightStr == "" {
		return model.PieceDemand{}, fmt.Sprintf("%s: Missing height value", rowLabel)
	}
	height, err := ParseNumber(heightStr)
	if err != nil {
		return model.PieceDemand{}, fmt.Sprintf("%s: Invalid height '%s'", rowLabel, heightStr)
	}

	qty := 1
	if qtyStr := getCell(row, mapping.Quantity); qtyStr != "" {
		qty, err = strconv.Atoi(qtyStr)
		if err != nil {
			return model.PieceDemand{}, fmt.Sprintf("%s: Invalid quantity '%s'", rowLabel, qtyStr)
		}
	}

	if !model.PositiveFinite(width) || !model.PositiveFinite(height) || qty <= 0 {
		return model.PieceDemand{}, fmt.Sprintf("%s: Width, height, and quantity must be positive", rowLabel)
	}

	widthUnit, heightUnit := unit, unit
	if mapping.WidthUnit != 0 {
		widthUnit = mapping.WidthUnit
	}
	if mapping.HeightUnit != 0 {
		heightUnit = mapping.HeightUnit
	}
	return model.NewPieceDemand(label, widthUnit.toCm(width), heightUnit.toCm(height), qty), ""
}

// isEmptyRow returns true if the row has no meaningful content.
func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// ImportFile picks the importer from the file extension.
func ImportFile(path string, unit Unit) ImportResult {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm", ".xls":
		return ImportExcel(path, unit)
	case ".dxf":
		return ImportDXF(path, unit)
	default:
		return ImportCSV(path, unit)
	}
}

// ImportCSV imports demands from a CSV file.
// It automatically detects the delimiter and maps columns by header names.
// Supports comma, semicolon, tab, and pipe delimiters.
func ImportCSV(path string, unit Unit) ImportResult {
	result := ImportResult{}

	data, err := os.ReadFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open file: %v", err))
		return result
	}

	if len(bytes.TrimSpace(data)) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	delimiter := DetectCSVDelimiter(data)
	var warnings []string
	if delimiter != ',' {
		delimName := map[rune]string{';': "semicolon", '\t': "tab", '|': "pipe"}[delimiter]
		warnings = append(warnings, fmt.Sprintf("Detected %s delimiter", delimName))
	}

	records, err := readCSV(bytes.NewReader(data), delimiter)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read CSV: %v", err))
		return result
	}
	if len(records) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	return importFromRows(records, "Line", unit, warnings)
}

// ImportCSVFromReader imports demands from a CSV reader with a known delimiter.
func ImportCSVFromReader(reader io.Reader, delimiter rune, unit Unit) ImportResult {
	result := ImportResult{}

	records, err := readCSV(reader, delimiter)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read CSV: %v", err))
		return result
	}
	if len(records) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	return importFromRows(records, "Line", unit, nil)
}

func readCSV(r io.Reader, delimiter rune) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.Comma = delimiter
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1
	return reader.ReadAll()
}

// ImportExcel imports demands from the first sheet of an Excel workbook.
func ImportExcel(path string, unit Unit) ImportResult {
	result := ImportResult{}

	f, err := excelize.OpenFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open Excel file: %v", err))
		return result
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		result.Errors = append(result.Errors, "Excel file has no sheets")
		return result
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read Excel data: %v", err))
		return result
	}

	if len(rows) == 0 {
		result.Errors = append(result.Errors, "Sheet is empty")
		return result
	}

	return importFromRows(rows, "Row", unit, nil)
}

// importFromRows is the shared import logic for both CSV and Excel data.
// It detects headers, maps columns, and parses each row into demands.
func importFromRows(rows [][]string, rowPrefix string, unit Unit, initialWarnings []string) ImportResult {
	result := ImportResult{
		Warnings: initialWarnings,
	}

	if len(rows) == 0 {
		result.Errors = append(result.Errors, "No data rows found")
		return result
	}

	mapping, hasHeader := DetectColumns(rows[0])
	startRow := 0
	if hasHeader {
		startRow = 1
		result.Warnings = append(result.Warnings, "Detected header row, skipping")

		missing := []string{}
		if mapping.Width == -1 {
			missing = append(missing, "Width")
		}
		if mapping.Height == -1 {
			missing = append(missing, "Height")
		}
		if len(missing) > 0 {
			result.Errors = append(result.Errors, fmt.Sprintf("Required columns not found in header: %s", strings.Join(missing, ", ")))
			return result
		}
		if mapping.Quantity == -1 {
			result.Warnings = append(result.Warnings, "No quantity column, assuming 1 of each")
		}
	} else if len(rows[0]) >= 3 {
		if _, err := ParseNumber(rows[0][1]); err != nil {
			// Unrecognized header over positional data
			startRow = 1
			result.Warnings = append(result.Warnings, "Detected header row, skipping")
		}
	}

	for i := startRow; i < len(rows); i++ {
		row := rows[i]
		if isEmptyRow(row) {
			continue
		}

		rowLabel := fmt.Sprintf("%s %d", rowPrefix, i+1)
		demand, errMsg := parseRow(row, mapping, unit, rowLabel, len(result.Demands))
		if errMsg != "" {
			result.Errors = append(result.Errors, errMsg)
			continue
		}
		result.Demands = append(result.Demands, demand)
	}

	if unit == 0 && mapping.WidthUnit == 0 && mapping.HeightUnit == 0 && looksLikeMetres(result.Demands) {
		result.Warnings = append(result.Warnings,
			"All dimensions are 10 or less; if the list is in metres, import it with unit m")
	}

	return result
}

// looksLikeMetres reports whether every dimension is small enough to be a
// metre value typed into a centimetre list.
func looksLikeMetres(demands []model.PieceDemand) bool {
	if len(demands) == 0 {
		return false
	}
	for _, d := range demands {
		if d.WidthCm > 10 || d.HeightCm > 10 {
			return false
		}
	}
	return true
}
