// Package export writes optimized roll layouts to PDF cutting plans,
// QR-coded piece labels and JSON reports.
package export

import (
	"fmt"
	"math"

	"github.com/go-pdf/fpdf"

	"github.com/piwi3910/RollCut/internal/engine"
	"github.com/piwi3910/RollCut/internal/model"
)

// pieceColor represents an RGB color for a placed piece.
type pieceColor struct {
	R, G, B int
}

// pieceColors is cycled per demand so copies of the same piece share a color.
var pieceColors = []pieceColor{
	{R: 76, G: 175, B: 80},  // green
	{R: 33, G: 150, B: 243}, // blue
	{R: 255, G: 152, B: 0},  // orange
	{R: 156, G: 39, B: 176}, // purple
	{R: 0, G: 188, B: 212},  // cyan
	{R: 244, G: 67, B: 54},  // red
	{R: 255, G: 235, B: 59}, // yellow
	{R: 121, G: 85, B: 72},  // brown
}

// Page layout constants (A4 portrait in mm). The roll runs down the page.
const (
	pageWidth    = 210.0
	pageHeight   = 297.0
	marginLeft   = 18.0
	marginRight  = 12.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0
	footerHeight = 10.0
	drawAreaTop  = marginTop + headerHeight + 8.0
	drawWidth    = pageWidth - marginLeft - marginRight
	drawHeight   = pageHeight - drawAreaTop - marginBottom - footerHeight
)

// ExportPDF generates a cutting plan: the roll drawn to scale with rows
// stacked along its length over as many pages as needed, followed by a
// summary page with totals and the remnant list.
func ExportPDF(path string, layout model.Layout, report engine.LayoutReport) error {
	if len(layout.Rows) == 0 {
		return fmt.Errorf("no rows to export")
	}
	if layout.Roll.WidthCm <= 0 {
		return fmt.Errorf("invalid roll width %.1f cm", layout.Roll.WidthCm)
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	scale := drawScale(layout)
	pages := paginateRows(layout.Rows, layout.Roll.BladeWidthCm, drawHeight/scale)
	colors := demandColors(layout)

	for i, rows := range pages {
		pdf.AddPage()
		renderRollPage(pdf, tr, layout, rows, colors, scale, i+1, len(pages))
	}

	pdf.AddPage()
	renderSummaryPage(pdf, tr, report)

	return pdf.OutputFileAndClose(path)
}

// drawScale returns millimetres of paper per centimetre of film. The roll
// width fills the drawing width unless the tallest row would not fit a page.
func drawScale(layout model.Layout) float64 {
	scale := drawWidth / layout.Roll.WidthCm
	for _, r := range layout.Rows {
		span := r.HeightCm + layout.Roll.BladeWidthCm
		if span > 0 {
			scale = math.Min(scale, drawHeight/span)
		}
	}
	return scale
}

// paginateRows splits rows into pages holding at most spanCm of roll length.
// A page always holds at least one row.
func paginateRows(rows []model.Row, bladeCm, spanCm float64) [][]model.Row {
	var pages [][]model.Row
	var current []model.Row
	used := 0.0
	for _, r := range rows {
		need := r.HeightCm + bladeCm
		if len(current) > 0 && used+need > spanCm+1e-9 {
			pages = append(pages, current)
			current, used = nil, 0
		}
		current = append(current, r)
		used += need
	}
	if len(current) > 0 {
		pages = append(pages, current)
	}
	return pages
}

// demandColors assigns colors by first appearance of each demand.
func demandColors(layout model.Layout) map[string]pieceColor {
	colors := make(map[string]pieceColor)
	for _, inst := range layout.Instances() {
		if _, ok := colors[inst.DemandID]; !ok {
			colors[inst.DemandID] = pieceColors[len(colors)%len(pieceColors)]
		}
	}
	return colors
}

// renderRollPage draws a slice of the roll on the current PDF page.
func renderRollPage(pdf *fpdf.Fpdf, tr func(string) string, layout model.Layout, rows []model.Row,
	colors map[string]pieceColor, scale float64, pageNum, pageCount int) {
	roll := layout.Roll
	first, last := rows[0], rows[len(rows)-1]

	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginLeft, marginTop)
	title := fmt.Sprintf("Roll %.0f cm - page %d of %d", roll.WidthCm, pageNum, pageCount)
	pdf.CellFormat(drawWidth, headerHeight, title, "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	pdf.SetXY(marginLeft, marginTop+headerHeight)
	stats := fmt.Sprintf("Rows %d-%d | %.1f to %.1f cm along the roll | Blade %.1f cm",
		first.Index+1, last.Index+1, first.YCm, last.YCm+last.HeightCm, roll.BladeWidthCm)
	pdf.CellFormat(drawWidth, 5, stats, "", 0, "L", false, 0, "")

	originY := first.YCm
	canvasW := roll.WidthCm * scale
	canvasH := (last.YCm + last.HeightCm + roll.BladeWidthCm - originY) * scale
	offsetX := marginLeft + (drawWidth-canvasW)/2
	offsetY := drawAreaTop

	// Film background
	pdf.SetFillColor(225, 235, 242)
	pdf.SetDrawColor(100, 100, 100)
	pdf.SetLineWidth(0.4)
	pdf.Rect(offsetX, offsetY, canvasW, canvasH, "FD")

	for _, r := range rows {
		rowY := offsetY + (r.YCm-originY)*scale

		for _, p := range r.Placements {
			col := colors[p.Piece.DemandID]
			px := offsetX + p.XCm*scale
			pw := p.Piece.WidthCm * scale
			ph := p.Piece.HeightCm * scale

			pdf.SetFillColor(col.R, col.G, col.B)
			pdf.SetDrawColor(30, 30, 30)
			pdf.SetLineWidth(0.3)
			pdf.Rect(px, rowY, pw, ph, "FD")
			drawPieceLabel(pdf, tr, p.Piece, px, rowY, pw, ph)
		}

		if r.RemnantWidthCm > 0 {
			rx := offsetX + r.UsedWidthCm*scale
			rw := r.RemnantWidthCm * scale
			rh := r.HeightCm * scale
			pdf.SetFillColor(240, 240, 240)
			pdf.SetDrawColor(150, 150, 150)
			pdf.SetLineWidth(0.2)
			pdf.Rect(rx, rowY, rw, rh, "FD")
			drawHatchPattern(pdf, rx, rowY, rw, rh)
		}

		// Guillotine cut under the row
		cutY := rowY + (r.HeightCm+roll.BladeWidthCm/2)*scale
		pdf.SetDrawColor(200, 0, 0)
		pdf.SetLineWidth(0.2)
		pdf.SetDashPattern([]float64{1.5, 1}, 0)
		pdf.Line(offsetX, cutY, offsetX+canvasW, cutY)
		pdf.SetDashPattern([]float64{}, 0)

		pdf.SetFont("Helvetica", "B", 7)
		pdf.SetTextColor(80, 80, 80)
		pdf.SetXY(marginLeft-12, rowY+math.Min(r.HeightCm*scale/2, 10)-2)
		pdf.CellFormat(10, 4, fmt.Sprintf("R%d", r.Index+1), "", 0, "R", false, 0, "")
	}

	drawWidthAnnotation(pdf, roll, offsetX, offsetY, canvasW)

	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.SetXY(marginLeft, pageHeight-marginBottom-4)
	pdf.CellFormat(drawWidth, 4, "Red dashed lines are cross cuts. Hatched areas are remnants.", "", 0, "C", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
}

// drawPieceLabel writes the piece label and size inside its rectangle when
// there is room.
func drawPieceLabel(pdf *fpdf.Fpdf, tr func(string) string, piece model.PieceInstance, px, py, pw, ph float64) {
	if pw < 12 || ph < 6 {
		return
	}
	pdf.SetFont("Helvetica", "", labelFontSize(pw, ph))
	pdf.SetTextColor(0, 0, 0)

	label := tr(piece.Label)
	dims := fmt.Sprintf("%.0fx%.0f", piece.WidthCm, piece.HeightCm)
	labelW := pdf.GetStringWidth(label)
	dimsW := pdf.GetStringWidth(dims)

	if labelW < pw-2 {
		pdf.SetXY(px+(pw-labelW)/2, py+ph/2-4)
		pdf.CellFormat(labelW, 4, label, "", 0, "C", false, 0, "")
	}
	if ph > 12 && dimsW < pw-2 {
		pdf.SetXY(px+(pw-dimsW)/2, py+ph/2)
		pdf.CellFormat(dimsW, 4, dims, "", 0, "C", false, 0, "")
	}
}

// drawHatchPattern draws diagonal lines inside a rectangle to mark remnants.
func drawHatchPattern(pdf *fpdf.Fpdf, x, y, w, h float64) {
	pdf.SetDrawColor(160, 160, 160)
	pdf.SetLineWidth(0.15)

	spacing := 3.0
	for d := spacing; d < w+h; d += spacing {
		x1 := x + math.Max(0, d-h)
		y1 := y + math.Min(h, d)
		x2 := x + math.Min(w, d)
		y2 := y + math.Max(0, d-w)
		pdf.Line(x1, y1, x2, y2)
	}
}

// drawWidthAnnotation labels the roll width above the drawing.
func drawWidthAnnotation(pdf *fpdf.Fpdf, roll model.RollParameters, offsetX, offsetY, canvasW float64) {
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(80, 80, 80)

	label := fmt.Sprintf("%.1f cm", roll.WidthCm)
	w := pdf.GetStringWidth(label)
	pdf.SetXY(offsetX+(canvasW-w)/2, offsetY-5)
	pdf.CellFormat(w, 4, label, "", 0, "C", false, 0, "")

	pdf.SetDrawColor(80, 80, 80)
	pdf.SetLineWidth(0.2)
	pdf.Line(offsetX, offsetY-1, offsetX+canvasW, offsetY-1)
	pdf.SetTextColor(0, 0, 0)
}

// renderSummaryPage draws the totals and the remnant table.
func renderSummaryPage(pdf *fpdf.Fpdf, tr func(string) string, report engine.LayoutReport) {
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(drawWidth, 10, "Roll Cutting Summary", "", 0, "L", false, 0, "")

	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.5)
	pdf.Line(marginLeft, marginTop+12, pageWidth-marginRight, marginTop+12)

	y := marginTop + 18

	summaryItems := []struct {
		label string
		value string
	}{
		{"Roll Width", fmt.Sprintf("%.1f cm", report.RollWidthCm)},
		{"Blade Allowance", fmt.Sprintf("%.1f cm", report.BladeWidthCm)},
		{"Rows", fmt.Sprintf("%d", report.RowCount)},
		{"Pieces", fmt.Sprintf("%d", report.PieceCount)},
		{"Roll Length", fmt.Sprintf("%.2f m", report.TotalLengthM)},
		{"Efficiency", report.EfficiencyLabel},
		{"Piece Area", fmt.Sprintf("%.2f m²", report.PieceAreaM2)},
		{"Usable Remnant Area", fmt.Sprintf("%.2f m²", report.UsableRemnantAreaM2)},
		{"Mean Row Utilization", fmt.Sprintf("%.1f%% (min %.1f%%)", report.Utilization.MeanPercent, report.Utilization.MinPercent)},
	}

	pdf.SetFont("Helvetica", "", 10)
	for _, item := range summaryItems {
		pdf.SetXY(marginLeft+5, y)
		pdf.CellFormat(60, 6, item.label+":", "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(60, 6, tr(item.value), "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		y += 7
	}

	y += 5
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Remnants", "", 0, "L", false, 0, "")
	y += 9

	if len(report.Remnants) == 0 {
		pdf.SetFont("Helvetica", "I", 10)
		pdf.SetXY(marginLeft+5, y)
		pdf.CellFormat(100, 6, "No remnants: every row uses the full roll width.", "", 0, "L", false, 0, "")
		renderFooter(pdf)
		return
	}

	colWidths := []float64{18, 30, 30, 32, 32, 36}
	headers := []string{"Row", "X (cm)", "Y (cm)", "Width (cm)", "Height (cm)", "Reusable"}
	drawHeader := func() {
		pdf.SetFont("Helvetica", "B", 9)
		pdf.SetFillColor(230, 230, 230)
		xPos := marginLeft
		for i, header := range headers {
			pdf.SetXY(xPos, y)
			pdf.CellFormat(colWidths[i], 6, header, "1", 0, "C", true, 0, "")
			xPos += colWidths[i]
		}
		y += 6
		pdf.SetFont("Helvetica", "", 9)
	}
	drawHeader()

	for i, rem := range report.Remnants {
		if y+6 > pageHeight-marginBottom-footerHeight {
			renderFooter(pdf)
			pdf.AddPage()
			y = marginTop
			drawHeader()
		}
		usable := "no"
		if rem.Usable {
			usable = "yes"
		}
		rowData := []string{
			fmt.Sprintf("%d", rem.RowIndex+1),
			fmt.Sprintf("%.1f", rem.XCm),
			fmt.Sprintf("%.1f", rem.YCm),
			fmt.Sprintf("%.1f", rem.WidthCm),
			fmt.Sprintf("%.1f", rem.HeightCm),
			usable,
		}

		if i%2 == 0 {
			pdf.SetFillColor(245, 245, 245)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}
		xPos := marginLeft
		for j, cell := range rowData {
			pdf.SetXY(xPos, y)
			pdf.CellFormat(colWidths[j], 6, cell, "1", 0, "C", true, 0, "")
			xPos += colWidths[j]
		}
		y += 6
	}
	renderFooter(pdf)
}

func renderFooter(pdf *fpdf.Fpdf) {
	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.SetXY(marginLeft, pageHeight-marginBottom)
	pdf.CellFormat(drawWidth, 4, "Generated by RollCut - window film cutting planner", "", 0, "C", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
}

// labelFontSize returns an appropriate font size based on the rectangle dimensions.
func labelFontSize(w, h float64) float64 {
	minDim := math.Min(w, h)
	switch {
	case minDim > 40:
		return 8
	case minDim > 20:
		return 7
	default:
		return 6
	}
}
