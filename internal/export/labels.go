package export

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/go-pdf/fpdf"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/piwi3910/RollCut/internal/model"
)

// LabelInfo holds the data encoded into each piece label's QR code, so the
// installer can scan a cut piece and see which window it belongs to.
type LabelInfo struct {
	PieceID  string  `json:"id"`
	DemandID string  `json:"demand"`
	Label    string  `json:"label"`
	WidthCm  float64 `json:"w_cm"`
	HeightCm float64 `json:"h_cm"`
	Row      int     `json:"row"`
	XCm      float64 `json:"x_cm"`
	YCm      float64 `json:"y_cm"`
}

// Label layout constants for Avery 5160-compatible labels (3 columns, 10 rows per page).
// Each label cell is approximately 66.7mm x 25.4mm on US Letter paper.
const (
	labelMarginTop  = 12.7 // mm
	labelMarginLeft = 4.8  // mm
	labelWidth      = 66.7 // mm per label
	labelHeight     = 25.4 // mm per label
	labelCols       = 3
	labelRows       = 10
	labelsPerPage   = labelCols * labelRows
	qrSize          = 20.0 // QR code size in mm
	labelPadding    = 2.0  // mm internal padding
)

// ExportLabels generates a PDF of QR-coded labels, one per cut piece, in
// roll order. Labels are laid out on a standard label sheet format
// (Avery 5160 / 3 columns x 10 rows on US Letter).
func ExportLabels(path string, layout model.Layout) error {
	labels := CollectLabelInfos(layout)
	if len(labels) == 0 {
		return fmt.Errorf("no pieces placed to generate labels for")
	}

	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetAutoPageBreak(false, 0)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	for i, label := range labels {
		if i%labelsPerPage == 0 {
			pdf.AddPage()
		}

		posOnPage := i % labelsPerPage
		col := posOnPage % labelCols
		row := posOnPage / labelCols

		x := labelMarginLeft + float64(col)*labelWidth
		y := labelMarginTop + float64(row)*labelHeight

		if err := renderLabel(pdf, tr, x, y, label); err != nil {
			return fmt.Errorf("failed to render label for %q: %w", label.PieceID, err)
		}
	}

	return pdf.OutputFileAndClose(path)
}

// renderLabel draws a single label at the given position.
func renderLabel(pdf *fpdf.Fpdf, tr func(string) string, x, y float64, info LabelInfo) error {
	// Light border as a cutting guide
	pdf.SetDrawColor(200, 200, 200)
	pdf.SetLineWidth(0.1)
	pdf.Rect(x, y, labelWidth, labelHeight, "D")

	qrData, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("failed to marshal label info: %w", err)
	}

	qrPNG, err := qrcode.Encode(string(qrData), qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("failed to generate QR code: %w", err)
	}

	// Piece IDs are unique within a layout
	imgName := "qr_" + info.PieceID
	pdf.RegisterImageOptionsReader(imgName, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(qrPNG))

	qrX := x + labelWidth - qrSize - labelPadding
	qrY := y + (labelHeight-qrSize)/2
	pdf.ImageOptions(imgName, qrX, qrY, qrSize, qrSize, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")

	textX := x + labelPadding
	textW := labelWidth - qrSize - 3*labelPadding

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(textX, y+labelPadding)
	pdf.CellFormat(textW, 4.5, truncate(pdf, tr(info.Label), textW), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	pdf.SetXY(textX, y+labelPadding+5)
	dims := fmt.Sprintf("%.1f x %.1f cm", info.WidthCm, info.HeightCm)
	pdf.CellFormat(textW, 3.5, dims, "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 6)
	pdf.SetTextColor(100, 100, 100)
	pdf.SetXY(textX, y+labelPadding+9)
	pdf.CellFormat(textW, 3, fmt.Sprintf("Row %d @ (%.0f, %.0f) cm", info.Row, info.XCm, info.YCm), "", 1, "L", false, 0, "")

	pdf.SetXY(textX, y+labelPadding+12.5)
	pdf.CellFormat(textW, 3, info.PieceID, "", 0, "L", false, 0, "")

	pdf.SetTextColor(0, 0, 0)
	return nil
}

// truncate shortens s with an ellipsis until it fits width at the current font.
func truncate(pdf *fpdf.Fpdf, s string, width float64) string {
	if pdf.GetStringWidth(s) <= width {
		return s
	}
	for len(s) > 0 && pdf.GetStringWidth(s+"...") > width {
		s = s[:len(s)-1]
	}
	return s + "..."
}

// CollectLabelInfos extracts one label per placed piece in roll order.
func CollectLabelInfos(layout model.Layout) []LabelInfo {
	var labels []LabelInfo
	for _, r := range layout.Rows {
		for _, p := range r.Placements {
			labels = append(labels, LabelInfo{
				PieceID:  p.Piece.ID,
				DemandID: p.Piece.DemandID,
				Label:    p.Piece.Label,
				WidthCm:  p.Piece.WidthCm,
				HeightCm: p.Piece.HeightCm,
				Row:      r.Index + 1,
				XCm:      p.XCm,
				YCm:      r.YCm,
			})
		}
	}
	return labels
}
