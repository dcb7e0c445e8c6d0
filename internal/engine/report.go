package engine

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/piwi3910/RollCut/internal/model"
)

// NotApplicable is the efficiency label of an empty layout.
const NotApplicable = "N/A"

// LayoutReport is the UI-agnostic summary of a layout handed to callers.
type LayoutReport struct {
	RowCount             int              `json:"row_count"`
	PieceCount           int              `json:"piece_count"`
	RollWidthCm          float64          `json:"roll_width_cm"`
	BladeWidthCm         float64          `json:"blade_width_cm"`
	TotalLengthCm        float64          `json:"total_length_cm"`
	TotalLengthM         float64          `json:"total_length_m"`
	EfficiencyPercent    float64          `json:"efficiency_percent"`
	EfficiencyApplicable bool             `json:"efficiency_applicable"`
	EfficiencyLabel      string           `json:"efficiency_label"` // "99.0%" or "N/A"
	PieceAreaM2          float64          `json:"piece_area_m2"`
	Rows                 []RowReport      `json:"rows"`
	Remnants             []RemnantReport  `json:"remnants"`
	UsableRemnantAreaM2  float64          `json:"usable_remnant_area_m2"`
	Utilization          UtilizationStats `json:"utilization"`
}

// RowReport lists one row and the pieces cut from it.
type RowReport struct {
	Index              int           `json:"index"`
	YCm                float64       `json:"y_cm"`
	HeightCm           float64       `json:"height_cm"`
	UsedWidthCm        float64       `json:"used_width_cm"`
	RemnantWidthCm     float64       `json:"remnant_width_cm"`
	UtilizationPercent float64       `json:"utilization_percent"`
	Pieces             []PieceReport `json:"pieces"`
}

// PieceReport locates one piece on the roll.
type PieceReport struct {
	ID       string  `json:"id"`
	DemandID string  `json:"demand_id"`
	Label    string  `json:"label"`
	WidthCm  float64 `json:"width_cm"`
	HeightCm float64 `json:"height_cm"`
	XCm      float64 `json:"x_cm"`
	YCm      float64 `json:"y_cm"`
}

// RemnantReport is a remnant plus whether it clears the reuse thresholds.
type RemnantReport struct {
	model.Remnant
	Usable bool `json:"usable"`
}

// UtilizationStats summarises row width utilization across the layout.
type UtilizationStats struct {
	MeanPercent   float64 `json:"mean_percent"`
	StdDevPercent float64 `json:"stddev_percent"`
	MinPercent    float64 `json:"min_percent"`
}

// Report summarises a layout for display. settings supplies the minimum
// remnant size used to flag reusable remnants.
func Report(layout model.Layout, settings model.CutSettings) LayoutReport {
	rep := LayoutReport{
		RowCount:             len(layout.Rows),
		PieceCount:           layout.PieceCount(),
		RollWidthCm:          layout.Roll.WidthCm,
		BladeWidthCm:         layout.Roll.BladeWidthCm,
		TotalLengthCm:        layout.TotalLengthCm,
		TotalLengthM:         layout.TotalLengthCm / 100.0,
		EfficiencyPercent:    layout.EfficiencyPercent,
		EfficiencyApplicable: layout.EfficiencyApplicable,
		EfficiencyLabel:      EfficiencyLabel(layout),
		Rows:                 make([]RowReport, 0, len(layout.Rows)),
		Remnants:             make([]RemnantReport, 0, len(layout.Remnants)),
	}

	utilization := make([]float64, 0, len(layout.Rows))
	pieceAreas := make([]float64, 0, len(layout.Rows))
	for _, r := range layout.Rows {
		rr := RowReport{
			Index:              r.Index,
			YCm:                r.YCm,
			HeightCm:           r.HeightCm,
			UsedWidthCm:        r.UsedWidthCm,
			RemnantWidthCm:     r.RemnantWidthCm,
			UtilizationPercent: r.WidthUtilization(layout.Roll.WidthCm),
			Pieces:             make([]PieceReport, 0, len(r.Placements)),
		}
		for _, p := range r.Placements {
			rr.Pieces = append(rr.Pieces, PieceReport{
				ID:       p.Piece.ID,
				DemandID: p.Piece.DemandID,
				Label:    p.Piece.Label,
				WidthCm:  p.Piece.WidthCm,
				HeightCm: p.Piece.HeightCm,
				XCm:      p.XCm,
				YCm:      r.YCm,
			})
		}
		rep.Rows = append(rep.Rows, rr)
		utilization = append(utilization, rr.UtilizationPercent)
		pieceAreas = append(pieceAreas, r.PieceArea())
	}
	rep.PieceAreaM2 = floats.Sum(pieceAreas) / 10000.0

	var usableArea []float64
	for _, rem := range layout.Remnants {
		usable := rem.IsUsable(settings.MinRemnantWidthCm, settings.MinRemnantHeightCm)
		rep.Remnants = append(rep.Remnants, RemnantReport{Remnant: rem, Usable: usable})
		if usable {
			usableArea = append(usableArea, rem.Area())
		}
	}
	rep.UsableRemnantAreaM2 = floats.Sum(usableArea) / 10000.0

	if len(utilization) > 0 {
		mean, std := stat.PopMeanStdDev(utilization, nil)
		rep.Utilization = UtilizationStats{
			MeanPercent:   mean,
			StdDevPercent: std,
			MinPercent:    floats.Min(utilization),
		}
	}
	return rep
}

// EfficiencyLabel formats the layout efficiency for display.
func EfficiencyLabel(layout model.Layout) string {
	if !layout.EfficiencyApplicable {
		return NotApplicable
	}
	return fmt.Sprintf("%.1f%%", layout.EfficiencyPercent)
}
