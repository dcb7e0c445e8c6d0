package engine

import "github.com/piwi3910/RollCut/internal/model"

// Assemble stacks rows along the roll in the given order and computes the
// layout metrics. Each row consumes its height plus one blade allowance.
// Efficiency is used row area over consumed roll area; with no rows it is
// not applicable rather than zero.
func Assemble(rows []model.Row, roll model.RollParameters) model.Layout {
	layout := model.Layout{
		Roll:     roll,
		Rows:     make([]model.Row, 0, len(rows)),
		Remnants: []model.Remnant{},
	}

	var y, usedArea float64
	for i, r := range rows {
		r.Index = i
		r.YCm = y
		layout.Rows = append(layout.Rows, r)
		usedArea += r.UsedWidthCm * r.HeightCm

		if r.RemnantWidthCm > 0 {
			layout.Remnants = append(layout.Remnants, model.Remnant{
				RowIndex: i,
				XCm:      r.UsedWidthCm,
				YCm:      y,
				WidthCm:  r.RemnantWidthCm,
				HeightCm: r.HeightCm,
			})
		}
		y += r.HeightCm + roll.BladeWidthCm
	}
	layout.TotalLengthCm = y

	consumed := roll.WidthCm * y
	if len(rows) > 0 && consumed > 0 {
		layout.EfficiencyPercent = clamp(usedArea/consumed*100.0, 0, 100)
		layout.EfficiencyApplicable = true
	}
	return layout
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
