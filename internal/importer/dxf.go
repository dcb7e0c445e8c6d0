package importer

import (
	"fmt"
	"math"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/entity"

	"github.com/piwi3910/RollCut/internal/model"
)

// dxfTolerance is the coordinate noise accepted when deciding whether a
// polyline is an axis-aligned rectangle, in drawing units.
const dxfTolerance = 0.01

// ImportDXF imports demands from a DXF drawing of window panes. Each
// axis-aligned rectangular LWPOLYLINE becomes a piece of its bounding-box
// size; identical sizes are merged into one demand with a quantity. Any
// other entity is skipped with a warning. Drawing units are converted with
// unit (centimetres when zero).
func ImportDXF(path string, unit Unit) ImportResult {
	result := ImportResult{}

	drawing, err := dxf.Open(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open DXF file: %v", err))
		return result
	}

	entities := drawing.Entities()
	if len(entities) == 0 {
		result.Errors = append(result.Errors, "DXF file contains no entities")
		return result
	}

	type size struct{ w, h float64 }
	index := make(map[size]int)
	skipped := 0

	for _, ent := range entities {
		lw, ok := ent.(*entity.LwPolyline)
		if !ok {
			skipped++
			continue
		}
		w, h, ok := rectangleSize(lw.Vertices, lw.Bulges)
		if !ok {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("Skipped non-rectangular polyline with %d vertices", len(lw.Vertices)))
			continue
		}

		key := size{w: unit.toCm(w), h: unit.toCm(h)}
		if i, seen := index[key]; seen {
			result.Demands[i].Quantity++
			continue
		}
		index[key] = len(result.Demands)
		label := fmt.Sprintf("DXF %.0fx%.0f", key.w, key.h)
		result.Demands = append(result.Demands, model.NewPieceDemand(label, key.w, key.h, 1))
	}

	if skipped > 0 {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Skipped %d entities that are not rectangular polylines", skipped))
	}
	if len(result.Demands) == 0 {
		result.Errors = append(result.Errors, "No rectangles found in DXF file")
	}
	return result
}

// rectangleSize returns the width and height of a closed axis-aligned
// rectangle given as four corners (optionally repeating the first one).
// Curved segments disqualify the shape.
func rectangleSize(vertices [][]float64, bulges []float64) (float64, float64, bool) {
	for _, b := range bulges {
		if math.Abs(b) > 1e-9 {
			return 0, 0, false
		}
	}
	if len(vertices) == 5 && close2D(vertices[0], vertices[4]) {
		vertices = vertices[:4]
	}
	if len(vertices) != 4 {
		return 0, 0, false
	}
	for _, v := range vertices {
		if len(v) < 2 {
			return 0, 0, false
		}
	}

	for i := range vertices {
		a, b := vertices[i], vertices[(i+1)%4]
		horizontal := math.Abs(a[1]-b[1]) <= dxfTolerance
		vertical := math.Abs(a[0]-b[0]) <= dxfTolerance
		if horizontal == vertical {
			// diagonal or zero-length edge
			return 0, 0, false
		}
	}

	minX, maxX := vertices[0][0], vertices[0][0]
	minY, maxY := vertices[0][1], vertices[0][1]
	for _, v := range vertices[1:] {
		minX, maxX = math.Min(minX, v[0]), math.Max(maxX, v[0])
		minY, maxY = math.Min(minY, v[1]), math.Max(maxY, v[1])
	}
	return round2(maxX - minX), round2(maxY - minY), true
}

func close2D(a, b []float64) bool {
	if len(a) < 2 || len(b) < 2 {
		return false
	}
	return math.Abs(a[0]-b[0]) <= dxfTolerance && math.Abs(a[1]-b[1]) <= dxfTolerance
}

// round2 removes float noise from drawing coordinates so equal panes merge.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
