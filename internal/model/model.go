package model

import (
	"fmt"
	"math"

	"github.com/google/uuid"
)

// PieceDemand is one measured line item: a rectangle of film needed in
// some quantity. Dimensions are in centimetres.
type PieceDemand struct {
	ID       string  `json:"id"`
	Label    string  `json:"label"`
	WidthCm  float64 `json:"width_cm"`  // across the roll
	HeightCm float64 `json:"height_cm"` // along the roll
	Quantity int     `json:"quantity"`
}

func NewPieceDemand(label string, w, h float64, qty int) PieceDemand {
	return PieceDemand{
		ID:       uuid.New().String()[:8],
		Label:    label,
		WidthCm:  w,
		HeightCm: h,
		Quantity: qty,
	}
}

// Area returns the film area of all requested copies in square cm.
func (d PieceDemand) Area() float64 {
	return d.WidthCm * d.HeightCm * float64(d.Quantity)
}

// PieceInstance is one physical cut expanded from a PieceDemand.
type PieceInstance struct {
	ID       string  `json:"id"`
	DemandID string  `json:"demand_id"`
	Label    string  `json:"label"`
	WidthCm  float64 `json:"width_cm"`
	HeightCm float64 `json:"height_cm"`
	Seq      int     `json:"seq"` // 1-based copy number within the demand
}

func NewPieceInstance(d PieceDemand, seq int) PieceInstance {
	return PieceInstance{
		ID:       fmt.Sprintf("%s-%d", d.ID, seq),
		DemandID: d.ID,
		Label:    d.Label,
		WidthCm:  d.WidthCm,
		HeightCm: d.HeightCm,
		Seq:      seq,
	}
}

// RollParameters describes the bobina being cut and the blade allowance.
type RollParameters struct {
	WidthCm      float64 `json:"width_cm"`
	BladeWidthCm float64 `json:"blade_width_cm"`
}

// Validate reports whether the roll can hold anything at all.
func (r RollParameters) Validate() error {
	switch {
	case !PositiveFinite(r.WidthCm):
		return fmt.Errorf("roll width must be positive, got %.2f cm", r.WidthCm)
	case math.IsNaN(r.BladeWidthCm) || math.IsInf(r.BladeWidthCm, 0):
		return fmt.Errorf("blade width must be a finite number, got %.2f cm", r.BladeWidthCm)
	case r.BladeWidthCm < 0:
		return fmt.Errorf("blade width must not be negative, got %.2f cm", r.BladeWidthCm)
	case r.BladeWidthCm >= r.WidthCm:
		return fmt.Errorf("blade width %.2f cm must be smaller than roll width %.2f cm", r.BladeWidthCm, r.WidthCm)
	}
	return nil
}

// PositiveFinite reports whether v is a usable dimension: a real number
// above zero. NaN and infinities fail every comparison-based check, so
// they are ruled out explicitly.
func PositiveFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v > 0
}

// Placement is a piece positioned across the roll inside its row.
type Placement struct {
	Piece PieceInstance `json:"piece"`
	XCm   float64       `json:"x_cm"` // offset from the left roll edge
}

// Row is one cross-roll cut line holding pieces side by side.
// UsedWidthCm counts one blade allowance between adjacent pieces, so a row
// of n pieces uses Σw + blade·(n−1). Nothing is cut after the last piece:
// a 70 cm and an 80 cm piece with a 2 cm blade fill a 152 cm roll exactly.
type Row struct {
	Index          int         `json:"index"`
	YCm            float64     `json:"y_cm"` // offset from the start of the roll
	Placements     []Placement `json:"placements"`
	UsedWidthCm    float64     `json:"used_width_cm"`
	RemnantWidthCm float64     `json:"remnant_width_cm"`
	HeightCm       float64     `json:"height_cm"`
}

// PieceArea returns the film area actually covered by pieces in square cm.
func (r Row) PieceArea() float64 {
	var total float64
	for _, p := range r.Placements {
		total += p.Piece.WidthCm * p.Piece.HeightCm
	}
	return total
}

// WidthUtilization returns the used fraction of the roll width as a percentage.
func (r Row) WidthUtilization(rollWidthCm float64) float64 {
	if rollWidthCm <= 0 {
		return 0
	}
	return (r.UsedWidthCm / rollWidthCm) * 100.0
}

// Remnant is an unused strip at the right end of a row: a retalho candidate.
type Remnant struct {
	RowIndex int     `json:"row_index"`
	XCm      float64 `json:"x_cm"`
	YCm      float64 `json:"y_cm"`
	WidthCm  float64 `json:"width_cm"`
	HeightCm float64 `json:"height_cm"`
}

// Area returns the remnant area in square cm.
func (r Remnant) Area() float64 {
	return r.WidthCm * r.HeightCm
}

// IsUsable reports whether the remnant meets both minimum dimensions.
func (r Remnant) IsUsable(minWidthCm, minHeightCm float64) bool {
	return r.WidthCm >= minWidthCm && r.HeightCm >= minHeightCm
}

// Layout is the complete result of one optimization run.
type Layout struct {
	Roll                 RollParameters `json:"roll"`
	Rows                 []Row          `json:"rows"`
	TotalLengthCm        float64        `json:"total_length_cm"`
	EfficiencyPercent    float64        `json:"efficiency_percent"`
	EfficiencyApplicable bool           `json:"efficiency_applicable"` // false for an empty layout
	Remnants             []Remnant      `json:"remnants"`
}

// PieceCount returns the number of placed pieces.
func (l Layout) PieceCount() int {
	n := 0
	for _, r := range l.Rows {
		n += len(r.Placements)
	}
	return n
}

// Instances returns every placed piece in row order.
func (l Layout) Instances() []PieceInstance {
	out := make([]PieceInstance, 0, l.PieceCount())
	for _, r := range l.Rows {
		for _, p := range r.Placements {
			out = append(out, p.Piece)
		}
	}
	return out
}

// Clone returns a deep copy so callers cannot alias shared slices.
func (l Layout) Clone() Layout {
	cp := l
	if l.Rows != nil {
		cp.Rows = make([]Row, len(l.Rows))
		for i, r := range l.Rows {
			cp.Rows[i] = r
			if r.Placements != nil {
				cp.Rows[i].Placements = make([]Placement, len(r.Placements))
				copy(cp.Rows[i].Placements, r.Placements)
			}
		}
	}
	if l.Remnants != nil {
		cp.Remnants = make([]Remnant, len(l.Remnants))
		copy(cp.Remnants, l.Remnants)
	}
	return cp
}

// DefaultMaxPieces caps the number of expanded instances per run.
const DefaultMaxPieces = 5000

// CutSettings holds optimizer configuration.
type CutSettings struct {
	BladeWidthCm       float64 `json:"blade_width_cm"`        // Sangria between adjacent pieces
	MaxPieces          int     `json:"max_pieces"`            // Guard against degenerate input, 0 = default
	MinRemnantWidthCm  float64 `json:"min_remnant_width_cm"`  // Narrower remnants are waste
	MinRemnantHeightCm float64 `json:"min_remnant_height_cm"` // Shorter remnants are waste
}

func DefaultSettings() CutSettings {
	return CutSettings{
		BladeWidthCm:       2.0,
		MaxPieces:          DefaultMaxPieces,
		MinRemnantWidthCm:  10.0,
		MinRemnantHeightCm: 10.0,
	}
}

// PieceLimit returns the effective instance cap.
func (s CutSettings) PieceLimit() int {
	if s.MaxPieces <= 0 {
		return DefaultMaxPieces
	}
	return s.MaxPieces
}

// Project ties a measurement list, roll and result together for save/load.
type Project struct {
	Name     string         `json:"name"`
	FilmID   string         `json:"film_id,omitempty"`
	Demands  []PieceDemand  `json:"demands"`
	Roll     RollParameters `json:"roll"`
	Settings CutSettings    `json:"settings"`
	Layout   *Layout        `json:"layout,omitempty"`
}

func NewProject() Project {
	s := DefaultSettings()
	return Project{
		Name:     "Untitled",
		Demands:  []PieceDemand{},
		Roll:     RollParameters{WidthCm: 152, BladeWidthCm: s.BladeWidthCm},
		Settings: s,
	}
}

// TotalDemandArea returns the film area of every requested piece in square cm.
func TotalDemandArea(demands []PieceDemand) float64 {
	var total float64
	for _, d := range demands {
		total += d.Area()
	}
	return total
}
