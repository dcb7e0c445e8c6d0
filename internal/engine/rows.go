package engine

import (
	"math"

	"github.com/piwi3910/RollCut/internal/model"
)

// epsilon absorbs floating point noise in centimetre arithmetic.
const epsilon = 1e-6

// sizeClass groups interchangeable instances.
type sizeClass struct {
	w, h float64
}

func classOf(p model.PieceInstance) sizeClass {
	return sizeClass{w: p.WidthCm, h: p.HeightCm}
}

// BuildRows packs instances into rows across the roll using best-fit
// complementary packing:
//
//  1. The widest remaining instance anchors a new row.
//  2. The widest remaining instance that still fits (current used width,
//     plus one blade allowance, plus its width) is added, repeatedly, until
//     nothing fits. Ties on width go to the height closest to the anchor,
//     then to the size class with the fewest pieces left (so odd pieces do
//     not end up unpaired), then to pool order.
//
// This pairs a 70 cm and an 80 cm piece on a 152 cm roll with a 2 cm blade
// instead of giving each width its own rows. It is a greedy heuristic and
// does not guarantee the minimum number of rows: {50, 40, 30, 30, 25, 25} on
// a 100 cm roll with no blade yields 3 rows where {50,25,25} and {40,30,30}
// would need only 2.
func BuildRows(instances []model.PieceInstance, roll model.RollParameters) ([]model.Row, error) {
	for _, inst := range instances {
		if inst.WidthCm > roll.WidthCm+epsilon || inst.WidthCm <= 0 {
			return nil, &UnpackableInstanceError{Instance: inst, RollWidthCm: roll.WidthCm}
		}
	}

	pool := make([]model.PieceInstance, len(instances))
	copy(pool, instances)
	remaining := make(map[sizeClass]int)
	for _, inst := range pool {
		remaining[classOf(inst)]++
	}

	var rows []model.Row
	for len(pool) > 0 {
		ai := widestIndex(pool)
		anchor := pool[ai]
		pool = removeAt(pool, ai)
		remaining[classOf(anchor)]--

		row := model.Row{
			Index:      len(rows),
			Placements: []model.Placement{{Piece: anchor, XCm: 0}},
			HeightCm:   anchor.HeightCm,
		}
		used := anchor.WidthCm

		for {
			space := roll.WidthCm - used - roll.BladeWidthCm
			ci := bestCandidate(pool, remaining, anchor.HeightCm, space)
			if ci < 0 {
				break
			}
			c := pool[ci]
			x := used + roll.BladeWidthCm
			row.Placements = append(row.Placements, model.Placement{Piece: c, XCm: x})
			used = x + c.WidthCm
			row.HeightCm = math.Max(row.HeightCm, c.HeightCm)
			pool = removeAt(pool, ci)
			remaining[classOf(c)]--
		}

		row.UsedWidthCm = used
		row.RemnantWidthCm = roll.WidthCm - used
		if row.RemnantWidthCm < epsilon {
			row.RemnantWidthCm = 0
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// widestIndex returns the first instance of maximum width.
func widestIndex(pool []model.PieceInstance) int {
	best := 0
	for i := 1; i < len(pool); i++ {
		if pool[i].WidthCm > pool[best].WidthCm+epsilon {
			best = i
		}
	}
	return best
}

// bestCandidate returns the index of the instance to add next, or -1 when
// no instance fits in space.
func bestCandidate(pool []model.PieceInstance, remaining map[sizeClass]int, anchorHeight, space float64) int {
	if space < -epsilon {
		return -1
	}
	best := -1
	for i, c := range pool {
		if c.WidthCm > space+epsilon {
			continue
		}
		if best < 0 || betterCandidate(c, pool[best], remaining, anchorHeight) {
			best = i
		}
	}
	return best
}

// betterCandidate reports whether a strictly beats b. Equal candidates keep
// the earlier one, which gives pool order as the final tie-break.
func betterCandidate(a, b model.PieceInstance, remaining map[sizeClass]int, anchorHeight float64) bool {
	if math.Abs(a.WidthCm-b.WidthCm) > epsilon {
		return a.WidthCm > b.WidthCm
	}
	da := math.Abs(a.HeightCm - anchorHeight)
	db := math.Abs(b.HeightCm - anchorHeight)
	if math.Abs(da-db) > epsilon {
		return da < db
	}
	return remaining[classOf(a)] < remaining[classOf(b)]
}

func removeAt(pool []model.PieceInstance, i int) []model.PieceInstance {
	return append(pool[:i], pool[i+1:]...)
}
