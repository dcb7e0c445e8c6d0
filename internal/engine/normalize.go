package engine

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/piwi3910/RollCut/internal/model"
)

// Normalize validates demands against the roll and expands them into
// individual piece instances.
//
// Every demand wider than the roll is reported (joined into one error) and
// no instances are produced for the batch. The expanded count is checked
// against maxPieces (0 means model.DefaultMaxPieces) before anything is
// allocated. Instances come out grouped by height, tallest first, and by
// width descending within a height; ties keep input order.
func Normalize(demands []model.PieceDemand, roll model.RollParameters, maxPieces int) ([]model.PieceInstance, error) {
	if err := roll.Validate(); err != nil {
		return nil, &InvalidRollError{Err: err}
	}
	if maxPieces <= 0 {
		maxPieces = model.DefaultMaxPieces
	}

	var tooWide []error
	count := 0
	ids := make(map[string]bool, len(demands))
	for i, d := range demands {
		if reason := demandProblem(d); reason != "" {
			return nil, &InvalidDemandError{Index: i, DemandID: d.ID, Label: d.Label, Reason: reason}
		}
		if d.ID != "" {
			if ids[d.ID] {
				return nil, &InvalidDemandError{Index: i, DemandID: d.ID, Label: d.Label,
					Reason: fmt.Sprintf("duplicate demand id %q", d.ID)}
			}
			ids[d.ID] = true
		}
		if d.WidthCm > roll.WidthCm+epsilon {
			tooWide = append(tooWide, &PieceTooWideError{
				DemandID:    d.ID,
				Label:       d.Label,
				WidthCm:     d.WidthCm,
				RollWidthCm: roll.WidthCm,
			})
			continue
		}
		// Quantities are summed without expanding so huge inputs fail fast.
		if count > maxPieces-d.Quantity {
			count = maxPieces + 1
		} else {
			count += d.Quantity
		}
	}
	if len(tooWide) > 0 {
		return nil, errors.Join(tooWide...)
	}
	if count > maxPieces {
		return nil, &TooManyPiecesError{Count: totalQuantity(demands), Limit: maxPieces}
	}

	instances := make([]model.PieceInstance, 0, count)
	for i, d := range demands {
		if d.ID == "" {
			d.ID = generatedID(ids, i)
		}
		for n := 1; n <= d.Quantity; n++ {
			instances = append(instances, model.NewPieceInstance(d, n))
		}
	}

	sort.SliceStable(instances, func(i, j int) bool {
		a, b := instances[i], instances[j]
		if a.HeightCm != b.HeightCm {
			return a.HeightCm > b.HeightCm
		}
		return a.WidthCm > b.WidthCm
	})
	return instances, nil
}

// generatedID names the i-th demand "d<i+1>", suffixed when a caller
// already uses that id.
func generatedID(taken map[string]bool, i int) string {
	id := fmt.Sprintf("d%d", i+1)
	for n := 2; taken[id]; n++ {
		id = fmt.Sprintf("d%d_%d", i+1, n)
	}
	taken[id] = true
	return id
}

func demandProblem(d model.PieceDemand) string {
	switch {
	case math.IsNaN(d.WidthCm) || math.IsInf(d.WidthCm, 0):
		return "width must be a finite number"
	case math.IsNaN(d.HeightCm) || math.IsInf(d.HeightCm, 0):
		return "height must be a finite number"
	case d.WidthCm <= 0:
		return fmt.Sprintf("width must be positive, got %.2f cm", d.WidthCm)
	case d.HeightCm <= 0:
		return fmt.Sprintf("height must be positive, got %.2f cm", d.HeightCm)
	case d.Quantity < 1:
		return fmt.Sprintf("quantity must be at least 1, got %d", d.Quantity)
	}
	return ""
}

// totalQuantity sums quantities, saturating instead of overflowing.
func totalQuantity(demands []model.PieceDemand) int {
	const maxInt = int(^uint(0) >> 1)
	total := 0
	for _, d := range demands {
		if d.Quantity > maxInt-total {
			return maxInt
		}
		total += d.Quantity
	}
	return total
}
