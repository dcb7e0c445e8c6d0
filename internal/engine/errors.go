package engine

import (
	"fmt"

	"github.com/piwi3910/RollCut/internal/model"
)

// PieceTooWideError reports a demand that cannot fit across the roll.
// The whole batch is rejected; nothing is packed partially.
type PieceTooWideError struct {
	DemandID    string
	Label       string
	WidthCm     float64
	RollWidthCm float64
}

func (e *PieceTooWideError) Error() string {
	return fmt.Sprintf("piece %q (%s) is %.1f cm wide but the roll is only %.1f cm",
		e.Label, e.DemandID, e.WidthCm, e.RollWidthCm)
}

// UnpackableInstanceError means an instance wider than the roll reached the
// row builder. Normalize filters these, so seeing one is a caller bug.
type UnpackableInstanceError struct {
	Instance    model.PieceInstance
	RollWidthCm float64
}

func (e *UnpackableInstanceError) Error() string {
	return fmt.Sprintf("instance %s is %.1f cm wide and cannot be packed on a %.1f cm roll",
		e.Instance.ID, e.Instance.WidthCm, e.RollWidthCm)
}

// TooManyPiecesError is returned before packing when the expanded piece
// count exceeds the configured limit.
type TooManyPiecesError struct {
	Count int
	Limit int
}

func (e *TooManyPiecesError) Error() string {
	return fmt.Sprintf("%d pieces requested, limit is %d", e.Count, e.Limit)
}

// InvalidDemandError reports a demand with non-positive dimensions or quantity.
type InvalidDemandError struct {
	Index    int
	DemandID string
	Label    string
	Reason   string
}

func (e *InvalidDemandError) Error() string {
	return fmt.Sprintf("demand %d (%q): %s", e.Index+1, e.Label, e.Reason)
}

// InvalidRollError wraps a roll parameter validation failure.
type InvalidRollError struct {
	Err error
}

func (e *InvalidRollError) Error() string {
	return "invalid roll: " + e.Err.Error()
}

func (e *InvalidRollError) Unwrap() error {
	return e.Err
}
