package model

import (
	"math"
	"testing"
)

func TestCalculateFilmEstimateBasic(t *testing.T) {
	demands := []PieceDemand{
		{Label: "Sala", WidthCm: 70, HeightCm: 200, Quantity: 3},
		{Label: "Sala", WidthCm: 80, HeightCm: 200, Quantity: 3},
	}
	roll := RollParameters{WidthCm: 152, BladeWidthCm: 2}
	est := CalculateFilmEstimate(demands, roll, 10, 45)

	// (70+80) * 3 * (200+2) = 90900 sq cm
	if math.Abs(est.TotalPieceArea-90900) > 1e-6 {
		t.Errorf("expected area 90900, got %.2f", est.TotalPieceArea)
	}
	if math.Abs(est.TotalAreaM2-9.09) > 1e-9 {
		t.Errorf("expected 9.09 m2, got %.4f", est.TotalAreaM2)
	}
	if math.Abs(est.MinLengthCm-90900.0/152.0) > 1e-9 {
		t.Errorf("unexpected min length %.4f", est.MinLengthCm)
	}
	if est.LengthWithWaste <= est.MinLengthCm {
		t.Error("waste factor should increase length")
	}
	if est.MetresToBuy*100 < est.LengthWithWaste {
		t.Errorf("metres to buy %.1f must cover %.1f cm", est.MetresToBuy, est.LengthWithWaste)
	}
	if math.Abs(est.EstimatedCost-est.MetresToBuy*45) > 1e-9 {
		t.Errorf("expected cost %.2f, got %.2f", est.MetresToBuy*45, est.EstimatedCost)
	}
	if !est.WidestPieceFits {
		t.Error("all pieces fit the roll")
	}
}

func TestCalculateFilmEstimateTallPieceFloor(t *testing.T) {
	// One narrow, very tall piece: area bound is tiny but length can't be below its height
	demands := []PieceDemand{{WidthCm: 10, HeightCm: 300, Quantity: 1}}
	est := CalculateFilmEstimate(demands, RollParameters{WidthCm: 152, BladeWidthCm: 2}, 0, 0)
	if est.MinLengthCm != 302 {
		t.Errorf("expected min length 302, got %.2f", est.MinLengthCm)
	}
}

func TestCalculateFilmEstimateTooWide(t *testing.T) {
	demands := []PieceDemand{{WidthCm: 160, HeightCm: 100, Quantity: 1}}
	est := CalculateFilmEstimate(demands, RollParameters{WidthCm: 152}, 0, 0)
	if est.WidestPieceFits {
		t.Error("expected WidestPieceFits=false for a 160cm piece on a 152cm roll")
	}
}

func TestCalculateFilmEstimateZeroRoll(t *testing.T) {
	demands := []PieceDemand{{WidthCm: 10, HeightCm: 10, Quantity: 1}}
	est := CalculateFilmEstimate(demands, RollParameters{}, 10, 45)
	if est.MinLengthCm != 0 || est.MetresToBuy != 0 {
		t.Errorf("expected no length for zero-width roll, got %+v", est)
	}
	if est.TotalPieceArea <= 0 {
		t.Error("expected positive area even with zero-width roll")
	}
}
