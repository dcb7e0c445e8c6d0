package model

import "math"

// FilmEstimate holds the result of a film purchasing calculation.
type FilmEstimate struct {
	TotalPieceArea   float64 `json:"total_piece_area"`   // Total area of all pieces incl. blade allowance (sq cm)
	TotalAreaM2      float64 `json:"total_area_m2"`      // Same in square metres
	RollWidthCm      float64 `json:"roll_width_cm"`      // Roll width used in calculation
	MinLengthCm      float64 `json:"min_length_cm"`      // Area lower bound of roll length
	LengthWithWaste  float64 `json:"length_with_waste"`  // Recommended length incl. waste factor (cm)
	MetresToBuy      float64 `json:"metres_to_buy"`      // Recommended length rounded up to 0.1 m
	WastePercent     float64 `json:"waste_percent"`      // Waste factor applied (e.g., 10 for 10%)
	PricePerMetre    float64 `json:"price_per_metre"`    // Price used for estimation
	EstimatedCost    float64 `json:"estimated_cost"`     // MetresToBuy * PricePerMetre
	BladeWidthCm     float64 `json:"blade_width_cm"`     // Blade width used in calculation
	LongestPieceCm   float64 `json:"longest_piece_cm"`   // Tallest single piece, a hard floor on length
	WidestPieceFits  bool    `json:"widest_piece_fits"`  // False when any piece is wider than the roll
}

// sqcmPerSqm is the number of square centimetres in one square metre.
const sqcmPerSqm = 10000.0

// CalculateFilmEstimate computes how much film to buy for a measurement list
// without running the optimizer. Each piece is charged one blade allowance in
// both directions, so the minimum length is a lower bound for any layout.
func CalculateFilmEstimate(demands []PieceDemand, roll RollParameters, wastePercent, pricePerMetre float64) FilmEstimate {
	blade := roll.BladeWidthCm
	est := FilmEstimate{
		RollWidthCm:     roll.WidthCm,
		WastePercent:    wastePercent,
		PricePerMetre:   pricePerMetre,
		BladeWidthCm:    blade,
		WidestPieceFits: true,
	}

	for _, d := range demands {
		est.TotalPieceArea += d.WidthCm * (d.HeightCm + blade) * float64(d.Quantity)
		if d.HeightCm+blade > est.LongestPieceCm {
			est.LongestPieceCm = d.HeightCm + blade
		}
		if d.WidthCm > roll.WidthCm {
			est.WidestPieceFits = false
		}
	}
	est.TotalAreaM2 = est.TotalPieceArea / sqcmPerSqm

	if roll.WidthCm <= 0 {
		return est
	}

	est.MinLengthCm = math.Max(est.TotalPieceArea/roll.WidthCm, est.LongestPieceCm)
	wasteFactor := 1.0 + (wastePercent / 100.0)
	est.LengthWithWaste = est.MinLengthCm * wasteFactor
	est.MetresToBuy = math.Ceil(est.LengthWithWaste/10.0) / 10.0
	est.EstimatedCost = est.MetresToBuy * pricePerMetre
	return est
}
