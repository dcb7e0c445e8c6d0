package engine

import (
	"fmt"

	"github.com/piwi3910/RollCut/internal/model"
)

// ComparisonScenario defines a named roll and settings combination to compare.
type ComparisonScenario struct {
	Name     string
	Roll     model.RollParameters
	Settings model.CutSettings
}

// ComparisonResult holds the layout and computed statistics for a single
// scenario. Err is set when the scenario cannot be packed (for example a
// piece wider than that roll).
type ComparisonResult struct {
	Scenario          ComparisonScenario
	Layout            model.Layout
	Err               error
	RowCount          int
	TotalLengthCm     float64
	ConsumedAreaM2    float64
	EfficiencyPercent float64
	RemnantAreaM2     float64
}

// CompareScenarios runs an independent single-width optimization for each
// scenario and returns the results in scenario order.
func CompareScenarios(scenarios []ComparisonScenario, demands []model.PieceDemand) []ComparisonResult {
	results := make([]ComparisonResult, 0, len(scenarios))

	for _, scenario := range scenarios {
		opt := New(scenario.Settings)
		layout, err := opt.Optimize(demands, scenario.Roll)
		if err != nil {
			results = append(results, ComparisonResult{Scenario: scenario, Err: err})
			continue
		}

		results = append(results, ComparisonResult{
			Scenario:          scenario,
			Layout:            layout,
			RowCount:          len(layout.Rows),
			TotalLengthCm:     layout.TotalLengthCm,
			ConsumedAreaM2:    layout.Roll.WidthCm * layout.TotalLengthCm / 10000.0,
			EfficiencyPercent: layout.EfficiencyPercent,
			RemnantAreaM2:     model.TotalRemnantArea(layout.Remnants) / 10000.0,
		})
	}

	return results
}

// BestScenario picks the successful result consuming the least film area.
// Ties go to the higher efficiency, then to scenario order.
func BestScenario(results []ComparisonResult) (ComparisonResult, bool) {
	best := -1
	for i, r := range results {
		if r.Err != nil {
			continue
		}
		if best < 0 {
			best = i
			continue
		}
		b := results[best]
		switch {
		case r.ConsumedAreaM2 < b.ConsumedAreaM2-epsilon:
			best = i
		case r.ConsumedAreaM2 <= b.ConsumedAreaM2+epsilon && r.EfficiencyPercent > b.EfficiencyPercent+epsilon:
			best = i
		}
	}
	if best < 0 {
		return ComparisonResult{}, false
	}
	return results[best], true
}

// BuildRollScenarios generates what-if scenarios from the current roll:
// every other roll width stocked in the inventory, and a thinner blade.
func BuildRollScenarios(current model.RollParameters, inv model.Inventory, settings model.CutSettings) []ComparisonScenario {
	scenarios := []ComparisonScenario{
		{
			Name:     "Current Roll",
			Roll:     current,
			Settings: settings,
		},
	}

	for _, w := range inv.Widths() {
		if w == current.WidthCm {
			continue
		}
		roll := current
		roll.WidthCm = w
		scenarios = append(scenarios, ComparisonScenario{
			Name:     fmt.Sprintf("Roll %.0f cm", w),
			Roll:     roll,
			Settings: settings,
		})
	}

	// Thinner blade (simulate a fresh blade / tighter cutting)
	if current.BladeWidthCm > 0.5 {
		thin := current
		thin.BladeWidthCm = current.BladeWidthCm * 0.5
		scenarios = append(scenarios, ComparisonScenario{
			Name:     fmt.Sprintf("Blade %.1f cm (half)", thin.BladeWidthCm),
			Roll:     thin,
			Settings: settings,
		})
	}

	return scenarios
}
