package engine

import (
	"log/slog"

	"github.com/piwi3910/RollCut/internal/model"
)

// Optimizer lays out film pieces on a single roll width.
// It holds no state between calls and is safe for concurrent use.
type Optimizer struct {
	Settings model.CutSettings
	Logger   *slog.Logger
}

func New(settings model.CutSettings) *Optimizer {
	return &Optimizer{
		Settings: settings,
		Logger:   slog.New(slog.DiscardHandler),
	}
}

// Optimize normalizes the demands, packs them into rows and assembles the
// layout. Either a complete layout or an error is returned. An empty demand
// list is valid and yields a layout with no rows.
func (o *Optimizer) Optimize(demands []model.PieceDemand, roll model.RollParameters) (model.Layout, error) {
	log := o.logger()

	instances, err := Normalize(demands, roll, o.Settings.PieceLimit())
	if err != nil {
		log.Debug("rollcut: demands rejected", "demands", len(demands), "error", err)
		return model.Layout{}, err
	}

	rows, err := BuildRows(instances, roll)
	if err != nil {
		log.Error("rollcut: row builder failed", "error", err)
		return model.Layout{}, err
	}

	layout := Assemble(rows, roll)
	log.Debug("rollcut: layout assembled",
		"roll_width_cm", roll.WidthCm,
		"blade_width_cm", roll.BladeWidthCm,
		"pieces", len(instances),
		"rows", len(layout.Rows),
		"length_cm", layout.TotalLengthCm,
		"efficiency", EfficiencyLabel(layout))
	return layout, nil
}

// Optimize runs a one-off optimization with default settings.
func Optimize(demands []model.PieceDemand, roll model.RollParameters) (model.Layout, error) {
	return New(model.DefaultSettings()).Optimize(demands, roll)
}

func (o *Optimizer) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return o.Logger
}
