package model

import "github.com/google/uuid"

// FilmRoll represents a film product sold on a roll (bobina) of fixed width.
type FilmRoll struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Brand         string  `json:"brand"`
	WidthCm       float64 `json:"width_cm"`
	PricePerMetre float64 `json:"price_per_metre"`
}

// NewFilmRoll creates a new FilmRoll with a generated ID.
func NewFilmRoll(name, brand string, widthCm, pricePerMetre float64) FilmRoll {
	return FilmRoll{
		ID:            uuid.New().String()[:8],
		Name:          name,
		Brand:         brand,
		WidthCm:       widthCm,
		PricePerMetre: pricePerMetre,
	}
}

// ToRollParameters returns the roll parameters for cutting this film.
func (f FilmRoll) ToRollParameters(bladeWidthCm float64) RollParameters {
	return RollParameters{WidthCm: f.WidthCm, BladeWidthCm: bladeWidthCm}
}

// Inventory holds the user's saved film roll presets.
type Inventory struct {
	Films []FilmRoll `json:"films"`
}

// DefaultInventory returns an inventory populated with common film widths.
func DefaultInventory() Inventory {
	return Inventory{
		Films: []FilmRoll{
			NewFilmRoll("Solar G5 Fumê 1,52m", "Generic", 152, 45.0),
			NewFilmRoll("Solar G20 Fumê 1,52m", "Generic", 152, 45.0),
			NewFilmRoll("Espelhado Prata 1,52m", "Generic", 152, 52.0),
			NewFilmRoll("Jateado 1,22m", "Generic", 122, 38.0),
			NewFilmRoll("Segurança 4mil 1,52m", "Generic", 152, 89.0),
			NewFilmRoll("Nano Cerâmica 1,83m", "Generic", 183, 140.0),
		},
	}
}

// FindFilmByID returns a pointer to the film with the given ID, or nil.
func (inv *Inventory) FindFilmByID(id string) *FilmRoll {
	for i := range inv.Films {
		if inv.Films[i].ID == id {
			return &inv.Films[i]
		}
	}
	return nil
}

// FindFilmByName returns a pointer to the first film with the given name, or nil.
func (inv *Inventory) FindFilmByName(name string) *FilmRoll {
	for i := range inv.Films {
		if inv.Films[i].Name == name {
			return &inv.Films[i]
		}
	}
	return nil
}

// FilmNames returns a list of film names for pickers.
func (inv *Inventory) FilmNames() []string {
	names := make([]string, len(inv.Films))
	for i, f := range inv.Films {
		names[i] = f.Name
	}
	return names
}

// Widths returns the distinct roll widths in inventory order.
func (inv *Inventory) Widths() []float64 {
	seen := make(map[float64]bool)
	var widths []float64
	for _, f := range inv.Films {
		if !seen[f.WidthCm] {
			seen[f.WidthCm] = true
			widths = append(widths, f.WidthCm)
		}
	}
	return widths
}
