package model

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// Retalho is the record handed to the external scrap inventory for a
// usable remnant. The optimizer never persists these itself.
type Retalho struct {
	ID        string  `json:"id"`
	FilmID    string  `json:"film_id,omitempty"`
	FilmName  string  `json:"film_name,omitempty"`
	Source    string  `json:"source"`    // Project or quote the remnant came from
	RowIndex  int     `json:"row_index"` // Row of the source layout
	WidthCm   float64 `json:"width_cm"`
	HeightCm  float64 `json:"height_cm"`
	Value     float64 `json:"value"` // Film price proportional to area (0 if not set)
	CreatedAt string  `json:"created_at"`
}

// ToRetalho converts a remnant into an inventory record for the given film.
func (r Remnant) ToRetalho(film FilmRoll, source string) Retalho {
	rec := Retalho{
		ID:        uuid.New().String()[:8],
		FilmID:    film.ID,
		FilmName:  film.Name,
		Source:    source,
		RowIndex:  r.RowIndex,
		WidthCm:   r.WidthCm,
		HeightCm:  r.HeightCm,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}
	// Price per metre covers the full roll width
	if film.PricePerMetre > 0 && film.WidthCm > 0 {
		rec.Value = (r.Area() / (film.WidthCm * 100.0)) * film.PricePerMetre
	}
	return rec
}

// UsableRemnants returns the remnants meeting both minimum dimensions,
// largest area first. Ties keep layout order.
func UsableRemnants(layout Layout, minWidthCm, minHeightCm float64) []Remnant {
	var usable []Remnant
	for _, r := range layout.Remnants {
		if r.IsUsable(minWidthCm, minHeightCm) {
			usable = append(usable, r)
		}
	}
	sort.SliceStable(usable, func(i, j int) bool {
		return usable[i].Area() > usable[j].Area()
	})
	return usable
}

// TotalRemnantArea returns the total area of all remnants in square cm.
func TotalRemnantArea(remnants []Remnant) float64 {
	var total float64
	for _, r := range remnants {
		total += r.Area()
	}
	return total
}
