package model

// AppConfig holds application-wide preferences and default settings.
type AppConfig struct {
	// Default optimizer settings applied to new projects
	DefaultBladeWidthCm       float64 `json:"default_blade_width_cm"`
	DefaultMaxPieces          int     `json:"default_max_pieces"`
	DefaultMinRemnantWidthCm  float64 `json:"default_min_remnant_width_cm"`
	DefaultMinRemnantHeightCm float64 `json:"default_min_remnant_height_cm"`
	DefaultFilm               string  `json:"default_film"` // Film name from the inventory
	DefaultWastePercent       float64 `json:"default_waste_percent"`

	// Application preferences
	RecentProjects []string `json:"recent_projects"`
}

// DefaultAppConfig returns an AppConfig populated with sensible defaults
// matching the values from DefaultSettings().
func DefaultAppConfig() AppConfig {
	defaults := DefaultSettings()
	return AppConfig{
		DefaultBladeWidthCm:       defaults.BladeWidthCm,
		DefaultMaxPieces:          defaults.MaxPieces,
		DefaultMinRemnantWidthCm:  defaults.MinRemnantWidthCm,
		DefaultMinRemnantHeightCm: defaults.MinRemnantHeightCm,
		DefaultWastePercent:       10.0,
		RecentProjects:            []string{},
	}
}

// ApplyToSettings copies the default values from AppConfig into a CutSettings struct.
// This is used when creating a new project so it inherits the user's saved defaults.
func (c AppConfig) ApplyToSettings(s *CutSettings) {
	s.BladeWidthCm = c.DefaultBladeWidthCm
	s.MaxPieces = c.DefaultMaxPieces
	s.MinRemnantWidthCm = c.DefaultMinRemnantWidthCm
	s.MinRemnantHeightCm = c.DefaultMinRemnantHeightCm
}

// AddRecentProject moves path to the front of the recent list, keeping at most max entries.
func (c *AppConfig) AddRecentProject(path string, max int) {
	recent := []string{path}
	for _, p := range c.RecentProjects {
		if p != path {
			recent = append(recent, p)
		}
	}
	if max > 0 && len(recent) > max {
		recent = recent[:max]
	}
	c.RecentProjects = recent
}
