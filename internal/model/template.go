package model

import (
	"time"

	"github.com/google/uuid"
)

// ProjectTemplate is a reusable measurement list (for example a standard
// window set of a building) with its roll and settings, but no layout.
type ProjectTemplate struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	CreatedAt   string         `json:"created_at"`
	UpdatedAt   string         `json:"updated_at"`
	Demands     []PieceDemand  `json:"demands"`
	Roll        RollParameters `json:"roll"`
	Settings    CutSettings    `json:"settings"`
}

// NewProjectTemplate creates a new template from the given project data.
// It copies demands, roll and settings but intentionally excludes the layout.
func NewProjectTemplate(name, description string, p Project) ProjectTemplate {
	now := time.Now().UTC().Format(time.RFC3339)
	return ProjectTemplate{
		ID:          uuid.New().String()[:8],
		Name:        name,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
		Demands:     copyDemands(p.Demands),
		Roll:        p.Roll,
		Settings:    p.Settings,
	}
}

// ToProject creates a new Project from this template.
// Demands get fresh IDs so they are independent of the template.
func (t ProjectTemplate) ToProject(projectName string) Project {
	demands := make([]PieceDemand, len(t.Demands))
	for i, d := range t.Demands {
		demands[i] = NewPieceDemand(d.Label, d.WidthCm, d.HeightCm, d.Quantity)
	}
	return Project{
		Name:     projectName,
		Demands:  demands,
		Roll:     t.Roll,
		Settings: t.Settings,
	}
}

// TemplateStore holds a collection of project templates.
type TemplateStore struct {
	Templates []ProjectTemplate `json:"templates"`
}

// NewTemplateStore creates an empty template store.
func NewTemplateStore() TemplateStore {
	return TemplateStore{
		Templates: []ProjectTemplate{},
	}
}

// Add adds a template to the store.
func (ts *TemplateStore) Add(t ProjectTemplate) {
	ts.Templates = append(ts.Templates, t)
}

// Remove removes a template by ID. Returns true if found and removed.
func (ts *TemplateStore) Remove(id string) bool {
	for i, t := range ts.Templates {
		if t.ID == id {
			ts.Templates = append(ts.Templates[:i], ts.Templates[i+1:]...)
			return true
		}
	}
	return false
}

// FindByID returns a pointer to the template with the given ID, or nil.
func (ts *TemplateStore) FindByID(id string) *ProjectTemplate {
	for i := range ts.Templates {
		if ts.Templates[i].ID == id {
			return &ts.Templates[i]
		}
	}
	return nil
}

// FindByName returns a pointer to the first template with the given name, or nil.
func (ts *TemplateStore) FindByName(name string) *ProjectTemplate {
	for i := range ts.Templates {
		if ts.Templates[i].Name == name {
			return &ts.Templates[i]
		}
	}
	return nil
}

// Names returns a list of template names.
func (ts *TemplateStore) Names() []string {
	names := make([]string, len(ts.Templates))
	for i, t := range ts.Templates {
		names[i] = t.Name
	}
	return names
}

func copyDemands(demands []PieceDemand) []PieceDemand {
	if demands == nil {
		return []PieceDemand{}
	}
	cp := make([]PieceDemand, len(demands))
	copy(cp, demands)
	return cp
}
