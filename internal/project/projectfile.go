package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/piwi3910/RollCut/internal/model"
)

// FileExtension is appended to saved projects that have no extension.
const FileExtension = ".rollcut"

// SaveProject writes a project (demands, roll, settings and the last
// layout, if any) to path and returns the path actually written.
func SaveProject(path string, p model.Project) (string, error) {
	if filepath.Ext(path) == "" {
		path += FileExtension
	}
	if p.Demands == nil {
		p.Demands = []model.PieceDemand{}
	}
	if err := writeJSON(path, p); err != nil {
		return "", fmt.Errorf("failed to save project: %w", err)
	}
	return path, nil
}

// LoadProject reads a saved project. A stored layout whose roll no longer
// matches the project roll is dropped, since it was computed for other
// parameters.
func LoadProject(path string) (model.Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Project{}, fmt.Errorf("failed to read project: %w", err)
	}

	p := model.NewProject()
	if err := json.Unmarshal(data, &p); err != nil {
		return model.Project{}, fmt.Errorf("failed to parse project %s: %w", filepath.Base(path), err)
	}
	if p.Demands == nil {
		p.Demands = []model.PieceDemand{}
	}
	if p.Layout != nil && p.Layout.Roll != p.Roll {
		p.Layout = nil
	}
	if strings.TrimSpace(p.Name) == "" {
		p.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return p, nil
}
