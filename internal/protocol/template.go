package protocol

import (
	"log/slog"

	"github.com/starford/labkit/internal/models"
)

// Template is a reusable protocol skeleton stored in the template
// directory, keyed by file name.
type Template struct {
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Steps       []models.Step `json:"steps"`
	Materials   []string      `json:"materials"`
	Notes       string        `json:"notes"`
	Tags        []string      `json:"tags"`
}

// LoadTemplate returns the template stored under name.
func (m *Manager) LoadTemplate(name string) (*Template, error) {
	var tmpl Template
	if err := m.templates.Load(name, &tmpl); err != nil {
		return nil, err
	}
	return &tmpl, nil
}

// CreateFromTemplate instantiates a template as a fresh version-1
// protocol, with patch fields overriding the template's values.
func (m *Manager) CreateFromTemplate(name string, patch Patch) (*models.Protocol, error) {
	tmpl, err := m.LoadTemplate(name)
	if err != nil {
		return nil, err
	}
	params := CreateParams{
		Name:        tmpl.Name,
		Description: tmpl.Description,
		Steps:       tmpl.Steps,
		Materials:   tmpl.Materials,
		Notes:       tmpl.Notes,
		Tags:        tmpl.Tags,
	}
	if patch.Name != nil {
		params.Name = *patch.Name
	}
	if patch.Description != nil {
		params.Description = *patch.Description
	}
	if patch.Steps != nil {
		params.Steps = *patch.Steps
	}
	if patch.Materials != nil {
		params.Materials = *patch.Materials
	}
	if patch.Notes != nil {
		params.Notes = *patch.Notes
	}
	if patch.Tags != nil {
		params.Tags = *patch.Tags
	}
	m.logger.Info("template instantiated", slog.String("template", name))
	return m.Create(params)
}
