// Package protocol manages versioned protocol records: creation,
// immutable versioned updates, templates, listing and search.
package protocol

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/labkit/internal/checksum"
	"github.com/starford/labkit/internal/models"
	"github.com/starford/labkit/internal/query"
	"github.com/starford/labkit/internal/recordid"
	"github.com/starford/labkit/internal/store"
)

// Manager coordinates the protocol store and template store.
type Manager struct {
	dir       *store.Dir
	templates *store.Dir
	logger    *slog.Logger
	now       func() time.Time
}

// NewManager creates a protocol manager over the given stores.
func NewManager(dir, templates *store.Dir, logger *slog.Logger) *Manager {
	return &Manager{dir: dir, templates: templates, logger: logger, now: time.Now}
}

// WithClock overrides the wall clock used for ids and timestamps.
func (m *Manager) WithClock(now func() time.Time) *Manager {
	m.now = now
	return m
}

// CreateParams are the fields of a new protocol.
type CreateParams struct {
	Name        string
	Description string
	Steps       []models.Step
	Materials   []string
	Notes       string
	Tags        []string
}

// Validate checks the required creation fields.
func (p CreateParams) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Name, validation.Required),
		validation.Field(&p.Steps, validation.Required),
	)
}

// Create persists a new version-1 protocol and returns it.
func (m *Manager) Create(params CreateParams) (*models.Protocol, error) {
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("protocol: create: %w", err)
	}
	now := m.now()
	rec := models.Protocol{
		ID:          recordid.Protocol(params.Name, now),
		Name:        params.Name,
		Description: params.Description,
		Created:     models.Stamp(now),
		Version:     1,
		Steps:       params.Steps,
		Materials:   orEmpty(params.Materials),
		Notes:       params.Notes,
		Tags:        orEmpty(params.Tags),
	}
	cs, err := checksum.Fingerprint(rec.Name, rec.Steps, rec.Materials)
	if err != nil {
		return nil, err
	}
	rec.Checksum = cs

	if err := m.dir.Save(rec.ID, rec); err != nil {
		return nil, err
	}
	m.logger.Info("protocol created",
		slog.String("id", rec.ID),
		slog.String("name", rec.Name),
		slog.Int("steps", len(rec.Steps)))
	return &rec, nil
}

// Load returns the protocol stored under id.
func (m *Manager) Load(id string) (*models.Protocol, error) {
	var rec models.Protocol
	if err := m.dir.Load(id, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// Patch enumerates the mutable protocol fields. Nil fields are left
// unchanged; there is no way to address any other field.
type Patch struct {
	Name        *string
	Description *string
	Steps       *[]models.Step
	Materials   *[]string
	Notes       *string
	Tags        *[]string
}

func (p Patch) apply(rec *models.Protocol) {
	if p.Name != nil {
		rec.Name = *p.Name
	}
	if p.Description != nil {
		rec.Description = *p.Description
	}
	if p.Steps != nil {
		rec.Steps = *p.Steps
	}
	if p.Materials != nil {
		rec.Materials = orEmpty(*p.Materials)
	}
	if p.Notes != nil {
		rec.Notes = *p.Notes
	}
	if p.Tags != nil {
		rec.Tags = orEmpty(*p.Tags)
	}
}

// Update applies patch to the protocol stored under id and persists
// the result as a brand-new record with version incremented and a
// recomputed checksum. The prior record is never modified or removed;
// lineage tracking is the caller's concern.
func (m *Manager) Update(id string, patch Patch) (*models.Protocol, error) {
	rec, err := m.Load(id)
	if err != nil {
		return nil, err
	}
	patch.apply(rec)

	now := m.now()
	rec.Version++
	rec.Modified = models.Stamp(now)
	rec.ID = recordid.ProtocolVersion(rec.Name, rec.Version, now)

	cs, err := checksum.Fingerprint(rec.Name, rec.Steps, rec.Materials)
	if err != nil {
		return nil, err
	}
	rec.Checksum = cs

	if err := m.dir.Save(rec.ID, rec); err != nil {
		return nil, err
	}
	m.logger.Info("protocol updated",
		slog.String("id", rec.ID),
		slog.Int("version", rec.Version))
	return rec, nil
}

// Summary is the lightweight listing shape for a protocol.
type Summary struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Version int      `json:"version"`
	Steps   int      `json:"steps"`
	Created string   `json:"created"`
	Tags    []string `json:"tags"`
}

// List returns summaries for all stored protocols, newest first. A
// non-empty tag keeps only protocols carrying that tag.
func (m *Manager) List(tag string) ([]Summary, error) {
	recs, err := store.List[models.Protocol](m.dir)
	if err != nil {
		return nil, err
	}
	if tag != "" {
		recs = query.Filter(recs, func(r models.Protocol) bool {
			return query.HasTag(r.Tags, tag)
		})
	}
	out := make([]Summary, len(recs))
	for i, r := range recs {
		out[i] = Summary{
			ID:      r.ID,
			Name:    r.Name,
			Version: r.Version,
			Steps:   len(r.Steps),
			Created: r.Created,
			Tags:    r.Tags,
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Created > out[j].Created
	})
	return out, nil
}

// Match is one search hit.
type Match struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Search returns protocols whose name, description or tags contain
// keyword, case-insensitively. No hits yields an empty slice.
func (m *Manager) Search(keyword string) ([]Match, error) {
	recs, err := store.List[models.Protocol](m.dir)
	if err != nil {
		return nil, err
	}
	out := []Match{}
	for _, r := range recs {
		text := query.SearchText(r.Name, r.Description, strings.Join(r.Tags, " "))
		if query.Match(text, keyword) {
			out = append(out, Match{ID: r.ID, Name: r.Name, Description: r.Description})
		}
	}
	return out, nil
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
