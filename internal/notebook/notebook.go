// Package notebook manages experiment records: creation, timestamped
// observations, result accumulation and the one-way completion
// transition.
package notebook

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/labkit/internal/apperr"
	"github.com/starford/labkit/internal/models"
	"github.com/starford/labkit/internal/query"
	"github.com/starford/labkit/internal/recordid"
	"github.com/starford/labkit/internal/store"
)

// Notebook coordinates the experiment store.
type Notebook struct {
	dir    *store.Dir
	logger *slog.Logger
	now    func() time.Time
}

// New creates a notebook over the given store.
func New(dir *store.Dir, logger *slog.Logger) *Notebook {
	return &Notebook{dir: dir, logger: logger, now: time.Now}
}

// WithClock overrides the wall clock used for ids and timestamps.
func (n *Notebook) WithClock(now func() time.Time) *Notebook {
	n.now = now
	return n
}

// CreateParams are the fields of a new experiment entry.
type CreateParams struct {
	Title      string
	ProtocolID string // weak reference; not resolved here
	Objective  string
	Hypothesis string
	Materials  []string
	Tags       []string
}

// Validate checks the required creation fields.
func (p CreateParams) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Title, validation.Required),
	)
}

// Create persists a new in-progress experiment and returns it.
func (n *Notebook) Create(params CreateParams) (*models.Experiment, error) {
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("notebook: create: %w", err)
	}
	now := n.now()
	rec := models.Experiment{
		ID:           recordid.Experiment(now),
		Title:        params.Title,
		ProtocolID:   params.ProtocolID,
		Objective:    params.Objective,
		Hypothesis:   params.Hypothesis,
		Materials:    orEmpty(params.Materials),
		Tags:         orEmpty(params.Tags),
		Created:      models.Stamp(now),
		Status:       models.StatusInProgress,
		Observations: []models.Observation{},
		Results:      map[string]string{},
		Attachments:  []models.Attachment{},
	}
	if err := n.dir.Save(rec.ID, rec); err != nil {
		return nil, err
	}
	n.logger.Info("experiment created",
		slog.String("id", rec.ID),
		slog.String("title", rec.Title))
	return &rec, nil
}

// Load returns the experiment stored under id.
func (n *Notebook) Load(id string) (*models.Experiment, error) {
	var rec models.Experiment
	if err := n.dir.Load(id, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// AddObservation appends a timestamped observation to the experiment.
func (n *Notebook) AddObservation(id, text string) error {
	rec, err := n.Load(id)
	if err != nil {
		return err
	}
	rec.Observations = append(rec.Observations, models.Observation{
		Timestamp:   models.Stamp(n.now()),
		Observation: text,
	})
	if err := n.dir.Save(rec.ID, rec); err != nil {
		return err
	}
	n.logger.Info("observation added", slog.String("id", rec.ID))
	return nil
}

// AddResults merges results into the experiment's result map and, when
// dataFile is non-empty, records it as a data attachment.
func (n *Notebook) AddResults(id string, results map[string]string, dataFile string) error {
	rec, err := n.Load(id)
	if err != nil {
		return err
	}
	if rec.Results == nil {
		rec.Results = map[string]string{}
	}
	for k, v := range results {
		rec.Results[k] = v
	}
	if dataFile != "" {
		rec.Attachments = append(rec.Attachments, models.Attachment{
			Type:  "data",
			File:  dataFile,
			Added: models.Stamp(n.now()),
		})
	}
	if err := n.dir.Save(rec.ID, rec); err != nil {
		return err
	}
	n.logger.Info("results added", slog.String("id", rec.ID), slog.Int("keys", len(results)))
	return nil
}

// Complete marks the experiment as completed with the given
// conclusions. The transition is irreversible; completing an already
// completed experiment fails with apperr.ErrConflict.
func (n *Notebook) Complete(id, conclusions string) error {
	rec, err := n.Load(id)
	if err != nil {
		return err
	}
	if rec.Status == models.StatusCompleted {
		return fmt.Errorf("notebook: %s already completed: %w", id, apperr.ErrConflict)
	}
	rec.Status = models.StatusCompleted
	rec.Conclusions = conclusions
	rec.Completed = models.Stamp(n.now())
	if err := n.dir.Save(rec.ID, rec); err != nil {
		return err
	}
	n.logger.Info("experiment completed", slog.String("id", rec.ID))
	return nil
}

// Filter narrows a listing. Zero values select everything.
type Filter struct {
	Status models.ExperimentStatus
	Tag    string
}

// Summary is the lightweight listing shape for an experiment.
type Summary struct {
	ID      string                  `json:"id"`
	Title   string                  `json:"title"`
	Status  models.ExperimentStatus `json:"status"`
	Created string                  `json:"created"`
	Tags    []string                `json:"tags"`
}

// List returns summaries for all stored experiments matching f,
// newest first.
func (n *Notebook) List(f Filter) ([]Summary, error) {
	recs, err := store.List[models.Experiment](n.dir)
	if err != nil {
		return nil, err
	}
	var preds []query.Predicate[models.Experiment]
	if f.Status != "" {
		preds = append(preds, func(r models.Experiment) bool { return r.Status == f.Status })
	}
	if f.Tag != "" {
		preds = append(preds, func(r models.Experiment) bool { return query.HasTag(r.Tags, f.Tag) })
	}
	recs = query.Filter(recs, preds...)

	out := make([]Summary, len(recs))
	for i, r := range recs {
		out[i] = Summary{ID: r.ID, Title: r.Title, Status: r.Status, Created: r.Created, Tags: r.Tags}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Created > out[j].Created
	})
	return out, nil
}

// Match is one search hit.
type Match struct {
	ID     string                  `json:"id"`
	Title  string                  `json:"title"`
	Status models.ExperimentStatus `json:"status"`
}

// Search returns experiments whose title, objective or tags contain
// keyword, case-insensitively. No hits yields an empty slice.
func (n *Notebook) Search(keyword string) ([]Match, error) {
	recs, err := store.List[models.Experiment](n.dir)
	if err != nil {
		return nil, err
	}
	out := []Match{}
	for _, r := range recs {
		text := query.SearchText(r.Title, r.Objective, strings.Join(r.Tags, " "))
		if query.Match(text, keyword) {
			out = append(out, Match{ID: r.ID, Title: r.Title, Status: r.Status})
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
