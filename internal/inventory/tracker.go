// Package inventory tracks physical samples in a single shared ledger
// file: additions, field updates, and the append-only usage history
// that quantity and availability are derived from.
package inventory

import (
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/labkit/internal/apperr"
	"github.com/starford/labkit/internal/models"
	"github.com/starford/labkit/internal/query"
	"github.com/starford/labkit/internal/store"
)

// ledgerDoc is the persisted shape of the shared inventory file.
type ledgerDoc struct {
	Samples []models.Sample `json:"samples"`
}

// Tracker coordinates the samples ledger. Every mutation is a full
// read-modify-write of the ledger file; single-process access is a
// standing precondition.
type Tracker struct {
	ledger *store.Ledger
	logger *slog.Logger
	now    func() time.Time
}

// NewTracker creates a tracker over the given ledger.
func NewTracker(ledger *store.Ledger, logger *slog.Logger) *Tracker {
	return &Tracker{ledger: ledger, logger: logger, now: time.Now}
}

// WithClock overrides the wall clock used for timestamps.
func (t *Tracker) WithClock(now func() time.Time) *Tracker {
	t.now = now
	return t
}

func (t *Tracker) load() (*ledgerDoc, error) {
	doc := ledgerDoc{Samples: []models.Sample{}}
	if err := t.ledger.Load(&doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// AddParams are the fields of a new sample record.
type AddParams struct {
	SampleID      string
	Type          string
	Description   string
	Location      string
	Quantity      float64
	Unit          string
	Concentration string
	Batch         string
	Source        string
	Notes         string
}

// Validate checks the required sample fields.
func (p AddParams) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.SampleID, validation.Required),
		validation.Field(&p.Type, validation.Required),
		validation.Field(&p.Location, validation.Required),
		validation.Field(&p.Unit, validation.Required),
	)
}

// Add registers a new sample. The caller-supplied id must be unique
// among samples; a taken id fails with apperr.ErrDuplicateID and
// leaves the ledger untouched.
func (t *Tracker) Add(params AddParams) (*models.Sample, error) {
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("inventory: add: %w", err)
	}
	doc, err := t.load()
	if err != nil {
		return nil, err
	}
	for _, s := range doc.Samples {
		if s.SampleID == params.SampleID {
			return nil, fmt.Errorf("inventory: sample %s: %w", params.SampleID, apperr.ErrDuplicateID)
		}
	}
	sample := models.Sample{
		SampleID:      params.SampleID,
		Type:          params.Type,
		Description:   params.Description,
		Location:      params.Location,
		Quantity:      params.Quantity,
		Unit:          params.Unit,
		Concentration: params.Concentration,
		Batch:         params.Batch,
		Source:        params.Source,
		Notes:         params.Notes,
		Added:         models.Stamp(t.now()),
		Status:        models.StatusAvailable,
		UsageHistory:  []models.UsageEntry{},
	}
	doc.Samples = append(doc.Samples, sample)
	if err := t.ledger.Save(doc); err != nil {
		return nil, err
	}
	t.logger.Info("sample added",
		slog.String("sample_id", sample.SampleID),
		slog.String("type", sample.Type),
		slog.Float64("quantity", sample.Quantity),
		slog.String("unit", sample.Unit))
	return &sample, nil
}

// Get returns the sample with the given id.
func (t *Tracker) Get(sampleID string) (*models.Sample, error) {
	doc, err := t.load()
	if err != nil {
		return nil, err
	}
	for i := range doc.Samples {
		if doc.Samples[i].SampleID == sampleID {
			return &doc.Samples[i], nil
		}
	}
	return nil, fmt.Errorf("inventory: sample %s: %w", sampleID, apperr.ErrNotFound)
}

// Patch enumerates the mutable sample fields. Nil fields are left
// unchanged. Quantity, unit and status are deliberately absent: they
// change only through RecordUsage.
type Patch struct {
	Description   *string
	Location      *string
	Concentration *string
	Batch         *string
	Source        *string
	Notes         *string
}

// Update applies patch to the sample with the given id and stamps
// LastModified.
func (t *Tracker) Update(sampleID string, patch Patch) error {
	doc, err := t.load()
	if err != nil {
		return err
	}
	for i := range doc.Samples {
		if doc.Samples[i].SampleID != sampleID {
			continue
		}
		s := &doc.Samples[i]
		if patch.Description != nil {
			s.Description = *patch.Description
		}
		if patch.Location != nil {
			s.Location = *patch.Location
		}
		if patch.Concentration != nil {
			s.Concentration = *patch.Concentration
		}
		if patch.Batch != nil {
			s.Batch = *patch.Batch
		}
		if patch.Source != nil {
			s.Source = *patch.Source
		}
		if patch.Notes != nil {
			s.Notes = *patch.Notes
		}
		s.LastModified = models.Stamp(t.now())
		if err := t.ledger.Save(doc); err != nil {
			return err
		}
		t.logger.Info("sample updated", slog.String("sample_id", sampleID))
		return nil
	}
	return fmt.Errorf("inventory: sample %s: %w", sampleID, apperr.ErrNotFound)
}

// UsageParams describe one consumption event.
type UsageParams struct {
	Amount       float64
	Unit         string
	UsedBy       string
	ExperimentID string // weak reference
	Notes        string
}

// RecordUsage appends a usage entry and deducts the amount from the
// sample's quantity. The unit must match the stored unit exactly;
// there is no conversion, so a mismatch fails with
// apperr.ErrUnitMismatch before anything is written. Quantity may go
// negative; at or below zero the status becomes Depleted and never
// reverts automatically.
func (t *Tracker) RecordUsage(sampleID string, u UsageParams) (*models.Sample, error) {
	doc, err := t.load()
	if err != nil {
		return nil, err
	}
	for i := range doc.Samples {
		if doc.Samples[i].SampleID != sampleID {
			continue
		}
		s := &doc.Samples[i]
		if s.Unit != u.Unit {
			return nil, fmt.Errorf("inventory: sample %s uses %q, got %q: %w",
				sampleID, s.Unit, u.Unit, apperr.ErrUnitMismatch)
		}
		s.UsageHistory = append(s.UsageHistory, models.UsageEntry{
			Date:         models.Stamp(t.now()),
			Amount:       u.Amount,
			Unit:         u.Unit,
			UsedBy:       u.UsedBy,
			ExperimentID: u.ExperimentID,
			Notes:        u.Notes,
		})
		s.Quantity -= u.Amount
		if s.Quantity <= 0 {
			s.Status = models.StatusDepleted
		}
		if err := t.ledger.Save(doc); err != nil {
			return nil, err
		}
		t.logger.Info("usage recorded",
			slog.String("sample_id", sampleID),
			slog.Float64("amount", u.Amount),
			slog.Float64("remaining", s.Quantity))
		return s, nil
	}
	return nil, fmt.Errorf("inventory: sample %s: %w", sampleID, apperr.ErrNotFound)
}

// Filter narrows a sample listing. Zero values select everything.
type Filter struct {
	Type     string
	Location string
	Status   models.SampleStatus
}

// List returns the samples matching f, in ledger order.
func (t *Tracker) List(f Filter) ([]models.Sample, error) {
	doc, err := t.load()
	if err != nil {
		return nil, err
	}
	var preds []query.Predicate[models.Sample]
	if f.Type != "" {
		preds = append(preds, func(s models.Sample) bool { return s.Type == f.Type })
	}
	if f.Location != "" {
		preds = append(preds, func(s models.Sample) bool { return s.Location == f.Location })
	}
	if f.Status != "" {
		preds = append(preds, func(s models.Sample) bool { return s.Status == f.Status })
	}
	return query.Filter(doc.Samples, preds...), nil
}

// LowStock returns the available samples at or below threshold.
func (t *Tracker) LowStock(threshold float64) ([]models.Sample, error) {
	samples, err := t.List(Filter{Status: models.StatusAvailable})
	if err != nil {
		return nil, err
	}
	return query.Filter(samples, func(s models.Sample) bool {
		return s.Quantity <= threshold
	}), nil
}
