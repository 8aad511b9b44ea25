package index

import (
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/starford/labkit/internal/checksum"
	"github.com/starford/labkit/internal/models"
	"github.com/starford/labkit/internal/query"
	"github.com/starford/labkit/internal/store"
)

// Sources are the record stores the index is derived from.
type Sources struct {
	Protocols   *store.Dir
	Experiments *store.Dir
	Samples     *store.Ledger
}

// samplesDoc mirrors the persisted shape of the inventory ledger.
type samplesDoc struct {
	Samples []models.Sample `json:"samples"`
}

// Sync brings the index up to date with the stores:
//   - new/changed records are upserted
//   - records removed from the stores are deleted from the index
//
// Change detection compares a digest of each record's indexed content
// against the stored one, so unchanged records are skipped.
func Sync(db *DB, src Sources, logger *slog.Logger) error {
	indexed, err := db.AllChecksums()
	if err != nil {
		return err
	}

	live := map[string]map[string]struct{}{
		KindProtocol:   {},
		KindExperiment: {},
		KindSample:     {},
	}

	protocols, err := store.List[models.Protocol](src.Protocols)
	if err != nil {
		return err
	}
	for _, p := range protocols {
		body := query.SearchText(p.Description, p.Notes)
		upsert(db, indexed, live, Row{
			Kind:   KindProtocol,
			ID:     p.ID,
			Name:   p.Name,
			Status: "v" + strconv.Itoa(p.Version),
			Tags:   p.Tags,
		}, body, logger)
	}

	experiments, err := store.List[models.Experiment](src.Experiments)
	if err != nil {
		return err
	}
	for _, e := range experiments {
		body := query.SearchText(e.Objective, e.Hypothesis, e.Conclusions)
		upsert(db, indexed, live, Row{
			Kind:   KindExperiment,
			ID:     e.ID,
			Name:   e.Title,
			Status: string(e.Status),
			Tags:   e.Tags,
		}, body, logger)
	}

	var doc samplesDoc
	if err := src.Samples.Load(&doc); err != nil {
		return err
	}
	for _, s := range doc.Samples {
		body := query.SearchText(s.Description, s.Location, s.Source, s.Notes)
		upsert(db, indexed, live, Row{
			Kind:   KindSample,
			ID:     s.SampleID,
			Name:   s.SampleID,
			Status: string(s.Status),
			Tags:   []string{s.Type},
		}, body, logger)
	}

	// Remove stale entries.
	for kind, ids := range indexed {
		for id := range ids {
			if _, ok := live[kind][id]; ok {
				continue
			}
			if err := db.Delete(kind, id); err != nil {
				logger.Warn("sync: delete failed",
					slog.String("kind", kind), slog.String("id", id),
					slog.String("error", err.Error()))
			} else {
				logger.Debug("sync: removed stale",
					slog.String("kind", kind), slog.String("id", id))
			}
		}
	}

	return nil
}

// upsert indexes one record unless its content digest is unchanged.
func upsert(db *DB, indexed map[string]map[string]string, live map[string]map[string]struct{}, r Row, body string, logger *slog.Logger) {
	live[r.Kind][r.ID] = struct{}{}

	content := query.SearchText(r.Name, body, strings.Join(r.Tags, " "), r.Status)
	r.Checksum = checksum.Sum([]byte(content))
	if indexed[r.Kind] != nil && indexed[r.Kind][r.ID] == r.Checksum {
		return
	}
	r.UpdatedAt = time.Now()

	if err := db.Upsert(r, body); err != nil {
		logger.Warn("sync: index failed",
			slog.String("kind", r.Kind), slog.String("id", r.ID),
			slog.String("error", err.Error()))
	} else {
		logger.Debug("sync: indexed",
			slog.String("kind", r.Kind), slog.String("id", r.ID))
	}
}
