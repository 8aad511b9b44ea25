// Package export writes record summaries as CSV, mirroring the flat
// tabular exports the reports are built next to. Usage history is
// deliberately dropped from the inventory export; the ledger stays in
// the JSON store.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/starford/labkit/internal/models"
	"github.com/starford/labkit/internal/notebook"
)

// Experiments writes experiment summaries to w, one row per
// experiment, newest-first order preserved from the input.
func Experiments(w io.Writer, summaries []notebook.Summary) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"id", "title", "status", "created", "tags"}); err != nil {
		return fmt.Errorf("export: write header: %w", err)
	}
	for _, s := range summaries {
		row := []string{s.ID, s.Title, string(s.Status), s.Created, strings.Join(s.Tags, ";")}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("export: write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Inventory writes sample records to w, one row per sample.
func Inventory(w io.Writer, samples []models.Sample) error {
	cw := csv.NewWriter(w)
	header := []string{
		"sample_id", "type", "description", "location", "quantity", "unit",
		"concentration", "batch", "source", "notes", "added", "status",
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("export: write header: %w", err)
	}
	for _, s := range samples {
		row := []string{
			s.SampleID, s.Type, s.Description, s.Location,
			strconv.FormatFloat(s.Quantity, 'f', -1, 64), s.Unit,
			s.Concentration, s.Batch, s.Source, s.Notes, s.Added, string(s.Status),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("export: write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
