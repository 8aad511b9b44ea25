package export

import (
	"encoding/csv"
	"strings"
	"testing"

	"github.com/starford/labkit/internal/models"
	"github.com/starford/labkit/internal/notebook"
)

func TestExperiments(t *testing.T) {
	summaries := []notebook.Summary{
		{ID: "EXP_20241230_120000", Title: "Protein expression", Status: models.StatusCompleted,
			Created: "2024-12-30T12:00:00", Tags: []string{"gfp", "ecoli"}},
		{ID: "EXP_20241229_090000", Title: "Plasmid prep, large scale", Status: models.StatusInProgress,
			Created: "2024-12-29T09:00:00"},
	}

	var buf strings.Builder
	if err := Experiments(&buf, summaries); err != nil {
		t.Fatalf("Experiments: %v", err)
	}

	rows, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	if err != nil {
		t.Fatalf("parse output: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want header + 2", len(rows))
	}
	if got := strings.Join(rows[0], ","); got != "id,title,status,created,tags" {
		t.Errorf("header = %q", got)
	}
	if rows[1][4] != "gfp;ecoli" {
		t.Errorf("tags cell = %q, want semicolon-joined", rows[1][4])
	}
	// A comma in the title must survive the round trip.
	if rows[2][1] != "Plasmid prep, large scale" {
		t.Errorf("title cell = %q", rows[2][1])
	}
	if rows[2][4] != "" {
		t.Errorf("empty tags cell = %q", rows[2][4])
	}
}

func TestInventory(t *testing.T) {
	samples := []models.Sample{
		{SampleID: "DNA-001", Type: "DNA", Description: "Plasmid pUC19", Location: "Freezer A",
			Quantity: 80.5, Unit: "µg", Concentration: "500 ng/µL", Batch: "B2024-01",
			Source: "Lab prep", Added: "2024-12-30T12:00:00", Status: models.StatusAvailable,
			UsageHistory: []models.UsageEntry{{Date: "2024-12-30T13:00:00", Amount: 19.5, Unit: "µg"}}},
	}

	var buf strings.Builder
	if err := Inventory(&buf, samples); err != nil {
		t.Fatalf("Inventory: %v", err)
	}

	rows, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	if err != nil {
		t.Fatalf("parse output: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want header + 1", len(rows))
	}
	if len(rows[0]) != 12 {
		t.Errorf("header has %d columns, want 12", len(rows[0]))
	}
	if rows[1][4] != "80.5" {
		t.Errorf("quantity cell = %q", rows[1][4])
	}
	if rows[1][11] != "Available" {
		t.Errorf("status cell = %q", rows[1][11])
	}
	if strings.Contains(buf.String(), "usage") {
		t.Error("usage history leaked into the export")
	}
}

func TestEmptyInputsStillWriteHeaders(t *testing.T) {
	var exps, inv strings.Builder
	if err := Experiments(&exps, nil); err != nil {
		t.Fatalf("Experiments: %v", err)
	}
	if err := Inventory(&inv, nil); err != nil {
		t.Fatalf("Inventory: %v", err)
	}
	if !strings.HasPrefix(exps.String(), "id,title") {
		t.Errorf("experiments header = %q", exps.String())
	}
	if !strings.HasPrefix(inv.String(), "sample_id,type") {
		t.Errorf("inventory header = %q", inv.String())
	}
}
