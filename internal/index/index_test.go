package index_test

import (
	"testing"
	"time"

	"github.com/starford/labkit/internal/index"
	"github.com/starford/labkit/internal/testutil"
)

func protocolRow(id, name string) index.Row {
	return index.Row{
		Kind:      index.KindProtocol,
		ID:        id,
		Name:      name,
		Status:    "v1",
		Tags:      []string{"dna"},
		Checksum:  "cs-" + id,
		UpdatedAt: time.Date(2024, 12, 30, 12, 0, 0, 0, time.UTC),
	}
}

func TestUpsertAndCount(t *testing.T) {
	db := testutil.TestDB(t)

	if err := db.Upsert(protocolRow("dna_extraction_20241230_120000", "DNA Extraction"), "phenol chloroform"); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if err := db.Upsert(index.Row{Kind: index.KindSample, ID: "DNA-001", Name: "DNA-001", Status: "Available"}, "plasmid prep"); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	n, err := db.Count("")
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != 2 {
		t.Errorf("total count = %d, want 2", n)
	}
	n, _ = db.Count(index.KindProtocol)
	if n != 1 {
		t.Errorf("protocol count = %d, want 1", n)
	}
}

func TestUpsertReplaces(t *testing.T) {
	db := testutil.TestDB(t)

	r := protocolRow("dna_extraction_20241230_120000", "DNA Extraction")
	if err := db.Upsert(r, "old body"); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	r.Name = "DNA Extraction (revised)"
	r.Checksum = "cs-2"
	if err := db.Upsert(r, "new body"); err != nil {
		t.Fatalf("Upsert again: %v", err)
	}

	if n, _ := db.Count(index.KindProtocol); n != 1 {
		t.Errorf("count = %d after replacing upsert, want 1", n)
	}
	cs, err := db.AllChecksums()
	if err != nil {
		t.Fatalf("AllChecksums: %v", err)
	}
	if got := cs[index.KindProtocol][r.ID]; got != "cs-2" {
		t.Errorf("stored checksum = %q, want cs-2", got)
	}
}

func TestDelete(t *testing.T) {
	db := testutil.TestDB(t)

	if err := db.Upsert(protocolRow("p1", "P1"), ""); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if err := db.Delete(index.KindProtocol, "p1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if n, _ := db.Count(""); n != 0 {
		t.Errorf("count = %d after delete, want 0", n)
	}
	// Deleting an absent record is not an error.
	if err := db.Delete(index.KindProtocol, "nope"); err != nil {
		t.Errorf("Delete missing: %v", err)
	}
}

func TestSearch(t *testing.T) {
	db := testutil.TestDB(t)

	rows := []struct {
		row  index.Row
		body string
	}{
		{protocolRow("dna_extraction_20241230_120000", "DNA Extraction"), "phenol chloroform extraction"},
		{index.Row{Kind: index.KindExperiment, ID: "EXP_20241230_130000", Name: "Protein expression"}, "express recombinant GFP in E. coli"},
		{index.Row{Kind: index.KindSample, ID: "DNA-001", Name: "DNA-001", Tags: []string{"DNA"}}, "plasmid pUC19 freezer A"},
	}
	for _, r := range rows {
		if err := db.Upsert(r.row, r.body); err != nil {
			t.Fatalf("Upsert %s: %v", r.row.ID, err)
		}
	}

	hits, err := db.Search("phenol", "", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(hits) != 1 || hits[0].ID != "dna_extraction_20241230_120000" {
		t.Errorf("hits = %+v", hits)
	}
	if hits[0].Snippet == "" {
		t.Error("snippet empty")
	}

	// Kind filter excludes matches of other kinds.
	hits, err = db.Search("DNA", index.KindSample, 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(hits) != 1 || hits[0].Kind != index.KindSample {
		t.Errorf("kind-filtered hits = %+v", hits)
	}

	// Limit caps the result set.
	hits, err = db.Search("DNA", "", 1)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(hits) != 1 {
		t.Errorf("limited hits = %d, want 1", len(hits))
	}

	hits, err = db.Search("nonexistentterm", "", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(hits) != 0 {
		t.Errorf("hits for absent term = %+v", hits)
	}
}
