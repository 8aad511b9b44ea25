package protocol

import (
	"errors"
	"testing"
	"time"

	"github.com/starford/labkit/internal/apperr"
	"github.com/starford/labkit/internal/models"
	"github.com/starford/labkit/internal/testutil"
)

func testManager(t *testing.T) *Manager {
	t.Helper()
	start := time.Date(2024, 12, 30, 12, 0, 0, 0, time.UTC)
	return NewManager(testutil.TestDir(t), testutil.TestDir(t), testutil.Logger()).
		WithClock(testutil.Clock(start, time.Second))
}

func dnaExtraction() CreateParams {
	return CreateParams{
		Name:        "DNA Extraction",
		Description: "Standard protocol for genomic DNA extraction from tissue samples",
		Steps: []models.Step{
			{Action: "Add lysis buffer to sample", Duration: "5 min"},
			{Action: "Incubate", Temperature: "55°C", Duration: "30 min"},
			models.FreeText("Resuspend in TE buffer"),
		},
		Materials: []string{"Lysis buffer", "Proteinase K", "TE Buffer"},
		Notes:     "Store DNA at -20°C after extraction",
		Tags:      []string{"DNA", "Extraction"},
	}
}

func TestCreateStampsVersionAndChecksum(t *testing.T) {
	m := testManager(t)
	rec, err := m.Create(dnaExtraction())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if rec.Version != 1 {
		t.Errorf("version = %d, want 1", rec.Version)
	}
	if rec.ID != "dna_extraction_20241230_120000" {
		t.Errorf("id = %q", rec.ID)
	}
	if rec.Checksum == "" {
		t.Error("checksum not stamped")
	}

	loaded, err := m.Load(rec.ID)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Checksum != rec.Checksum {
		t.Errorf("persisted checksum %q differs from stamped %q", loaded.Checksum, rec.Checksum)
	}
}

func TestCreateRequiresNameAndSteps(t *testing.T) {
	m := testManager(t)
	if _, err := m.Create(CreateParams{Steps: dnaExtraction().Steps}); err == nil {
		t.Error("expected validation error for missing name")
	}
	if _, err := m.Create(CreateParams{Name: "X"}); err == nil {
		t.Error("expected validation error for missing steps")
	}
}

func TestUpdateMintsNewVersionAndPreservesOld(t *testing.T) {
	m := testManager(t)
	orig, err := m.Create(dnaExtraction())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	newSteps := []models.Step{{Action: "Completely new procedure"}}
	updated, err := m.Update(orig.ID, Patch{Steps: &newSteps})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}

	if updated.Version != orig.Version+1 {
		t.Errorf("version = %d, want %d", updated.Version, orig.Version+1)
	}
	if updated.ID == orig.ID {
		t.Error("update must mint a new id")
	}
	if updated.Checksum == orig.Checksum {
		t.Error("steps change must alter checksum")
	}
	if updated.Modified == "" {
		t.Error("modified timestamp not stamped")
	}

	// The original record is still loadable, byte-for-byte its old self.
	old, err := m.Load(orig.ID)
	if err != nil {
		t.Fatalf("Load original: %v", err)
	}
	if old.Version != 1 || old.Checksum != orig.Checksum {
		t.Errorf("original mutated: version=%d checksum=%q", old.Version, old.Checksum)
	}
}

func TestUpdateNotesOnlyKeepsChecksum(t *testing.T) {
	m := testManager(t)
	orig, _ := m.Create(dnaExtraction())

	notes := "revised storage note"
	tags := []string{"revised"}
	updated, err := m.Update(orig.ID, Patch{Notes: &notes, Tags: &tags})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Checksum != orig.Checksum {
		t.Error("notes and tags must not affect the checksum")
	}
	if updated.Version != 2 {
		t.Errorf("version = %d, want 2", updated.Version)
	}
}

func TestUpdateMissingProtocol(t *testing.T) {
	m := testManager(t)
	if _, err := m.Update("nope", Patch{}); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestVersionedIDEmbedsVersion(t *testing.T) {
	m := testManager(t)
	orig, _ := m.Create(dnaExtraction())
	updated, _ := m.Update(orig.ID, Patch{})
	if want := "dna_extraction_v2_"; len(updated.ID) < len(want) || updated.ID[:len(want)] != want {
		t.Errorf("id = %q, want %q prefix", updated.ID, want)
	}
}

func TestListSortsNewestFirstAndFiltersByTag(t *testing.T) {
	m := testManager(t)
	first, _ := m.Create(dnaExtraction())

	p := dnaExtraction()
	p.Name = "RNA Extraction"
	p.Tags = []string{"RNA"}
	second, _ := m.Create(p)

	all, err := m.List("")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("len = %d, want 2", len(all))
	}
	if all[0].ID != second.ID || all[1].ID != first.ID {
		t.Errorf("list not newest-first: %+v", all)
	}
	if all[0].Steps != len(p.Steps) {
		t.Errorf("step count = %d", all[0].Steps)
	}

	tagged, _ := m.List("RNA")
	if len(tagged) != 1 || tagged[0].ID != second.ID {
		t.Errorf("tag filter = %+v", tagged)
	}
}

func TestSearchCaseInsensitive(t *testing.T) {
	m := testManager(t)
	rec, _ := m.Create(dnaExtraction())

	hits, err := m.Search("GENOMIC")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(hits) != 1 || hits[0].ID != rec.ID {
		t.Errorf("hits = %+v", hits)
	}

	none, err := m.Search("chromatography")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(none) != 0 {
		t.Errorf("expected no hits, got %+v", none)
	}
}
