package models

import (
	"encoding/json"
	"testing"
)

func TestStepMixedArrayRoundTrip(t *testing.T) {
	// A stored steps array may mix structured objects and bare strings.
	raw := `[{"action":"Incubate","duration":"30 min","temperature":"55°C"},"Resuspend in TE buffer"]`

	var steps []Step
	if err := json.Unmarshal([]byte(raw), &steps); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if len(steps) != 2 {
		t.Fatalf("len = %d, want 2", len(steps))
	}
	if steps[0].IsFreeText() || steps[0].Action != "Incubate" || steps[0].Temperature != "55°C" {
		t.Errorf("structured step not parsed: %+v", steps[0])
	}
	if !steps[1].IsFreeText() || steps[1].Text != "Resuspend in TE buffer" {
		t.Errorf("free-text step not parsed: %+v", steps[1])
	}

	out, err := json.Marshal(steps)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var again []Step
	if err := json.Unmarshal(out, &again); err != nil {
		t.Fatalf("Unmarshal round trip: %v", err)
	}
	for i := range steps {
		if again[i] != steps[i] {
			t.Errorf("step %d changed across round trip: %+v vs %+v", i, again[i], steps[i])
		}
	}
}

func TestStepFreeTextMarshalsAsString(t *testing.T) {
	out, err := json.Marshal(FreeText("Centrifuge"))
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(out) != `"Centrifuge"` {
		t.Errorf("free-text step = %s, want a bare JSON string", out)
	}
}

func TestStepSummary(t *testing.T) {
	if got := (Step{Action: "Mix"}).Summary(); got != "Mix" {
		t.Errorf("Summary = %q", got)
	}
	if got := FreeText("Wash pellet").Summary(); got != "Wash pellet" {
		t.Errorf("Summary = %q", got)
	}
}

func TestStepInvalidJSON(t *testing.T) {
	var s Step
	if err := json.Unmarshal([]byte(`42`), &s); err == nil {
		t.Error("expected error for numeric step")
	}
}
