package models

import (
	"encoding/json"
	"fmt"
)

// Step is one entry in a protocol's procedure. It is a tagged union:
// either a structured action (with optional duration, temperature and
// notes) or a single free-text instruction. A steps array in a stored
// document may mix both shapes, so Step carries custom JSON handling.
type Step struct {
	Action      string
	Duration    string
	Temperature string
	Notes       string

	// Text holds the free-text variant. When non-empty the structured
	// fields are ignored and the step serializes as a bare JSON string.
	Text string
}

// FreeText builds the unstructured variant.
func FreeText(text string) Step {
	return Step{Text: text}
}

// IsFreeText reports whether s is the unstructured variant.
func (s Step) IsFreeText() bool {
	return s.Text != ""
}

// Summary returns the one-line description of the step: the action for
// structured steps, the raw text otherwise.
func (s Step) Summary() string {
	if s.IsFreeText() {
		return s.Text
	}
	return s.Action
}

// structuredStep is the wire shape of the structured variant. Fields
// are declared in alphabetical order so the canonical serialization
// used by checksum fingerprints is stable.
type structuredStep struct {
	Action      string `json:"action"`
	Duration    string `json:"duration,omitempty"`
	Notes       string `json:"notes,omitempty"`
	Temperature string `json:"temperature,omitempty"`
}

// MarshalJSON emits a JSON string for free-text steps and an object for
// structured ones.
func (s Step) MarshalJSON() ([]byte, error) {
	if s.IsFreeText() {
		return json.Marshal(s.Text)
	}
	return json.Marshal(structuredStep{
		Action:      s.Action,
		Duration:    s.Duration,
		Notes:       s.Notes,
		Temperature: s.Temperature,
	})
}

// UnmarshalJSON accepts either a JSON string or a structured object.
func (s *Step) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		*s = Step{Text: text}
		return nil
	}
	var obj structuredStep
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("models: step is neither text nor object: %w", err)
	}
	*s = Step{
		Action:      obj.Action,
		Duration:    obj.Duration,
		Notes:       obj.Notes,
		Temperature: obj.Temperature,
	}
	return nil
}
