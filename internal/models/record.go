// Package models defines the domain types for labkit records.
package models

import "time"

// Timestamp is the wall-clock format persisted in record documents.
// Second resolution, matching the id stamps.
const Timestamp = "2006-01-02T15:04:05"

// Protocol is an immutable, versioned lab procedure. Updating a
// protocol never mutates an existing record; it mints a new one with
// version incremented and a fresh checksum.
type Protocol struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Created     string   `json:"created"`
	Modified    string   `json:"modified,omitempty"`
	Version     int      `json:"version"`
	Steps       []Step   `json:"steps"`
	Materials   []string `json:"materials"`
	Notes       string   `json:"notes"`
	Tags        []string `json:"tags"`
	Checksum    string   `json:"checksum"`
}

// Experiment is one lab notebook entry.
type Experiment struct {
	ID           string            `json:"id"`
	Title        string            `json:"title"`
	ProtocolID   string            `json:"protocol_id,omitempty"` // weak reference, resolved by the caller
	Objective    string            `json:"objective"`
	Hypothesis   string            `json:"hypothesis"`
	Materials    []string          `json:"materials"`
	Tags         []string          `json:"tags"`
	Created      string            `json:"created"`
	Status       ExperimentStatus  `json:"status"`
	Observations []Observation     `json:"observations"`
	Results      map[string]string `json:"results"`
	Conclusions  string            `json:"conclusions"`
	Completed    string            `json:"completed,omitempty"`
	Attachments  []Attachment      `json:"attachments"`
}

// ExperimentStatus is the lifecycle state of an experiment. The only
// legal transition is StatusInProgress -> StatusCompleted.
type ExperimentStatus string

const (
	StatusInProgress ExperimentStatus = "In Progress"
	StatusCompleted  ExperimentStatus = "Completed"
)

// Observation is one timestamped free-text note inside an experiment.
type Observation struct {
	Timestamp   string `json:"timestamp"`
	Observation string `json:"observation"`
}

// Attachment references a data file associated with an experiment.
type Attachment struct {
	Type  string `json:"type"`
	File  string `json:"file"`
	Added string `json:"added"`
}

// Sample is one inventory record inside the shared samples ledger.
type Sample struct {
	SampleID      string       `json:"sample_id"`
	Type          string       `json:"type"`
	Description   string       `json:"description"`
	Location      string       `json:"location"`
	Quantity      float64      `json:"quantity"`
	Unit          string       `json:"unit"`
	Concentration string       `json:"concentration,omitempty"`
	Batch         string       `json:"batch,omitempty"`
	Source        string       `json:"source"`
	Notes         string       `json:"notes"`
	Added         string       `json:"added"`
	LastModified  string       `json:"last_modified,omitempty"`
	Status        SampleStatus `json:"status"`
	UsageHistory  []UsageEntry `json:"usage_history"`
}

// SampleStatus is the availability state of a sample. Depleted is set
// when quantity reaches zero and never reverts automatically.
type SampleStatus string

const (
	StatusAvailable SampleStatus = "Available"
	StatusDepleted  SampleStatus = "Depleted"
)

// UsageEntry is one append-only consumption event on a sample.
type UsageEntry struct {
	Date         string  `json:"date"`
	Amount       float64 `json:"amount"`
	Unit         string  `json:"unit"`
	UsedBy       string  `json:"used_by"`
	ExperimentID string  `json:"experiment_id,omitempty"` // weak reference
	Notes        string  `json:"notes"`
}

// Stamp formats t in the persisted record timestamp layout.
func Stamp(t time.Time) string {
	return t.Format(Timestamp)
}
