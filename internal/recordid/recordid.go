// Package recordid derives human-traceable record identifiers from
// names and timestamps.
//
// Stamps have second resolution, so two records minted for the same
// seed within the same second collide. The toolkit assumes a single
// operator and accepts this rather than appending a uniqueness suffix.
package recordid

import (
	"fmt"
	"strings"
	"time"
)

// StampLayout is the timestamp portion of every generated id.
const StampLayout = "20060102_150405"

// Slug lowercases name and replaces spaces with underscores.
func Slug(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), " ", "_")
}

// Protocol returns the id for a freshly created protocol.
func Protocol(name string, t time.Time) string {
	return Slug(name) + "_" + t.Format(StampLayout)
}

// ProtocolVersion returns the id for a versioned protocol update,
// embedding the new version number between slug and stamp.
func ProtocolVersion(name string, version int, t time.Time) string {
	return fmt.Sprintf("%s_v%d_%s", Slug(name), version, t.Format(StampLayout))
}

// Experiment returns the id for a new experiment entry.
func Experiment(t time.Time) string {
	return "EXP_" + t.Format(StampLayout)
}
