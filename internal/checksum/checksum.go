// Package checksum computes content fingerprints for drift detection
// between protocol versions. The digest covers only the material
// fields (name, steps, materials); it is not a cryptographic
// integrity guarantee.
package checksum

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/starford/labkit/internal/models"
)

// fingerprintDoc fixes the canonical serialization: keys in
// alphabetical order, list order preserved.
type fingerprintDoc struct {
	Materials []string      `json:"materials"`
	Name      string        `json:"name"`
	Steps     []models.Step `json:"steps"`
}

// Fingerprint returns the hex-encoded SHA-256 digest over the
// canonical serialization of exactly name, steps and materials. Any
// other protocol field leaves the fingerprint unchanged.
func Fingerprint(name string, steps []models.Step, materials []string) (string, error) {
	if materials == nil {
		materials = []string{}
	}
	if steps == nil {
		steps = []models.Step{}
	}
	data, err := json.Marshal(fingerprintDoc{
		Materials: materials,
		Name:      name,
		Steps:     steps,
	})
	if err != nil {
		return "", fmt.Errorf("checksum: serialize: %w", err)
	}
	return Sum(data), nil
}

// Sum returns the hex-encoded SHA-256 digest of data.
func Sum(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}
