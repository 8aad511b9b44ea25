// Package store persists records as JSON documents on the local file
// system: one file per record for directory-backed kinds, or one
// shared ledger file for the samples inventory.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/starford/labkit/internal/apperr"
)

// Dir is a directory-backed collection of JSON documents, one file per
// record id. The directory is created on first use.
type Dir struct {
	root string
}

// NewDir creates a Dir rooted at the given directory, creating it if
// absent. Repeated calls on the same path are idempotent.
func NewDir(root string) (*Dir, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("store: resolve root: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("store: create root: %w", err)
	}
	return &Dir{root: abs}, nil
}

// Root returns the absolute directory path backing this store.
func (d *Dir) Root() string {
	return d.root
}

func (d *Dir) path(id string) string {
	if !strings.HasSuffix(id, ".json") {
		id += ".json"
	}
	return filepath.Join(d.root, filepath.Base(id))
}

// Save writes doc as the full document for id, overwriting any prior
// content. This is a whole-document replace, not a merge.
func (d *Dir) Save(id string, doc any) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("store: marshal %s: %w", id, err)
	}
	return writeAtomic(d.path(id), data)
}

// Load reads the document for id into out. A missing id yields
// apperr.ErrNotFound; a file that cannot be parsed yields
// apperr.ErrMalformedStore.
func (d *Dir) Load(id string, out any) error {
	data, err := os.ReadFile(d.path(id))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("store: load %s: %w", id, apperr.ErrNotFound)
		}
		return fmt.Errorf("store: load %s: %w", id, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("store: parse %s: %w", id, apperr.ErrMalformedStore)
	}
	return nil
}

// List decodes every .json document under d. Order is unspecified;
// callers sort by their own key.
func List[T any](d *Dir) ([]T, error) {
	entries, err := os.ReadDir(d.root)
	if err != nil {
		return nil, fmt.Errorf("store: list: %w", err)
	}
	var out []T
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(d.root, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("store: list read %s: %w", e.Name(), err)
		}
		var doc T
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("store: parse %s: %w", e.Name(), apperr.ErrMalformedStore)
		}
		out = append(out, doc)
	}
	return out, nil
}

// Ledger is a single shared JSON document holding a whole record set.
// Every mutation is a full read-modify-write of the file.
type Ledger struct {
	path string
}

// NewLedger creates the parent directory if needed and returns a
// Ledger at path. The file itself is seeded lazily by Save.
func NewLedger(path string) (*Ledger, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("store: resolve ledger: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return nil, fmt.Errorf("store: create ledger dir: %w", err)
	}
	return &Ledger{path: abs}, nil
}

// Path returns the absolute ledger file path.
func (l *Ledger) Path() string {
	return l.path
}

// Load reads the ledger document into out. A missing file leaves out
// untouched and returns nil, so a fresh ledger starts empty.
func (l *Ledger) Load(out any) error {
	data, err := os.ReadFile(l.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("store: load ledger: %w", err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("store: parse ledger: %w", apperr.ErrMalformedStore)
	}
	return nil
}

// Save overwrites the entire ledger document.
func (l *Ledger) Save(doc any) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("store: marshal ledger: %w", err)
	}
	return writeAtomic(l.path, data)
}

// writeAtomic writes content via tmp file -> fsync -> rename so a
// crash mid-write never leaves a partially written document behind.
func writeAtomic(path string, content []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".labkit-tmp-*")
	if err != nil {
		return fmt.Errorf("store: create temp: %w", err)
	}
	tmpName := tmp.Name()

	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(content); err != nil {
		return fmt.Errorf("store: write temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("store: fsync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("store: close temp: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("store: rename: %w", err)
	}
	success = true
	return nil
}
