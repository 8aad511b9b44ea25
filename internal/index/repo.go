package index

import (
	"encoding/json"
	"fmt"
	"time"
)

// Row represents one indexed record.
type Row struct {
	Kind      string
	ID        string
	Name      string
	Status    string
	Tags      []string
	Checksum  string
	UpdatedAt time.Time
}

// SearchResult represents one search hit.
type SearchResult struct {
	Kind    string
	ID      string
	Name    string
	Snippet string
}

// Upsert inserts or replaces an indexed record and its FTS entry
// within a transaction.
func (db *DB) Upsert(r Row, body string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	tagsJSON, _ := json.Marshal(r.Tags)

	_, err = tx.Exec(`
		INSERT INTO records (kind, id, name, status, tags, body, checksum, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(kind, id) DO UPDATE SET
			name       = excluded.name,
			status     = excluded.status,
			tags       = excluded.tags,
			body       = excluded.body,
			checksum   = excluded.checksum,
			updated_at = excluded.updated_at
	`, r.Kind, r.ID, r.Name, r.Status, string(tagsJSON), body, r.Checksum, r.UpdatedAt)
	if err != nil {
		return fmt.Errorf("index: upsert record: %w", err)
	}

	if err := ftsUpsert(tx, r.Kind, r.ID, r.Name, body, r.Tags); err != nil {
		return err
	}

	return tx.Commit()
}

// Delete removes a record and its FTS entry.
func (db *DB) Delete(kind, id string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	ftsDelete(tx, kind, id)
	_, _ = tx.Exec(`DELETE FROM records WHERE kind = ? AND id = ?`, kind, id)

	return tx.Commit()
}

// AllChecksums returns the stored content checksum for every indexed
// record, keyed by kind then id.
func (db *DB) AllChecksums() (map[string]map[string]string, error) {
	rows, err := db.conn.Query(`SELECT kind, id, checksum FROM records`)
	if err != nil {
		return nil, fmt.Errorf("index: all checksums: %w", err)
	}
	defer rows.Close()
	out := make(map[string]map[string]string)
	for rows.Next() {
		var kind, id, cs string
		if err := rows.Scan(&kind, &id, &cs); err != nil {
			return nil, err
		}
		if out[kind] == nil {
			out[kind] = make(map[string]string)
		}
		out[kind][id] = cs
	}
	return out, rows.Err()
}

// Count returns the number of indexed records of the given kind, or of
// all kinds when kind is empty.
func (db *DB) Count(kind string) (int, error) {
	var n int
	var err error
	if kind == "" {
		err = db.conn.QueryRow(`SELECT count(*) FROM records`).Scan(&n)
	} else {
		err = db.conn.QueryRow(`SELECT count(*) FROM records WHERE kind = ?`, kind).Scan(&n)
	}
	if err != nil {
		return 0, fmt.Errorf("index: count: %w", err)
	}
	return n, nil
}
