// Package testutil provides shared test helpers for setting up record
// stores and index databases.
package testutil

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/starford/labkit/internal/index"
	"github.com/starford/labkit/internal/store"
)

// Logger returns a quiet logger for tests.
func Logger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

// Clock returns a fixed time source advancing by step on every call,
// so records minted in sequence get distinct second-resolution stamps.
func Clock(start time.Time, step time.Duration) func() time.Time {
	current := start
	return func() time.Time {
		t := current
		current = current.Add(step)
		return t
	}
}

// TestDir creates a temporary directory-backed store cleaned up with
// the test.
func TestDir(t *testing.T) *store.Dir {
	t.Helper()
	dir, err := store.NewDir(t.TempDir())
	if err != nil {
		t.Fatalf("NewDir: %v", err)
	}
	return dir
}

// TestLedger creates a temporary ledger store cleaned up with the test.
func TestLedger(t *testing.T) *store.Ledger {
	t.Helper()
	ledger, err := store.NewLedger(filepath.Join(t.TempDir(), "inventory.json"))
	if err != nil {
		t.Fatalf("NewLedger: %v", err)
	}
	return ledger
}

// TestDB creates a temporary SQLite index that is automatically
// cleaned up.
func TestDB(t *testing.T) *index.DB {
	t.Helper()
	dbFile, err := os.CreateTemp("", "labkit-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := index.Open(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}
