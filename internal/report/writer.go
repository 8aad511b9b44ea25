package report

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Writer persists compiled report text into a reports directory. It is
// the only side-effecting part of this package.
type Writer struct {
	dir    string
	logger *slog.Logger
}

// NewWriter creates the reports directory if absent and returns a
// Writer over it.
func NewWriter(dir string, logger *slog.Logger) (*Writer, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("report: resolve dir: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("report: create dir: %w", err)
	}
	return &Writer{dir: abs, logger: logger}, nil
}

// Write stores text under name inside the reports directory and
// returns the full path.
func (w *Writer) Write(name, text string) (string, error) {
	path := filepath.Join(w.dir, filepath.Base(name))
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return "", fmt.Errorf("report: write %s: %w", name, err)
	}
	w.logger.Info("report written", slog.String("path", path))
	return path, nil
}
