package snapshot

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/carloscrcalderonr/finmaq-test/internal/ports"
)

// CSVWriter dumps intermediate datasets as delimited files in a fixed
// directory. Files are overwritten on every run, never appended.
type CSVWriter struct {
	dir string
}

var _ ports.SnapshotWriter = (*CSVWriter)(nil)

// NewCSVWriter targets dir, creating it on first write if needed.
func NewCSVWriter(dir string) *CSVWriter {
	return &CSVWriter{dir: dir}
}

// Write replaces filename inside the snapshot directory with header+records.
func (w *CSVWriter) Write(filename string, header []string, records [][]string) error {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return fmt.Errorf("create snapshot dir %s: %w", w.dir, err)
	}

	path := filepath.Join(w.dir, filename)
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create snapshot %s: %w", path, err)
	}

	writer := csv.NewWriter(file)
	if err := writer.Write(header); err != nil {
		_ = file.Close()
		return fmt.Errorf("write header %s: %w", path, err)
	}
	if err := writer.WriteAll(records); err != nil {
		_ = file.Close()
		return fmt.Errorf("write records %s: %w", path, err)
	}

	if err := file.Close(); err != nil {
		return fmt.Errorf("close snapshot %s: %w", path, err)
	}

	return nil
}
