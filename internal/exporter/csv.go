package exporter

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// utf8BOM helps Excel recognise UTF-8 category names
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVWriter writes report tables into one directory
type CSVWriter struct {
	dir    string
	logger *slog.Logger
}

// NewCSVWriter creates a writer rooted at dir
func NewCSVWriter(dir string, logger *slog.Logger) *CSVWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVWriter{dir: dir, logger: logger}
}

// Dir returns the output directory
func (w *CSVWriter) Dir() string {
	return w.dir
}

// WriteOptions configures CSV writing behavior
type WriteOptions struct {
	Headers   []string
	Records   [][]string
	BOMPrefix bool
}

// WriteCSV writes a table to name. The file is written to a temporary path in
// the same directory and renamed into place, so readers never observe a
// partial table. It returns the final path.
func (w *CSVWriter) WriteCSV(name string, options WriteOptions) (string, error) {
	fullPath := w.resolvePath(name)

	dir := filepath.Dir(fullPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.CreateTemp(dir, filepath.Base(fullPath)+".*.tmp")
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer os.Remove(file.Name())

	if err := writeTable(file, options); err != nil {
		file.Close()
		return "", err
	}
	if err := file.Close(); err != nil {
		return "", fmt.Errorf("failed to close file: %w", err)
	}
	if err := os.Rename(file.Name(), fullPath); err != nil {
		return "", fmt.Errorf("failed to move %s into place: %w", name, err)
	}

	w.logger.Debug("csv table written",
		slog.String("path", fullPath),
		slog.Int("record_count", len(options.Records)))
	return fullPath, nil
}

// WriteSimpleCSV writes headers and records with a BOM prefix
func (w *CSVWriter) WriteSimpleCSV(name string, headers []string, records [][]string) (string, error) {
	return w.WriteCSV(name, WriteOptions{
		Headers:   headers,
		Records:   records,
		BOMPrefix: true,
	})
}

func writeTable(file *os.File, options WriteOptions) error {
	if options.BOMPrefix {
		if _, err := file.Write(utf8BOM); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	writer := csv.NewWriter(file)
	if len(options.Headers) > 0 {
		if err := writer.Write(options.Headers); err != nil {
			return fmt.Errorf("failed to write headers: %w", err)
		}
	}
	for i, record := range options.Records {
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// resolvePath places relative names under the writer's directory
func (w *CSVWriter) resolvePath(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(w.dir, name)
}
