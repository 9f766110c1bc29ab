package store

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	apperrors "vitiscli/internal/errors"
	"vitiscli/internal/ingest"
	"vitiscli/pkg/contracts/domain"
)

// FileStore keeps each flow as a processed CSV file in one directory
type FileStore struct {
	dir    string
	logger *slog.Logger
}

// NewFileStore creates a store rooted at dir
func NewFileStore(dir string, logger *slog.Logger) *FileStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileStore{dir: dir, logger: logger.With(slog.String("component", "file_store"))}
}

// Path returns the processed file of flow
func (s *FileStore) Path(flow domain.Flow) string {
	return filepath.Join(s.dir, string(flow)+"_processed.csv")
}

// Load reads the processed file of flow
func (s *FileStore) Load(ctx context.Context, flow domain.Flow) (Dataset, error) {
	if !flow.IsValid() {
		return Dataset{}, fmt.Errorf("invalid flow %q", flow)
	}

	path := s.Path(flow)
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return Dataset{}, apperrors.NewMissingInputError(string(flow), path,
			"run the processor to build processed datasets from the raw files")
	}
	if err != nil {
		return Dataset{}, apperrors.NewStorageError("failed to open processed dataset", err)
	}
	defer f.Close()

	records, err := ingest.ReadProcessed(f)
	if err != nil {
		return Dataset{}, apperrors.NewParsingError(fmt.Sprintf("failed to parse %s", path), err)
	}

	s.logger.DebugContext(ctx, "processed dataset loaded",
		slog.String("flow", string(flow)),
		slog.Int("records", len(records)),
	)
	return NewDataset(flow, records), nil
}

// Save writes records to a temporary file and renames it into place
func (s *FileStore) Save(ctx context.Context, flow domain.Flow, records []domain.TradeRecord) error {
	if !flow.IsValid() {
		return fmt.Errorf("invalid flow %q", flow)
	}
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return apperrors.NewStorageError("failed to create processed directory", err)
	}

	tmp, err := os.CreateTemp(s.dir, string(flow)+"-*.csv.tmp")
	if err != nil {
		return apperrors.NewStorageError("failed to create temporary file", err)
	}
	defer os.Remove(tmp.Name())

	if err := ingest.WriteProcessed(tmp, records); err != nil {
		tmp.Close()
		return apperrors.NewStorageError("failed to write processed dataset", err)
	}
	if err := tmp.Close(); err != nil {
		return apperrors.NewStorageError("failed to close processed dataset", err)
	}
	if err := os.Rename(tmp.Name(), s.Path(flow)); err != nil {
		return apperrors.NewStorageError("failed to move processed dataset into place", err)
	}

	s.logger.InfoContext(ctx, "processed dataset saved",
		slog.String("flow", string(flow)),
		slog.String("path", s.Path(flow)),
		slog.Int("records", len(records)),
	)
	return nil
}

// Ping checks that the directory exists
func (s *FileStore) Ping(context.Context) error {
	info, err := os.Stat(s.dir)
	if err != nil {
		return apperrors.NewStorageError("processed directory unavailable", err)
	}
	if !info.IsDir() {
		return apperrors.NewStorageError(s.dir+" is not a directory", nil)
	}
	return nil
}

// Close is a no-op
func (s *FileStore) Close() error { return nil }
