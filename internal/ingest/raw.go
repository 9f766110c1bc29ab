package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	apperrors "vitiscli/internal/errors"
	"vitiscli/pkg/contracts/domain"
)

// RawFileNames maps each flow to its file name in the raw directory
var RawFileNames = map[domain.Flow]string{
	domain.FlowExport: "Exportacao.csv",
	domain.FlowImport: "Importacao.csv",
}

// Loader reads raw files and returns validated records
type Loader struct {
	dir       string
	opts      WideOptions
	validator *Validator
	logger    *slog.Logger
}

// NewLoader creates a raw file loader rooted at dir
func NewLoader(dir string, opts WideOptions, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		dir:       dir,
		opts:      opts,
		validator: NewValidator(),
		logger:    logger.With(slog.String("component", "ingest")),
	}
}

// LoadFlow reads the raw file of flow. A .xlsx file with the same base name
// is used when the CSV is absent.
func (l *Loader) LoadFlow(ctx context.Context, flow domain.Flow) ([]domain.TradeRecord, error) {
	name, ok := RawFileNames[flow]
	if !ok {
		return nil, fmt.Errorf("no raw file configured for flow %q", flow)
	}

	path := filepath.Join(l.dir, name)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		alt := strings.TrimSuffix(path, filepath.Ext(path)) + ".xlsx"
		if _, altErr := os.Stat(alt); altErr != nil {
			return nil, apperrors.NewMissingInputError(string(flow), path,
				"download the Embrapa/Vitibrasil "+string(flow)+" table into the raw data directory")
		}
		path = alt
	}

	records, err := ReadFile(path, l.opts)
	if err != nil {
		return nil, fmt.Errorf("ingest %s: %w", flow, err)
	}
	if err := l.validator.ValidateRecords(records); err != nil {
		return nil, fmt.Errorf("ingest %s: %w", flow, err)
	}

	l.logger.InfoContext(ctx, "raw dataset ingested",
		slog.String("flow", string(flow)),
		slog.String("path", path),
		slog.Int("records", len(records)),
	)
	return records, nil
}

// ReadFile parses a raw wide file, choosing the reader from the extension
func ReadFile(path string, opts WideOptions) ([]domain.TradeRecord, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return ParseWorkbook(path, "", opts)
	default:
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open raw file: %w", err)
		}
		defer f.Close()
		return ParseWide(f, opts)
	}
}
