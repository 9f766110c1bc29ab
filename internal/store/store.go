package store

import (
	"context"
	"fmt"
	"log/slog"

	"vitiscli/internal/config"
	"vitiscli/internal/memo"
	"vitiscli/pkg/contracts/domain"
)

// Dataset is a loaded trade series with its content fingerprint
type Dataset struct {
	Flow        domain.Flow
	Records     []domain.TradeRecord
	Fingerprint string
}

// NewDataset fingerprints records for flow
func NewDataset(flow domain.Flow, records []domain.TradeRecord) Dataset {
	return Dataset{Flow: flow, Records: records, Fingerprint: memo.Fingerprint(records)}
}

// Store persists processed trade series. Load returns an
// *errors.MissingInputError when the flow has never been saved.
type Store interface {
	Load(ctx context.Context, flow domain.Flow) (Dataset, error)
	Save(ctx context.Context, flow domain.Flow, records []domain.TradeRecord) error
	Ping(ctx context.Context) error
	Close() error
}

// New creates the store selected by cfg.Driver
func New(ctx context.Context, cfg config.StorageConfig, processedDir string, logger *slog.Logger) (Store, error) {
	switch cfg.Driver {
	case "", config.DriverCSV:
		return NewFileStore(processedDir, logger), nil
	case config.DriverPostgres:
		return NewPostgresStore(ctx, cfg, logger)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
