package store

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"vitiscli/internal/config"
	apperrors "vitiscli/internal/errors"
	"vitiscli/pkg/contracts/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS trade_records (
	flow     TEXT             NOT NULL,
	category TEXT             NOT NULL,
	year     INTEGER          NOT NULL,
	volume   DOUBLE PRECISION NOT NULL,
	value    DOUBLE PRECISION NOT NULL
);
CREATE INDEX IF NOT EXISTS trade_records_flow_idx ON trade_records (flow, category, year);
`

// PostgresStore keeps every flow in the trade_records table
type PostgresStore struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// BuildConnString returns cfg.DatabaseURL when set, otherwise a postgres URL
// assembled from the individual fields.
func BuildConnString(cfg config.StorageConfig) string {
	if cfg.DatabaseURL != "" {
		return cfg.DatabaseURL
	}

	sslMode := cfg.SSLMode
	if sslMode == "" {
		sslMode = "prefer"
	}

	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.User,
		url.QueryEscape(cfg.Password),
		cfg.Host,
		cfg.Port,
		cfg.Name,
		sslMode,
	)
}

// Connect creates a connection pool and verifies it with a ping
func Connect(ctx context.Context, cfg config.StorageConfig) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(BuildConnString(cfg))
	if err != nil {
		return nil, fmt.Errorf("parse connection string: %w", err)
	}
	if cfg.MinConns > 0 {
		poolCfg.MinConns = cfg.MinConns
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.ConnTimeout > 0 {
		poolCfg.ConnConfig.ConnectTimeout = cfg.ConnTimeout
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return pool, nil
}

// NewPostgresStore connects and creates the schema if needed
func NewPostgresStore(ctx context.Context, cfg config.StorageConfig, logger *slog.Logger) (*PostgresStore, error) {
	if logger == nil {
		logger = slog.Default()
	}
	pool, err := Connect(ctx, cfg)
	if err != nil {
		return nil, apperrors.NewStorageError("failed to connect to postgres", err)
	}

	s := &PostgresStore{pool: pool, logger: logger.With(slog.String("component", "postgres_store"))}
	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, apperrors.NewStorageError("failed to create schema", err)
	}

	s.logger.InfoContext(ctx, "postgres store ready",
		slog.String("host", cfg.Host),
		slog.String("database", cfg.Name),
	)
	return s, nil
}

// Load reads every record of flow ordered by category and year
func (s *PostgresStore) Load(ctx context.Context, flow domain.Flow) (Dataset, error) {
	if !flow.IsValid() {
		return Dataset{}, fmt.Errorf("invalid flow %q", flow)
	}

	rows, err := s.pool.Query(ctx,
		`SELECT category, year, volume, value FROM trade_records WHERE flow = $1 ORDER BY category, year`,
		string(flow))
	if err != nil {
		return Dataset{}, apperrors.NewStorageError("failed to query trade records", err)
	}

	records, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.TradeRecord, error) {
		var r domain.TradeRecord
		err := row.Scan(&r.Category, &r.Year, &r.Volume, &r.Value)
		return r, err
	})
	if err != nil {
		return Dataset{}, apperrors.NewStorageError("failed to scan trade records", err)
	}
	if len(records) == 0 {
		return Dataset{}, apperrors.NewMissingInputError(string(flow), "trade_records",
			"run the processor with the postgres storage driver to load this flow")
	}

	return NewDataset(flow, records), nil
}

// Save replaces every record of flow in one transaction
func (s *PostgresStore) Save(ctx context.Context, flow domain.Flow, records []domain.TradeRecord) error {
	if !flow.IsValid() {
		return fmt.Errorf("invalid flow %q", flow)
	}
	start := time.Now()

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return apperrors.NewStorageError("failed to begin transaction", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM trade_records WHERE flow = $1`, string(flow)); err != nil {
		return apperrors.NewStorageError("failed to clear trade records", err)
	}

	copied, err := tx.CopyFrom(ctx,
		pgx.Identifier{"trade_records"},
		[]string{"flow", "category", "year", "volume", "value"},
		pgx.CopyFromSlice(len(records), func(i int) ([]any, error) {
			r := records[i]
			return []any{string(flow), r.Category, r.Year, r.Volume, r.Value}, nil
		}),
	)
	if err != nil {
		return apperrors.NewStorageError("failed to copy trade records", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return apperrors.NewStorageError("failed to commit trade records", err)
	}

	s.logger.InfoContext(ctx, "trade records saved",
		slog.String("flow", string(flow)),
		slog.Int64("rows", copied),
		slog.Duration("duration", time.Since(start)),
	)
	return nil
}

// Ping verifies the connection
func (s *PostgresStore) Ping(ctx context.Context) error {
	if err := s.pool.Ping(ctx); err != nil {
		return apperrors.NewStorageError("ping postgres", err)
	}
	return nil
}

// Close closes the pool
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
