package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"vitiscli/internal/config"
	apperrors "vitiscli/internal/errors"
	"vitiscli/internal/infrastructure"
	"vitiscli/internal/ingest"
	"vitiscli/internal/store"
	"vitiscli/pkg/contracts/domain"
)

// options are the command line overrides of the loaded configuration
type options struct {
	configPath  string
	rawDir      string
	startYear   int
	endYear     int
	skipMissing bool
}

func main() {
	var opts options
	flag.StringVar(&opts.configPath, "config", "", "YAML configuration file (defaults to VITIS_CONFIG or ./config.yaml)")
	flag.StringVar(&opts.rawDir, "raw", "", "directory holding Exportacao/Importacao raw files (defaults to data/raw)")
	flag.IntVar(&opts.startYear, "start", 0, "first year to keep (defaults to analysis.start_year)")
	flag.IntVar(&opts.endYear, "end", 0, "last year to keep (defaults to analysis.end_year)")
	flag.BoolVar(&opts.skipMissing, "skip-missing", false, "skip flows whose raw file is absent instead of failing")
	flag.Parse()

	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}
	defer infrastructure.CloseLogFile()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, opts, logger, os.Stdout); err != nil {
		logger.Error("Processing failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFile(path)
	}
	return config.Load()
}

// run converts every raw flow file into long records and saves them to the
// configured store
func run(ctx context.Context, cfg *config.Config, opts options, logger *slog.Logger, out io.Writer) error {
	start := time.Now()

	paths, err := cfg.Paths.Resolve()
	if err != nil {
		return err
	}
	if err := paths.EnsureDirectories(); err != nil {
		return err
	}
	rawDir := paths.RawDir
	if opts.rawDir != "" {
		rawDir = opts.rawDir
	}

	wide := ingest.DefaultWideOptions()
	wide.StartYear = firstNonZero(opts.startYear, cfg.Analysis.StartYear)
	wide.EndYear = firstNonZero(opts.endYear, cfg.Analysis.EndYear)

	logger.InfoContext(ctx, "Starting raw data processing",
		slog.String("raw_dir", rawDir),
		slog.String("storage", cfg.Storage.Driver),
		slog.Int("start_year", wide.StartYear),
		slog.Int("end_year", wide.EndYear))

	st, err := store.New(ctx, cfg.Storage, paths.ProcessedDir, logger)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	loader := ingest.NewLoader(rawDir, wide, logger)
	processed := 0
	for _, flow := range []domain.Flow{domain.FlowExport, domain.FlowImport} {
		records, err := loader.LoadFlow(ctx, flow)
		if err != nil {
			if opts.skipMissing && apperrors.IsMissingInput(err) {
				logger.WarnContext(ctx, "Raw file missing, skipping flow",
					slog.String("flow", string(flow)),
					slog.String("error", err.Error()))
				fmt.Fprintf(out, "%-7s skipped (raw file missing)\n", flow)
				continue
			}
			return err
		}

		if err := st.Save(ctx, flow, records); err != nil {
			return fmt.Errorf("save %s: %w", flow, err)
		}
		fmt.Fprintf(out, "%-7s %6d records saved\n", flow, len(records))
		processed++
	}

	if processed == 0 {
		return apperrors.NewMissingInputError("raw", rawDir, "no raw files were found to process")
	}

	logger.InfoContext(ctx, "Raw data processing completed",
		slog.Int("flows", processed),
		slog.Duration("duration", time.Since(start)))
	return nil
}

func firstNonZero(values ...int) int {
	for _, v := range values {
		if v != 0 {
			return v
		}
	}
	return 0
}
