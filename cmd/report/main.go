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
	"text/tabwriter"
	"time"

	"github.com/google/uuid"

	"vitiscli/internal/analytics"
	"vitiscli/internal/config"
	"vitiscli/internal/exporter"
	"vitiscli/internal/infrastructure"
	"vitiscli/internal/memo"
	"vitiscli/internal/services"
	"vitiscli/internal/store"
)

// options are the command line overrides of the loaded configuration
type options struct {
	configPath string
	outDir     string
	startYear  int
	endYear    int
	quiet      bool
}

func main() {
	var opts options
	flag.StringVar(&opts.configPath, "config", "", "YAML configuration file (defaults to VITIS_CONFIG or ./config.yaml)")
	flag.StringVar(&opts.outDir, "out", "", "output directory for report CSVs (defaults to data/reports)")
	flag.IntVar(&opts.startYear, "start", 0, "first year to analyse (defaults to analysis.start_year)")
	flag.IntVar(&opts.endYear, "end", 0, "last year to analyse (defaults to analysis.end_year)")
	flag.BoolVar(&opts.quiet, "quiet", false, "do not print the console summary")
	flag.Parse()

	var (
		cfg *config.Config
		err error
	)
	if opts.configPath != "" {
		cfg, err = config.LoadFile(opts.configPath)
	} else {
		cfg, err = config.Load()
	}
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

	out := io.Writer(os.Stdout)
	if opts.quiet {
		out = io.Discard
	}
	if err := run(ctx, cfg, opts, logger, out); err != nil {
		logger.Error("Report generation failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// run computes the full report from the stored datasets and writes every
// table as CSV
func run(ctx context.Context, cfg *config.Config, opts options, logger *slog.Logger, out io.Writer) error {
	start := time.Now()
	runID := uuid.NewString()
	logger = logger.With(slog.String("run_id", runID))

	paths, err := cfg.Paths.Resolve()
	if err != nil {
		return err
	}
	if err := paths.EnsureDirectories(); err != nil {
		return err
	}
	outDir := paths.ReportsDir
	if opts.outDir != "" {
		outDir = opts.outDir
	}

	st, err := store.New(ctx, cfg.Storage, paths.ProcessedDir, logger)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	window := services.Window{Start: cfg.Analysis.StartYear, End: cfg.Analysis.EndYear}
	svc, err := services.NewAnalyticsService(st, memo.New(0, 0), cfg.Analysis.Params(), window,
		services.WithLogger(logger))
	if err != nil {
		return err
	}

	report, err := svc.Report(ctx, services.Window{Start: opts.startYear, End: opts.endYear})
	if err != nil {
		return err
	}

	exp := exporter.NewReportExporter(exporter.NewCSVWriter(outDir, logger), logger)
	files, err := exp.ExportReport(report)
	if err != nil {
		return fmt.Errorf("export report: %w", err)
	}

	printSummary(out, runID, report, files)
	logger.InfoContext(ctx, "Report generation completed",
		slog.String("out_dir", outDir),
		slog.Int("files", len(files)),
		slog.Duration("duration", time.Since(start)))
	return nil
}

// printSummary writes the console overview of a report
func printSummary(out io.Writer, runID string, report *analytics.Report, files []string) {
	fmt.Fprintf(out, "Wine trade report %s\n\n", runID)

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "FLOW\tYEARS\tCATEGORIES\tVOLUME (L)\tVALUE (USD)\tPRICE (USD/L)\tHHI\tLEVEL")
	for _, fr := range []analytics.FlowReport{report.Export, report.Import} {
		s := fr.Summary
		fmt.Fprintf(tw, "%s\t%d-%d\t%d\t%.0f\t%.0f\t%s\t%s\t%s\n",
			fr.Flow, s.FirstYear, s.LastYear, s.Categories, s.TotalVolume, s.TotalValue,
			orDash(s.AvgPrice.Format(2)), orDash(fr.Concentration.HHI.Format(0)), fr.Concentration.Level)
	}
	tw.Flush()

	if n := len(report.Comparison); n > 0 {
		last := report.Comparison[n-1]
		fmt.Fprintf(out, "\n%d balance: %.0f USD, price gap %s%%\n",
			last.Year, last.BalanceValue, orDash(last.PriceGapPct.Format(1)))
	}

	growing := report.Export.GrowingMarkets
	fmt.Fprintf(out, "\nGrowing export markets: %d\n", len(growing))
	for i, g := range growing {
		if i == 5 {
			fmt.Fprintf(out, "  ... and %d more\n", len(growing)-i)
			break
		}
		fmt.Fprintf(out, "  %-24s %6.1f%% CAGR over %d years\n", g.Category, g.CAGRValue, g.YearsObserved)
	}

	fmt.Fprintf(out, "\nFiles written: %d\n", len(files))
	for _, f := range files {
		fmt.Fprintf(out, "  %s\n", f)
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
