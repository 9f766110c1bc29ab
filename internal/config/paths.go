package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"vitiscli/pkg/contracts/domain"
)

// Paths contains every resolved application path. It is the single source
// of truth for file locations.
type Paths struct {
	BaseDir      string
	RawDir       string
	ProcessedDir string
	ReportsDir   string
	LogsDir      string
}

// Resolve makes every configured directory absolute. An empty BaseDir means
// the current working directory.
func (p PathsConfig) Resolve() (*Paths, error) {
	base := p.BaseDir
	if base == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		base = wd
	}
	base, err := filepath.Abs(base)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve base directory: %w", err)
	}

	abs := func(dir string) string {
		if filepath.IsAbs(dir) {
			return filepath.Clean(dir)
		}
		return filepath.Join(base, dir)
	}

	return &Paths{
		BaseDir:      base,
		RawDir:       abs(p.RawDir),
		ProcessedDir: abs(p.ProcessedDir),
		ReportsDir:   abs(p.ReportsDir),
		LogsDir:      abs(p.LogsDir),
	}, nil
}

// EnsureDirectories creates every output directory that does not exist yet.
// The raw directory is input only and is left alone.
func (p *Paths) EnsureDirectories() error {
	for _, dir := range []string{p.ProcessedDir, p.ReportsDir, p.LogsDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// ProcessedFile returns the processed dataset path for flow
func (p *Paths) ProcessedFile(flow domain.Flow) string {
	return filepath.Join(p.ProcessedDir, string(flow)+"_processed.csv")
}

// RawFile returns the path of a file in the raw directory
func (p *Paths) RawFile(name string) string {
	return filepath.Join(p.RawDir, name)
}

// ReportPath returns the path of a report file
func (p *Paths) ReportPath(name string) string {
	return filepath.Join(p.ReportsDir, name)
}

// LogPath returns the path of a log file
func (p *Paths) LogPath(name string) string {
	return filepath.Join(p.LogsDir, name)
}

// LogPathResolution logs the resolved directories at debug level
func (p *Paths) LogPathResolution(logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Debug("resolved paths",
		slog.String("base", p.BaseDir),
		slog.String("raw", p.RawDir),
		slog.String("processed", p.ProcessedDir),
		slog.String("reports", p.ReportsDir),
		slog.String("logs", p.LogsDir),
	)
}

// FileExists reports whether path exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
