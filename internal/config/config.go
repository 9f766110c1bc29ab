package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	"vitiscli/internal/analytics"
)

// EnvPrefix namespaces every environment variable, e.g. VITIS_SERVER_PORT
const EnvPrefix = "VITIS"

// ConfigFileEnv names the variable that points at a YAML config file
const ConfigFileEnv = "VITIS_CONFIG"

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server" envconfig:"SERVER"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Paths     PathsConfig     `yaml:"paths" envconfig:"PATHS"`
	Analysis  AnalysisConfig  `yaml:"analysis" envconfig:"ANALYSIS"`
	Storage   StorageConfig   `yaml:"storage" envconfig:"STORAGE"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Host            string          `yaml:"host" split_words:"true"`
	Port            int             `yaml:"port" split_words:"true"`
	ReadTimeout     time.Duration   `yaml:"read_timeout" split_words:"true"`
	WriteTimeout    time.Duration   `yaml:"write_timeout" split_words:"true"`
	IdleTimeout     time.Duration   `yaml:"idle_timeout" split_words:"true"`
	MaxHeaderBytes  int             `yaml:"max_header_bytes" split_words:"true"`
	ShutdownTimeout time.Duration   `yaml:"shutdown_timeout" split_words:"true"`
	RequestTimeout  time.Duration   `yaml:"request_timeout" split_words:"true"`
	IncludeStack    bool            `yaml:"include_stack" split_words:"true"`
	RateLimit       RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimitConfig contains rate limiting configuration
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" split_words:"true"`
	RPS     float64 `yaml:"rps" split_words:"true"`
	Burst   int     `yaml:"burst" split_words:"true"`
}

// LoggingConfig contains logging configuration. Output is stdout, file or both.
type LoggingConfig struct {
	Level    string `yaml:"level" split_words:"true"`
	Output   string `yaml:"output" split_words:"true"`
	FilePath string `yaml:"file_path" split_words:"true"`
}

// PathsConfig contains file system locations. Relative directories are
// resolved against BaseDir, which defaults to the working directory.
type PathsConfig struct {
	BaseDir      string `yaml:"base_dir" split_words:"true"`
	RawDir       string `yaml:"raw_dir" split_words:"true"`
	ProcessedDir string `yaml:"processed_dir" split_words:"true"`
	ReportsDir   string `yaml:"reports_dir" split_words:"true"`
	LogsDir      string `yaml:"logs_dir" split_words:"true"`
}

// AnalysisConfig holds the tunable analysis parameters
type AnalysisConfig struct {
	StartYear int                  `yaml:"start_year" split_words:"true"`
	EndYear   int                  `yaml:"end_year" split_words:"true"`
	LowPrice  float64              `yaml:"low_price" split_words:"true"`
	HighPrice float64              `yaml:"high_price" split_words:"true"`
	MinYears  int                  `yaml:"min_years" split_words:"true"`
	MinCAGR   float64              `yaml:"min_cagr" split_words:"true"`
	TopK      []int                `yaml:"top_k" split_words:"true"`
	TopN      int                  `yaml:"top_n" split_words:"true"`
	CacheTTL  time.Duration        `yaml:"cache_ttl" split_words:"true"`
	CacheSize int                  `yaml:"cache_size" split_words:"true"`
	Scenarios []analytics.Scenario `yaml:"scenarios" ignored:"true"`
}

// StorageConfig selects where processed datasets live
type StorageConfig struct {
	Driver      string        `yaml:"driver" split_words:"true"` // csv or postgres
	DatabaseURL string        `yaml:"database_url" split_words:"true"`
	Host        string        `yaml:"host" split_words:"true"`
	Port        int           `yaml:"port" split_words:"true"`
	User        string        `yaml:"user" split_words:"true"`
	Password    string        `yaml:"password" split_words:"true"`
	Name        string        `yaml:"name" split_words:"true"`
	SSLMode     string        `yaml:"ssl_mode" split_words:"true"`
	MinConns    int32         `yaml:"min_conns" split_words:"true"`
	MaxConns    int32         `yaml:"max_conns" split_words:"true"`
	ConnTimeout time.Duration `yaml:"conn_timeout" split_words:"true"`
}

// Storage drivers
const (
	DriverCSV      = "csv"
	DriverPostgres = "postgres"
)

// TelemetryConfig toggles OpenTelemetry tracing and metrics
type TelemetryConfig struct {
	ServiceName    string `yaml:"service_name" split_words:"true"`
	TracingEnabled bool   `yaml:"tracing_enabled" split_words:"true"`
	MetricsEnabled bool   `yaml:"metrics_enabled" split_words:"true"`
}

// Load builds the configuration from defaults, then the YAML file named by
// VITIS_CONFIG (or ./config.yaml when present), then environment variables.
func Load() (*Config, error) {
	return LoadFile(configFilePath())
}

// LoadFile is Load with an explicit YAML path. An empty path skips the file.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := loadFromFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// loadFromFile overlays YAML values onto cfg; keys absent from the file keep
// their current values.
func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

func configFilePath() string {
	if p := os.Getenv(ConfigFileEnv); p != "" {
		return p
	}
	for _, location := range []string{"config.yaml", "configs/config.yaml"} {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}
	return ""
}

// Validate checks the configuration for values the application cannot use
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Server.ReadTimeout <= 0 || c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server read and write timeouts must be positive")
	}
	if c.Server.RateLimit.Enabled && (c.Server.RateLimit.RPS <= 0 || c.Server.RateLimit.Burst <= 0) {
		return fmt.Errorf("rate limit rps and burst must be positive when enabled")
	}

	switch strings.ToLower(c.Logging.Output) {
	case "stdout", "file", "both":
	default:
		return fmt.Errorf("invalid logging output %q: expected stdout, file or both", c.Logging.Output)
	}

	switch c.Storage.Driver {
	case DriverCSV:
	case DriverPostgres:
		if c.Storage.DatabaseURL == "" && c.Storage.Host == "" {
			return fmt.Errorf("postgres storage requires database_url or host")
		}
	default:
		return fmt.Errorf("invalid storage driver %q: expected %s or %s", c.Storage.Driver, DriverCSV, DriverPostgres)
	}

	if c.Analysis.StartYear != 0 && c.Analysis.EndYear != 0 && c.Analysis.StartYear > c.Analysis.EndYear {
		return fmt.Errorf("analysis start year %d is after end year %d", c.Analysis.StartYear, c.Analysis.EndYear)
	}
	if c.Analysis.CacheSize < 0 {
		return fmt.Errorf("cache size must not be negative")
	}
	if err := c.Analysis.Params().Validate(); err != nil {
		return fmt.Errorf("analysis: %w", err)
	}
	return nil
}

// Params converts the analysis settings into analytics parameters
func (a AnalysisConfig) Params() analytics.Params {
	p := analytics.DefaultParams()
	p.Bands = analytics.BandThresholds{Low: a.LowPrice, High: a.HighPrice}
	p.Growth = analytics.GrowthCriteria{MinYears: a.MinYears, MinCAGR: a.MinCAGR}
	if len(a.TopK) > 0 {
		p.TopK = append([]int(nil), a.TopK...)
	}
	p.TopN = a.TopN
	if len(a.Scenarios) > 0 {
		p.Scenarios = a.Scenarios
	}
	return p
}

// Addr returns the listen address
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     60 * time.Second,
			MaxHeaderBytes:  1 << 20,
			ShutdownTimeout: 30 * time.Second,
			RequestTimeout:  30 * time.Second,
			RateLimit: RateLimitConfig{
				Enabled: true,
				RPS:     DefaultRateLimitRPS,
				Burst:   DefaultRateLimitBurst,
			},
		},
		Logging: LoggingConfig{
			Level:    "info",
			Output:   "stdout",
			FilePath: "logs/" + LogFileName,
		},
		Paths: PathsConfig{
			RawDir:       "data/raw",
			ProcessedDir: "data/processed",
			ReportsDir:   "data/reports",
			LogsDir:      "logs",
		},
		Analysis: AnalysisConfig{
			StartYear: DefaultStartYear,
			EndYear:   DefaultEndYear,
			LowPrice:  1.5,
			HighPrice: 3.0,
			MinYears:  5,
			MinCAGR:   5,
			TopK:      []int{5, 10},
			TopN:      15,
			CacheTTL:  10 * time.Minute,
			CacheSize: 64,
		},
		Storage: StorageConfig{
			Driver:      DriverCSV,
			Port:        5432,
			SSLMode:     "prefer",
			MinConns:    1,
			MaxConns:    4,
			ConnTimeout: 10 * time.Second,
		},
		Telemetry: TelemetryConfig{
			ServiceName:    AppName,
			MetricsEnabled: true,
		},
	}
}
