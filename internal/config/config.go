// Package config loads runtime settings: built-in defaults, then an optional
// YAML file, then environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Environment variables recognised by Load.
const (
	EnvConfig         = "OBJECTIVES_CONFIG"
	EnvDB             = "OBJECTIVES_DB"
	EnvAddr           = "OBJECTIVES_ADDR"
	EnvAllowedOrigins = "OBJECTIVES_ALLOWED_ORIGINS"
	EnvLogLevel       = "OBJECTIVES_LOG_LEVEL"
	EnvLogFormat      = "OBJECTIVES_LOG_FORMAT"
	EnvTraceExporter  = "OBJECTIVES_TRACE_EXPORTER"
	EnvOTLPEndpoint   = "OTEL_EXPORTER_OTLP_ENDPOINT"
	EnvMetrics        = "OBJECTIVES_METRICS"
)

// Trace exporters.
const (
	ExporterNone   = "none"
	ExporterStdout = "stdout"
	ExporterOTLP   = "otlp"
)

type Config struct {
	// DBPath is the sqlite file; ":memory:" gives a throwaway database.
	DBPath string `yaml:"db_path"`

	Server    ServerConfig    `yaml:"server"`
	Log       LogConfig       `yaml:"log"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

type ServerConfig struct {
	Addr           string   `yaml:"addr"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text or json
}

type TelemetryConfig struct {
	TraceExporter string `yaml:"trace_exporter"`
	OTLPEndpoint  string `yaml:"otlp_endpoint"`
	Metrics       bool   `yaml:"metrics"`
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() *Config {
	return &Config{
		DBPath: DefaultDBPath(),
		Server: ServerConfig{
			Addr: ":8000",
			AllowedOrigins: []string{
				"http://localhost:5173",
				"http://localhost",
				"http://localhost:80",
			},
		},
		Log: LogConfig{
			Level:  "warn",
			Format: "text",
		},
		Telemetry: TelemetryConfig{
			TraceExporter: ExporterNone,
			Metrics:       true,
		},
	}
}

// DefaultDBPath returns ~/.objectives/objectives.db, or a relative path when
// no home directory is available.
func DefaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".objectives", "objectives.db")
	}
	return filepath.Join(home, ".objectives", "objectives.db")
}

// Load builds the effective configuration. path may be empty, in which case
// OBJECTIVES_CONFIG is consulted; a named file that does not exist is an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		path = os.Getenv(EnvConfig)
	}
	if path != "" {
		if err := loadFile(path, cfg); err != nil {
			return nil, err
		}
	}

	if err := applyEnv(cfg, os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	str(EnvDB, &cfg.DBPath)
	str(EnvAddr, &cfg.Server.Addr)
	str(EnvLogLevel, &cfg.Log.Level)
	str(EnvLogFormat, &cfg.Log.Format)
	str(EnvTraceExporter, &cfg.Telemetry.TraceExporter)
	str(EnvOTLPEndpoint, &cfg.Telemetry.OTLPEndpoint)

	if v, ok := lookup(EnvAllowedOrigins); ok && v != "" {
		cfg.Server.AllowedOrigins = splitList(v)
	}
	if v, ok := lookup(EnvMetrics); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvMetrics, err)
		}
		cfg.Telemetry.Metrics = b
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.DBPath) == "" {
		errs = append(errs, errors.New("db_path must not be empty"))
	}
	if strings.TrimSpace(c.Server.Addr) == "" {
		errs = append(errs, errors.New("server.addr must not be empty"))
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("log.level %q is not one of debug, info, warn, error", c.Log.Level))
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format %q is not text or json", c.Log.Format))
	}
	switch c.Telemetry.TraceExporter {
	case ExporterNone, ExporterStdout, ExporterOTLP:
	default:
		errs = append(errs, fmt.Errorf("telemetry.trace_exporter %q is not none, stdout or otlp", c.Telemetry.TraceExporter))
	}
	return errors.Join(errs...)
}

// YAML renders the configuration in the same shape Load reads.
func (c *Config) YAML() ([]byte, error) {
	return yaml.Marshal(c)
}
