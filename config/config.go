package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes the environment variables that override the file,
// e.g. NOTAS_FOLDERS_INBOX or NOTAS_WORKERS.
const EnvPrefix = "NOTAS"

// Config represents the complete run configuration
type Config struct {
	Folders FoldersConfig `json:"folders" yaml:"folders" envconfig:"FOLDERS"`
	Output  OutputConfig  `json:"output" yaml:"output" envconfig:"OUTPUT"`
	Tickers TickersConfig `json:"tickers" yaml:"tickers" envconfig:"TICKERS"`
	Log     LogConfig     `json:"log" yaml:"log" envconfig:"LOG"`
	// Workers bounds how many documents are read concurrently.
	Workers int `json:"workers" yaml:"workers" envconfig:"WORKERS"`
}

// FoldersConfig locates the documents to import and where they go after
type FoldersConfig struct {
	Inbox     string `json:"inbox" yaml:"inbox" envconfig:"INBOX"`
	Processed string `json:"processed" yaml:"processed" envconfig:"PROCESSED"`
}

// OutputConfig lists the files a run writes. Empty paths are skipped.
type OutputConfig struct {
	CSV    string `json:"csv,omitempty" yaml:"csv,omitempty" envconfig:"CSV"`
	XLSX   string `json:"xlsx,omitempty" yaml:"xlsx,omitempty" envconfig:"XLSX"`
	SQLite string `json:"sqlite,omitempty" yaml:"sqlite,omitempty" envconfig:"SQLITE"`
	Org    string `json:"org,omitempty" yaml:"org,omitempty" envconfig:"ORG"`
	// Runs is an Org file each run appends its summary to.
	Runs string `json:"runs,omitempty" yaml:"runs,omitempty" envconfig:"RUNS"`
}

// TickersConfig points at a user ticker table replacing the embedded one
type TickersConfig struct {
	File string `json:"file,omitempty" yaml:"file,omitempty" envconfig:"FILE"`
}

// LogConfig contains logging parameters
type LogConfig struct {
	Level  string `json:"level" yaml:"level" envconfig:"LEVEL"`    // debug, info, warn, error
	Format string `json:"format" yaml:"format" envconfig:"FORMAT"` // text or json
}

// Load returns the configuration in path, or the defaults when path is
// empty, with environment overrides applied.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		var err error
		if cfg, err = LoadFromFile(path); err != nil {
			return nil, err
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("load config from env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadFromFile loads configuration from a file (YAML, falling back to JSON).
// Settings missing from the file keep their defaults.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()

	// Try YAML first, fall back to JSON
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		cfg = Default()
		err = json.Unmarshal(data, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SaveToFile saves configuration to a file (JSON or YAML based on extension)
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(c)
	default:
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Folders.Inbox == "" {
		return fmt.Errorf("folders.inbox is required")
	}
	if c.Folders.Processed == "" {
		return fmt.Errorf("folders.processed is required")
	}
	inbox := filepath.Clean(c.Folders.Inbox) + string(filepath.Separator)
	processed := filepath.Clean(c.Folders.Processed) + string(filepath.Separator)
	if strings.HasPrefix(processed, inbox) {
		return fmt.Errorf("folders.processed must be outside folders.inbox")
	}
	if !c.Output.Any() {
		return fmt.Errorf("at least one output file is required")
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be one of debug, info, warn, error")
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be 'text' or 'json'")
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1")
	}
	return nil
}

// Any reports whether an output file is configured.
func (o OutputConfig) Any() bool {
	return o.CSV != "" || o.XLSX != "" || o.SQLite != "" || o.Org != ""
}

// Default returns a configuration with sensible defaults
func Default() *Config {
	return &Config{
		Folders: FoldersConfig{
			Inbox:     "notas/nao_processados",
			Processed: "notas/processados",
		},
		Output: OutputConfig{
			CSV: "output/operacoes.csv",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Workers: 4,
	}
}
