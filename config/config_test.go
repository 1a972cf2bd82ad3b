package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.NotNil(t, cfg)
	assert.Equal(t, "notas/nao_processados", cfg.Folders.Inbox)
	assert.Equal(t, "notas/processados", cfg.Folders.Processed)
	assert.Equal(t, "output/operacoes.csv", cfg.Output.CSV)
	assert.Equal(t, 4, cfg.Workers)
	assert.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
		errMsg  string
	}{
		{
			name:    "valid config",
			mutate:  func(*Config) {},
			wantErr: false,
		},
		{
			name:    "missing inbox",
			mutate:  func(c *Config) { c.Folders.Inbox = "" },
			wantErr: true,
			errMsg:  "folders.inbox is required",
		},
		{
			name:    "missing processed",
			mutate:  func(c *Config) { c.Folders.Processed = "" },
			wantErr: true,
			errMsg:  "folders.processed is required",
		},
		{
			name:    "same folders",
			mutate:  func(c *Config) { c.Folders.Processed = c.Folders.Inbox + "/" },
			wantErr: true,
			errMsg:  "folders.processed must be outside folders.inbox",
		},
		{
			name:    "processed inside inbox",
			mutate:  func(c *Config) { c.Folders.Processed = c.Folders.Inbox + "/done" },
			wantErr: true,
			errMsg:  "folders.processed must be outside folders.inbox",
		},
		{
			name:    "sibling with common prefix",
			mutate:  func(c *Config) { c.Folders.Inbox, c.Folders.Processed = "notas/in", "notas/in-done" },
			wantErr: false,
		},
		{
			name:    "no outputs",
			mutate:  func(c *Config) { c.Output = OutputConfig{Runs: "runs.org"} },
			wantErr: true,
			errMsg:  "at least one output file is required",
		},
		{
			name:    "sqlite only",
			mutate:  func(c *Config) { c.Output = OutputConfig{SQLite: "notas.db"} },
			wantErr: false,
		},
		{
			name:    "bad log level",
			mutate:  func(c *Config) { c.Log.Level = "verbose" },
			wantErr: true,
			errMsg:  "log.level must be one of",
		},
		{
			name:    "upper case log level",
			mutate:  func(c *Config) { c.Log.Level = "DEBUG" },
			wantErr: false,
		},
		{
			name:    "bad log format",
			mutate:  func(c *Config) { c.Log.Format = "xml" },
			wantErr: true,
			errMsg:  "log.format must be 'text' or 'json'",
		},
		{
			name:    "zero workers",
			mutate:  func(c *Config) { c.Workers = 0 },
			wantErr: true,
			errMsg:  "workers must be at least 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				require.Error(t, err)
				if tt.errMsg != "" {
					assert.Contains(t, err.Error(), tt.errMsg)
				}
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSaveAndLoad(t *testing.T) {
	tmpDir := t.TempDir()

	tests := []struct {
		name string
		ext  string
	}{
		{"json format", ".json"},
		{"yaml format", ".yaml"},
		{"yml format", ".yml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.Output.SQLite = "output/notas.db"
			cfg.Tickers.File = "tickers.yaml"
			cfg.Workers = 2
			path := filepath.Join(tmpDir, "test"+tt.ext)

			// Save
			err := cfg.SaveToFile(path)
			require.NoError(t, err)

			// Verify file exists
			_, err = os.Stat(path)
			require.NoError(t, err)

			// Load
			loaded, err := LoadFromFile(path)
			require.NoError(t, err)

			assert.Equal(t, cfg, loaded)
		})
	}
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notas.yaml")
	data := "folders:\n  inbox: entrada\noutput:\n  xlsx: out/operacoes.xlsx\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "entrada", cfg.Folders.Inbox)
	assert.Equal(t, "notas/processados", cfg.Folders.Processed)
	assert.Equal(t, "output/operacoes.csv", cfg.Output.CSV)
	assert.Equal(t, "out/operacoes.xlsx", cfg.Output.XLSX)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadInvalidFile(t *testing.T) {
	_, err := LoadFromFile("/nonexistent/path.yaml")
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("workers: [1, 2"), 0o644))
	_, err = LoadFromFile(path)
	assert.Error(t, err)

	invalid := filepath.Join(t.TempDir(), "invalid.yaml")
	require.NoError(t, os.WriteFile(invalid, []byte("workers: 0\n"), 0o644))
	_, err = LoadFromFile(invalid)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "workers must be at least 1")
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("NOTAS_FOLDERS_INBOX", "/tmp/entrada")
	t.Setenv("NOTAS_OUTPUT_SQLITE", "/tmp/notas.db")
	t.Setenv("NOTAS_LOG_LEVEL", "debug")
	t.Setenv("NOTAS_WORKERS", "8")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/entrada", cfg.Folders.Inbox)
	assert.Equal(t, "notas/processados", cfg.Folders.Processed)
	assert.Equal(t, "/tmp/notas.db", cfg.Output.SQLite)
	assert.Equal(t, "output/operacoes.csv", cfg.Output.CSV)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 8, cfg.Workers)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notas.yaml")
	require.NoError(t, os.WriteFile(path, []byte("workers: 2\n"), 0o644))
	t.Setenv("NOTAS_WORKERS", "6")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 6, cfg.Workers)
}

func TestLoadEnvInvalid(t *testing.T) {
	t.Setenv("NOTAS_WORKERS", "many")
	_, err := Load("")
	assert.Error(t, err)

	t.Setenv("NOTAS_WORKERS", "0")
	_, err = Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "workers must be at least 1")
}
