package contract

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/mades/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessAndValidate(t *testing.T) {
	tests := []struct {
		name        string
		input       *ConfigRawInput
		expectError bool
	}{
		{
			name:  "empty input uses defaults",
			input: &ConfigRawInput{},
		},
		{
			name: "sqlite remote",
			input: &ConfigRawInput{
				RemoteBackend: "SQLite",
				Output:        "json",
			},
		},
		{
			name: "mysql remote",
			input: &ConfigRawInput{
				RemoteBackend:   "mysql",
				RemoteDBConnect: "mades:secret@tcp(localhost:3306)/mades",
			},
		},
		{
			name: "postgres remote",
			input: &ConfigRawInput{
				RemoteBackend:   "postgresql",
				RemoteDBConnect: "host=localhost port=5432 user=mades dbname=mades sslmode=disable",
			},
		},
		{
			name:        "unknown backend",
			input:       &ConfigRawInput{RemoteBackend: "redis"},
			expectError: true,
		},
		{
			name:        "mysql without connection string",
			input:       &ConfigRawInput{RemoteBackend: "mysql"},
			expectError: true,
		},
		{
			name:        "mysql without database",
			input:       &ConfigRawInput{RemoteBackend: "mysql", RemoteDBConnect: "root@tcp(localhost:3306)/"},
			expectError: true,
		},
		{
			name:        "postgres without dbname",
			input:       &ConfigRawInput{RemoteBackend: "postgresql", RemoteDBConnect: "host=localhost"},
			expectError: true,
		},
		{
			name:        "invalid output",
			input:       &ConfigRawInput{Output: "xml"},
			expectError: true,
		},
		{
			name:        "parquet without file",
			input:       &ConfigRawInput{Output: "parquet"},
			expectError: true,
		},
		{
			name:  "parquet with file",
			input: &ConfigRawInput{Output: "parquet", OutputFile: "tasks.parquet"},
		},
		{
			name:        "invalid color",
			input:       &ConfigRawInput{Color: "maybe"},
			expectError: true,
		},
		{
			name:        "negative width",
			input:       &ConfigRawInput{Width: -1},
			expectError: true,
		},
		{
			name:        "verbose and quiet",
			input:       &ConfigRawInput{Verbose: true, Quiet: true},
			expectError: true,
		},
		{
			name:        "unparseable debounce",
			input:       &ConfigRawInput{Debounce: "soon"},
			expectError: true,
		},
		{
			name:        "completion delay too long",
			input:       &ConfigRawInput{CompletionDelay: "2h"},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{}
			err := ProcessAndValidate(cfg, tt.input)

			if tt.expectError {
				assert.Error(t, err, "contract.ProcessAndValidate should return an error for %s", tt.name)
				return
			}
			assert.NoError(t, err, "contract.ProcessAndValidate should not return an error for %s", tt.name)
			assert.True(t, filepath.IsAbs(cfg.DataDir))
			assert.Contains(t, schema.ValidOutputModes, cfg.Output)
			assert.Contains(t, schema.ValidDatabaseBackends, cfg.RemoteBackend)
		})
	}
}

func TestProcessAndValidateDefaults(t *testing.T) {
	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, &ConfigRawInput{}))

	assert.Equal(t, schema.NoneBackend, cfg.RemoteBackend)
	assert.Equal(t, schema.TextOut, cfg.Output)
	assert.Equal(t, DefaultDebounce, cfg.Debounce)
	assert.Equal(t, DefaultCompletionDelay, cfg.CompletionDelay)
	assert.True(t, cfg.UseColors)
	assert.Equal(t, GetDataDir(), cfg.DataDir)
}

func TestProcessAndValidateOverrides(t *testing.T) {
	dir := t.TempDir()
	cfg := &Config{}
	err := ProcessAndValidate(cfg, &ConfigRawInput{
		DataDir:         dir,
		RemoteBackend:   "sqlite",
		Debounce:        "50ms",
		CompletionDelay: "0s",
		Output:          "CSV",
		Color:           "no",
		Width:           120,
	})
	require.NoError(t, err)

	assert.Equal(t, dir, cfg.DataDir)
	assert.Equal(t, schema.SQLiteBackend, cfg.RemoteBackend)
	assert.Equal(t, 50*time.Millisecond, cfg.Debounce)
	assert.Equal(t, time.Duration(0), cfg.CompletionDelay)
	assert.Equal(t, schema.CSVOut, cfg.Output)
	assert.False(t, cfg.UseColors)
	assert.Equal(t, 120, cfg.Width)

	clone := cfg.Clone()
	clone.Width = 10
	assert.Equal(t, 120, cfg.Width)
}
