package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, 6, cfg.Search.MaxMoves)
	assert.Equal(t, 2, cfg.Search.PersistRounds)
	assert.Equal(t, StoreGob, cfg.Store.Kind)
}

func TestLoadFileThenEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	path := writeFile(t, dir, "wordle.yaml", `
words_file: answers.txt
seeds_file: seeds.txt
search:
  max_moves: 5
  persist_rounds: 1
store:
  kind: badger
  path: /tmp/wordle-badger
log:
  level: debug
  format: json
`)
	t.Setenv("WORDLE_MAX_MOVES", "4")
	t.Setenv("WORDLE_EPSILON", "0.001")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "answers.txt", cfg.WordsFile)
	assert.Equal(t, "seeds.txt", cfg.SeedsFile)
	assert.Equal(t, 4, cfg.Search.MaxMoves, "env beats file")
	assert.Equal(t, 1, cfg.Search.PersistRounds)
	assert.Equal(t, 0.001, cfg.Search.Epsilon)
	assert.Equal(t, StoreBadger, cfg.Store.Kind)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	writeFile(t, dir, ".env", "WORDLE_STORE=postgres\nWORDLE_DATABASE_URL=postgres://localhost/wordle?sslmode=disable\n")
	t.Cleanup(func() {
		os.Unsetenv("WORDLE_STORE")
		os.Unsetenv("WORDLE_DATABASE_URL")
	})

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, StorePostgres, cfg.Store.Kind)
	assert.Equal(t, "postgres://localhost/wordle?sslmode=disable", cfg.Store.DatabaseURL)
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	_, err := Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	bad := writeFile(t, dir, "bad.yaml", "search: [1, 2")
	_, err = Load(bad)
	assert.Error(t, err)

	t.Setenv("WORDLE_PERSIST_ROUNDS", "two")
	_, err = Load("")
	assert.ErrorContains(t, err, "WORDLE_PERSIST_ROUNDS")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"no words file", func(c *Config) { c.WordsFile = "" }},
		{"no moves", func(c *Config) { c.Search.MaxMoves = 0 }},
		{"negative persist rounds", func(c *Config) { c.Search.PersistRounds = -1 }},
		{"persist past max moves", func(c *Config) { c.Search.PersistRounds = 7 }},
		{"negative epsilon", func(c *Config) { c.Search.Epsilon = -1 }},
		{"unknown store", func(c *Config) { c.Store.Kind = "redis" }},
		{"badger without path", func(c *Config) { c.Store.Kind, c.Store.Path = StoreBadger, "" }},
		{"postgres without url", func(c *Config) { c.Store.Kind = StorePostgres }},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }},
		{"bad format", func(c *Config) { c.Log.Format = "xml" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}

	cfg := Default()
	cfg.Store.Kind = StoreNone
	cfg.Store.Path = ""
	assert.NoError(t, cfg.Validate())
}

func TestLogger(t *testing.T) {
	l := LogConfig{Level: "warn", Format: "json"}.Logger()
	assert.False(t, l.Enabled(t.Context(), slog.LevelInfo))
	assert.True(t, l.Enabled(t.Context(), slog.LevelWarn))
}
