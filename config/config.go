// Package config loads the CLI configuration with priority env > file >
// defaults. A .env file in the working directory is applied to the
// environment first.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	StoreNone     = "none"
	StoreGob      = "gob"
	StoreBadger   = "badger"
	StorePostgres = "postgres"
)

type Config struct {
	WordsFile string `yaml:"words_file"`
	SeedsFile string `yaml:"seeds_file"`

	Search SearchConfig `yaml:"search"`
	Store  StoreConfig  `yaml:"store"`
	Log    LogConfig    `yaml:"log"`

	// MetricsAddr serves /metrics during precompute when set.
	MetricsAddr string `yaml:"metrics_addr"`
}

type SearchConfig struct {
	MaxMoves      int     `yaml:"max_moves"`
	PersistRounds int     `yaml:"persist_rounds"`
	Epsilon       float64 `yaml:"epsilon"`
}

type StoreConfig struct {
	Kind        string `yaml:"kind"`
	Path        string `yaml:"path"`
	DatabaseURL string `yaml:"database_url"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func Default() Config {
	return Config{
		WordsFile: "words.txt",
		Search: SearchConfig{
			MaxMoves:      6,
			PersistRounds: 2,
			Epsilon:       1e-9,
		},
		Store: StoreConfig{
			Kind: StoreGob,
			Path: "cache.gob",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load merges the defaults, the YAML file at path (skipped when path is
// empty) and the WORDLE_* environment variables.
func Load(path string) (Config, error) {
	cfg := Default()

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return cfg, fmt.Errorf("load .env: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	if err := cfg.loadEnv(); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func (c *Config) loadEnv() error {
	str := map[string]*string{
		"WORDLE_WORDS_FILE":   &c.WordsFile,
		"WORDLE_SEEDS_FILE":   &c.SeedsFile,
		"WORDLE_STORE":        &c.Store.Kind,
		"WORDLE_STORE_PATH":   &c.Store.Path,
		"WORDLE_DATABASE_URL": &c.Store.DatabaseURL,
		"WORDLE_LOG_LEVEL":    &c.Log.Level,
		"WORDLE_LOG_FORMAT":   &c.Log.Format,
		"WORDLE_METRICS_ADDR": &c.MetricsAddr,
	}
	for name, dst := range str {
		if v, ok := os.LookupEnv(name); ok {
			*dst = v
		}
	}

	ints := map[string]*int{
		"WORDLE_MAX_MOVES":      &c.Search.MaxMoves,
		"WORDLE_PERSIST_ROUNDS": &c.Search.PersistRounds,
	}
	for name, dst := range ints {
		if v, ok := os.LookupEnv(name); ok {
			i, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			*dst = i
		}
	}

	if v, ok := os.LookupEnv("WORDLE_EPSILON"); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("WORDLE_EPSILON: %w", err)
		}
		c.Search.Epsilon = f
	}
	return nil
}

func (c Config) Validate() error {
	if c.WordsFile == "" {
		return errors.New("words_file is required")
	}
	if c.Search.MaxMoves < 1 {
		return fmt.Errorf("max_moves must be >= 1, got %d", c.Search.MaxMoves)
	}
	if c.Search.PersistRounds < 0 || c.Search.PersistRounds > c.Search.MaxMoves {
		return fmt.Errorf("persist_rounds must be between 0 and max_moves, got %d", c.Search.PersistRounds)
	}
	if c.Search.Epsilon < 0 {
		return fmt.Errorf("epsilon must be >= 0, got %v", c.Search.Epsilon)
	}

	switch c.Store.Kind {
	case StoreNone:
	case StoreGob, StoreBadger:
		if c.Store.Path == "" {
			return fmt.Errorf("store %s needs a path", c.Store.Kind)
		}
	case StorePostgres:
		if c.Store.DatabaseURL == "" {
			return errors.New("store postgres needs database_url")
		}
	default:
		return fmt.Errorf("unknown store kind %q", c.Store.Kind)
	}

	if _, err := c.Log.level(); err != nil {
		return err
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log format must be text or json, got %q", c.Log.Format)
	}
	return nil
}

func (l LogConfig) level() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.ToUpper(l.Level))); err != nil {
		return 0, fmt.Errorf("log level: %w", err)
	}
	return lvl, nil
}

// Logger builds the process logger writing to stderr.
func (l LogConfig) Logger() *slog.Logger {
	lvl, err := l.level()
	if err != nil {
		lvl = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: lvl}
	if l.Format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}
