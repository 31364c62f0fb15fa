package store

import (
	"bytes"
	"cmp"
	"context"
	"encoding/gob"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"
)

// File keeps every record in memory and writes them to a gob file on Save
// and Close. A missing or unreadable file starts an empty store.
type File struct {
	path   string
	logger *slog.Logger

	mu    sync.RWMutex
	rows  map[Key]Record
	dirty bool
}

// OpenFile loads the cache file at path if there is one.
func OpenFile(path string, logger *slog.Logger) (*File, error) {
	if path == "" {
		return nil, errors.New("path is required for file store")
	}
	if logger == nil {
		logger = slog.Default()
	}
	f := &File{path: path, logger: logger, rows: map[Key]Record{}}

	file, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		logger.Info("cache file not found, starting empty", "path", path)
		return f, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open cache file %s: %w", path, err)
	}
	defer file.Close()

	start := time.Now()

	var rows []row
	if err := gob.NewDecoder(file).Decode(&rows); err != nil {
		logger.Warn("error decoding cache, starting empty", "path", path, "error", err)
		return f, nil
	}
	for _, r := range rows {
		k, rec, err := r.split()
		if err != nil {
			logger.Warn("skipping bad cache row", "error", err)
			continue
		}
		f.rows[k] = rec
	}

	logger.Info("loaded cache", "path", path, "entries", len(f.rows), "took", time.Since(start))
	return f, nil
}

func (f *File) Get(_ context.Context, key Key) (Record, bool, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	rec, ok := f.rows[key]
	return rec, ok, nil
}

func (f *File) Put(_ context.Context, key Key, rec Record) error {
	if err := rec.validate(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows[key] = rec
	f.dirty = true
	return nil
}

// Scan visits records ordered by round and key.
func (f *File) Scan(ctx context.Context, fn func(Key, Record) error) error {
	f.mu.RLock()
	keys := make([]Key, 0, len(f.rows))
	for k := range f.rows {
		keys = append(keys, k)
	}
	f.mu.RUnlock()

	slices.SortFunc(keys, compareKeys)
	for _, k := range keys {
		if err := ctx.Err(); err != nil {
			return err
		}
		f.mu.RLock()
		rec, ok := f.rows[k]
		f.mu.RUnlock()
		if !ok {
			continue
		}
		if err := fn(k, rec); err != nil {
			return err
		}
	}
	return nil
}

func (f *File) Len() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.rows)
}

// Save writes the cache to a temp file and renames it into place.
func (f *File) Save() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.dirty {
		return nil
	}

	start := time.Now()

	keys := make([]Key, 0, len(f.rows))
	for k := range f.rows {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, compareKeys)
	rows := make([]row, 0, len(keys))
	for _, k := range keys {
		rows = append(rows, toRow(k, f.rows[k]))
	}

	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}
	tmpPath := f.path + ".tmp"
	file, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("create cache file: %w", err)
	}
	if err := gob.NewEncoder(file).Encode(rows); err != nil {
		file.Close()
		return fmt.Errorf("encode cache: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("close cache file: %w", err)
	}
	if err := os.Rename(tmpPath, f.path); err != nil {
		return fmt.Errorf("rename cache file: %w", err)
	}
	f.dirty = false

	f.logger.Info("saved cache", "path", f.path, "entries", len(rows), "took", time.Since(start))
	return nil
}

func (f *File) Close() error { return f.Save() }

func compareKeys(a, b Key) int {
	return cmp.Or(
		cmp.Compare(a.Round, b.Round),
		cmp.Compare(a.Previous, b.Previous),
		cmp.Compare(a.Feedback, b.Feedback),
		bytes.Compare(a.Fingerprint[:], b.Fingerprint[:]),
	)
}
