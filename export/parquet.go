// Package export writes persisted results out as parquet for offline
// analysis.
package export

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/parquet-go/parquet-go"
	"github.com/parquet-go/parquet-go/compress/zstd"

	"github.com/bent101/wordle-expectimax/hint"
	"github.com/bent101/wordle-expectimax/store"
	"github.com/bent101/wordle-expectimax/words"
)

const schemaName = "wordle_results_v1"

// Row is one persisted result. Feedback is the hint as digits, or "-" for
// the opening round.
type Row struct {
	Round         int32   `parquet:"round"`
	Previous      string  `parquet:"previous_guess,dict"`
	Feedback      string  `parquet:"feedback,dict"`
	Fingerprint   string  `parquet:"fingerprint"`
	Guess         string  `parquet:"guess,dict"`
	ExpectedMoves float64 `parquet:"expected_moves"`
	Exact         bool    `parquet:"exact"`
	MovesLeft     int32   `parquet:"moves_left"`
	Size          int32   `parquet:"size"`
	Candidates    string  `parquet:"candidates,zstd"`
}

func toRow(k store.Key, r store.Record) Row {
	fb := "-"
	if k.Feedback.Valid() {
		fb = k.Feedback.String()
	}
	return Row{
		Round:         int32(k.Round),
		Previous:      string(k.Previous),
		Feedback:      fb,
		Fingerprint:   k.Fingerprint.String(),
		Guess:         string(r.Guess),
		ExpectedMoves: r.ExpectedMoves,
		Exact:         r.Exact,
		MovesLeft:     int32(r.MovesLeft),
		Size:          int32(r.Size),
		Candidates:    r.Candidates,
	}
}

// Key rebuilds the store key of the row.
func (r Row) Key() (store.Key, error) {
	k := store.Key{Round: int(r.Round), Feedback: hint.None}
	if r.Previous != "" {
		k.Previous = words.Word(r.Previous)
	}
	if r.Feedback != "-" {
		h, err := hint.Parse(r.Feedback)
		if err != nil {
			return store.Key{}, err
		}
		k.Feedback = h
	}
	fp, err := words.ParseFingerprint(r.Fingerprint)
	if err != nil {
		return store.Key{}, err
	}
	k.Fingerprint = fp
	return k, nil
}

// Collect reads every record of s in the store's scan order.
func Collect(ctx context.Context, s store.Scanner) ([]Row, error) {
	var rows []Row
	err := s.Scan(ctx, func(k store.Key, r store.Record) error {
		rows = append(rows, toRow(k, r))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan store: %w", err)
	}
	return rows, nil
}

// WriteParquet writes rows to outPath through a temp file, so readers never
// see a partial file.
func WriteParquet(outPath string, rows []Row) error {
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	tmpPath := outPath + ".tmp"
	_ = os.Remove(tmpPath)

	if err := parquet.WriteFile(tmpPath, rows,
		parquet.Compression(&zstd.Codec{Level: zstd.SpeedBetterCompression}),
		parquet.KeyValueMetadata("schema", schemaName),
	); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("write parquet: %w", err)
	}

	if err := os.Rename(tmpPath, outPath); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename parquet: %w", err)
	}
	return nil
}

// ReadParquet loads a file written by WriteParquet.
func ReadParquet(path string) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	pf, err := parquet.OpenFile(f, info.Size())
	if err != nil {
		return nil, fmt.Errorf("open parquet: %w", err)
	}
	if v, ok := pf.Lookup("schema"); !ok || v != schemaName {
		return nil, fmt.Errorf("%s: unexpected schema %q", path, v)
	}

	reader := parquet.NewGenericReader[Row](f)
	defer reader.Close()

	out := make([]Row, 0, reader.NumRows())
	buf := make([]Row, 256)
	for {
		n, readErr := reader.Read(buf)
		out = append(out, buf[:n]...)
		if errors.Is(readErr, io.EOF) {
			break
		}
		if readErr != nil {
			return nil, fmt.Errorf("read parquet: %w", readErr)
		}
	}
	return out, nil
}
