// Package store persists solved candidate sets so that later runs can look
// them up instead of searching again.
//
// Records are keyed by (round, previous guess, feedback, fingerprint). Only
// the round and the fingerprint matter for correctness: the round fixes the
// number of moves left and the fingerprint fixes the candidate set. The
// previous guess and feedback are kept so the rows read naturally ("after
// ROATE showed 00120 in round 2, play ...").
package store

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/bent101/wordle-expectimax/hint"
	"github.com/bent101/wordle-expectimax/words"
)

var ErrInvalidRecord = errors.New("invalid record")

// Key identifies a persisted result. Previous is empty and Feedback is
// hint.None for the opening round.
type Key struct {
	Round       int
	Previous    words.Word
	Feedback    hint.Hint
	Fingerprint words.Fingerprint
}

func (k Key) String() string {
	prev := string(k.Previous)
	if prev == "" {
		prev = "-"
	}
	return fmt.Sprintf("%d/%s/%s/%s", k.Round, prev, k.Feedback, k.Fingerprint)
}

// Record is the best guess for a candidate set. Exact is false when the
// expected moves came from the entropy estimate at the depth limit.
// MovesLeft is the budget the result was solved with; the round in the key
// only means the same budget under the same max moves.
type Record struct {
	Guess         words.Word
	ExpectedMoves float64
	Exact         bool
	MovesLeft     int
	Size          int
	Candidates    string
}

func (r Record) validate() error {
	if r.Guess == "" {
		return fmt.Errorf("%w: empty guess", ErrInvalidRecord)
	}
	if math.IsInf(r.ExpectedMoves, 0) || math.IsNaN(r.ExpectedMoves) || r.ExpectedMoves < 0 {
		return fmt.Errorf("%w: expected moves %v", ErrInvalidRecord, r.ExpectedMoves)
	}
	if r.MovesLeft < 0 {
		return fmt.Errorf("%w: moves left %d", ErrInvalidRecord, r.MovesLeft)
	}
	return nil
}

// Store is the persistent result cache. Put is an upsert: writing the same
// key twice leaves a single record.
type Store interface {
	Get(ctx context.Context, key Key) (Record, bool, error)
	Put(ctx context.Context, key Key, rec Record) error
	Close() error
}

// Scanner is implemented by stores that can list everything they hold.
type Scanner interface {
	Scan(ctx context.Context, fn func(Key, Record) error) error
}

// row is the flattened form used by the file and badger encodings.
type row struct {
	Round         int
	Previous      string
	Feedback      uint8
	Fingerprint   string
	Guess         string
	ExpectedMoves float64
	Exact         bool
	MovesLeft     int
	Size          int
	Candidates    string
}

func toRow(k Key, r Record) row {
	return row{
		Round:         k.Round,
		Previous:      string(k.Previous),
		Feedback:      uint8(k.Feedback),
		Fingerprint:   k.Fingerprint.String(),
		Guess:         string(r.Guess),
		ExpectedMoves: r.ExpectedMoves,
		Exact:         r.Exact,
		MovesLeft:     r.MovesLeft,
		Size:          r.Size,
		Candidates:    r.Candidates,
	}
}

func (r row) split() (Key, Record, error) {
	fp, err := words.ParseFingerprint(r.Fingerprint)
	if err != nil {
		return Key{}, Record{}, fmt.Errorf("fingerprint %q: %w", r.Fingerprint, err)
	}
	k := Key{
		Round:       r.Round,
		Previous:    words.Word(r.Previous),
		Feedback:    hint.Hint(r.Feedback),
		Fingerprint: fp,
	}
	rec := Record{
		Guess:         words.Word(r.Guess),
		ExpectedMoves: r.ExpectedMoves,
		Exact:         r.Exact,
		MovesLeft:     r.MovesLeft,
		Size:          r.Size,
		Candidates:    r.Candidates,
	}
	return k, rec, nil
}
