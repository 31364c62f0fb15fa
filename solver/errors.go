package solver

import (
	"errors"
	"fmt"

	"github.com/bent101/wordle-expectimax/store"
)

var (
	ErrEmptySet      = errors.New("candidate set is empty")
	ErrNotImproved   = errors.New("no guess beats the search bound")
	ErrUnknownWord   = errors.New("word is not in the vocabulary")
	ErrMovesLeft     = errors.New("moves left out of range")
	ErrNoContext     = errors.New("search context is required")
	ErrForeignSet    = errors.New("candidate set belongs to another vocabulary")
	errInvalidConfig = errors.New("invalid solver config")
)

// PersistError is one solved node whose result could not be written to the
// store. The result itself is already in the in-process memo.
type PersistError struct {
	Key    store.Key
	Record store.Record
	Err    error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("persist round %d result for %d candidates: %v", e.Key.Round, e.Record.Size, e.Err)
}

func (e *PersistError) Unwrap() error { return e.Err }

// WriteError is returned alongside a valid result when some store writes
// made during the search failed. Pass it to Solver.RetryWrites.
type WriteError struct {
	Failed []*PersistError
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("%d store writes failed, first: %v", len(e.Failed), e.Failed[0])
}

func (e *WriteError) Unwrap() []error {
	errs := make([]error, len(e.Failed))
	for i, f := range e.Failed {
		errs[i] = f
	}
	return errs
}
