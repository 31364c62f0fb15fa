package solver

import (
	"math"

	"github.com/google/uuid"

	"github.com/bent101/wordle-expectimax/words"
)

// SearchContext is the mutable state of one top-level search: a counter of
// expanded nodes and the best complete answer found so far, which prunes
// other top-level candidates. Create one per search and do not share it
// between goroutines.
type SearchContext struct {
	ID uuid.UUID

	expansions int64
	bound      float64
	boundGuess words.Word
	failed     []*PersistError
}

func NewSearchContext() *SearchContext {
	return &SearchContext{ID: uuid.New(), bound: math.Inf(1)}
}

// Expansions counts internal nodes searched. Memo and store hits do not
// count.
func (c *SearchContext) Expansions() int64 { return c.expansions }

// Bound is the lowest expected cost of a complete answer seen so far, +Inf
// if there is none.
func (c *SearchContext) Bound() (words.Word, float64) { return c.boundGuess, c.bound }

// Offer tightens the bound if cost beats it and reports whether it did.
// Seeds with known costs can be offered before searching.
func (c *SearchContext) Offer(guess words.Word, cost float64) bool {
	if math.IsNaN(cost) || cost >= c.bound {
		return false
	}
	c.bound = cost
	c.boundGuess = guess
	return true
}

// FailedWrites lists store writes that failed during this search.
func (c *SearchContext) FailedWrites() []*PersistError { return c.failed }

// writeErrorSince wraps the failures recorded after the first n.
func (c *SearchContext) writeErrorSince(n int) error {
	if len(c.failed) <= n {
		return nil
	}
	return &WriteError{Failed: c.failed[n:len(c.failed):len(c.failed)]}
}
