// Package solver finds the Wordle guess that minimizes the expected number
// of moves left, by exhaustive expectimax search over the candidate set with
// entropy move ordering, branch-and-bound pruning and a two-tier result
// cache (in-process memo plus an optional persistent store).
//
// Expected moves follow this convention: a single candidate costs 0, and
// every guess costs 1 plus, for each hint group with more than one word, the
// group's probability times its own cost. With no moves left the cost is an
// entropy estimate, and results derived from it have Exact set to false.
package solver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"golang.org/x/sync/singleflight"

	"github.com/bent101/wordle-expectimax/hint"
	"github.com/bent101/wordle-expectimax/store"
	"github.com/bent101/wordle-expectimax/words"
)

// GuessResult is the best guess for a candidate set and its expected cost.
type GuessResult struct {
	Guess         words.Word
	ExpectedMoves float64
	// Exact is false when the cost relies on the depth-limit estimate.
	Exact bool
}

// Lineage is the guess and hint that led to a candidate set. It only labels
// persisted rows and has no effect on results.
type Lineage struct {
	Previous words.Word
	Feedback hint.Hint
}

// Opening is the lineage of the full vocabulary before any guess.
var Opening = Lineage{Feedback: hint.None}

type Config struct {
	// MaxMoves is the move budget of a top-level search. A search called
	// with this many moves left is the opening round.
	MaxMoves int

	// PersistRounds is the last round whose results are read from and
	// written to Store. Rounds are numbered from 1 at MaxMoves moves left.
	PersistRounds int

	// Epsilon stops a node early once a guess costs at most 1+Epsilon.
	Epsilon float64

	// Store is the persistent cache. Nil keeps results in memory only.
	Store store.Store

	Logger *slog.Logger
}

func DefaultConfig() Config {
	return Config{
		MaxMoves:      6,
		PersistRounds: 2,
		Epsilon:       1e-9,
	}
}

// Solver runs searches over one feedback table. Its memo is shared by every
// search it runs and is safe for concurrent use; concurrent searches of the
// same node wait for a single computation.
type Solver struct {
	table  *hint.Table
	vocab  *words.Vocabulary
	cfg    Config
	memo   *memo
	flight singleflight.Group
	logger *slog.Logger
}

func New(table *hint.Table, cfg Config) (*Solver, error) {
	if table == nil {
		return nil, fmt.Errorf("%w: feedback table is required", errInvalidConfig)
	}
	if cfg.MaxMoves < 1 {
		return nil, fmt.Errorf("%w: max moves must be positive, got %d", errInvalidConfig, cfg.MaxMoves)
	}
	if cfg.PersistRounds < 0 {
		return nil, fmt.Errorf("%w: persist rounds must not be negative, got %d", errInvalidConfig, cfg.PersistRounds)
	}
	if cfg.Epsilon < 0 || math.IsNaN(cfg.Epsilon) {
		return nil, fmt.Errorf("%w: epsilon must not be negative", errInvalidConfig)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Solver{
		table:  table,
		vocab:  table.Vocabulary(),
		cfg:    cfg,
		memo:   newMemo(),
		logger: logger.With("component", "solver"),
	}, nil
}

func (s *Solver) Table() *hint.Table { return s.table }

func (s *Solver) Vocabulary() *words.Vocabulary { return s.vocab }

func (s *Solver) Config() Config { return s.cfg }

// MemoLen is the number of nodes held in the in-process memo.
func (s *Solver) MemoLen() int { return s.memo.len() }

// NewContext starts a top-level search.
func (s *Solver) NewContext() *SearchContext { return NewSearchContext() }

// Solve returns the guess minimizing expected moves for set.
//
// A failed store write does not stop the search: the result is returned
// together with a *WriteError that can be retried with RetryWrites.
func (s *Solver) Solve(ctx context.Context, set *words.Set, movesLeft int, sc *SearchContext) (GuessResult, error) {
	return s.SolveFrom(ctx, Opening, set, movesLeft, sc)
}

// SolveFrom is Solve for a set reached through from, which labels the rows
// written to the store.
func (s *Solver) SolveFrom(ctx context.Context, from Lineage, set *words.Set, movesLeft int, sc *SearchContext) (GuessResult, error) {
	if err := s.check(set, sc); err != nil {
		return GuessResult{}, err
	}
	if movesLeft < 0 || movesLeft > s.cfg.MaxMoves {
		return GuessResult{}, fmt.Errorf("%w: %d not in [0, %d]", ErrMovesLeft, movesLeft, s.cfg.MaxMoves)
	}

	failed := len(sc.failed)
	r, err := s.solve(ctx, node{set: set, movesLeft: movesLeft, from: from}, sc)
	if err != nil {
		return GuessResult{}, err
	}
	if movesLeft == s.cfg.MaxMoves && sc.Offer(r.Guess, r.ExpectedMoves) {
		s.logger.Debug("bound improved", "search", sc.ID, "guess", r.Guess, "expected", r.ExpectedMoves)
	}
	return r, sc.writeErrorSince(failed)
}

// EvaluateOpening computes the expected cost of opening with guess when the
// answer is in set, which is normally the whole vocabulary. guess may be any
// vocabulary word. The evaluation is abandoned with ErrNotImproved as soon
// as it cannot beat the context's bound; otherwise the bound is tightened.
// Round two results along the way go to the store.
func (s *Solver) EvaluateOpening(ctx context.Context, guess words.Word, set *words.Set, sc *SearchContext) (GuessResult, error) {
	if err := s.check(set, sc); err != nil {
		return GuessResult{}, err
	}
	gi, ok := s.vocab.Index(guess)
	if !ok {
		return GuessResult{}, fmt.Errorf("%w: %s", ErrUnknownWord, guess)
	}
	if set.Len() == 1 && set.Contains(guess) {
		return GuessResult{Guess: guess, ExpectedMoves: 0, Exact: true}, nil
	}

	failed := len(sc.failed)
	_, bound := sc.Bound()
	n := node{set: set, movesLeft: s.cfg.MaxMoves, from: Opening}
	cost, exact, err := s.cost(ctx, n, gi, bound, sc)
	if err != nil {
		return GuessResult{}, err
	}
	if math.IsInf(cost, 1) {
		return GuessResult{}, fmt.Errorf("%s: %w", guess, ErrNotImproved)
	}

	r := GuessResult{Guess: guess, ExpectedMoves: cost, Exact: exact}
	sc.Offer(guess, cost)
	s.logger.Info("opening evaluated", "search", sc.ID, "guess", guess, "expected", cost, "exact", exact,
		"expansions", sc.expansions)
	return r, sc.writeErrorSince(failed)
}

// RetryWrites writes the failed records of werr again. It returns a
// *WriteError holding whatever still fails.
func (s *Solver) RetryWrites(ctx context.Context, werr *WriteError) error {
	if s.cfg.Store == nil || werr == nil {
		return nil
	}
	var still []*PersistError
	for _, f := range werr.Failed {
		if err := s.cfg.Store.Put(ctx, f.Key, f.Record); err != nil {
			storeWritesTotal.WithLabelValues("error").Inc()
			still = append(still, &PersistError{Key: f.Key, Record: f.Record, Err: err})
			continue
		}
		storeWritesTotal.WithLabelValues("ok").Inc()
	}
	if len(still) > 0 {
		return &WriteError{Failed: still}
	}
	return nil
}

func (s *Solver) check(set *words.Set, sc *SearchContext) error {
	if sc == nil {
		return ErrNoContext
	}
	if set == nil || set.Len() == 0 {
		return ErrEmptySet
	}
	if set.Vocabulary() != s.vocab {
		return ErrForeignSet
	}
	return nil
}

type node struct {
	set       *words.Set
	movesLeft int
	from      Lineage
}

func (s *Solver) round(movesLeft int) int { return s.cfg.MaxMoves - movesLeft + 1 }

func (s *Solver) solve(ctx context.Context, n node, sc *SearchContext) (GuessResult, error) {
	switch {
	case n.set.Len() == 0:
		return GuessResult{}, ErrEmptySet
	case n.set.Len() == 1:
		return GuessResult{Guess: s.vocab.Word(n.set.Indices()[0]), ExpectedMoves: 0, Exact: true}, nil
	case n.movesLeft == 0:
		return s.fallback(n.set), nil
	}

	key := memoKey{movesLeft: n.movesLeft, fp: n.set.Fingerprint()}
	if r, ok := s.memo.get(key); ok {
		memoHitsTotal.Inc()
		return s.bounded(n, r, sc)
	}

	// the top level prunes against this context's bound, so its outcome
	// is not shareable with other searches
	if n.movesLeft == s.cfg.MaxMoves {
		return s.expand(ctx, n, key, sc)
	}

	v, err, _ := s.flight.Do(key.flightKey(), func() (any, error) {
		return s.expand(ctx, n, key, sc)
	})
	if err != nil {
		// the search that was computing this node got cancelled, not us
		if isContextErr(err) && ctx.Err() == nil {
			return s.expand(ctx, n, key, sc)
		}
		return GuessResult{}, err
	}
	return v.(GuessResult), nil
}

func (s *Solver) expand(ctx context.Context, n node, key memoKey, sc *SearchContext) (GuessResult, error) {
	if err := ctx.Err(); err != nil {
		return GuessResult{}, err
	}
	if r, ok := s.memo.get(key); ok {
		memoHitsTotal.Inc()
		return s.bounded(n, r, sc)
	}

	persist := s.persisted(n.movesLeft)
	var skey store.Key
	if persist {
		skey = s.storeKey(n)
		if r, ok := s.lookup(ctx, n, skey, sc); ok {
			s.memo.put(key, r)
			return s.bounded(n, r, sc)
		}
	}

	sc.expansions++
	expansionsTotal.Inc()

	top := n.movesLeft == s.cfg.MaxMoves
	best := GuessResult{ExpectedMoves: math.Inf(1)}
	for _, cand := range order(s.table, n.set) {
		cutoff := best.ExpectedMoves
		if top {
			cutoff = min(cutoff, sc.bound)
		}

		cost, exact, err := s.cost(ctx, n, cand.guess, cutoff, sc)
		if err != nil {
			return GuessResult{}, err
		}
		if math.IsInf(cost, 1) || (top && cost >= sc.bound) {
			continue
		}
		if cost < best.ExpectedMoves {
			best = GuessResult{Guess: s.vocab.Word(cand.guess), ExpectedMoves: cost, Exact: exact}
		}
		if best.ExpectedMoves <= 1+s.cfg.Epsilon {
			break
		}
	}

	if math.IsInf(best.ExpectedMoves, 1) {
		return GuessResult{}, ErrNotImproved
	}

	s.memo.put(key, best)
	if persist {
		s.write(ctx, n, skey, best, sc)
	}
	if top {
		s.logger.Debug("search finished", "search", sc.ID, "guess", best.Guess,
			"expected", best.ExpectedMoves, "expansions", sc.expansions)
	}
	return best, nil
}

// bounded holds a cached top-level result to the context's bound, the way
// a fresh top-level search is held to it.
func (s *Solver) bounded(n node, r GuessResult, sc *SearchContext) (GuessResult, error) {
	if n.movesLeft == s.cfg.MaxMoves && r.ExpectedMoves >= sc.bound {
		return GuessResult{}, ErrNotImproved
	}
	return r, nil
}

// cost is the expected number of moves when guessing guess at node n. It
// gives up and returns +Inf as soon as the running total reaches cutoff.
func (s *Solver) cost(ctx context.Context, n node, guess int, cutoff float64, sc *SearchContext) (float64, bool, error) {
	expected := 1.0
	if expected >= cutoff {
		return math.Inf(1), false, nil
	}

	exact := true
	size := float64(n.set.Len())
	for _, g := range partition(s.table.Row(guess), n.set.Indices()) {
		if len(g.members) <= 1 {
			continue
		}
		child := node{
			set:       s.vocab.SetFromIndices(g.members),
			movesLeft: n.movesLeft - 1,
			from:      Lineage{Previous: s.vocab.Word(guess), Feedback: g.hint},
		}
		r, err := s.solve(ctx, child, sc)
		if err != nil {
			return 0, false, err
		}
		expected += float64(len(g.members)) / size * r.ExpectedMoves
		exact = exact && r.Exact
		if expected >= cutoff {
			return math.Inf(1), false, nil
		}
	}
	return expected, exact, nil
}

// fallback estimates the cost of a set with no moves left from the entropy
// of each guess: 1 plus the bits the guess fails to reveal. It is not an
// exact expected value.
func (s *Solver) fallback(set *words.Set) GuessResult {
	fallbacksTotal.Inc()
	maxEntropy := math.Log2(float64(set.Len()))
	guess, cost := minBy(set.Indices(), func(g int) float64 {
		return max(1, 1+(maxEntropy-Score(s.table, g, set)))
	})
	return GuessResult{Guess: s.vocab.Word(guess), ExpectedMoves: cost, Exact: false}
}

type group struct {
	hint    hint.Hint
	members []int
}

// partition splits members by the hint in row, in ascending hint order.
// Members keep their canonical order within a group.
func partition(row []hint.Hint, members []int) []group {
	var counts [hint.Count]int
	for _, m := range members {
		counts[row[m]]++
	}

	var start [hint.Count]int
	numGroups, offset := 0, 0
	for h, c := range counts {
		if c > 0 {
			start[h] = offset
			offset += c
			numGroups++
		}
	}

	flat := make([]int, len(members))
	next := start
	for _, m := range members {
		h := row[m]
		flat[next[h]] = m
		next[h]++
	}

	groups := make([]group, 0, numGroups)
	for h, c := range counts {
		if c > 0 {
			groups = append(groups, group{hint: hint.Hint(h), members: flat[start[h] : start[h]+c]})
		}
	}
	return groups
}

func isContextErr(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
