package solver

import (
	"context"
	"math"

	"github.com/bent101/wordle-expectimax/store"
)

func (s *Solver) persisted(movesLeft int) bool {
	return s.cfg.Store != nil && s.round(movesLeft) <= s.cfg.PersistRounds
}

func (s *Solver) storeKey(n node) store.Key {
	return store.Key{
		Round:       s.round(n.movesLeft),
		Previous:    n.from.Previous,
		Feedback:    n.from.Feedback,
		Fingerprint: n.set.Fingerprint(),
	}
}

// lookup treats every store failure as a miss.
func (s *Solver) lookup(ctx context.Context, n node, key store.Key, sc *SearchContext) (GuessResult, bool) {
	rec, ok, err := s.cfg.Store.Get(ctx, key)
	if err != nil {
		storeLookupsTotal.WithLabelValues("error").Inc()
		s.logger.Warn("store lookup failed, recomputing", "search", sc.ID, "key", key, "error", err)
		return GuessResult{}, false
	}
	if !ok {
		storeLookupsTotal.WithLabelValues("miss").Inc()
		return GuessResult{}, false
	}
	// a row solved under another max moves has the same round but a
	// different budget
	if rec.MovesLeft != n.movesLeft || !n.set.Contains(rec.Guess) ||
		math.IsInf(rec.ExpectedMoves, 0) || math.IsNaN(rec.ExpectedMoves) {
		storeLookupsTotal.WithLabelValues("invalid").Inc()
		s.logger.Warn("ignoring stored result", "search", sc.ID, "key", key, "guess", rec.Guess,
			"expected", rec.ExpectedMoves, "moves_left", rec.MovesLeft, "want_moves_left", n.movesLeft)
		return GuessResult{}, false
	}
	storeLookupsTotal.WithLabelValues("hit").Inc()
	return GuessResult{Guess: rec.Guess, ExpectedMoves: rec.ExpectedMoves, Exact: rec.Exact}, true
}

func (s *Solver) write(ctx context.Context, n node, key store.Key, r GuessResult, sc *SearchContext) {
	rec := store.Record{
		Guess:         r.Guess,
		ExpectedMoves: r.ExpectedMoves,
		Exact:         r.Exact,
		MovesLeft:     n.movesLeft,
		Size:          n.set.Len(),
		Candidates:    n.set.Canonical(),
	}
	if err := s.cfg.Store.Put(ctx, key, rec); err != nil {
		storeWritesTotal.WithLabelValues("error").Inc()
		sc.failed = append(sc.failed, &PersistError{Key: key, Record: rec, Err: err})
		s.logger.Error("store write failed", "search", sc.ID, "round", key.Round, "size", rec.Size,
			"key", key, "error", err)
		return
	}
	storeWritesTotal.WithLabelValues("ok").Inc()
}
