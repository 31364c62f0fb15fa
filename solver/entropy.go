package solver

import (
	"cmp"
	"math"
	"slices"

	"gonum.org/v1/gonum/stat"

	"github.com/bent101/wordle-expectimax/hint"
	"github.com/bent101/wordle-expectimax/words"
)

// Score is the Shannon entropy, in bits, of the hints guess produces over
// the members of set. guess is a vocabulary index.
func Score(table *hint.Table, guess int, set *words.Set) float64 {
	members := set.Indices()
	if len(members) == 0 {
		return 0
	}

	var counts [hint.Count]int
	row := table.Row(guess)
	for _, m := range members {
		counts[row[m]]++
	}

	n := float64(len(members))
	p := make([]float64, 0, len(members))
	for _, c := range counts {
		if c > 0 {
			p = append(p, float64(c)/n)
		}
	}
	// same group sizes must give bit-identical scores regardless of which
	// hints they fall under, or ties would break inconsistently
	slices.Sort(p)
	return stat.Entropy(p) / math.Ln2
}

type scored struct {
	guess int
	score float64
}

// order ranks the members of set as guesses by descending Score. Equal
// scores keep canonical order, which makes the ranking the tie-breaker for
// equally good guesses.
func order(table *hint.Table, set *words.Set) []scored {
	members := set.Indices()
	out := make([]scored, len(members))
	for i, m := range members {
		out[i] = scored{guess: m, score: Score(table, m, set)}
	}
	slices.SortStableFunc(out, func(a, b scored) int {
		return cmp.Compare(b.score, a.score)
	})
	return out
}

// Order returns the members of set in the order the search tries them.
func Order(table *hint.Table, set *words.Set) []words.Word {
	vocab := table.Vocabulary()
	ranked := order(table, set)
	out := make([]words.Word, len(ranked))
	for i, s := range ranked {
		out[i] = vocab.Word(s.guess)
	}
	return out
}
