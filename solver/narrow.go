package solver

import (
	"fmt"

	"github.com/bent101/wordle-expectimax/hint"
	"github.com/bent101/wordle-expectimax/words"
)

// Narrow keeps the members of set that would have shown h for guess. guess
// does not have to be in the vocabulary.
func (s *Solver) Narrow(set *words.Set, guess words.Word, h hint.Hint) (*words.Set, error) {
	if set.Vocabulary() != s.vocab {
		return nil, ErrForeignSet
	}
	if !h.Valid() {
		return nil, fmt.Errorf("narrow by %s: %w", guess, hint.ErrPattern)
	}

	if gi, ok := s.vocab.Index(guess); ok {
		var matching []int
		for answer, got := range s.table.Row(gi) {
			if got == h {
				matching = append(matching, answer)
			}
		}
		return s.vocab.SetFromIndices(matching).Intersect(set), nil
	}

	var keep []int
	for _, i := range set.Indices() {
		got, err := hint.New(string(guess), string(s.vocab.Word(i)))
		if err != nil {
			return nil, err
		}
		if got == h {
			keep = append(keep, i)
		}
	}
	return s.vocab.SetFromIndices(keep), nil
}
