package words

import (
	"fmt"
	"slices"
)

// Vocabulary is a deduplicated, lexicographically sorted word list with a
// stable word to index mapping. Index order is the canonical order used for
// fingerprints and tie-breaking.
type Vocabulary struct {
	words []Word
	index map[Word]int
}

func NewVocabulary(ws []Word) *Vocabulary {
	sorted := slices.Clone(ws)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)

	index := make(map[Word]int, len(sorted))
	for i, w := range sorted {
		index[w] = i
	}
	return &Vocabulary{words: sorted, index: index}
}

func (v *Vocabulary) Len() int { return len(v.words) }

func (v *Vocabulary) Word(i int) Word { return v.words[i] }

func (v *Vocabulary) Words() []Word { return slices.Clone(v.words) }

func (v *Vocabulary) Index(w Word) (int, bool) {
	i, ok := v.index[w]
	return i, ok
}

// All returns the candidate set holding every word of the vocabulary.
func (v *Vocabulary) All() *Set {
	bv := NewBitvec(len(v.words))
	for i := range v.words {
		bv.Set(i)
	}
	return &Set{vocab: v, bits: bv}
}

// SetOf builds a candidate set from words, which must all belong to v.
func (v *Vocabulary) SetOf(ws ...Word) (*Set, error) {
	bv := NewBitvec(len(v.words))
	for _, w := range ws {
		i, ok := v.index[w]
		if !ok {
			return nil, fmt.Errorf("%s is not in the vocabulary", w)
		}
		bv.Set(i)
	}
	return &Set{vocab: v, bits: bv}, nil
}

// SetFromIndices builds a candidate set from vocabulary indices.
func (v *Vocabulary) SetFromIndices(indices []int) *Set {
	bv := NewBitvec(len(v.words))
	for _, i := range indices {
		bv.Set(i)
	}
	return &Set{vocab: v, bits: bv}
}
