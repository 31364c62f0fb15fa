package words

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"slices"
	"strings"
	"sync"
)

// Fingerprint is the SHA-256 of a candidate set's canonical form.
type Fingerprint [sha256.Size]byte

func (f Fingerprint) String() string {
	return hex.EncodeToString(f[:])
}

// ParseFingerprint decodes the hex form produced by String.
func ParseFingerprint(s string) (Fingerprint, error) {
	var f Fingerprint
	b, err := hex.DecodeString(s)
	if err != nil {
		return f, err
	}
	if len(b) != len(f) {
		return f, fmt.Errorf("fingerprint must be %d bytes, got %d", len(f), len(b))
	}
	copy(f[:], b)
	return f, nil
}

// Canonical sorts and deduplicates ws and joins them with commas.
func Canonical(ws []Word) string {
	sorted := slices.Clone(ws)
	slices.Sort(sorted)
	return join(slices.Compact(sorted))
}

func join(sorted []Word) string {
	var b strings.Builder
	b.Grow(len(sorted) * (Length + 1))
	for i, w := range sorted {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(string(w))
	}
	return b.String()
}

// FingerprintOf hashes the membership of ws. Order and duplicates are ignored.
func FingerprintOf(ws []Word) Fingerprint {
	return sha256.Sum256([]byte(Canonical(ws)))
}

// Set is a candidate set: the words still consistent with the feedback seen
// so far. Members are always visited in canonical (vocabulary) order.
type Set struct {
	vocab *Vocabulary
	bits  *Bitvec

	once    sync.Once
	indices []int
	fp      Fingerprint
}

func (s *Set) Len() int { return s.bits.Count }

func (s *Set) Vocabulary() *Vocabulary { return s.vocab }

func (s *Set) Contains(w Word) bool {
	i, ok := s.vocab.Index(w)
	return ok && s.bits.Get(i)
}

func (s *Set) ContainsIndex(i int) bool { return s.bits.Get(i) }

// Indices returns vocabulary indices of the members in ascending order.
// The slice is shared and must not be modified.
func (s *Set) Indices() []int {
	s.init()
	return s.indices
}

func (s *Set) Words() []Word {
	idx := s.Indices()
	out := make([]Word, len(idx))
	for i, j := range idx {
		out[i] = s.vocab.Word(j)
	}
	return out
}

// Canonical returns the comma joined member list in canonical order.
func (s *Set) Canonical() string {
	return join(s.Words())
}

// Intersect returns the members of s that are also in other.
func (s *Set) Intersect(other *Set) *Set {
	return &Set{vocab: s.vocab, bits: s.bits.And(other.bits)}
}

// Fingerprint is computed once per set and depends only on membership.
func (s *Set) Fingerprint() Fingerprint {
	s.init()
	return s.fp
}

func (s *Set) init() {
	s.once.Do(func() {
		s.indices = s.bits.Indices()
		ws := make([]Word, len(s.indices))
		for i, j := range s.indices {
			ws[i] = s.vocab.Word(j)
		}
		// vocabulary order is already sorted and unique
		s.fp = sha256.Sum256([]byte(join(ws)))
	})
}
