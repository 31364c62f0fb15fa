// Package words holds the vocabulary side of the solver: parsed words, the
// indexed vocabulary, and candidate sets over it.
package words

import (
	"errors"
	"fmt"
	"strings"
)

// Length is the number of letters in every word.
const Length = 5

var (
	ErrWordLength = errors.New("word must have exactly 5 letters")
	ErrWordChar   = errors.New("word must only contain letters A-Z")
)

// Word is an uppercase five letter token.
type Word string

// Parse trims and uppercases s and checks that it is a valid Word.
func Parse(s string) (Word, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if len(s) != Length {
		return "", fmt.Errorf("%q: %w", s, ErrWordLength)
	}
	for i := range Length {
		if s[i] < 'A' || s[i] > 'Z' {
			return "", fmt.Errorf("%q: %w", s, ErrWordChar)
		}
	}
	return Word(s), nil
}

// MustParse is Parse for words known to be valid, like test fixtures.
func MustParse(s string) Word {
	w, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return w
}

// ParseAll parses every string in ss, stopping at the first invalid one.
func ParseAll(ss ...string) ([]Word, error) {
	ws := make([]Word, 0, len(ss))
	for _, s := range ss {
		w, err := Parse(s)
		if err != nil {
			return nil, err
		}
		ws = append(ws, w)
	}
	return ws, nil
}
