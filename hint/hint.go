// Package hint computes Wordle feedback between a guess and an answer and
// precomputes it for every pair of words in a vocabulary.
package hint

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mitchellh/colorstring"
)

// Mark is the feedback for a single letter.
type Mark uint8

const (
	Miss    Mark = iota // gray
	Present             // yellow
	Hit                 // green
)

// Hint is the feedback for a whole guess: the five marks read as a base 3
// number with the first letter most significant. It fits in a byte.
type Hint uint8

const (
	// Count is the number of distinct hints.
	Count = 243
	// Solved is the all-green hint.
	Solved Hint = Count - 1
	// None stands for "no feedback yet", e.g. before the opening guess.
	None Hint = 255
)

const size = 5

var (
	ErrLength  = errors.New("guess and answer must both have 5 letters")
	ErrPattern = errors.New("hint must be 5 marks of 0/1/2 or B/Y/G")
)

// New returns the feedback the game shows for guess when the answer is
// answer.
func New(guess, answer string) (Hint, error) {
	if len(guess) != size || len(answer) != size {
		return 0, fmt.Errorf("%q vs %q: %w", guess, answer, ErrLength)
	}
	return compute(guess, answer), nil
}

// compute assumes both words have 5 letters.
//
// Greens are assigned first and consume their answer letter, then every
// other position takes the first unconsumed matching answer letter as a
// yellow. A letter is never marked more times than it occurs in the answer.
func compute(guess, answer string) Hint {
	var marks [size]Mark
	var consumed [size]bool

	for i := range size {
		if guess[i] == answer[i] {
			marks[i] = Hit
			consumed[i] = true
		}
	}

	for i := range size {
		if marks[i] == Hit {
			continue
		}
		for j := range size {
			if !consumed[j] && answer[j] == guess[i] {
				marks[i] = Present
				consumed[j] = true
				break
			}
		}
	}

	return FromMarks(marks)
}

func FromMarks(marks [size]Mark) Hint {
	var ret uint8
	for _, m := range marks {
		ret = (ret * 3) + uint8(m)
	}
	return Hint(ret)
}

// Marks converts h back to individual marks.
func (h Hint) Marks() [size]Mark {
	var marks [size]Mark
	v := uint8(h)
	for i := size - 1; i >= 0; i-- {
		marks[i] = Mark(v % 3)
		v /= 3
	}
	return marks
}

func (h Hint) Valid() bool { return h < Count }

// String renders h as five digits, e.g. "22200".
func (h Hint) String() string {
	if !h.Valid() {
		return "-----"
	}
	var b [size]byte
	for i, m := range h.Marks() {
		b[i] = '0' + byte(m)
	}
	return string(b[:])
}

// Squares renders h the way the game shares results.
func (h Hint) Squares() string {
	hintReplacer := strings.NewReplacer("0", "⬜", "1", "🟨", "2", "🟩")
	return hintReplacer.Replace(h.String())
}

// ColoredWord displays a word with colored backgrounds based on the hint.
func (h Hint) ColoredWord(word string) string {
	if len(word) != size || !h.Valid() {
		return word
	}

	var b strings.Builder
	for i, m := range h.Marks() {
		switch m {
		case Miss:
			b.WriteString("[white][_dark_gray_]")
		case Present:
			b.WriteString("[black][_yellow_]")
		case Hit:
			b.WriteString("[black][_green_]")
		}
		b.WriteByte(word[i])
		b.WriteString(" [reset]")
	}
	return colorstring.Color(b.String())
}

// Parse accepts "02210" style digits or the letters B (or _), Y and G.
func Parse(s string) (Hint, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if len(s) != size {
		return 0, fmt.Errorf("%q: %w", s, ErrPattern)
	}
	var marks [size]Mark
	for i := range size {
		switch s[i] {
		case '0', 'B', '_':
			marks[i] = Miss
		case '1', 'Y':
			marks[i] = Present
		case '2', 'G':
			marks[i] = Hit
		default:
			return 0, fmt.Errorf("%q: %w", s, ErrPattern)
		}
	}
	return FromMarks(marks), nil
}
