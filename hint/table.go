package hint

import (
	"sync"

	"github.com/bent101/wordle-expectimax/words"
	"github.com/schollz/progressbar/v3"
)

// Table holds the hint for every (guess, answer) pair of a vocabulary as a
// flat n*n byte array: At(i, j) is the hint for guessing word i when the
// answer is word j.
type Table struct {
	vocab *words.Vocabulary
	n     int
	hints []Hint
}

// BuildTable computes all n² hints, one goroutine per guess row. bar may be
// nil; otherwise it is advanced once per finished row.
func BuildTable(vocab *words.Vocabulary, bar *progressbar.ProgressBar) *Table {
	n := vocab.Len()
	t := &Table{vocab: vocab, n: n, hints: make([]Hint, n*n)}

	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			guess := string(vocab.Word(i))
			row := t.hints[i*n : (i+1)*n]
			for j := range n {
				row[j] = compute(guess, string(vocab.Word(j)))
			}
			if bar != nil {
				bar.Add(1)
			}
		}()
	}
	wg.Wait()

	return t
}

func (t *Table) Vocabulary() *words.Vocabulary { return t.vocab }

func (t *Table) Len() int { return t.n }

func (t *Table) At(guess, answer int) Hint { return t.hints[guess*t.n+answer] }

// Row returns the hints of one guess against every answer. The slice aliases
// the table and must not be modified.
func (t *Table) Row(guess int) []Hint { return t.hints[guess*t.n : (guess+1)*t.n] }
