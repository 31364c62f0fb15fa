package hint

import (
	"math/rand"
	"testing"

	"github.com/bent101/wordle-expectimax/words"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustHint(t *testing.T, guess, answer string) Hint {
	t.Helper()
	h, err := New(guess, answer)
	require.NoError(t, err)
	return h
}

func TestNewSameWordIsSolved(t *testing.T) {
	for _, w := range []string{"ABACK", "EERIE", "LLAMA", "ZZZZZ"} {
		h := mustHint(t, w, w)
		assert.Equal(t, Solved, h, w)
		assert.Equal(t, 242, int(h))
		assert.Equal(t, "22222", h.String())
	}
}

func TestNewKnownPatterns(t *testing.T) {
	tests := []struct {
		guess, answer, want string
	}{
		{"ABACK", "ABASE", "22200"},
		{"CRATE", "CRANE", "22202"},
		{"CRATE", "PLANT", "00210"},
		{"CRANE", "PLANT", "00220"},
		// one E is left after the green, so only the first E is yellow
		{"EERIE", "THEME", "10002"},
		{"LLAMA", "HELLO", "11000"},
		// the green L uses up the only L
		{"LLAMA", "ALOFT", "02100"},
		{"SPEED", "ABIDE", "00101"},
	}
	for _, tt := range tests {
		t.Run(tt.guess+"_"+tt.answer, func(t *testing.T) {
			assert.Equal(t, tt.want, mustHint(t, tt.guess, tt.answer).String())
		})
	}
}

func TestNewRejectsWrongLength(t *testing.T) {
	_, err := New("ABAC", "ABASE")
	assert.ErrorIs(t, err, ErrLength)
	_, err = New("ABACK", "ABASED")
	assert.ErrorIs(t, err, ErrLength)
}

func TestNewIsNotSymmetric(t *testing.T) {
	ab := mustHint(t, "AABCD", "EEEEA")
	ba := mustHint(t, "EEEEA", "AABCD")
	assert.Equal(t, "10000", ab.String())
	assert.Equal(t, "00001", ba.String())
	assert.NotEqual(t, ab, ba)
}

func TestNewNeverOvercountsLetters(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	randomWord := func() string {
		// a small alphabet forces plenty of repeated letters
		b := make([]byte, 5)
		for i := range b {
			b[i] = "ABCDE"[rng.Intn(5)]
		}
		return string(b)
	}

	for range 5000 {
		guess, answer := randomWord(), randomWord()
		marks := mustHint(t, guess, answer).Marks()

		marked := map[byte]int{}
		for i, m := range marks {
			if m != Miss {
				marked[guess[i]]++
			}
			if m == Hit {
				require.Equal(t, guess[i], answer[i])
			}
		}
		for letter, n := range marked {
			inAnswer, inGuess := 0, 0
			for i := range 5 {
				if answer[i] == letter {
					inAnswer++
				}
				if guess[i] == letter {
					inGuess++
				}
			}
			require.LessOrEqual(t, n, inAnswer, "%s vs %s", guess, answer)
			require.LessOrEqual(t, n, inGuess, "%s vs %s", guess, answer)
		}
	}
}

func TestMarksRoundTrip(t *testing.T) {
	for v := range Count {
		h := Hint(v)
		assert.Equal(t, h, FromMarks(h.Marks()))
		parsed, err := Parse(h.String())
		require.NoError(t, err)
		assert.Equal(t, h, parsed)
	}
}

func TestParse(t *testing.T) {
	h, err := Parse("ggybb")
	require.NoError(t, err)
	assert.Equal(t, "22100", h.String())

	h, err = Parse("__YG_")
	require.NoError(t, err)
	assert.Equal(t, "00120", h.String())

	_, err = Parse("2221")
	assert.ErrorIs(t, err, ErrPattern)
	_, err = Parse("22213")
	assert.ErrorIs(t, err, ErrPattern)
}

func TestNoneIsNotAValidHint(t *testing.T) {
	assert.False(t, None.Valid())
	assert.Equal(t, "-----", None.String())
	assert.Equal(t, "ROATE", None.ColoredWord("ROATE"))
}

func TestSquares(t *testing.T) {
	h, err := Parse("01220")
	require.NoError(t, err)
	assert.Equal(t, "⬜🟨🟩🟩⬜", h.Squares())
}

func TestBuildTable(t *testing.T) {
	ws, err := words.ParseAll("CRANE", "CRATE", "GRATE", "PLANT", "ABACK", "ABASE", "EERIE")
	require.NoError(t, err)
	vocab := words.NewVocabulary(ws)

	table := BuildTable(vocab, nil)
	require.Equal(t, vocab.Len(), table.Len())

	for i := range vocab.Len() {
		assert.Equal(t, Solved, table.At(i, i))
		row := table.Row(i)
		for j := range vocab.Len() {
			want := mustHint(t, string(vocab.Word(i)), string(vocab.Word(j)))
			assert.Equal(t, want, table.At(i, j))
			assert.Equal(t, want, row[j])
		}
	}
}
