package main

import (
	"context"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bent101/wordle-expectimax/config"
	"github.com/bent101/wordle-expectimax/hint"
	"github.com/bent101/wordle-expectimax/solver"
	"github.com/bent101/wordle-expectimax/store"
	"github.com/bent101/wordle-expectimax/words"
)

func TestMain(m *testing.M) {
	logger = slog.New(slog.DiscardHandler)
	os.Exit(m.Run())
}

var testWords = []string{"CRANE", "CRATE", "GRATE", "PLANT", "SLATE", "TRACE", "STATE", "SKATE"}

func testVocabulary(t *testing.T) *words.Vocabulary {
	t.Helper()
	ws, err := words.ParseAll(testWords...)
	require.NoError(t, err)
	return words.NewVocabulary(ws)
}

func testSolver(t *testing.T) *solver.Solver {
	t.Helper()
	s, err := solver.New(hint.BuildTable(testVocabulary(t), nil), solver.DefaultConfig())
	require.NoError(t, err)
	return s
}

func TestLoadVocabulary(t *testing.T) {
	path := filepath.Join(t.TempDir(), "words.txt")
	require.NoError(t, os.WriteFile(path, []byte("# answers\ncrane\nslate\n\nCRANE\n"), 0o644))

	vocab, err := loadVocabulary(path)
	require.NoError(t, err)
	assert.Equal(t, []words.Word{"CRANE", "SLATE"}, vocab.Words())

	empty := filepath.Join(t.TempDir(), "empty.txt")
	require.NoError(t, os.WriteFile(empty, []byte("# nothing\n"), 0o644))
	_, err = loadVocabulary(empty)
	assert.Error(t, err)

	_, err = loadVocabulary(filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}

func TestParseHistory(t *testing.T) {
	got, err := parseHistory([]string{"roate=00120", "CRANE=BGYBB"})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, words.Word("ROATE"), got[0].guess)
	assert.Equal(t, "00120", got[0].hint.String())
	assert.Equal(t, "02100", got[1].hint.String())

	for _, bad := range []string{"ROATE", "ROAT=00120", "ROATE=0012", "ROATE=00130"} {
		_, err := parseHistory([]string{bad})
		assert.Error(t, err, bad)
	}
}

func TestNarrowHistory(t *testing.T) {
	s := testSolver(t)
	h, err := hint.New("CRANE", "SKATE")
	require.NoError(t, err)

	set, from, err := narrow(s, s.Vocabulary().All(), []played{{guess: "CRANE", hint: h}})
	require.NoError(t, err)
	assert.True(t, set.Contains("SKATE"))
	assert.False(t, set.Contains("CRANE"))
	assert.Equal(t, solver.Lineage{Previous: "CRANE", Feedback: h}, from)

	set, from, err = narrow(s, s.Vocabulary().All(), nil)
	require.NoError(t, err)
	assert.Equal(t, len(testWords), set.Len())
	assert.Equal(t, solver.Opening, from)

	_, _, err = narrow(s, s.Vocabulary().All(), []played{{guess: "CRANE", hint: hint.Solved}, {guess: "SLATE", hint: hint.Solved}})
	assert.ErrorContains(t, err, "no word is consistent")
}

func TestHintGroups(t *testing.T) {
	vocab := testVocabulary(t)
	groups, err := hintGroups(vocab, "SLATE")
	require.NoError(t, err)

	total := 0
	for i, g := range groups {
		if i > 0 {
			assert.GreaterOrEqual(t, len(groups[i-1].members), len(g.members))
		}
		for _, w := range g.members {
			h, err := hint.New("SLATE", string(w))
			require.NoError(t, err)
			assert.Equal(t, g.hint, h)
		}
		total += len(g.members)
	}
	assert.Equal(t, vocab.Len(), total)

	bits, remaining := splitQuality(groups)
	assert.Greater(t, bits, 0.0)
	assert.LessOrEqual(t, bits, math.Log2(float64(vocab.Len()))+1e-12)
	assert.GreaterOrEqual(t, remaining, 1.0)

	single := []hintGroup{{hint: hint.Solved, members: []words.Word{"CRANE"}}}
	bits, remaining = splitQuality(single)
	assert.Zero(t, bits)
	assert.Equal(t, 1.0, remaining)
}

func TestPlanOpenings(t *testing.T) {
	s := testSolver(t)
	seeds := []words.Seed{{Word: "STATE", Cost: 2.5}, {Word: "CRANE", Cost: math.Inf(1)}, {Word: "STATE", Cost: 3}}

	got, err := planOpenings(s.Table(), seeds, 4)
	require.NoError(t, err)
	require.Len(t, got, 4)
	assert.Equal(t, []words.Word{"STATE", "CRANE"}, got[:2])

	all, err := planOpenings(s.Table(), nil, 0)
	require.NoError(t, err)
	assert.Equal(t, solver.Order(s.Table(), s.Vocabulary().All()), all)

	_, err = planOpenings(s.Table(), []words.Seed{{Word: "ROATE"}}, 4)
	assert.ErrorIs(t, err, solver.ErrUnknownWord)
}

func TestSummarize(t *testing.T) {
	got, err := summarize([]float64{3.5, 3.25, 4, 3.75})
	require.NoError(t, err)
	assert.Equal(t, openingSummary{Count: 4, Min: 3.25, Max: 4, Mean: 3.625, Median: 3.625}, got)

	_, err = summarize(nil)
	assert.Error(t, err)
}

func TestOpenStore(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	st, err := openStore(ctx, config.StoreConfig{Kind: config.StoreNone}, logger)
	require.NoError(t, err)
	assert.Nil(t, st)

	st, err = openStore(ctx, config.StoreConfig{Kind: config.StoreGob, Path: filepath.Join(dir, "cache.gob")}, logger)
	require.NoError(t, err)
	assert.IsType(t, &store.File{}, st)
	require.NoError(t, st.Close())

	st, err = openStore(ctx, config.StoreConfig{Kind: config.StoreBadger, Path: filepath.Join(dir, "badger")}, logger)
	require.NoError(t, err)
	_, ok := st.(store.Scanner)
	assert.True(t, ok)
	require.NoError(t, st.Close())

	_, err = openStore(ctx, config.StoreConfig{Kind: "redis"}, logger)
	assert.Error(t, err)
}
