package export

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bent101/wordle-expectimax/hint"
	"github.com/bent101/wordle-expectimax/store"
	"github.com/bent101/wordle-expectimax/words"
)

func TestExportRoundTrip(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	f, err := store.OpenFile(filepath.Join(dir, "results.gob"), nil)
	require.NoError(t, err)
	defer f.Close()

	all := []words.Word{"CRANE", "CRATE", "GRATE", "PLANT"}
	opening := store.Key{Round: 1, Feedback: hint.None, Fingerprint: words.FingerprintOf(all)}
	require.NoError(t, f.Put(ctx, opening, store.Record{
		Guess: "CRANE", ExpectedMoves: 1, Exact: true, MovesLeft: 6, Size: 4, Candidates: words.Canonical(all),
	}))

	h, err := hint.New("CRANE", "CRATE")
	require.NoError(t, err)
	child := []words.Word{"CRATE", "GRATE"}
	second := store.Key{Round: 2, Previous: "CRANE", Feedback: h, Fingerprint: words.FingerprintOf(child)}
	require.NoError(t, f.Put(ctx, second, store.Record{
		Guess: "CRATE", ExpectedMoves: 1.5, Exact: false, MovesLeft: 5, Size: 2, Candidates: words.Canonical(child),
	}))

	rows, err := Collect(ctx, f)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	out := filepath.Join(dir, "out", "results.parquet")
	require.NoError(t, WriteParquet(out, rows))
	_, err = os.Stat(out + ".tmp")
	assert.True(t, os.IsNotExist(err))

	got, err := ReadParquet(out)
	require.NoError(t, err)
	assert.Equal(t, rows, got)

	byRound := map[int32]Row{}
	for _, r := range got {
		byRound[r.Round] = r
	}
	assert.Equal(t, "-", byRound[1].Feedback)
	assert.Empty(t, byRound[1].Previous)
	assert.Equal(t, h.String(), byRound[2].Feedback)
	assert.False(t, byRound[2].Exact)
	assert.Equal(t, int32(5), byRound[2].MovesLeft)

	k, err := byRound[1].Key()
	require.NoError(t, err)
	assert.Equal(t, opening, k)
	k, err = byRound[2].Key()
	require.NoError(t, err)
	assert.Equal(t, second, k)
}

func TestReadParquetRejectsOtherSchemas(t *testing.T) {
	dir := t.TempDir()
	_, err := ReadParquet(filepath.Join(dir, "missing.parquet"))
	assert.Error(t, err)

	path := filepath.Join(dir, "plain.parquet")
	require.NoError(t, parquet.WriteFile(path, []Row{{Round: 1, Feedback: "-", Guess: "CRANE"}}))
	_, err = ReadParquet(path)
	assert.ErrorContains(t, err, "unexpected schema")
}
