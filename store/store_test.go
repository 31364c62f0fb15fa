package store

import (
	"context"
	"math"
	"path/filepath"
	"testing"

	"github.com/bent101/wordle-expectimax/hint"
	"github.com/bent101/wordle-expectimax/words"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testKey(round int, prev words.Word, fb hint.Hint, ws ...words.Word) Key {
	return Key{Round: round, Previous: prev, Feedback: fb, Fingerprint: words.FingerprintOf(ws)}
}

func testRecord(guess words.Word, expected float64, ws ...words.Word) Record {
	return Record{
		Guess:         guess,
		ExpectedMoves: expected,
		Exact:         true,
		MovesLeft:     5,
		Size:          len(ws),
		Candidates:    words.Canonical(ws),
	}
}

// exerciseStore runs the behaviour every Store implementation shares.
func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	key := testKey(2, "ROATE", 7, "CRANE", "CRATE", "GRATE")
	rec := testRecord("CRATE", 1.3333, "CRANE", "CRATE", "GRATE")

	t.Run("miss", func(t *testing.T) {
		_, ok, err := s.Get(ctx, key)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("put twice keeps one record", func(t *testing.T) {
		require.NoError(t, s.Put(ctx, key, rec))
		require.NoError(t, s.Put(ctx, key, rec))

		got, ok, err := s.Get(ctx, key)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, rec, got)

		if sc, isScanner := s.(Scanner); isScanner {
			n := 0
			require.NoError(t, sc.Scan(ctx, func(k Key, r Record) error {
				if k == key {
					n++
					assert.Equal(t, rec, r)
				}
				return nil
			}))
			assert.Equal(t, 1, n)
		}
	})

	t.Run("last write wins", func(t *testing.T) {
		updated := rec
		updated.ExpectedMoves = 1.25
		require.NoError(t, s.Put(ctx, key, updated))

		got, ok, err := s.Get(ctx, key)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, 1.25, got.ExpectedMoves)
	})

	t.Run("metadata is part of the key", func(t *testing.T) {
		other := key
		other.Previous = "SALET"
		_, ok, err := s.Get(ctx, other)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("opening round key", func(t *testing.T) {
		open := testKey(1, "", hint.None, "CRANE", "CRATE", "GRATE", "PLANT")
		openRec := testRecord("CRANE", 1, "CRANE", "CRATE", "GRATE", "PLANT")
		require.NoError(t, s.Put(ctx, open, openRec))
		got, ok, err := s.Get(ctx, open)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, openRec, got)
	})

	t.Run("rejects infinite cost", func(t *testing.T) {
		bad := rec
		bad.ExpectedMoves = math.Inf(1)
		err := s.Put(ctx, testKey(3, "CRATE", 0, "CRANE"), bad)
		assert.ErrorIs(t, err, ErrInvalidRecord)
	})

	t.Run("rejects negative moves left", func(t *testing.T) {
		bad := rec
		bad.MovesLeft = -1
		err := s.Put(ctx, testKey(3, "CRATE", 0, "CRANE"), bad)
		assert.ErrorIs(t, err, ErrInvalidRecord)
	})
}

func TestFileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.gob")
	f, err := OpenFile(path, nil)
	require.NoError(t, err)
	exerciseStore(t, f)
	require.NoError(t, f.Close())

	// a second process sees the same records
	reopened, err := OpenFile(path, nil)
	require.NoError(t, err)
	defer reopened.Close()
	assert.Equal(t, 2, reopened.Len())

	got, ok, err := reopened.Get(context.Background(), testKey(2, "ROATE", 7, "CRANE", "CRATE", "GRATE"))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, words.Word("CRATE"), got.Guess)
	assert.Equal(t, 1.25, got.ExpectedMoves)
}

func TestFileStoreRequiresPath(t *testing.T) {
	_, err := OpenFile("", nil)
	assert.Error(t, err)
}

func TestBadgerStore(t *testing.T) {
	b, err := OpenBadger(InMemoryBadgerConfig())
	require.NoError(t, err)
	defer b.Close()
	exerciseStore(t, b)
}

func TestBadgerStorePersists(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()
	key := testKey(2, "SALET", 12, "ABACK", "ABASE")
	rec := testRecord("ABACK", 1, "ABACK", "ABASE")

	b, err := OpenBadger(DefaultBadgerConfig(dir))
	require.NoError(t, err)
	require.NoError(t, b.Put(ctx, key, rec))
	require.NoError(t, b.Close())

	b2, err := OpenBadger(DefaultBadgerConfig(dir))
	require.NoError(t, err)
	defer b2.Close()
	got, ok, err := b2.Get(ctx, key)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, rec, got)
}

func TestBadgerRequiresPath(t *testing.T) {
	_, err := OpenBadger(BadgerConfig{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "path is required")
}

func TestKeyString(t *testing.T) {
	k := testKey(1, "", hint.None, "ABACK")
	assert.Contains(t, k.String(), "1/-/-----/")

	k = testKey(2, "ROATE", hint.Solved, "ABACK")
	assert.Contains(t, k.String(), "2/ROATE/22222/")
}
