package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// Schema is the table Postgres expects. Creating and migrating it is left to
// whoever owns the database.
const Schema = `
CREATE TABLE IF NOT EXISTS wordle_results (
	round          INTEGER          NOT NULL,
	previous_guess TEXT             NOT NULL DEFAULT '',
	feedback       SMALLINT         NOT NULL,
	fingerprint    TEXT             NOT NULL,
	best_guess     TEXT             NOT NULL,
	expected_moves DOUBLE PRECISION NOT NULL,
	exact          BOOLEAN          NOT NULL,
	moves_left     INTEGER          NOT NULL,
	size           INTEGER          NOT NULL,
	candidates     TEXT             NOT NULL,
	updated_at     TIMESTAMPTZ      NOT NULL DEFAULT NOW(),
	PRIMARY KEY (round, previous_guess, feedback, fingerprint)
)`

type pgRow struct {
	Round         int     `db:"round"`
	Previous      string  `db:"previous_guess"`
	Feedback      int16   `db:"feedback"`
	Fingerprint   string  `db:"fingerprint"`
	Guess         string  `db:"best_guess"`
	ExpectedMoves float64 `db:"expected_moves"`
	Exact         bool    `db:"exact"`
	MovesLeft     int     `db:"moves_left"`
	Size          int     `db:"size"`
	Candidates    string  `db:"candidates"`
}

func (r pgRow) row() row {
	return row{
		Round:         r.Round,
		Previous:      r.Previous,
		Feedback:      uint8(r.Feedback),
		Fingerprint:   r.Fingerprint,
		Guess:         r.Guess,
		ExpectedMoves: r.ExpectedMoves,
		Exact:         r.Exact,
		MovesLeft:     r.MovesLeft,
		Size:          r.Size,
		Candidates:    r.Candidates,
	}
}

// Postgres stores results in the wordle_results table. Feedback is stored
// as its integer code, with 255 for the opening round.
type Postgres struct {
	db *sqlx.DB
}

func NewPostgres(db *sqlx.DB) *Postgres {
	return &Postgres{db: db}
}

// OpenPostgres connects to the database at dsn.
func OpenPostgres(ctx context.Context, dsn string) (*Postgres, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return NewPostgres(db), nil
}

func (p *Postgres) Get(ctx context.Context, key Key) (Record, bool, error) {
	query := `
		SELECT round, previous_guess, feedback, fingerprint, best_guess,
			expected_moves, exact, moves_left, size, candidates
		FROM wordle_results
		WHERE round = $1 AND previous_guess = $2 AND feedback = $3 AND fingerprint = $4`

	var r pgRow
	err := p.db.GetContext(ctx, &r, query,
		key.Round,
		string(key.Previous),
		int16(key.Feedback),
		key.Fingerprint.String(),
	)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, false, nil
	}
	if err != nil {
		return Record{}, false, fmt.Errorf("failed to get result %s: %w", key, err)
	}
	_, rec, err := r.row().split()
	if err != nil {
		return Record{}, false, err
	}
	return rec, true, nil
}

func (p *Postgres) Put(ctx context.Context, key Key, rec Record) error {
	if err := rec.validate(); err != nil {
		return err
	}

	query := `
		INSERT INTO wordle_results (round, previous_guess, feedback, fingerprint,
			best_guess, expected_moves, exact, moves_left, size, candidates)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (round, previous_guess, feedback, fingerprint) DO UPDATE SET
			best_guess = EXCLUDED.best_guess,
			expected_moves = EXCLUDED.expected_moves,
			exact = EXCLUDED.exact,
			moves_left = EXCLUDED.moves_left,
			size = EXCLUDED.size,
			candidates = EXCLUDED.candidates,
			updated_at = NOW()`

	_, err := p.db.ExecContext(ctx, query,
		key.Round,
		string(key.Previous),
		int16(key.Feedback),
		key.Fingerprint.String(),
		string(rec.Guess),
		rec.ExpectedMoves,
		rec.Exact,
		rec.MovesLeft,
		rec.Size,
		rec.Candidates,
	)
	if err != nil {
		return fmt.Errorf("failed to save result %s: %w", key, err)
	}
	return nil
}

func (p *Postgres) Scan(ctx context.Context, fn func(Key, Record) error) error {
	query := `
		SELECT round, previous_guess, feedback, fingerprint, best_guess,
			expected_moves, exact, moves_left, size, candidates
		FROM wordle_results
		ORDER BY round, previous_guess, feedback, fingerprint`

	rows, err := p.db.QueryxContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to query results: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var r pgRow
		if err := rows.StructScan(&r); err != nil {
			return fmt.Errorf("failed to scan result: %w", err)
		}
		k, rec, err := r.row().split()
		if err != nil {
			return err
		}
		if err := fn(k, rec); err != nil {
			return err
		}
	}
	return rows.Err()
}

func (p *Postgres) Close() error { return p.db.Close() }
