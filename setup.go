package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/schollz/progressbar/v3"

	"github.com/bent101/wordle-expectimax/config"
	"github.com/bent101/wordle-expectimax/hint"
	"github.com/bent101/wordle-expectimax/solver"
	"github.com/bent101/wordle-expectimax/store"
	"github.com/bent101/wordle-expectimax/words"
)

func loadVocabulary(path string) (*words.Vocabulary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open word list: %w", err)
	}
	defer f.Close()

	ws, err := words.ReadWords(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	vocab := words.NewVocabulary(ws)
	if vocab.Len() == 0 {
		return nil, fmt.Errorf("%s: no words", path)
	}
	logger.Info("loaded words", "path", path, "words", vocab.Len(), "duplicates", len(ws)-vocab.Len())
	return vocab, nil
}

func loadSeeds(path string) ([]words.Seed, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open seeds: %w", err)
	}
	defer f.Close()

	seeds, err := words.ReadSeeds(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return seeds, nil
}

func buildTable(vocab *words.Vocabulary) *hint.Table {
	fmt.Fprintln(os.Stderr, "calculating hints for all guess-answer pairs")
	bar := progressbar.NewOptions(vocab.Len(),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
	return hint.BuildTable(vocab, bar)
}

// openStore returns a nil store for kind "none".
func openStore(ctx context.Context, c config.StoreConfig, logger *slog.Logger) (store.Store, error) {
	switch c.Kind {
	case config.StoreNone:
		return nil, nil
	case config.StoreGob:
		return store.OpenFile(c.Path, logger)
	case config.StoreBadger:
		bc := store.DefaultBadgerConfig(c.Path)
		bc.Logger = logger
		return store.OpenBadger(bc)
	case config.StorePostgres:
		return store.OpenPostgres(ctx, c.DatabaseURL)
	default:
		return nil, fmt.Errorf("unknown store kind %q", c.Kind)
	}
}

// session is everything a search command needs. Close releases the store.
type session struct {
	vocab  *words.Vocabulary
	solver *solver.Solver
	store  store.Store
}

func newSession(ctx context.Context) (*session, error) {
	vocab, err := loadVocabulary(cfg.WordsFile)
	if err != nil {
		return nil, err
	}
	table := buildTable(vocab)

	st, err := openStore(ctx, cfg.Store, logger)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.Store.Kind, err)
	}

	s, err := solver.New(table, solver.Config{
		MaxMoves:      cfg.Search.MaxMoves,
		PersistRounds: cfg.Search.PersistRounds,
		Epsilon:       cfg.Search.Epsilon,
		Store:         st,
		Logger:        logger,
	})
	if err != nil {
		if st != nil {
			st.Close()
		}
		return nil, err
	}
	return &session{vocab: vocab, solver: s, store: st}, nil
}

func (s *session) Close() error {
	if s.store == nil {
		return nil
	}
	return s.store.Close()
}

// settleWrites retries failed store writes once and logs what still fails.
func (s *session) settleWrites(ctx context.Context, err error) error {
	var werr *solver.WriteError
	if !errors.As(err, &werr) {
		return err
	}
	logger.Warn("retrying failed store writes", "count", len(werr.Failed))
	if err := s.solver.RetryWrites(ctx, werr); err != nil {
		logger.Error("store writes still failing, results stay in memory only", "error", err)
	}
	return nil
}
