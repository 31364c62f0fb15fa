package main

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/montanaflynn/stats"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/bent101/wordle-expectimax/hint"
	"github.com/bent101/wordle-expectimax/solver"
	"github.com/bent101/wordle-expectimax/words"
)

var (
	precomputeTop        int
	precomputeExhaustive bool

	precomputeCmd = &cobra.Command{
		Use:   "precompute",
		Short: "Evaluate opening guesses and fill the store",
		Long: `Evaluates opening guesses against the whole word list, best candidates
first, writing every solved second-round position to the store. Seeds from
the seeds file are tried first; a seed's cost, when given, is trusted as the
starting bound, so openings that cannot beat it are cut short.

With --exhaustive every opening is searched after the listed ones and the
overall best opening is written to the store as well.`,
		Args: cobra.NoArgs,
		RunE: runPrecompute,
	}
)

func init() {
	precomputeCmd.Flags().IntVar(&precomputeTop, "top", 20, "openings to evaluate, seeds first then by entropy (0 for all)")
	precomputeCmd.Flags().BoolVar(&precomputeExhaustive, "exhaustive", false, "search every opening for the overall best")
	rootCmd.AddCommand(precomputeCmd)
}

// planOpenings lists the seeds in file order followed by the rest of the
// vocabulary by descending entropy, up to top words in total.
func planOpenings(table *hint.Table, seeds []words.Seed, top int) ([]words.Word, error) {
	vocab := table.Vocabulary()
	seen := map[words.Word]bool{}
	var out []words.Word
	for _, s := range seeds {
		if _, ok := vocab.Index(s.Word); !ok {
			return nil, fmt.Errorf("seed %s: %w", s.Word, solver.ErrUnknownWord)
		}
		if !seen[s.Word] {
			seen[s.Word] = true
			out = append(out, s.Word)
		}
	}
	for _, w := range solver.Order(table, vocab.All()) {
		if top > 0 && len(out) >= top {
			break
		}
		if !seen[w] {
			seen[w] = true
			out = append(out, w)
		}
	}
	return out, nil
}

type openingSummary struct {
	Count                  int
	Min, Max, Mean, Median float64
}

func summarize(costs []float64) (openingSummary, error) {
	data := stats.Float64Data(costs)
	minimum, err := stats.Min(data)
	if err != nil {
		return openingSummary{}, err
	}
	maximum, err := stats.Max(data)
	if err != nil {
		return openingSummary{}, err
	}
	mean, err := stats.Mean(data)
	if err != nil {
		return openingSummary{}, err
	}
	median, err := stats.Median(data)
	if err != nil {
		return openingSummary{}, err
	}
	return openingSummary{Count: len(costs), Min: minimum, Max: maximum, Mean: mean, Median: median}, nil
}

func serveMetrics(addr string) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", "addr", addr, "error", err)
		}
	}()
	logger.Info("serving metrics", "addr", addr)
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(ctx)
	}
}

func runPrecompute(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	start := time.Now()

	var seeds []words.Seed
	if cfg.SeedsFile != "" {
		var err error
		if seeds, err = loadSeeds(cfg.SeedsFile); err != nil {
			return err
		}
	}

	sess, err := newSession(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := sess.Close(); err != nil {
			logger.Error("closing store", "error", err)
		}
	}()

	if cfg.MetricsAddr != "" {
		stop := serveMetrics(cfg.MetricsAddr)
		defer stop()
	}

	openings, err := planOpenings(sess.solver.Table(), seeds, precomputeTop)
	if err != nil {
		return err
	}

	sc := sess.solver.NewContext()
	for _, s := range seeds {
		if !math.IsInf(s.Cost, 1) && sc.Offer(s.Word, s.Cost) {
			logger.Info("bound from seed", "search", sc.ID, "guess", s.Word, "expected", s.Cost)
		}
	}

	all := sess.vocab.All()
	bar := progressbar.Default(int64(len(openings)), "evaluating openings")
	var costs []float64
	pruned := 0
	for _, w := range openings {
		r, err := sess.solver.EvaluateOpening(ctx, w, all, sc)
		err = sess.settleWrites(ctx, err)
		switch {
		case errors.Is(err, solver.ErrNotImproved):
			pruned++
		case err != nil:
			bar.Exit()
			if ctx.Err() != nil {
				return fmt.Errorf("precompute interrupted after %d openings: %w", len(costs)+pruned, err)
			}
			return err
		default:
			costs = append(costs, r.ExpectedMoves)
			best, bound := sc.Bound()
			bar.Describe(fmt.Sprintf("best: %s (%.4f)", best, bound))
		}
		bar.Add(1)
	}

	if precomputeExhaustive {
		fmt.Println("searching every opening")
		_, err := sess.solver.Solve(ctx, all, cfg.Search.MaxMoves, sc)
		err = sess.settleWrites(ctx, err)
		if err != nil && !errors.Is(err, solver.ErrNotImproved) {
			return err
		}
	}

	best, bound := sc.Bound()
	fmt.Printf("evaluated %d openings (%d cut off) in %v, %d nodes expanded\n",
		len(costs)+pruned, pruned, time.Since(start).Round(time.Millisecond), sc.Expansions())
	if summary, err := summarize(costs); err == nil {
		fmt.Printf("expected moves over completed openings: min %.4f, median %.4f, mean %.4f, max %.4f\n",
			summary.Min, summary.Median, summary.Mean, summary.Max)
	}
	if best == "" {
		fmt.Println("no opening found")
		return nil
	}
	fmt.Printf("best opening: %s (%.4f expected moves)\n", best, bound)
	return nil
}
