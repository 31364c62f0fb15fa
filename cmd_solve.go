package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bent101/wordle-expectimax/hint"
	"github.com/bent101/wordle-expectimax/solver"
	"github.com/bent101/wordle-expectimax/words"
)

var (
	solveHistory []string
	solveMoves   int
	solveShow    int

	solveCmd = &cobra.Command{
		Use:   "solve",
		Short: "Find the best next guess",
		Long: `Narrows the word list by the guesses played so far and prints the guess with
the lowest expected number of moves left. Each --history entry is GUESS=HINT
where HINT is five of 0/1/2 or B/Y/G, e.g. --history ROATE=00120.`,
		Args: cobra.NoArgs,
		RunE: runSolve,
	}
)

func init() {
	solveCmd.Flags().StringArrayVar(&solveHistory, "history", nil, "a guess played so far as GUESS=HINT, in order")
	solveCmd.Flags().IntVar(&solveMoves, "moves", -1, "moves left (default: max moves minus the history)")
	solveCmd.Flags().IntVar(&solveShow, "show", 10, "list the remaining candidates when there are at most this many")
	rootCmd.AddCommand(solveCmd)
}

type played struct {
	guess words.Word
	hint  hint.Hint
}

func parseHistory(entries []string) ([]played, error) {
	out := make([]played, 0, len(entries))
	for _, e := range entries {
		g, h, ok := strings.Cut(e, "=")
		if !ok {
			return nil, fmt.Errorf("history %q: want GUESS=HINT", e)
		}
		guess, err := words.Parse(g)
		if err != nil {
			return nil, fmt.Errorf("history %q: %w", e, err)
		}
		parsed, err := hint.Parse(h)
		if err != nil {
			return nil, fmt.Errorf("history %q: %w", e, err)
		}
		out = append(out, played{guess: guess, hint: parsed})
	}
	return out, nil
}

// narrow applies the history to set and returns the lineage of the last
// step.
func narrow(s *solver.Solver, set *words.Set, history []played) (*words.Set, solver.Lineage, error) {
	from := solver.Opening
	for _, p := range history {
		next, err := s.Narrow(set, p.guess, p.hint)
		if err != nil {
			return nil, from, err
		}
		if next.Len() == 0 {
			return nil, from, fmt.Errorf("no word is consistent with %s=%s", p.guess, p.hint)
		}
		set = next
		from = solver.Lineage{Previous: p.guess, Feedback: p.hint}
	}
	return set, from, nil
}

func runSolve(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	history, err := parseHistory(solveHistory)
	if err != nil {
		return err
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

	set, from, err := narrow(sess.solver, sess.vocab.All(), history)
	if err != nil {
		return err
	}

	moves := solveMoves
	if moves < 0 {
		moves = max(0, cfg.Search.MaxMoves-len(history))
	}

	sc := sess.solver.NewContext()
	r, err := sess.solver.SolveFrom(ctx, from, set, moves, sc)
	if err = sess.settleWrites(ctx, err); err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("search interrupted: %w", err)
		}
		return err
	}
	logger.Debug("search done", "search", sc.ID, "expansions", sc.Expansions(), "memo", sess.solver.MemoLen())

	fmt.Printf("%d candidates, %d moves left\n", set.Len(), moves)
	if set.Len() <= solveShow {
		fmt.Println(strings.Join(wordStrings(set.Words()), " "))
	}
	provenance := "exact"
	if !r.Exact {
		provenance = "estimated at the depth limit"
	}
	fmt.Printf("best guess: %s (%.4f expected moves, %s)\n", r.Guess, r.ExpectedMoves, provenance)
	return nil
}
