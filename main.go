package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/bent101/wordle-expectimax/config"
)

var (
	configPath string
	wordsFile  string

	cfg    config.Config
	logger *slog.Logger

	rootCmd = &cobra.Command{
		Use:   "wordle-expectimax",
		Short: "Finds Wordle guesses that minimize the expected number of moves",
		Long: `wordle-expectimax searches the full game tree for the guess with the lowest
expected number of moves left, caching solved positions so that later
queries are answered from the cache.`,
		SilenceUsage:      true,
		PersistentPreRunE: loadConfig,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML config file")
	rootCmd.PersistentFlags().StringVar(&wordsFile, "words", "", "word list, one word per line (overrides config)")
}

func loadConfig(cmd *cobra.Command, _ []string) error {
	c, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("words") {
		c.WordsFile = wordsFile
	}
	cfg = c
	logger = cfg.Log.Logger()
	slog.SetDefault(logger)
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
