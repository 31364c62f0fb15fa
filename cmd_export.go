package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bent101/wordle-expectimax/config"
	"github.com/bent101/wordle-expectimax/export"
	"github.com/bent101/wordle-expectimax/store"
)

var exportCmd = &cobra.Command{
	Use:   "export OUT.parquet",
	Short: "Write every stored result to a parquet file",
	Args:  cobra.ExactArgs(1),
	RunE:  runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if cfg.Store.Kind == config.StoreNone {
		return fmt.Errorf("no store configured")
	}

	st, err := openStore(ctx, cfg.Store, logger)
	if err != nil {
		return fmt.Errorf("open %s store: %w", cfg.Store.Kind, err)
	}
	defer st.Close()

	scanner, ok := st.(store.Scanner)
	if !ok {
		return fmt.Errorf("%s store cannot be listed", cfg.Store.Kind)
	}
	rows, err := export.Collect(ctx, scanner)
	if err != nil {
		return err
	}
	if err := export.WriteParquet(args[0], rows); err != nil {
		return err
	}
	fmt.Printf("wrote %d results to %s\n", len(rows), args[0])
	return nil
}
