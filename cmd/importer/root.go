// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5"
	"github.com/spf13/cobra"

	"github.com/taibuivan/yamdb/internal/importer"
	"github.com/taibuivan/yamdb/internal/platform/config"
	"github.com/taibuivan/yamdb/internal/platform/constants"
	"github.com/taibuivan/yamdb/internal/platform/migration"
	pgstore "github.com/taibuivan/yamdb/internal/platform/postgres"
)

var (
	// Command flags
	dataDir      string
	applySchema  bool
	printSummary bool
)

// rootCmd loads every fixture file found in --dir.
var rootCmd = &cobra.Command{
	Use:   "importer",
	Short: "Load YaMDb fixture CSV files into PostgreSQL",
	Long: `Load the YaMDb fixture CSV files into PostgreSQL.

Files are loaded in dependency order (users, category, genre, titles,
genre_title, review, comments). Missing files are skipped. Rows are not
validated; database constraints reject bad data and abort the whole run.

Examples:
  importer                          # Load ./static/data
  importer --dir ./fixtures         # Load another directory
  importer --migrate                # Apply migrations first`,
	Version:       constants.AppVersion,
	SilenceUsage:  true,
	SilenceErrors: true,
	Args:          cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runImport(cmd.Context())
	},
}

// Execute runs the root command
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().StringVar(&dataDir, "dir", "./static/data", "Directory holding the fixture CSV files")
	rootCmd.Flags().BoolVar(&applySchema, "migrate", false, "Apply pending migrations before loading")
	rootCmd.Flags().BoolVar(&printSummary, "summary", true, "Print a per-file summary when done")
}

func runImport(ctx context.Context) error {
	cfg, err := config.LoadImporter()
	if err != nil {
		return err
	}

	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})).
		With(slog.String("app", "yamdb-importer"))

	if info, err := os.Stat(dataDir); err != nil || !info.IsDir() {
		return fmt.Errorf("data directory %q is not readable", dataDir)
	}

	if applySchema {
		if err := migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log); err != nil {
			return err
		}
	}

	pool, err := pgstore.NewPool(ctx, cfg.DatabaseURL, log)
	if err != nil {
		return err
	}
	defer pool.Close()

	var results []importer.Result
	err = pgstore.InTx(ctx, pool, func(tx pgx.Tx) error {
		results, err = importer.New(tx, os.DirFS(dataDir), log).Run(ctx)
		return err
	})
	if err != nil {
		return err
	}

	if printSummary {
		for _, result := range results {
			if result.Skipped {
				fmt.Printf("%-16s skipped (file not found)\n", result.File)
				continue
			}
			fmt.Printf("%-16s %6d rows -> %s\n", result.File, result.Rows, result.Table)
		}
	}
	return nil
}
