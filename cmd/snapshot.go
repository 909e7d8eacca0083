package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/lehigh-university-libraries/moviebasket/internal/config"
	"github.com/lehigh-university-libraries/moviebasket/internal/export"
	"github.com/lehigh-university-libraries/moviebasket/internal/pager"
	"github.com/lehigh-university-libraries/moviebasket/internal/state"
	"github.com/spf13/cobra"
)

func newSnapshotCmd(root *rootOptions) *cobra.Command {
	var pages int
	var add []int64
	var remove []int64
	var format string
	var output string

	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Load catalog pages, apply basket changes and write the resulting state",
		Long: `Loads the given number of catalog pages, adds and then removes the given
movie ids, and writes the catalog and basket with their prices.

YAML and JSON are written to stdout unless --output is set. Parquet needs
--output and writes one row per catalog position.`,
		Example: `  # Two pages, two movies in the basket, YAML on stdout
  moviebasket snapshot --pages 2 --add 550 --add 680

  # Same, written as Parquet
  moviebasket snapshot --pages 2 --add 550 --add 680 --output basket.parquet`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if pages < 1 {
				return fmt.Errorf("--pages must be at least 1")
			}

			f, err := resolveFormat(format, output)
			if err != nil {
				return err
			}
			if f == export.FormatParquet && output == "" {
				return fmt.Errorf("--output is required for parquet")
			}

			cfg, err := config.Load(root.configPath)
			if err != nil {
				return err
			}
			fetcher, err := cfg.Fetcher()
			if err != nil {
				return err
			}

			manager := state.New(state.Options{Pricing: cfg.PricingEngine(), Strict: true})
			defer manager.Close()
			pg := pager.New(fetcher, cfg.Converter(), manager, slog.Default())

			for i := 0; i < pages; i++ {
				page, err := pg.LoadNext(cmd.Context())
				if err != nil {
					slog.Warn("Skipping catalog page", "page", page, "err", err)
				}
			}

			for _, id := range add {
				if _, err := manager.AddByID(id); err != nil {
					slog.Warn("Unable to add movie", "id", id, "err", err)
				}
			}
			for _, id := range remove {
				manager.Remove(id)
			}

			if err := manager.CheckInvariants(); err != nil {
				return err
			}

			snap := manager.Snapshot()
			if output == "" {
				return export.Write(os.Stdout, f, pg.State().Page, snap)
			}
			if err := export.WriteFile(output, f, pg.State().Page, snap); err != nil {
				return err
			}
			absPath, _ := filepath.Abs(output)
			slog.Info("Snapshot written", "path", absPath, "catalog", len(snap.Catalog), "basket", snap.BasketSize)
			return nil
		},
	}

	cmd.Flags().IntVar(&pages, "pages", 1, "Number of catalog pages to load")
	cmd.Flags().Int64SliceVar(&add, "add", nil, "Movie id to add to the basket (repeatable)")
	cmd.Flags().Int64SliceVar(&remove, "remove", nil, "Movie id to remove from the basket after adding (repeatable)")
	cmd.Flags().StringVar(&format, "format", "", "Output format: yaml, json or parquet (defaults to the output extension, then yaml)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (stdout when empty)")

	return cmd
}

func resolveFormat(format, output string) (export.Format, error) {
	if format != "" {
		return export.ParseFormat(format)
	}
	if ext := filepath.Ext(output); ext != "" {
		return export.ParseFormat(ext)
	}
	return export.FormatYAML, nil
}
