package cmd

import (
	"fmt"
	"os"

	"github.com/lehigh-university-libraries/moviebasket/internal/config"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newFetchCmd(root *rootOptions) *cobra.Command {
	var page int

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch one raw catalog page and print it as YAML",
		Long: `Fetches a single page from the configured catalog source and prints the raw
records as a fixture page, which can be pasted into a fixture file.`,
		Example: `  moviebasket fetch --page 3`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(root.configPath)
			if err != nil {
				return err
			}
			fetcher, err := cfg.Fetcher()
			if err != nil {
				return err
			}

			items, err := fetcher.FetchPage(cmd.Context(), page)
			if err != nil {
				return fmt.Errorf("failed to fetch page %d: %w", page, err)
			}

			enc := yaml.NewEncoder(os.Stdout)
			enc.SetIndent(2)
			defer enc.Close()
			return enc.Encode(map[string]interface{}{"items": items})
		},
	}

	cmd.Flags().IntVar(&page, "page", 1, "Page number to fetch")

	return cmd
}
