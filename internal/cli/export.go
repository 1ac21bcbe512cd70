package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"wedding-memories/internal/export"
	"wedding-memories/internal/storage"
)

type ExportOptions struct {
	*RootOptions
	OutDir  string
	Table   int
	BaseURL string
	Delay   time.Duration
}

// NewExportCommand downloads every blessing photo into a directory.
func NewExportCommand(root *RootOptions) *cobra.Command {
	opts := &ExportOptions{RootOptions: root}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Download all blessing photos",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := opts.load()
			if err != nil {
				return err
			}
			if opts.BaseURL == "" {
				opts.BaseURL = cfg.PublicBaseURL
			}

			store, err := storage.NewStorage(cfg.DatabaseType, cfg.DatabaseURL)
			if err != nil {
				return fmt.Errorf("failed to initialize storage: %w", err)
			}
			defer store.Close()

			var table *int
			if opts.Table > 0 {
				table = &opts.Table
			}
			subs, err := store.ListSubmissions(cmd.Context(), table)
			if err != nil {
				return err
			}
			if len(subs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No submissions to export")
				return nil
			}

			exp, err := export.NewExporter(opts.OutDir, opts.BaseURL, log, export.WithDelay(opts.Delay))
			if err != nil {
				return err
			}
			res, err := exp.Run(cmd.Context(), subs)
			fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s: %s\n", opts.OutDir, res)
			return err
		},
	}

	cmd.Flags().StringVarP(&opts.OutDir, "out", "o", "wedding-memories-export", "output directory")
	cmd.Flags().IntVar(&opts.Table, "table", 0, "only export one table")
	cmd.Flags().StringVar(&opts.BaseURL, "base-url", "", "site URL used to resolve relative photo URLs")
	cmd.Flags().DurationVar(&opts.Delay, "delay", export.DefaultDelay, "pause between downloads")
	return cmd
}
