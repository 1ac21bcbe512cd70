package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"wedding-memories/internal/qr"
)

type QROptions struct {
	*RootOptions
	Tables  int
	General bool
	OutDir  string
	BaseURL string
	Size    int
}

// NewQRCommand writes printable QR codes for the submission links.
func NewQRCommand(root *RootOptions) *cobra.Command {
	opts := &QROptions{RootOptions: root}

	cmd := &cobra.Command{
		Use:   "qr",
		Short: "Generate QR codes for each table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.Tables < 0 {
				return fmt.Errorf("--tables must not be negative")
			}
			if opts.BaseURL == "" {
				cfg, _, err := opts.load()
				if err != nil {
					return err
				}
				opts.BaseURL = cfg.PublicBaseURL
			}

			codes := qr.Batch(opts.BaseURL, opts.Tables, opts.General)
			if len(codes) == 0 {
				return fmt.Errorf("nothing to generate: use --tables or --general")
			}
			if err := qr.WriteAll(opts.OutDir, codes, opts.Size); err != nil {
				return err
			}
			for _, c := range codes {
				fmt.Fprintf(cmd.OutOrStdout(), "%-10s %-18s %s\n", c.Label, c.FileName, c.URL)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&opts.Tables, "tables", "t", 10, "number of tables")
	cmd.Flags().BoolVar(&opts.General, "general", true, "also generate the general code")
	cmd.Flags().StringVarP(&opts.OutDir, "out", "o", "qr-codes", "output directory")
	cmd.Flags().StringVar(&opts.BaseURL, "base-url", "", "site URL (overrides PUBLIC_BASE_URL)")
	cmd.Flags().IntVar(&opts.Size, "size", 512, "image size in pixels")
	return cmd
}
