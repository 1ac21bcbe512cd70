// Package cli implements the wedding-site command line.
package cli

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"wedding-memories/internal/config"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	EnvFile  string
	LogLevel string
}

// NewRootCommand creates the root command.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:           "wedding-site",
		Short:         "Wedding memories website backend",
		Long:          "Serves the RSVP form, the blessings wall and the admin API, and prints table QR codes.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.EnvFile, "env-file", ".env", "optional dotenv file")
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "", "log level (overrides LOG_LEVEL)")

	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewQRCommand(opts))
	cmd.AddCommand(NewExportCommand(opts))

	return cmd
}

// load reads the configuration and builds the root logger.
func (o *RootOptions) load() (*config.Config, zerolog.Logger, error) {
	cfg, err := config.LoadConfig(o.EnvFile)
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	level := cfg.LogLevel
	if o.LogLevel != "" {
		level = o.LogLevel
	}
	log, err := newLogger(level)
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	return cfg, log, nil
}

func newLogger(level string) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return zerolog.New(os.Stdout).Level(lvl).With().Timestamp().Logger(), nil
}
