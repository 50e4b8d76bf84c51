package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dmitrijs2005/karmaboard/internal/server/config"
	"github.com/dmitrijs2005/karmaboard/internal/server/services"
)

// Backend is what the commands need from the application.
type Backend interface {
	Sync(ctx context.Context) (services.SyncResult, error)
	Migrate(ctx context.Context) error
	Get(ctx context.Context, q services.LeaderboardQuery) (services.Leaderboard, error)
	Close() error
}

// Opener builds a Backend once the command knows which settings it needs.
type Opener func(ctx context.Context, cfg *config.Config, required ...config.Requirement) (Backend, error)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Format string
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command. cfg has already been loaded from
// defaults, file, environment and the short flags; cobra ignores those flags.
func NewRootCommand(cfg *config.Config, open Opener) *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "karmaboard",
		Short: "Campus karma leaderboard",
		Long:  "Sync a campus roster from µLearn into PostgreSQL and rank it by karma.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
		FParseErrWhitelist: cobra.FParseErrWhitelist{UnknownFlags: true},
		SilenceUsage:       true,
	}

	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringP("config", "c", "", "path to config file (JSON or YAML)")

	cmd.AddCommand(NewSyncCommand(cfg, open, opts))
	cmd.AddCommand(NewMigrateCommand(cfg, open))
	cmd.AddCommand(NewShowCommand(cfg, open, opts))

	for _, sub := range cmd.Commands() {
		sub.FParseErrWhitelist = cobra.FParseErrWhitelist{UnknownFlags: true}
	}

	return cmd
}

func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
