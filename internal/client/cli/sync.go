package cli

import (
	"bufio"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/dmitrijs2005/karmaboard/internal/server/config"
)

// NewSyncCommand creates the sync command.
func NewSyncCommand(cfg *config.Config, open Opener, rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Run one sync pass",
		Long: `Log in to µLearn, fetch the campus roster and campus summary, and
write students, karma history and the campus snapshot to PostgreSQL.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := promptCredentials(cfg, bufio.NewReader(cmd.InOrStdin()), cmd.ErrOrStderr()); err != nil {
				return err
			}

			app, err := open(cmd.Context(), cfg, config.RequireDatabase)
			if err != nil {
				return err
			}
			defer app.Close()

			res, err := app.Sync(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if rootOpts.Format == "json" {
				b, err := json.Marshal(map[string]any{
					"message": res.Message(),
					"count":   res.Students,
					"run_id":  res.RunID,
				})
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(out, string(b))
				return err
			}
			_, err = fmt.Fprintln(out, res.Message())
			return err
		},
	}
}
