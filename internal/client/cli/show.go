package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/dmitrijs2005/karmaboard/internal/server/config"
	"github.com/dmitrijs2005/karmaboard/internal/server/services"
)

type showOptions struct {
	Cols string
	View string
}

// NewShowCommand creates the show command.
func NewShowCommand(cfg *config.Config, open Opener, rootOpts *RootOptions) *cobra.Command {
	opts := &showOptions{}

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the ranked leaderboard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := open(cmd.Context(), cfg, config.RequireSheet)
			if err != nil {
				return err
			}
			defer app.Close()

			lb, err := app.Get(cmd.Context(), services.LeaderboardQuery{Cols: opts.Cols, View: opts.View})
			if err != nil {
				return err
			}

			if len(lb.Dropped) > 0 {
				fmt.Fprintf(cmd.ErrOrStderr(), "ignored columns: %s\n", strings.Join(lb.Dropped, ", "))
			}

			if rootOpts.Format == "json" {
				b, err := json.Marshal(lb)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), string(b))
				return err
			}
			return writeTable(cmd.OutOrStdout(), lb)
		},
	}

	cmd.Flags().StringVar(&opts.Cols, "cols", "", "projection spec: 1-based positions or header names, comma separated")
	cmd.Flags().StringVar(&opts.View, "view", services.ViewAll, "leaderboard view (all|sprint)")

	return cmd
}

func writeTable(w io.Writer, lb services.Leaderboard) error {
	if len(lb.Rows) == 0 {
		_, err := fmt.Fprintln(w, "No data found.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "#\t%s\n", strings.Join(lb.Cols, "\t"))
	for i, row := range lb.Rows {
		cells := make([]string, len(lb.Cols))
		for j := range lb.Cols {
			cells[j] = row.Cell(j).String()
		}
		fmt.Fprintf(tw, "%02d\t%s\n", i+1, strings.Join(cells, "\t"))
	}
	return tw.Flush()
}
