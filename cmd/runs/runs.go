// Package runs provides the runs command that lists recent submission imports
package runs

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/reefgenomics/reefkb/internal/conf"
	"github.com/reefgenomics/reefkb/internal/datastore"
	"github.com/reefgenomics/reefkb/internal/datastore/entities"
	"github.com/reefgenomics/reefkb/internal/datastore/repository"
)

// Command creates and returns the runs command
func Command(settings *conf.Settings) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List recent submission imports",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, err := datastore.Open(settings)
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			defer manager.Close()

			runs, err := repository.NewStore(manager.DB()).ImportRuns.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			printRuns(cmd.OutOrStdout(), runs)
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of runs to show, 0 for all")

	return cmd
}

func printRuns(out io.Writer, runs []entities.ImportRun) {
	if len(runs) == 0 {
		fmt.Fprintln(out, "No imports yet")
		return
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RUN\tSTARTED\tSTATUS\tCAMPAIGN\tWORKBOOK\tDURATION")
	for i := range runs {
		r := &runs[i]
		campaign := fmt.Sprintf("#%d", r.CampaignID)
		if r.Campaign != nil {
			campaign = r.Campaign.Name
		}
		duration := "-"
		if r.FinishedAt != nil {
			duration = r.FinishedAt.Sub(r.StartedAt).Round(time.Millisecond).String()
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			r.ID, r.StartedAt.Format(time.DateTime), r.Status, campaign, r.WorkbookName, duration)
	}
	_ = w.Flush()
}
