// Package seed provides the seed command that loads users, regions and
// campaigns from a YAML file
package seed

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/reefgenomics/reefkb/internal/conf"
	"github.com/reefgenomics/reefkb/internal/datastore"
	"github.com/reefgenomics/reefkb/internal/datastore/repository"
)

// Command creates and returns the seed command
func Command(settings *conf.Settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed <file.yaml>",
		Short: "Load users, regions and campaigns",
		Long:  `Seed reads users, regions and campaigns from a YAML file. Submissions reference these by name, so they must exist before the first import. Entries that already exist are skipped.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open seed file: %w", err)
			}
			defer file.Close()

			entries, err := Load(file)
			if err != nil {
				return fmt.Errorf("invalid seed file %s: %w", args[0], err)
			}

			manager, err := datastore.Open(settings)
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			defer manager.Close()

			result, err := Apply(cmd.Context(), repository.NewStore(manager.DB()), entries)
			if err != nil {
				return fmt.Errorf("seed failed: %w", err)
			}

			for _, kind := range []string{"users", "regions", "campaigns"} {
				fmt.Fprintf(cmd.OutOrStdout(), "%-10s created %d, skipped %d\n", kind, result.Created[kind], result.Skipped[kind])
			}
			return nil
		},
	}

	return cmd
}
