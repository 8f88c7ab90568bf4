// Package initdb provides the init command that creates the catalogue schema
package initdb

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/reefgenomics/reefkb/internal/conf"
	"github.com/reefgenomics/reefkb/internal/datastore"
)

// Command creates and returns the init command
func Command(settings *conf.Settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create or update the database schema",
		Long:  `Init connects to the configured database and creates every catalogue table, index and foreign key. Running it again is harmless.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, err := datastore.Open(settings)
			if err != nil {
				return fmt.Errorf("failed to initialize database: %w", err)
			}
			defer manager.Close()

			fmt.Fprintf(cmd.OutOrStdout(), "Schema ready on %s database %s\n", manager.Dialect(), manager.Path())
			return nil
		},
	}

	return cmd
}
