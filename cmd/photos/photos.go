// Package photos provides commands that prepare submission photo directories
package photos

import (
	"fmt"
	"io"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/reefgenomics/reefkb/internal/conf"
	"github.com/reefgenomics/reefkb/internal/photostore"
)

// Command creates and returns the photos command
func Command(settings *conf.Settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "photos",
		Short: "Manage submission photos",
	}

	cmd.AddCommand(normalizeCommand(settings))

	return cmd
}

func normalizeCommand(settings *conf.Settings) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "normalize [dir]",
		Short: "Rename camera photo files to the template naming convention",
		Long: `Normalize renames the photos in a directory so their base names match the
labels used in submissions. Nothing is renamed when two files would end up
with the same name. The directory defaults to photos.directory.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := settings.Photos.Directory
			if len(args) == 1 {
				dir = args[0]
			}
			return normalize(cmd.OutOrStdout(), afero.NewOsFs(), dir, dryRun)
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the renames without applying them")

	return cmd
}

func normalize(out io.Writer, fs afero.Fs, dir string, dryRun bool) error {
	renames, err := photostore.Normalize(fs, dir, dryRun)
	if err != nil {
		return err
	}

	verb := "renamed"
	if dryRun {
		verb = "would rename"
	}
	for _, r := range renames {
		fmt.Fprintf(out, "%s -> %s\n", r.From, r.To)
	}
	fmt.Fprintf(out, "%d files %s in %s\n", len(renames), verb, dir)
	return nil
}
