package cli

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

var versionsJSON bool

var versionsCmd = &cobra.Command{
	Use:   "versions <path>",
	Short: "Show a page's path in every documentation version",
	Long: `Maps a site path to its counterpart in every documentation version.
Versions without an equivalent page fall back to their home page.`,
	Args: cobra.ExactArgs(1),
	RunE: runVersions,
}

func init() {
	versionsCmd.Flags().BoolVar(&versionsJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(versionsCmd)
}

func runVersions(cmd *cobra.Command, args []string) error {
	if documentStore == nil {
		return errors.New("document store not configured")
	}

	paths, err := documentStore.ResolvePathAllVersions(context.Background(), args[0])
	if err != nil {
		return fmt.Errorf("resolve versions: %w", err)
	}

	if versionsJSON {
		return printJSON(cmd, paths)
	}
	if len(paths) == 0 {
		cmd.Println("No versions available.")
		return nil
	}

	segments := make([]string, 0, len(paths))
	for segment := range paths {
		segments = append(segments, segment)
	}
	sort.Strings(segments)
	for _, segment := range segments {
		name := segment
		if name == "" {
			name = "default"
		}
		cmd.Printf("%s\t%s\n", name, paths[segment])
	}
	return nil
}
