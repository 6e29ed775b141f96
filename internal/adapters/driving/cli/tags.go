package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var tagsJSON bool

var tagsCmd = &cobra.Command{
	Use:   "tags",
	Short: "List engage page tags",
	Long:  `Lists the deduplicated union of tags across all engage pages.`,
	RunE:  runTags,
}

func init() {
	tagsCmd.Flags().BoolVar(&tagsJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(tagsCmd)
}

func runTags(cmd *cobra.Command, _ []string) error {
	if engageStore == nil {
		return errors.New("engage store not configured")
	}

	tags, err := engageStore.GetTags(context.Background())
	if err != nil {
		return fmt.Errorf("get tags: %w", err)
	}

	if tagsJSON {
		return printJSON(cmd, tags)
	}
	if len(tags) == 0 {
		cmd.Println("No tags found.")
		return nil
	}
	for _, tag := range tags {
		cmd.Println(tag)
	}
	return nil
}
