package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var takeoversJSON bool

var takeoversCmd = &cobra.Command{
	Use:   "takeovers",
	Short: "List active takeover pages",
	Long:  `Lists the pages whose metadata marks them as an active takeover.`,
	RunE:  runTakeovers,
}

func init() {
	takeoversCmd.Flags().BoolVar(&takeoversJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(takeoversCmd)
}

func runTakeovers(cmd *cobra.Command, _ []string) error {
	if engageStore == nil {
		return errors.New("engage store not configured")
	}

	takeovers, err := engageStore.GetActiveTakeovers(context.Background())
	if err != nil {
		return fmt.Errorf("get takeovers: %w", err)
	}

	if takeoversJSON {
		return printJSON(cmd, takeovers)
	}
	if len(takeovers) == 0 {
		cmd.Println("No active takeovers.")
		return nil
	}
	for _, doc := range takeovers {
		printDoc(cmd, doc)
	}
	return nil
}
