package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harborweb/discontent/internal/core/ports/driving"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Synchronise the cache against the forum",
	Long: `Reconciles every configured store against the forum's category
listing. Only added and modified topics are refetched.`,
	RunE: runSync,
}

func init() {
	rootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	stores := []struct {
		name   string
		syncer driving.Syncer
	}{
		{"documents", documentStore},
		{"engage", engageStore},
		{"category", categoryStore},
		{"events", eventStore},
	}

	ran := false
	for _, store := range stores {
		if store.syncer == nil {
			continue
		}
		ran = true
		cmd.Printf("Synchronising %s...\n", store.name)
		if err := store.syncer.Sync(ctx); err != nil {
			return fmt.Errorf("sync %s: %w", store.name, err)
		}
	}
	if !ran {
		return errors.New("no stores configured")
	}

	cmd.Println("Synchronised successfully.")
	return nil
}
