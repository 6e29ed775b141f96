package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harborweb/discontent/internal/core/domain"
)

var (
	indexLimit  int
	indexOffset int
	indexJSON   bool
	indexNav    bool
	navPath     string
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "List cached documents in category order",
	Long: `Lists the cached documents of the synchronised category.
A limit of -1 returns everything; limits above the configured ceiling
are rejected.`,
	RunE: runIndex,
}

func init() {
	indexCmd.Flags().IntVarP(&indexLimit, "limit", "n", domain.DefaultLimit, "maximum number of documents (-1 for all)")
	indexCmd.Flags().IntVar(&indexOffset, "offset", domain.DefaultOffset, "number of documents to skip")
	indexCmd.Flags().BoolVar(&indexJSON, "json", false, "output as JSON")
	indexCmd.Flags().BoolVar(&indexNav, "nav", false, "show the navigation tree instead")
	indexCmd.Flags().StringVar(&navPath, "active", "", "site path to mark active in the navigation tree")
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, _ []string) error {
	if documentStore == nil {
		return errors.New("document store not configured")
	}
	ctx := context.Background()

	if indexNav {
		nav, err := documentStore.Navigation(ctx, navPath)
		if err != nil {
			return fmt.Errorf("navigation: %w", err)
		}
		if indexJSON {
			return printJSON(cmd, nav)
		}
		if nav == nil {
			cmd.Println("No navigation available.")
			return nil
		}
		printNav(cmd, nav, 0)
		return nil
	}

	docs, err := documentStore.GetIndex(ctx, indexLimit, indexOffset)
	if err != nil {
		var maxLimit *domain.MaxLimitError
		if errors.As(err, &maxLimit) {
			return fmt.Errorf("limit %d exceeds the ceiling of %d", maxLimit.Limit, maxLimit.Ceiling)
		}
		return fmt.Errorf("get index: %w", err)
	}

	if indexJSON {
		return printJSON(cmd, docs)
	}
	if len(docs) == 0 {
		cmd.Println("No documents cached.")
		return nil
	}
	for _, doc := range docs {
		printDoc(cmd, doc)
	}
	return nil
}
