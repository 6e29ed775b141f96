package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harborweb/discontent/internal/core/domain"
)

var topicJSON bool

var topicCmd = &cobra.Command{
	Use:   "topic <path>",
	Short: "Show the document at a site path",
	Args:  cobra.ExactArgs(1),
	RunE:  runTopic,
}

func init() {
	topicCmd.Flags().BoolVar(&topicJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(topicCmd)
}

func runTopic(cmd *cobra.Command, args []string) error {
	if documentStore == nil {
		return errors.New("document store not configured")
	}

	doc, err := documentStore.GetTopic(context.Background(), args[0])
	if err != nil {
		var redirect *domain.RedirectError
		if errors.As(err, &redirect) {
			cmd.Printf("Moved to %s\n", pathStyle.Render(redirect.Target))
			return nil
		}
		return fmt.Errorf("get topic: %w", err)
	}

	if topicJSON {
		return printJSON(cmd, doc)
	}

	printDoc(cmd, *doc)
	cmd.Println()
	cmd.Println(doc.BodyHTML)
	return nil
}
