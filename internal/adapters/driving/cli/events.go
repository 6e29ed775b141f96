package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/harborweb/discontent/internal/core/domain"
	"github.com/harborweb/discontent/internal/core/ports/driving"
)

var (
	eventsLimit  int
	eventsOffset int
	eventsTag    string
	eventsAll    bool
	eventsJSON   bool
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "List upcoming calendar events",
	Long: `Lists calendar events extracted from the synchronised category,
in start order. By default only upcoming events with the configured
tag filter are shown.`,
	RunE: runEvents,
}

func init() {
	eventsCmd.Flags().IntVarP(&eventsLimit, "limit", "n", domain.DefaultLimit, "maximum number of events (-1 for all)")
	eventsCmd.Flags().IntVar(&eventsOffset, "offset", domain.DefaultOffset, "number of events to skip")
	eventsCmd.Flags().StringVar(&eventsTag, "tag", "", "filter by tag (defaults to the configured event tag)")
	eventsCmd.Flags().BoolVar(&eventsAll, "all", false, "include past events")
	eventsCmd.Flags().BoolVar(&eventsJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(eventsCmd)
}

func runEvents(cmd *cobra.Command, _ []string) error {
	if eventStore == nil {
		return errors.New("event store not configured")
	}

	tag := eventsTag
	if tag == "" {
		tag = settings.EventTag
	}

	events, err := eventStore.GetCategoryEvents(context.Background(), driving.EventQuery{
		Limit:      eventsLimit,
		Offset:     eventsOffset,
		Tag:        tag,
		FutureOnly: !eventsAll,
	})
	if err != nil {
		return fmt.Errorf("get events: %w", err)
	}

	if eventsJSON {
		return printJSON(cmd, events)
	}
	if len(events) == 0 {
		cmd.Println("No events found.")
		return nil
	}
	for _, event := range events {
		line := titleStyle.Render(event.Title) + "  " + event.Start.Format(time.RFC3339)
		if event.End != nil {
			line += " to " + event.End.Format(time.RFC3339)
		}
		if event.Recurring {
			line += " " + dimStyle.Render("(recurring)")
		}
		cmd.Println(line)
	}
	return nil
}
