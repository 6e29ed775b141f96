// Package cli implements the command line interface. Commands read
// from the content stores injected via Setup; output is styled text by
// default, JSON behind a flag.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/harborweb/discontent/internal/core/domain"
	"github.com/harborweb/discontent/internal/core/ports/driving"
	"github.com/harborweb/discontent/internal/logger"
)

var (
	version = "dev"
	verbose bool

	documentStore driving.DocumentStore
	engageStore   driving.EngageStore
	categoryStore driving.CategoryStore
	eventStore    driving.EventStore
	settings      domain.Settings
)

var rootCmd = &cobra.Command{
	Use:   "discontent",
	Short: "Forum-backed site content engine",
	Long: `discontent turns forum-authored topics into structured site content:
documentation pages, tutorials, engage pages, category indexes and
calendar events, kept fresh by incremental synchronisation against the
forum's category listing.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

// Services bundles the stores the commands read from.
type Services struct {
	Documents driving.DocumentStore
	Engage    driving.EngageStore
	Category  driving.CategoryStore
	Events    driving.EventStore
	Settings  domain.Settings
}

// Setup injects the content stores. Call before Execute.
func Setup(s Services) {
	documentStore = s.Documents
	engageStore = s.Engage
	categoryStore = s.Category
	eventStore = s.Events
	settings = s.Settings.WithDefaults()
}

// SetVersion sets the version printed by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}
