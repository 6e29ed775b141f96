// Command discontent synchronises forum-authored content into a local
// cache and serves it from the command line.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/harborweb/discontent/internal/adapters/driven/config/file"
	"github.com/harborweb/discontent/internal/adapters/driving/cli"
	"github.com/harborweb/discontent/internal/core/ports/driven"
	"github.com/harborweb/discontent/internal/core/services"
	"github.com/harborweb/discontent/internal/forum"
	"github.com/harborweb/discontent/internal/parsers/category"
	"github.com/harborweb/discontent/internal/parsers/docs"
	"github.com/harborweb/discontent/internal/parsers/engage"
	"github.com/harborweb/discontent/internal/parsers/events"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	config, err := file.NewConfigStore(os.Getenv("DISCONTENT_CONFIG_DIR"))
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	settings := config.Settings()
	if err := settings.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	var clientOpts []forum.Option
	if settings.APIKey != "" {
		clientOpts = append(clientOpts, forum.WithCredentials(settings.APIKey, settings.APIUsername))
	}
	client, err := forum.New(settings.BaseURL, clientOpts...)
	if err != nil {
		return fmt.Errorf("create forum client: %w", err)
	}

	documents := services.NewDocuments(client, docs.New(settings.BaseURL, settings.URLPrefix), settings)
	engagePages := services.NewEngagePages(client, engage.New(
		settings.BaseURL, settings.URLPrefix,
		engage.WithAdditionalRequired(settings.AdditionalMetadataValidation),
	), settings)
	categoryStore := services.NewCategory(client, category.New(settings.BaseURL, settings.URLPrefix), settings)
	eventStore := services.NewEvents(client, events.New(), driven.SystemClock(), settings)

	if settings.RefreshInterval > 0 {
		refresher := services.NewRefresher(settings.RefreshInterval,
			documents, engagePages, categoryStore, eventStore)
		refresher.Start(context.Background())
		defer refresher.Stop()
	}

	cli.SetVersion(version)
	cli.Setup(cli.Services{
		Documents: documents,
		Engage:    engagePages,
		Category:  categoryStore,
		Events:    eventStore,
		Settings:  settings,
	})
	return cli.Execute()
}
