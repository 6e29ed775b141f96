package driving

import (
	"context"

	"github.com/harborweb/discontent/internal/core/domain"
)

// Syncer triggers reconciliation of a store's cache against upstream.
// Reads already keep themselves fresh; Sync exists for hosts that want
// to refresh on their own schedule.
type Syncer interface {
	Sync(ctx context.Context) error
}

// DocumentStore serves documentation and tutorial pages from a cached,
// incrementally synchronized category.
type DocumentStore interface {
	Syncer

	// GetTopic resolves a site path to its parsed document.
	// Returns *domain.RedirectError when the path has moved and
	// *domain.PathNotFoundError when it resolves to nothing.
	GetTopic(ctx context.Context, path string) (*domain.ParsedDocument, error)

	// GetIndex pages through the cached topic list in category order.
	// limit -1 returns everything; a limit above the configured ceiling
	// fails with *domain.MaxLimitError before any I/O.
	GetIndex(ctx context.Context, limit, offset int) ([]domain.ParsedDocument, error)

	// Navigation returns the navigation tree owning the given request
	// path with active flags projected onto it. The cached tree is
	// never mutated.
	Navigation(ctx context.Context, activePath string) (*domain.NavigationNode, error)

	// ResolvePathAllVersions maps a site path to its counterpart in
	// every documentation version, each version falling back to its
	// home page when it has no equivalent.
	ResolvePathAllVersions(ctx context.Context, path string) (map[string]string, error)
}

// EngageStore serves engage marketing pages.
type EngageStore interface {
	Syncer

	// GetTopic resolves an engage page by its metadata path value.
	GetTopic(ctx context.Context, path string) (*domain.ParsedDocument, error)

	// GetIndex pages through engage pages whose metadata validates.
	GetIndex(ctx context.Context, limit, offset int) ([]domain.ParsedDocument, error)

	// GetTags returns the deduplicated union of tags across all pages.
	GetTags(ctx context.Context) ([]string, error)

	// GetActiveTakeovers lists pages whose metadata marks them as an
	// active takeover.
	GetActiveTakeovers(ctx context.Context) ([]domain.ParsedDocument, error)

	// GetRelated lists pages sharing at least one of the given tags.
	GetRelated(ctx context.Context, tags []string) ([]domain.ParsedDocument, error)
}

// CategoryStore serves a category of topics plus the index topic's
// named data tables.
type CategoryStore interface {
	Syncer

	// GetTopic resolves a topic by slug.
	GetTopic(ctx context.Context, path string) (*domain.ParsedDocument, error)

	// GetIndexMetadata returns the index topic's data table with the
	// given name, or every table when name is empty.
	GetIndexMetadata(ctx context.Context, name string) ([]domain.MetadataTable, error)

	// GetTopics returns a topic-ID-to-slug map of the whole category.
	GetTopics(ctx context.Context) (map[int]string, error)
}

// EventQuery narrows an event listing.
type EventQuery struct {
	// Limit and Offset page the listing; limit -1 returns everything.
	Limit  int
	Offset int

	// Tag keeps only events carrying the tag. Empty keeps all.
	Tag string

	// FutureOnly drops events that already finished.
	FutureOnly bool
}

// EventStore serves calendar events extracted from a category.
type EventStore interface {
	Syncer

	// GetCategoryEvents lists events in start order.
	GetCategoryEvents(ctx context.Context, query EventQuery) ([]domain.Event, error)
}
