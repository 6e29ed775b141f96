package services

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/harborweb/discontent/internal/core/domain"
	"github.com/harborweb/discontent/internal/core/ports/driven"
	"github.com/harborweb/discontent/internal/core/ports/driving"
	"github.com/harborweb/discontent/internal/parsers/category"
)

// Ensure Category implements the interface.
var _ driving.CategoryStore = (*Category)(nil)

// Category serves a whole category of topics plus the named data
// tables of its index topic.
type Category struct {
	*Store
	parser *category.Parser

	tablesMu sync.RWMutex
	tables   []domain.MetadataTable
}

// NewCategory creates a category store.
func NewCategory(api driven.ForumAPI, parser *category.Parser, settings domain.Settings) *Category {
	c := &Category{parser: parser}
	c.Store = NewStore(api, settings, parser.Parse, c.refreshIndex)
	return c
}

// refreshIndex refetches the index topic and reparses its data tables.
func (c *Category) refreshIndex(ctx context.Context) error {
	if c.settings.IndexTopicID == 0 {
		return nil
	}
	topic, err := c.api.GetTopic(ctx, c.settings.IndexTopicID)
	if err != nil {
		return fmt.Errorf("fetch index topic %d: %w", c.settings.IndexTopicID, err)
	}
	tables, err := c.parser.ParseIndex(topic)
	if err != nil {
		return fmt.Errorf("parse index topic %d: %w", c.settings.IndexTopicID, err)
	}

	c.tablesMu.Lock()
	c.tables = tables
	c.tablesMu.Unlock()
	return nil
}

// GetTopic resolves a topic by its forum slug.
func (c *Category) GetTopic(ctx context.Context, slug string) (*domain.ParsedDocument, error) {
	if err := c.ensureFresh(ctx); err != nil {
		return nil, err
	}

	state := c.currentState()
	for _, id := range state.order {
		entry, ok := state.entries[id]
		if !ok {
			continue
		}
		if topicSlug(entry.Doc.TopicPath) == slug {
			doc := entry.Doc
			return &doc, nil
		}
	}
	return nil, &domain.PathNotFoundError{Path: slug}
}

// GetIndexMetadata returns the index topic's data table with the given
// name, or every table when name is empty.
func (c *Category) GetIndexMetadata(ctx context.Context, name string) ([]domain.MetadataTable, error) {
	if err := c.ensureFresh(ctx); err != nil {
		return nil, err
	}

	c.tablesMu.RLock()
	tables := c.tables
	c.tablesMu.RUnlock()

	if name == "" {
		return tables, nil
	}
	if table, ok := category.Table(tables, name); ok {
		return []domain.MetadataTable{table}, nil
	}
	return nil, fmt.Errorf("data table %q: %w", name, domain.ErrNotFound)
}

// GetTopics returns a topic-ID-to-slug map of the whole category.
func (c *Category) GetTopics(ctx context.Context) (map[int]string, error) {
	if err := c.ensureFresh(ctx); err != nil {
		return nil, err
	}

	state := c.currentState()
	slugs := make(map[int]string, len(state.entries))
	for id, entry := range state.entries {
		slugs[id] = topicSlug(entry.Doc.TopicPath)
	}
	return slugs, nil
}

// topicSlug extracts the slug segment from a /t/{slug}/{id} path.
func topicSlug(topicPath string) string {
	parts := strings.Split(strings.Trim(topicPath, "/"), "/")
	if len(parts) < 2 {
		return ""
	}
	return parts[len(parts)-2]
}
