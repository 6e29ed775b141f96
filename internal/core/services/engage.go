package services

import (
	"context"
	"sort"

	"github.com/harborweb/discontent/internal/core/domain"
	"github.com/harborweb/discontent/internal/core/ports/driven"
	"github.com/harborweb/discontent/internal/core/ports/driving"
	"github.com/harborweb/discontent/internal/parsers/engage"
)

// Ensure EngagePages implements the interface.
var _ driving.EngageStore = (*EngagePages)(nil)

// EngagePages serves engage marketing pages. Pages whose metadata fails
// validation are skipped from every listing; the rest of the category
// is unaffected. A takeover category is the same store built on a
// takeover parser.
type EngagePages struct {
	*Store
}

// NewEngagePages creates an engage page store.
func NewEngagePages(api driven.ForumAPI, parser *engage.Parser, settings domain.Settings) *EngagePages {
	e := &EngagePages{}
	e.Store = NewStore(api, settings, parser.Parse, nil)
	return e
}

// GetTopic resolves an engage page by its metadata path value.
func (e *EngagePages) GetTopic(ctx context.Context, path string) (*domain.ParsedDocument, error) {
	if err := e.ensureFresh(ctx); err != nil {
		return nil, err
	}

	state := e.currentState()
	for _, id := range state.order {
		entry, ok := state.entries[id]
		if !ok {
			continue
		}
		if value, ok := entry.Doc.Metadata.Lookup("path"); ok && value.Text == path {
			doc := entry.Doc
			return &doc, nil
		}
	}
	return nil, &domain.PathNotFoundError{Path: path}
}

// GetIndex pages through the pages whose metadata validated.
func (e *EngagePages) GetIndex(ctx context.Context, limit, offset int) ([]domain.ParsedDocument, error) {
	if err := e.checkLimit(limit); err != nil {
		return nil, err
	}
	if err := e.ensureFresh(ctx); err != nil {
		return nil, err
	}
	return e.docs(e.pageIDs(limit, offset)), nil
}

// GetActiveTakeovers lists pages whose metadata marks them as an
// active takeover, in category order. Takeover rotation happens
// upstream by flipping the active flag; inactive takeovers stay cached
// but are never served.
func (e *EngagePages) GetActiveTakeovers(ctx context.Context) ([]domain.ParsedDocument, error) {
	if err := e.ensureFresh(ctx); err != nil {
		return nil, err
	}

	var active []domain.ParsedDocument
	state := e.currentState()
	for _, id := range state.order {
		entry, ok := state.entries[id]
		if !ok {
			continue
		}
		if value, ok := entry.Doc.Metadata.Lookup("active"); ok && value.Text == "true" {
			active = append(active, entry.Doc)
		}
	}
	return active, nil
}

// GetRelated lists pages sharing at least one of the given tags, in
// category order.
func (e *EngagePages) GetRelated(ctx context.Context, tags []string) ([]domain.ParsedDocument, error) {
	if err := e.ensureFresh(ctx); err != nil {
		return nil, err
	}

	wanted := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		wanted[tag] = struct{}{}
	}

	var related []domain.ParsedDocument
	state := e.currentState()
	for _, id := range state.order {
		entry, ok := state.entries[id]
		if !ok {
			continue
		}
		for _, tag := range entry.Doc.Tags {
			if _, ok := wanted[tag]; ok {
				related = append(related, entry.Doc)
				break
			}
		}
	}
	return related, nil
}

// GetTags returns the deduplicated union of tags across all pages,
// sorted for stable output.
func (e *EngagePages) GetTags(ctx context.Context) ([]string, error) {
	if err := e.ensureFresh(ctx); err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	state := e.currentState()
	for _, entry := range state.entries {
		for _, tag := range entry.Doc.Tags {
			seen[tag] = struct{}{}
		}
	}

	tags := make([]string, 0, len(seen))
	for tag := range seen {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags, nil
}
