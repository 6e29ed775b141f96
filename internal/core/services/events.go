package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/harborweb/discontent/internal/core/domain"
	"github.com/harborweb/discontent/internal/core/ports/driven"
	"github.com/harborweb/discontent/internal/core/ports/driving"
	"github.com/harborweb/discontent/internal/logger"
	"github.com/harborweb/discontent/internal/parsers/events"
)

// Ensure Events implements the interface.
var _ driving.EventStore = (*Events)(nil)

// Events serves calendar events extracted from a category's topics.
// Future/past classification uses the injected clock, never the wall
// clock directly.
type Events struct {
	api      driven.ForumAPI
	parser   *events.Parser
	clock    driven.Clock
	settings domain.Settings

	mu     sync.RWMutex
	events []domain.Event
	warm   bool

	syncMu sync.Mutex
}

// NewEvents creates an event store.
func NewEvents(api driven.ForumAPI, parser *events.Parser, clock driven.Clock, settings domain.Settings) *Events {
	if clock == nil {
		clock = driven.SystemClock()
	}
	return &Events{
		api:      api,
		parser:   parser,
		clock:    clock,
		settings: settings.WithDefaults(),
	}
}

// Sync refetches the category's event topics and rebuilds the event
// list. Topics whose markup fails to parse are logged and skipped.
func (e *Events) Sync(ctx context.Context) error {
	e.syncMu.Lock()
	defer e.syncMu.Unlock()

	topics, err := e.api.GetCategoryEvents(ctx, e.settings.CategoryID)
	if err != nil {
		return fmt.Errorf("fetch category %d events: %w", e.settings.CategoryID, err)
	}

	var fresh []domain.Event
	for i := range topics {
		if e.settings.Excluded(topics[i].ID) {
			continue
		}
		parsed, err := e.parser.Parse(&topics[i])
		if err != nil {
			logger.Warn("parse event topic %d: %v", topics[i].ID, err)
			continue
		}
		fresh = append(fresh, parsed...)
	}

	e.mu.Lock()
	e.events = fresh
	e.warm = true
	e.mu.Unlock()
	return nil
}

// GetCategoryEvents lists events in start order, narrowed by the query.
func (e *Events) GetCategoryEvents(ctx context.Context, query driving.EventQuery) ([]domain.Event, error) {
	if query.Limit > e.settings.MaxLimit {
		return nil, &domain.MaxLimitError{Limit: query.Limit, Ceiling: e.settings.MaxLimit}
	}
	if err := e.ensureFresh(ctx); err != nil {
		return nil, err
	}

	e.mu.RLock()
	all := e.events
	e.mu.RUnlock()

	filtered := events.Filter(all, query.Tag, query.FutureOnly, e.clock.Now())

	offset := query.Offset
	if offset < 0 {
		offset = 0
	}
	if offset >= len(filtered) {
		return nil, nil
	}
	filtered = filtered[offset:]

	switch {
	case query.Limit == -1:
		return filtered, nil
	case query.Limit <= 0:
		return nil, nil
	case query.Limit < len(filtered):
		return filtered[:query.Limit], nil
	default:
		return filtered, nil
	}
}

func (e *Events) ensureFresh(ctx context.Context) error {
	e.mu.RLock()
	warm := e.warm
	e.mu.RUnlock()
	if warm {
		return nil
	}
	return e.Sync(ctx)
}
