package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/harborweb/discontent/internal/core/domain"
	"github.com/harborweb/discontent/internal/core/ports/driven"
	"github.com/harborweb/discontent/internal/logger"
)

// cacheState is one immutable generation of a store's cache. Reads see
// a whole generation or none; reconciliation builds the next generation
// aside and swaps it in.
type cacheState struct {
	entries  map[int]domain.CacheEntry
	snapshot domain.CategorySnapshot
	order    []int
}

// Store is the shared cache and reconciliation engine the content
// stores build on. It holds the parsed documents of one forum category
// keyed by topic ID, keeps them fresh by diffing the category listing,
// and exposes paginated, ordered reads.
type Store struct {
	api      driven.ForumAPI
	settings domain.Settings

	// parse converts a fetched topic; set by each variant.
	parse func(*domain.Topic) (*domain.ParsedDocument, error)

	// beforeSync runs at the start of every reconciliation round,
	// before the category listing is fetched. Variants use it to
	// refresh their index topic.
	beforeSync func(ctx context.Context) error

	mu    sync.RWMutex
	state *cacheState

	syncMu sync.Mutex
}

// NewStore creates the cache base. The parse function is the variant's
// topic transformer; beforeSync may be nil.
func NewStore(
	api driven.ForumAPI,
	settings domain.Settings,
	parse func(*domain.Topic) (*domain.ParsedDocument, error),
	beforeSync func(ctx context.Context) error,
) *Store {
	return &Store{
		api:        api,
		settings:   settings.WithDefaults(),
		parse:      parse,
		beforeSync: beforeSync,
	}
}

// Settings returns the store's effective settings.
func (s *Store) Settings() domain.Settings {
	return s.settings
}

// Sync reconciles the cache against the upstream category listing.
// Only added and modified topics are refetched; unchanged topics cost
// nothing. One reconciliation runs at a time; reads during a round see
// the previous consistent generation.
func (s *Store) Sync(ctx context.Context) error {
	s.syncMu.Lock()
	defer s.syncMu.Unlock()

	if s.beforeSync != nil {
		if err := s.beforeSync(ctx); err != nil {
			return fmt.Errorf("refresh index: %w", err)
		}
	}

	fresh, err := s.api.ListCategoryTopics(ctx, s.settings.CategoryID)
	if err != nil {
		return fmt.Errorf("list category %d: %w", s.settings.CategoryID, err)
	}

	current := s.currentState()
	changes := Reconcile(current.snapshot, fresh)
	logger.Debug("category %d: %d added, %d modified, %d removed",
		s.settings.CategoryID, len(changes.Added), len(changes.Modified), len(changes.Removed))

	next := &cacheState{
		entries:  make(map[int]domain.CacheEntry, len(current.entries)),
		snapshot: changes.Snapshot.Clone(),
		order:    make([]int, 0, len(fresh)),
	}
	for _, ref := range fresh {
		next.order = append(next.order, ref.ID)
	}
	for id, entry := range current.entries {
		if changes.Snapshot.Has(id) {
			next.entries[id] = entry
		}
	}

	for _, id := range append(append([]int(nil), changes.Added...), changes.Modified...) {
		if s.settings.Excluded(id) {
			continue
		}
		if err := s.refreshTopic(ctx, id, current, next); err != nil {
			return err
		}
	}

	s.mu.Lock()
	s.state = next
	s.mu.Unlock()
	return nil
}

// refreshTopic fetches and parses one topic into the next generation.
// Failures are isolated: the topic's snapshot entry rolls back to its
// cached value so it is retried next round, any previous document stays
// served, and the rest of the batch proceeds. Only context cancellation
// aborts the round.
func (s *Store) refreshTopic(ctx context.Context, id int, current, next *cacheState) error {
	topic, err := s.api.GetTopic(ctx, id)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		s.rollback(id, current, next)
		logger.Warn("fetch topic %d: %v", id, err)
		return nil
	}

	doc, err := s.parse(topic)
	if err != nil {
		var metadataErr *domain.MetadataError
		if errors.As(err, &metadataErr) {
			// Content defect, not a transient failure: accept the
			// timestamp so the topic is not refetched every round, but
			// serve no document for it.
			delete(next.entries, id)
			logger.Warn("skipping topic %d: %v", id, err)
			return nil
		}
		s.rollback(id, current, next)
		logger.Warn("parse topic %d: %v", id, err)
		return nil
	}

	next.entries[id] = domain.CacheEntry{
		TopicID:   id,
		UpdatedAt: topic.UpdatedAt,
		Doc:       *doc,
	}
	return nil
}

// rollback restores a failed topic's snapshot entry to its cached
// value, so the next round sees it as stale again.
func (s *Store) rollback(id int, current, next *cacheState) {
	if cachedAt, ok := current.snapshot.UpdatedAt[id]; ok {
		next.snapshot.UpdatedAt[id] = cachedAt
	} else {
		delete(next.snapshot.UpdatedAt, id)
	}
}

// currentState returns the published generation, or an empty one when
// the cache is cold.
func (s *Store) currentState() *cacheState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state == nil {
		return &cacheState{
			entries:  map[int]domain.CacheEntry{},
			snapshot: domain.CategorySnapshot{UpdatedAt: map[int]time.Time{}},
		}
	}
	return s.state
}

// ensureFresh blocks on a full synchronization when the cache is cold.
// Warm reads never wait for a sync in progress.
func (s *Store) ensureFresh(ctx context.Context) error {
	s.mu.RLock()
	cold := s.state == nil
	s.mu.RUnlock()
	if !cold {
		return nil
	}
	return s.Sync(ctx)
}

// checkLimit rejects a limit above the configured ceiling. It runs
// before any I/O, including the cold-start sync.
func (s *Store) checkLimit(limit int) error {
	if limit > s.settings.MaxLimit {
		return &domain.MaxLimitError{Limit: limit, Ceiling: s.settings.MaxLimit}
	}
	return nil
}

// pageIDs applies pagination to the cached topic order. A limit of -1
// returns everything from offset on; a limit of 0 returns nothing.
// Excluded topics and topics without a cached document never appear.
func (s *Store) pageIDs(limit, offset int) []int {
	state := s.currentState()

	var ids []int
	for _, id := range state.order {
		if s.settings.Excluded(id) {
			continue
		}
		if _, ok := state.entries[id]; !ok {
			continue
		}
		ids = append(ids, id)
	}

	if offset < 0 {
		offset = 0
	}
	if offset >= len(ids) {
		return nil
	}
	ids = ids[offset:]

	switch {
	case limit == -1:
		return ids
	case limit <= 0:
		return nil
	case limit < len(ids):
		return ids[:limit]
	default:
		return ids
	}
}

// entry returns the cached document for a topic.
func (s *Store) entry(id int) (domain.CacheEntry, bool) {
	state := s.currentState()
	e, ok := state.entries[id]
	return e, ok
}

// docs materializes the documents for a page of IDs.
func (s *Store) docs(ids []int) []domain.ParsedDocument {
	state := s.currentState()
	out := make([]domain.ParsedDocument, 0, len(ids))
	for _, id := range ids {
		if e, ok := state.entries[id]; ok {
			out = append(out, e.Doc)
		}
	}
	return out
}
