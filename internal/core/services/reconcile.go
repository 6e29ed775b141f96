package services

import (
	"sort"

	"github.com/harborweb/discontent/internal/core/domain"
)

// Changes is the outcome of comparing a cached category snapshot with a
// fresh upstream listing. ID slices are sorted ascending; Snapshot is
// the snapshot the cache should converge to.
type Changes struct {
	// Added holds topic IDs present upstream but not cached.
	Added []int

	// Removed holds topic IDs cached but gone upstream.
	Removed []int

	// Modified holds topic IDs present on both sides whose upstream
	// timestamp moved.
	Modified []int

	// Snapshot is the fresh listing as a snapshot.
	Snapshot domain.CategorySnapshot
}

// Empty reports whether the comparison found nothing to do.
func (c Changes) Empty() bool {
	return len(c.Added) == 0 && len(c.Removed) == 0 && len(c.Modified) == 0
}

// Reconcile compares a cached snapshot with a fresh category listing.
// Pure: it performs no I/O and touches neither input. A topic counts as
// modified only when its upstream timestamp differs from the cached
// one; identical timestamps mean no work regardless of how often
// reconciliation runs.
func Reconcile(cached domain.CategorySnapshot, fresh []domain.TopicRef) Changes {
	changes := Changes{Snapshot: domain.NewCategorySnapshot(fresh)}

	for _, ref := range fresh {
		cachedAt, ok := cached.UpdatedAt[ref.ID]
		switch {
		case !ok:
			changes.Added = append(changes.Added, ref.ID)
		case !cachedAt.Equal(ref.UpdatedAt):
			changes.Modified = append(changes.Modified, ref.ID)
		}
	}

	for id := range cached.UpdatedAt {
		if !changes.Snapshot.Has(id) {
			changes.Removed = append(changes.Removed, id)
		}
	}

	sort.Ints(changes.Added)
	sort.Ints(changes.Removed)
	sort.Ints(changes.Modified)
	return changes
}
