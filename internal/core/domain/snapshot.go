package domain

import (
	"sort"
	"time"
)

// CategorySnapshot is the last-known state of a category's topic set,
// used as the diff baseline for reconciliation. The key set of
// UpdatedAt is the set of known topic IDs.
type CategorySnapshot struct {
	UpdatedAt map[int]time.Time
}

// NewCategorySnapshot builds a snapshot from a category listing.
func NewCategorySnapshot(refs []TopicRef) CategorySnapshot {
	snapshot := CategorySnapshot{UpdatedAt: make(map[int]time.Time, len(refs))}
	for _, ref := range refs {
		snapshot.UpdatedAt[ref.ID] = ref.UpdatedAt
	}
	return snapshot
}

// Has reports whether the snapshot knows the topic.
func (s CategorySnapshot) Has(id int) bool {
	_, ok := s.UpdatedAt[id]
	return ok
}

// Len returns the number of known topics.
func (s CategorySnapshot) Len() int {
	return len(s.UpdatedAt)
}

// IDs returns the known topic IDs in ascending order.
func (s CategorySnapshot) IDs() []int {
	ids := make([]int, 0, len(s.UpdatedAt))
	for id := range s.UpdatedAt {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// Clone returns an independent copy of the snapshot.
func (s CategorySnapshot) Clone() CategorySnapshot {
	out := CategorySnapshot{UpdatedAt: make(map[int]time.Time, len(s.UpdatedAt))}
	for id, at := range s.UpdatedAt {
		out.UpdatedAt[id] = at
	}
	return out
}
