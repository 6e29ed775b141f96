package domain

import (
	"fmt"
	"strings"
	"time"
)

// Topic is a raw forum topic as returned by the upstream API.
// The upstream installation is the source of truth; a Topic held locally
// is a cache copy and is treated as immutable for a given UpdatedAt.
type Topic struct {
	// ID is the upstream topic identifier.
	ID int

	// Slug is the URL slug assigned by the forum.
	Slug string

	// Title is the topic title.
	Title string

	// CategoryID is the forum category the topic belongs to.
	CategoryID int

	// UpdatedAt is when the first post of the topic was last edited.
	UpdatedAt time.Time

	// CreatedAt is when the topic was created.
	CreatedAt time.Time

	// RawBody is the cooked HTML of the topic's first post.
	RawBody string

	// Tags are the forum tags applied to the topic.
	Tags []string
}

// Path returns the canonical forum path for the topic.
// Em-dashes are mapped back to the double hyphen the forum collapsed,
// so generated links survive a round trip through the forum's renderer.
func (t *Topic) Path() string {
	slug := strings.ReplaceAll(t.Slug, "—", "--")
	return fmt.Sprintf("/t/%s/%d", slug, t.ID)
}

// HasTag reports whether the topic carries the given tag.
func (t *Topic) HasTag(tag string) bool {
	for _, candidate := range t.Tags {
		if candidate == tag {
			return true
		}
	}
	return false
}

// TopicRef is one entry of a category listing: just enough to decide
// whether the locally cached copy of the topic is stale.
type TopicRef struct {
	// ID is the upstream topic identifier.
	ID int

	// UpdatedAt is the upstream edit timestamp for the topic.
	UpdatedAt time.Time
}
