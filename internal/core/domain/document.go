package domain

import "time"

// ParsedDocument is the normalized, renderable form of a topic.
// It is a deterministic function of the topic's raw body: parsing the
// same raw body twice must yield structurally identical documents.
type ParsedDocument struct {
	// TopicID is the upstream topic this document was parsed from.
	TopicID int

	// Title is the topic title.
	Title string

	// TopicPath is the canonical forum path of the source topic.
	TopicPath string

	// BodyHTML is the sanitized HTML body after all transforms.
	BodyHTML string

	// Updated is a human-readable edit time, relative to now
	// (e.g. "3 days ago").
	Updated string

	// UpdatedAt is the upstream edit timestamp.
	UpdatedAt time.Time

	// Navigation is a heading-derived navigation fragment for the body.
	// Nil when the body has no headings.
	Navigation *NavigationNode

	// Metadata is the topic's metadata table, empty when the topic
	// carries none. A missing table is not an error.
	Metadata MetadataTable

	// Sections are the body split at second-level headings.
	Sections []Section

	// Tags are the forum tags of the source topic.
	Tags []string
}

// Section is a slice of the document body under one <h2> heading.
type Section struct {
	// Title is the heading text.
	Title string

	// Slug is the heading text reduced to a URL fragment.
	Slug string

	// Content is the HTML between this heading and the next.
	Content string

	// Duration is the "Duration: MM:SS" annotation for tutorial
	// sections, empty otherwise.
	Duration string

	// RemainingMinutes is the whole-tutorial time left after this
	// section, in minutes. Only set when Duration is.
	RemainingMinutes int
}

// NavigationNode is one node of a navigation tree. The tree itself is
// built once per index topic and cached; IsActive and HasActiveChild are
// request-scoped projections computed on a copy, never on the cached tree.
type NavigationNode struct {
	// Level is the nesting depth from the navigation table.
	Level int

	// Path is the site-relative path the node links to, if any.
	Path string

	// NavlinkText is the display text.
	NavlinkText string

	// NavlinkHref is the resolved link target, empty for bare headings.
	NavlinkHref string

	// Hidden marks rows with an empty level: they take part in URL
	// mapping but are not rendered.
	Hidden bool

	// IsActive is true when the node matches the current request path.
	IsActive bool

	// HasActiveChild is true when any descendant is active.
	HasActiveChild bool

	// Children are the nested nodes, in document order.
	Children []*NavigationNode
}

// Clone returns a deep copy of the subtree rooted at n.
func (n *NavigationNode) Clone() *NavigationNode {
	if n == nil {
		return nil
	}
	out := *n
	out.Children = make([]*NavigationNode, len(n.Children))
	for i, child := range n.Children {
		out.Children[i] = child.Clone()
	}
	return &out
}

// Walk calls fn for n and every descendant in document order.
func (n *NavigationNode) Walk(fn func(*NavigationNode)) {
	if n == nil {
		return
	}
	fn(n)
	for _, child := range n.Children {
		child.Walk(fn)
	}
}

// CacheEntry is one cached topic: the parsed document plus the upstream
// timestamp it was parsed at. Entries are replaced wholesale when the
// upstream timestamp moves, never mutated in place.
type CacheEntry struct {
	TopicID   int
	UpdatedAt time.Time
	Doc       ParsedDocument
}
