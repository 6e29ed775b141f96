// Package domain defines the core business entities for Discontent.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Topic: A raw forum topic as fetched from the upstream forum
//   - ParsedDocument: The normalized, renderable form of a topic
//   - NavigationNode: One node of an index topic's navigation tree
//   - MetadataTable: Tabular metadata extracted from topic markup
//   - Event: A calendar event extracted from topic markup
//   - CategorySnapshot: The diff baseline for incremental synchronization
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
