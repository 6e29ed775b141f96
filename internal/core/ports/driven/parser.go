package driven

import "github.com/harborweb/discontent/internal/core/domain"

// TopicParser converts one topic's raw body markup into a normalized
// document. Implementations are stateless pure transformers: parsing
// the same raw body twice yields structurally identical documents, and
// nothing is retained across calls.
type TopicParser interface {
	Parse(topic *domain.Topic) (*domain.ParsedDocument, error)
}
