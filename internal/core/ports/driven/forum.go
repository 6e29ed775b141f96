package driven

import (
	"context"

	"github.com/harborweb/discontent/internal/core/domain"
)

// ForumAPI fetches raw content from the upstream forum.
// Implementations own authentication, timeouts, retries and rate
// limiting; the core performs no retries of its own.
type ForumAPI interface {
	// GetTopic retrieves one topic by ID, including the cooked body of
	// its first post.
	GetTopic(ctx context.Context, id int) (*domain.Topic, error)

	// ListCategoryTopics returns the full topic listing of a category:
	// one TopicRef per topic, in the category's display order.
	ListCategoryTopics(ctx context.Context, categoryID int) ([]domain.TopicRef, error)

	// GetCategoryEvents returns the topics of a category that carry
	// calendar markup.
	GetCategoryEvents(ctx context.Context, categoryID int) ([]domain.Topic, error)
}
