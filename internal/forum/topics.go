package forum

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/harborweb/discontent/internal/core/domain"
	"github.com/harborweb/discontent/internal/logger"
)

// topicPayload is the subset of the topic endpoint's response we use.
// The first post of the stream carries the topic's cooked body.
type topicPayload struct {
	ID         int       `json:"id"`
	Slug       string    `json:"slug"`
	Title      string    `json:"title"`
	CategoryID int       `json:"category_id"`
	Tags       []string  `json:"tags"`
	CreatedAt  time.Time `json:"created_at"`
	PostStream struct {
		Posts []struct {
			Cooked    string    `json:"cooked"`
			UpdatedAt time.Time `json:"updated_at"`
		} `json:"posts"`
	} `json:"post_stream"`
}

// categoryPayload is the subset of the category listing response we
// use. bumped_at moves whenever the topic's content changes, so it
// doubles as the staleness signal.
type categoryPayload struct {
	TopicList struct {
		MoreTopicsURL string `json:"more_topics_url"`
		Topics        []struct {
			ID       int       `json:"id"`
			BumpedAt time.Time `json:"bumped_at"`
		} `json:"topics"`
	} `json:"topic_list"`
}

// GetTopic fetches a single topic with its first post's body.
func (c *Client) GetTopic(ctx context.Context, id int) (*domain.Topic, error) {
	var payload topicPayload
	if err := c.getJSON(ctx, fmt.Sprintf("/t/%d.json", id), &payload); err != nil {
		return nil, err
	}
	if len(payload.PostStream.Posts) == 0 {
		return nil, fmt.Errorf("topic %d has no posts: %w", id, domain.ErrUpstreamFetch)
	}

	first := payload.PostStream.Posts[0]
	return &domain.Topic{
		ID:         payload.ID,
		Slug:       payload.Slug,
		Title:      payload.Title,
		CategoryID: payload.CategoryID,
		UpdatedAt:  first.UpdatedAt,
		CreatedAt:  payload.CreatedAt,
		RawBody:    first.Cooked,
		Tags:       payload.Tags,
	}, nil
}

// ListCategoryTopics walks the category listing pages and returns one
// reference per topic: its ID and upstream edit timestamp.
func (c *Client) ListCategoryTopics(ctx context.Context, categoryID int) ([]domain.TopicRef, error) {
	var refs []domain.TopicRef

	for page := 0; ; page++ {
		var payload categoryPayload
		path := fmt.Sprintf("/c/%d.json?page=%d", categoryID, page)
		if err := c.getJSON(ctx, path, &payload); err != nil {
			return nil, err
		}
		if len(payload.TopicList.Topics) == 0 {
			break
		}

		for _, t := range payload.TopicList.Topics {
			refs = append(refs, domain.TopicRef{ID: t.ID, UpdatedAt: t.BumpedAt})
		}

		if payload.TopicList.MoreTopicsURL == "" {
			break
		}
	}
	return refs, nil
}

// GetCategoryEvents fetches the full topics of a category so calendar
// events can be extracted from their bodies. Topics that fail to fetch
// are logged and skipped; the rest of the category still comes back.
func (c *Client) GetCategoryEvents(ctx context.Context, categoryID int) ([]domain.Topic, error) {
	refs, err := c.ListCategoryTopics(ctx, categoryID)
	if err != nil {
		return nil, err
	}

	var topics []domain.Topic
	for _, ref := range refs {
		topic, err := c.GetTopic(ctx, ref.ID)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil, err
			}
			logger.Warn("skipping event topic %d: %v", ref.ID, err)
			continue
		}
		topics = append(topics, *topic)
	}
	return topics, nil
}
