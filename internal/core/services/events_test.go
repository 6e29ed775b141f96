package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harborweb/discontent/internal/core/domain"
	"github.com/harborweb/discontent/internal/core/ports/driven"
	"github.com/harborweb/discontent/internal/core/ports/driving"
	"github.com/harborweb/discontent/internal/parsers/events"
)

func fixedClock(now time.Time) driven.Clock {
	return driven.ClockFunc(func() time.Time { return now })
}

func eventBody(start string) string {
	return `<div class="discourse-post-event" data-start="` + start + `"></div>`
}

func newEventStore(forum *mockForum, now time.Time, settings domain.Settings) *Events {
	return NewEvents(forum, events.New(), fixedClock(now), settings)
}

func TestEvents_SyncAndList(t *testing.T) {
	forum := newMockForum()
	updated := time.Now()
	forum.addTopic(1, updated, eventBody("2026-10-01 09:00"))
	forum.addTopic(2, updated, eventBody("2026-09-01 09:00"))
	forum.addTopic(3, updated, "<p>not an event</p>")

	now := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	store := newEventStore(forum, now, testSettings())

	got, err := store.GetCategoryEvents(context.Background(), driving.EventQuery{Limit: -1})
	require.NoError(t, err)
	require.Len(t, got, 2)

	// Start order, not listing order.
	assert.Equal(t, 2, got[0].TopicID)
	assert.Equal(t, 1, got[1].TopicID)
}

func TestEvents_FirstReadSyncsOnce(t *testing.T) {
	forum := newMockForum()
	forum.addTopic(1, time.Now(), eventBody("2026-10-01 09:00"))

	store := newEventStore(forum, time.Now(), testSettings())

	for i := 0; i < 3; i++ {
		_, err := store.GetCategoryEvents(context.Background(), driving.EventQuery{Limit: -1})
		require.NoError(t, err)
	}
	assert.Equal(t, 1, forum.fetches(1))
}

func TestEvents_FutureOnly(t *testing.T) {
	forum := newMockForum()
	updated := time.Now()
	forum.addTopic(1, updated, eventBody("2026-06-01 09:00"))
	forum.addTopic(2, updated, eventBody("2026-10-01 09:00"))

	now := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	store := newEventStore(forum, now, testSettings())

	got, err := store.GetCategoryEvents(context.Background(), driving.EventQuery{
		Limit:      -1,
		FutureOnly: true,
	})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 2, got[0].TopicID)
}

func TestEvents_TagFilter(t *testing.T) {
	forum := newMockForum()
	updated := time.Now()
	forum.addTopic(1, updated, eventBody("2026-10-01 09:00"))
	forum.addTopic(2, updated, eventBody("2026-11-01 09:00"))
	forum.topics[2].Tags = []string{"featured-event"}

	store := newEventStore(forum, time.Now(), testSettings())

	got, err := store.GetCategoryEvents(context.Background(), driving.EventQuery{
		Limit: -1,
		Tag:   "featured-event",
	})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 2, got[0].TopicID)
}

func TestEvents_Pagination(t *testing.T) {
	forum := newMockForum()
	updated := time.Now()
	forum.addTopic(1, updated, eventBody("2026-09-01 09:00"))
	forum.addTopic(2, updated, eventBody("2026-10-01 09:00"))
	forum.addTopic(3, updated, eventBody("2026-11-01 09:00"))

	store := newEventStore(forum, time.Now(), testSettings())
	ctx := context.Background()

	page, err := store.GetCategoryEvents(ctx, driving.EventQuery{Limit: 2})
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, 1, page[0].TopicID)

	page, err = store.GetCategoryEvents(ctx, driving.EventQuery{Limit: 2, Offset: 2})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, 3, page[0].TopicID)

	page, err = store.GetCategoryEvents(ctx, driving.EventQuery{Limit: 0})
	require.NoError(t, err)
	assert.Empty(t, page)

	page, err = store.GetCategoryEvents(ctx, driving.EventQuery{Limit: -1, Offset: 10})
	require.NoError(t, err)
	assert.Empty(t, page)
}

func TestEvents_LimitCeilingRejectedBeforeIO(t *testing.T) {
	forum := newMockForum()
	forum.addTopic(1, time.Now(), eventBody("2026-09-01 09:00"))

	store := newEventStore(forum, time.Now(), testSettings())

	_, err := store.GetCategoryEvents(context.Background(), driving.EventQuery{Limit: 501})

	var limitErr *domain.MaxLimitError
	require.ErrorAs(t, err, &limitErr)
	assert.Equal(t, 501, limitErr.Limit)
	assert.Equal(t, 0, forum.fetches(1))
}

func TestEvents_ExcludedTopicsSkipped(t *testing.T) {
	forum := newMockForum()
	updated := time.Now()
	forum.addTopic(1, updated, eventBody("2026-09-01 09:00"))
	forum.addTopic(2, updated, eventBody("2026-10-01 09:00"))

	settings := testSettings()
	settings.ExcludeTopics = []int{2}
	store := newEventStore(forum, time.Now(), settings)

	got, err := store.GetCategoryEvents(context.Background(), driving.EventQuery{Limit: -1})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 1, got[0].TopicID)
}

func TestEvents_SyncReplacesList(t *testing.T) {
	forum := newMockForum()
	forum.addTopic(1, time.Now(), eventBody("2026-09-01 09:00"))

	store := newEventStore(forum, time.Now(), testSettings())
	ctx := context.Background()

	require.NoError(t, store.Sync(ctx))
	forum.removeTopic(1)
	forum.addTopic(2, time.Now(), eventBody("2026-10-01 09:00"))
	require.NoError(t, store.Sync(ctx))

	got, err := store.GetCategoryEvents(ctx, driving.EventQuery{Limit: -1})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 2, got[0].TopicID)
}
