package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harborweb/discontent/internal/parsers/engage"

	"github.com/harborweb/discontent/internal/core/domain"
)

func engagePageBody(path, tags string) string {
	return fmt.Sprintf(`
<table>
<tr><td>path</td><td>%s</td></tr>
<tr><td>topic_name</td><td>Page</td></tr>
<tr><td>type</td><td>webinar</td></tr>
<tr><td>active</td><td>true</td></tr>
<tr><td>tags</td><td>%s</td></tr>
</table>
<p>Page body.</p>
`, path, tags)
}

func newEngageStore(forum *mockForum) *EngagePages {
	parser := engage.New("https://forum.example.com", "/engage")
	return NewEngagePages(forum, parser, testSettings())
}

func TestEngagePages_GetTopicByMetadataPath(t *testing.T) {
	forum := newMockForum()
	forum.addTopic(1, time.Now(), engagePageBody("/engage/a", "cloud"))
	forum.addTopic(2, time.Now(), engagePageBody("/engage/b", "iot"))
	store := newEngageStore(forum)

	doc, err := store.GetTopic(context.Background(), "/engage/b")
	require.NoError(t, err)
	assert.Equal(t, 2, doc.TopicID)

	_, err = store.GetTopic(context.Background(), "/engage/missing")
	var notFound *domain.PathNotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestEngagePages_InvalidPageSkippedFromIndex(t *testing.T) {
	forum := newMockForum()
	forum.addTopic(1, time.Now(), engagePageBody("/engage/a", "cloud"))
	forum.addTopic(2, time.Now(), `<p>No metadata table.</p>`)
	store := newEngageStore(forum)

	got, err := store.GetIndex(context.Background(), -1, 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 1, got[0].TopicID)
}

func TestEngagePages_InvalidPageNotRetried(t *testing.T) {
	forum := newMockForum()
	forum.addTopic(1, time.Now(), `<p>No metadata table.</p>`)
	store := newEngageStore(forum)
	ctx := context.Background()

	require.NoError(t, store.Sync(ctx))
	require.NoError(t, store.Sync(ctx))

	// Metadata failures are content defects, not transient errors.
	assert.Equal(t, 1, forum.fetches(1))
}

func takeoverBody(title, active string) string {
	return fmt.Sprintf(`
<table>
<tr><td>title</td><td>%s</td></tr>
<tr><td>active</td><td>%s</td></tr>
</table>
<p>Banner body.</p>
`, title, active)
}

func TestEngagePages_GetActiveTakeovers(t *testing.T) {
	forum := newMockForum()
	forum.addTopic(1, time.Now(), takeoverBody("Launch week", "true"))
	forum.addTopic(2, time.Now(), takeoverBody("Retired banner", "false"))
	forum.addTopic(3, time.Now(), `<p>No metadata table.</p>`)
	forum.addTopic(4, time.Now(), takeoverBody("Summit", "true"))

	parser := engage.NewTakeovers("https://forum.example.com", "/takeovers")
	store := NewEngagePages(forum, parser, testSettings())

	active, err := store.GetActiveTakeovers(context.Background())
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, 1, active[0].TopicID)
	assert.Equal(t, 4, active[1].TopicID)
}

func TestEngagePages_GetActiveTakeoversExcluded(t *testing.T) {
	forum := newMockForum()
	forum.addTopic(1, time.Now(), takeoverBody("Launch week", "true"))
	forum.addTopic(2, time.Now(), takeoverBody("Summit", "true"))

	settings := testSettings()
	settings.ExcludeTopics = []int{2}
	parser := engage.NewTakeovers("https://forum.example.com", "/takeovers")
	store := NewEngagePages(forum, parser, settings)

	active, err := store.GetActiveTakeovers(context.Background())
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, 1, active[0].TopicID)
}

func TestEngagePages_GetRelated(t *testing.T) {
	forum := newMockForum()
	forum.addTopic(1, time.Now(), engagePageBody("/engage/a", "cloud, kubernetes"))
	forum.addTopic(2, time.Now(), engagePageBody("/engage/b", "iot"))
	forum.addTopic(3, time.Now(), engagePageBody("/engage/c", "cloud"))
	store := newEngageStore(forum)

	related, err := store.GetRelated(context.Background(), []string{"cloud"})
	require.NoError(t, err)
	require.Len(t, related, 2)
	assert.Equal(t, 1, related[0].TopicID)
	assert.Equal(t, 3, related[1].TopicID)

	// A page matches on any shared tag, but appears once.
	related, err = store.GetRelated(context.Background(), []string{"cloud", "kubernetes"})
	require.NoError(t, err)
	require.Len(t, related, 2)

	related, err = store.GetRelated(context.Background(), []string{"desktop"})
	require.NoError(t, err)
	assert.Empty(t, related)
}

func TestEngagePages_GetTags(t *testing.T) {
	forum := newMockForum()
	forum.addTopic(1, time.Now(), engagePageBody("/engage/a", "cloud, kubernetes"))
	forum.addTopic(2, time.Now(), engagePageBody("/engage/b", "cloud, iot"))
	store := newEngageStore(forum)

	tags, err := store.GetTags(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"cloud", "iot", "kubernetes"}, tags)
}
