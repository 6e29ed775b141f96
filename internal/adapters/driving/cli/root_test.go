package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harborweb/discontent/internal/core/domain"
	"github.com/harborweb/discontent/internal/core/ports/driving"
)

// --- Stub stores ---

type stubDocuments struct {
	doc      *domain.ParsedDocument
	docs     []domain.ParsedDocument
	nav      *domain.NavigationNode
	versions map[string]string
	err      error
	synced   int
}

var _ driving.DocumentStore = (*stubDocuments)(nil)

func (s *stubDocuments) Sync(context.Context) error {
	s.synced++
	return s.err
}

func (s *stubDocuments) GetTopic(context.Context, string) (*domain.ParsedDocument, error) {
	return s.doc, s.err
}

func (s *stubDocuments) GetIndex(context.Context, int, int) ([]domain.ParsedDocument, error) {
	return s.docs, s.err
}

func (s *stubDocuments) Navigation(context.Context, string) (*domain.NavigationNode, error) {
	return s.nav, s.err
}

func (s *stubDocuments) ResolvePathAllVersions(context.Context, string) (map[string]string, error) {
	return s.versions, s.err
}

type stubEngage struct {
	tags      []string
	takeovers []domain.ParsedDocument
	related   []domain.ParsedDocument
	synced    int
}

var _ driving.EngageStore = (*stubEngage)(nil)

func (s *stubEngage) Sync(context.Context) error { s.synced++; return nil }

func (s *stubEngage) GetTopic(context.Context, string) (*domain.ParsedDocument, error) {
	return nil, &domain.PathNotFoundError{}
}

func (s *stubEngage) GetIndex(context.Context, int, int) ([]domain.ParsedDocument, error) {
	return nil, nil
}

func (s *stubEngage) GetTags(context.Context) ([]string, error) {
	return s.tags, nil
}

func (s *stubEngage) GetActiveTakeovers(context.Context) ([]domain.ParsedDocument, error) {
	return s.takeovers, nil
}

func (s *stubEngage) GetRelated(context.Context, []string) ([]domain.ParsedDocument, error) {
	return s.related, nil
}

type stubEvents struct {
	events []domain.Event
	query  driving.EventQuery
}

var _ driving.EventStore = (*stubEvents)(nil)

func (s *stubEvents) Sync(context.Context) error { return nil }

func (s *stubEvents) GetCategoryEvents(_ context.Context, query driving.EventQuery) ([]domain.Event, error) {
	s.query = query
	return s.events, nil
}

// --- Helpers ---

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func sampleDoc() *domain.ParsedDocument {
	return &domain.ParsedDocument{
		TopicID:   100,
		Title:     "Install guide",
		TopicPath: "/t/install-guide/100",
		BodyHTML:  "<p>Hello.</p>",
		Updated:   "2 hours ago",
	}
}

// --- Tests ---

func TestVersionCommand(t *testing.T) {
	Setup(Services{})
	SetVersion("1.2.3")

	out, err := runCommand(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "discontent version 1.2.3")
}

func TestTopicCommand(t *testing.T) {
	Setup(Services{Documents: &stubDocuments{doc: sampleDoc()}})

	out, err := runCommand(t, "topic", "/install")
	require.NoError(t, err)
	assert.Contains(t, out, "Install guide")
	assert.Contains(t, out, "<p>Hello.</p>")
}

func TestTopicCommand_Redirect(t *testing.T) {
	Setup(Services{Documents: &stubDocuments{
		err: &domain.RedirectError{Path: "/docs/old", Target: "/docs/install"},
	}})

	out, err := runCommand(t, "topic", "/old")
	require.NoError(t, err)
	assert.Contains(t, out, "Moved to")
	assert.Contains(t, out, "/docs/install")
}

func TestTopicCommand_NoStore(t *testing.T) {
	Setup(Services{})

	_, err := runCommand(t, "topic", "/install")
	require.Error(t, err)
}

func TestIndexCommand(t *testing.T) {
	Setup(Services{Documents: &stubDocuments{docs: []domain.ParsedDocument{*sampleDoc()}}})

	out, err := runCommand(t, "index")
	require.NoError(t, err)
	assert.Contains(t, out, "Install guide")
}

func TestIndexCommand_LimitCeiling(t *testing.T) {
	Setup(Services{Documents: &stubDocuments{
		err: &domain.MaxLimitError{Limit: 600, Ceiling: 500},
	}})

	_, err := runCommand(t, "index", "--limit", "600")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds the ceiling")
}

func TestIndexCommand_JSON(t *testing.T) {
	Setup(Services{Documents: &stubDocuments{docs: []domain.ParsedDocument{*sampleDoc()}}})

	out, err := runCommand(t, "index", "--json")
	require.NoError(t, err)

	var docs []domain.ParsedDocument
	require.NoError(t, json.Unmarshal([]byte(out), &docs))
	require.Len(t, docs, 1)
	assert.Equal(t, 100, docs[0].TopicID)
}

func TestEventsCommand_DefaultsToConfiguredTag(t *testing.T) {
	store := &stubEvents{events: []domain.Event{{
		Title: "Community summit",
		Start: time.Date(2026, 9, 12, 9, 0, 0, 0, time.UTC),
	}}}
	Setup(Services{Events: store, Settings: domain.Settings{EventTag: "featured-event"}})

	out, err := runCommand(t, "events")
	require.NoError(t, err)
	assert.Contains(t, out, "Community summit")
	assert.Contains(t, out, "2026-09-12T09:00:00Z")

	assert.Equal(t, "featured-event", store.query.Tag)
	assert.True(t, store.query.FutureOnly)
}

func TestEventsCommand_AllIncludesPast(t *testing.T) {
	store := &stubEvents{}
	Setup(Services{Events: store})

	out, err := runCommand(t, "events", "--all", "--tag", "meetup")
	require.NoError(t, err)
	assert.Contains(t, out, "No events found.")

	assert.Equal(t, "meetup", store.query.Tag)
	assert.False(t, store.query.FutureOnly)
}

func TestTagsCommand(t *testing.T) {
	Setup(Services{Engage: &stubEngage{tags: []string{"cloud", "iot"}}})

	out, err := runCommand(t, "tags")
	require.NoError(t, err)
	assert.Contains(t, out, "cloud")
	assert.Contains(t, out, "iot")
}

func TestTakeoversCommand(t *testing.T) {
	Setup(Services{Engage: &stubEngage{takeovers: []domain.ParsedDocument{{
		TopicID: 31,
		Title:   "Launch week",
	}}}})

	out, err := runCommand(t, "takeovers")
	require.NoError(t, err)
	assert.Contains(t, out, "Launch week")
}

func TestTakeoversCommand_NoneActive(t *testing.T) {
	Setup(Services{Engage: &stubEngage{}})

	out, err := runCommand(t, "takeovers")
	require.NoError(t, err)
	assert.Contains(t, out, "No active takeovers.")
}

func TestVersionsCommand(t *testing.T) {
	Setup(Services{Documents: &stubDocuments{versions: map[string]string{
		"":   "/docs/install",
		"v1": "/docs/v1/install",
	}}})

	out, err := runCommand(t, "versions", "/install")
	require.NoError(t, err)
	assert.Contains(t, out, "default\t/docs/install")
	assert.Contains(t, out, "v1\t/docs/v1/install")
}

func TestSyncCommand(t *testing.T) {
	docStore := &stubDocuments{}
	engStore := &stubEngage{}
	Setup(Services{Documents: docStore, Engage: engStore})

	out, err := runCommand(t, "sync")
	require.NoError(t, err)
	assert.Contains(t, out, "Synchronised successfully.")
	assert.Equal(t, 1, docStore.synced)
	assert.Equal(t, 1, engStore.synced)
}

func TestSyncCommand_NoStores(t *testing.T) {
	Setup(Services{})

	_, err := runCommand(t, "sync")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no stores configured")
}
