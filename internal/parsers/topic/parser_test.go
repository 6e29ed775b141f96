package topic

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harborweb/discontent/internal/core/domain"
)

func parseBody(t *testing.T, body string) *domain.ParsedDocument {
	t.Helper()
	parser := New("https://forum.example.com", "/docs")
	doc, err := parser.Parse(&domain.Topic{
		ID:        100,
		Slug:      "install-guide",
		Title:     "Install guide",
		UpdatedAt: time.Now().Add(-2 * time.Hour),
		RawBody:   body,
		Tags:      []string{"install"},
	})
	require.NoError(t, err)
	return doc
}

func TestParse_Basics(t *testing.T) {
	doc := parseBody(t, `<p>Hello.</p>`)

	assert.Equal(t, 100, doc.TopicID)
	assert.Equal(t, "Install guide", doc.Title)
	assert.Equal(t, "/t/install-guide/100", doc.TopicPath)
	assert.Equal(t, "<p>Hello.</p>", doc.BodyHTML)
	assert.NotEmpty(t, doc.Updated)
	assert.Equal(t, []string{"install"}, doc.Tags)
}

func TestParse_NoteNotification(t *testing.T) {
	doc := parseBody(t, `
<blockquote>
<p>ⓘ Take note of this.</p>
<p>It matters.</p>
</blockquote>
`)

	assert.Contains(t, doc.BodyHTML, `class="p-notification"`)
	assert.Contains(t, doc.BodyHTML, `class="p-notification__response"`)
	assert.Contains(t, doc.BodyHTML, "Take note of this.")
	assert.NotContains(t, doc.BodyHTML, "ⓘ")
	assert.NotContains(t, doc.BodyHTML, "<blockquote>")
	assert.Contains(t, doc.BodyHTML, "u-no-padding--top")
	assert.Contains(t, doc.BodyHTML, "u-no-margin--bottom")
}

func TestParse_CautionNotification(t *testing.T) {
	doc := parseBody(t, `
<blockquote>
<p><img src="/images/emoji/warning.png" title=":warning:"> Careful now.</p>
</blockquote>
`)

	assert.Contains(t, doc.BodyHTML, `class="p-notification--caution"`)
	assert.Contains(t, doc.BodyHTML, "Careful now.")
	assert.NotContains(t, doc.BodyHTML, ":warning:")
	assert.NotContains(t, doc.BodyHTML, "<img")
}

func TestParse_PlainBlockquoteUntouched(t *testing.T) {
	doc := parseBody(t, `<blockquote><p>Just a quote.</p></blockquote>`)

	assert.Contains(t, doc.BodyHTML, "<blockquote>")
	assert.NotContains(t, doc.BodyHTML, "p-notification")
}

func TestParse_RemovesEditorNotes(t *testing.T) {
	doc := parseBody(t, `
<p>Published content.</p>
<aside class="quote"><blockquote>NOTE TO EDITORS: do not publish.</blockquote></aside>
`)

	assert.Contains(t, doc.BodyHTML, "Published content.")
	assert.NotContains(t, doc.BodyHTML, "NOTE TO EDITORS")
}

func TestParse_StripsLightboxMeta(t *testing.T) {
	doc := parseBody(t, `
<div class="lightbox-wrapper">
<a href="/uploads/pic.png"><img src="/uploads/pic.png"></a>
<div class="meta">pic.png 1024x768 50 KB</div>
</div>
`)

	assert.Contains(t, doc.BodyHTML, `<img src="/uploads/pic.png"`)
	assert.NotContains(t, doc.BodyHTML, "1024x768")
}

func TestParse_RewritesPolls(t *testing.T) {
	doc := parseBody(t, `
<h3>Favorite color</h3>
<div class="poll" data-poll-name="color">
<div class="poll-info">42 voters</div>
<ul>
<li data-poll-option-id="opt1">Blue</li>
<li data-poll-option-id="opt2">Green</li>
</ul>
</div>
`)

	assert.Contains(t, doc.BodyHTML, `<h3 id="color">`)
	assert.Contains(t, doc.BodyHTML, `<input type="radio" id="opt1" name="color"`)
	assert.Contains(t, doc.BodyHTML, `<label for="opt2">Green</label>`)
	assert.NotContains(t, doc.BodyHTML, "42 voters")
	assert.NotContains(t, doc.BodyHTML, "<li")
}

func TestParse_Sections(t *testing.T) {
	doc := parseBody(t, `
<p>Intro.</p>
<h2>Getting started!</h2>
<p>First steps.</p>
<h2>Next steps</h2>
<p>Keep going.</p>
`)

	require.Len(t, doc.Sections, 2)
	assert.Equal(t, "Getting started!", doc.Sections[0].Title)
	assert.Equal(t, "getting-started", doc.Sections[0].Slug)
	assert.Contains(t, doc.Sections[0].Content, "First steps.")
	assert.NotContains(t, doc.Sections[0].Content, "Keep going.")
	assert.Equal(t, "next-steps", doc.Sections[1].Slug)
}

func TestParse_HeadingTree(t *testing.T) {
	doc := parseBody(t, `
<h1 id="top">Overview</h1>
<h2 id="first">First</h2>
<h3>Detail</h3>
<h2 id="second">Second</h2>
`)

	nav := doc.Navigation
	require.NotNil(t, nav)
	require.Len(t, nav.Children, 1)

	overview := nav.Children[0]
	assert.Equal(t, "Overview", overview.NavlinkText)
	assert.Equal(t, "#top", overview.NavlinkHref)
	require.Len(t, overview.Children, 2)

	first := overview.Children[0]
	assert.Equal(t, "First", first.NavlinkText)
	require.Len(t, first.Children, 1)
	assert.Equal(t, "Detail", first.Children[0].NavlinkText)

	assert.Equal(t, "Second", overview.Children[1].NavlinkText)
}

func TestParse_NoHeadingsNoNavigation(t *testing.T) {
	doc := parseBody(t, `<p>Flat content.</p>`)
	assert.Nil(t, doc.Navigation)
}

func TestParse_FirstDetailsTableBecomesMetadata(t *testing.T) {
	doc := parseBody(t, `
<p>[details=Metadata]</p>
<table>
<tr><th>Key</th><th>Value</th></tr>
<tr><td>status</td><td>published</td></tr>
</table>
`)

	assert.Equal(t, "Metadata", doc.Metadata.Name)
	require.Len(t, doc.Metadata.Rows, 1)
	value, ok := doc.Metadata.Rows[0].Get("key")
	require.True(t, ok)
	assert.Equal(t, "status", value.Text)
}

func TestParse_MissingMetadataIsNotAnError(t *testing.T) {
	doc := parseBody(t, `<p>No tables at all.</p>`)
	assert.True(t, doc.Metadata.Empty())
}

func TestParse_SameBodyParsesIdentically(t *testing.T) {
	body := `
<details>
<summary>Metadata</summary>
<table>
<tr><th>Key</th><th>Value</th></tr>
<tr><td>Status</td><td>published</td></tr>
</table>
</details>
<blockquote>
<p>ⓘ Take note of this.</p>
</blockquote>
<h2>Install</h2>
<p>See <a href="https://forum.example.com/t/other-guide/101">the other guide</a>.</p>
<p>Ping <a class="mention" href="/u/alice">@alice</a> for help.</p>
<h2>Configure</h2>
<p>Done.</p>
`
	topic := &domain.Topic{
		ID:        100,
		Slug:      "install-guide",
		Title:     "Install guide",
		UpdatedAt: time.Date(2026, 2, 10, 8, 0, 0, 0, time.UTC),
		RawBody:   body,
		Tags:      []string{"install"},
	}
	parser := New("https://forum.example.com", "/docs")

	first, err := parser.Parse(topic)
	require.NoError(t, err)
	second, err := parser.Parse(topic)
	require.NoError(t, err)

	// Parsing never mutates its input, so the same raw body always
	// yields the same document.
	require.Equal(t, first, second)
}

func TestNormalizeKey(t *testing.T) {
	assert.Equal(t, "topic_name", NormalizeKey(" Topic Name "))
	assert.Equal(t, "start_date", NormalizeKey("Start-Date"))
	assert.Equal(t, "path", NormalizeKey("path"))
}
