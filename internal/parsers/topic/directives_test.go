package topic

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func document(t *testing.T, body string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	require.NoError(t, err)
	return doc
}

func renderedBody(t *testing.T, doc *goquery.Document) string {
	t.Helper()
	html, err := doc.Find("body").Html()
	require.NoError(t, err)
	return html
}

func TestStyleDirective_ClassesNextElement(t *testing.T) {
	doc := document(t, `<p>[style=wide]</p><table><tr><td>cell</td></tr></table>`)

	applyStyleDirectives(doc.Find("body").Get(0))

	html := renderedBody(t, doc)
	assert.Contains(t, html, `<table class="wide">`)
	assert.NotContains(t, html, "[style=")
}

func TestStyleDirective_TargetsAcrossNesting(t *testing.T) {
	doc := document(t, `<div><p><em>[style=highlight]</em></p></div><ul><li>item</li></ul>`)

	applyStyleDirectives(doc.Find("body").Get(0))

	html := renderedBody(t, doc)
	assert.Contains(t, html, `<ul class="highlight">`)
}

func TestStyleDirective_ClassesAccumulate(t *testing.T) {
	doc := document(t, `<p>[style=wide][style=bordered]</p><div class="box">x</div>`)

	applyStyleDirectives(doc.Find("body").Get(0))

	class, _ := doc.Find("div").Attr("class")
	assert.Equal(t, "box wide bordered", class)
}

func TestStyleDirective_NoDuplicateClass(t *testing.T) {
	doc := document(t, `<p>[style=wide]</p><div class="wide">x</div>`)

	applyStyleDirectives(doc.Find("body").Get(0))

	class, _ := doc.Find("div").Attr("class")
	assert.Equal(t, "wide", class)
}

func TestStyleDirective_NoFollowingElement(t *testing.T) {
	doc := document(t, `<p>closing words [style=wide]</p>`)

	applyStyleDirectives(doc.Find("body").Get(0))

	html := renderedBody(t, doc)
	assert.Contains(t, html, "closing words")
	assert.NotContains(t, html, "[style=")
}

func TestDetailsTables_MarkerForm(t *testing.T) {
	doc := document(t, `
<p>[details=Releases]</p>
<table>
<tr><th>Version</th><th>Date</th></tr>
<tr><td>1.0</td><td>2026-01-01</td></tr>
<tr><td>1.1</td><td>2026-03-01</td></tr>
</table>
`)

	tables := DetailsTables(doc)
	require.Len(t, tables, 1)
	assert.Equal(t, "Releases", tables[0].Name)
	require.Len(t, tables[0].Rows, 2)

	version, ok := tables[0].Rows[1].Get("version")
	require.True(t, ok)
	assert.Equal(t, "1.1", version.Text)
}

func TestDetailsTables_CollapsibleForm(t *testing.T) {
	doc := document(t, `
<details>
<summary>Releases</summary>
<table>
<tr><th>Version</th><th>Date</th></tr>
<tr><td>1.0</td><td>2026-01-01</td></tr>
</table>
</details>
`)

	tables := DetailsTables(doc)
	require.Len(t, tables, 1)
	assert.Equal(t, "Releases", tables[0].Name)
	require.Len(t, tables[0].Rows, 1)
}

func TestDetailsTables_CollapsibleWinsOnNameClash(t *testing.T) {
	doc := document(t, `
<p>[details=Releases]</p>
<table>
<tr><th>Version</th></tr>
<tr><td>stale</td></tr>
</table>
<details>
<summary>Releases</summary>
<table>
<tr><th>Version</th></tr>
<tr><td>fresh</td></tr>
</table>
</details>
`)

	tables := DetailsTables(doc)
	require.Len(t, tables, 1)

	version, ok := tables[0].Rows[0].Get("version")
	require.True(t, ok)
	assert.Equal(t, "fresh", version.Text)
}

func TestDetailsTables_MarkerWithoutTableIgnored(t *testing.T) {
	doc := document(t, `<p>[details=Orphan]</p><p>No table follows.</p>`)
	assert.Empty(t, DetailsTables(doc))
}

func TestCellValue_LinkForm(t *testing.T) {
	doc := document(t, `
<table>
<tr><td><a href="https://example.com/a">https://example.com/a</a></td></tr>
<tr><td>prefix <a href="https://example.com/b">link</a></td></tr>
<tr><td><a href="/a">one</a> <a href="/b">two</a></td></tr>
<tr><td>plain text</td></tr>
</table>
`)

	cells := doc.Find("td")

	pure := CellValue(cells.Eq(0))
	assert.True(t, pure.IsLink())
	assert.Equal(t, "https://example.com/a", pure.URL)
	assert.Equal(t, "https://example.com/a", pure.Text)

	mixed := CellValue(cells.Eq(1))
	assert.False(t, mixed.IsLink())
	assert.Equal(t, "prefix link", mixed.Text)

	double := CellValue(cells.Eq(2))
	assert.False(t, double.IsLink())

	plain := CellValue(cells.Eq(3))
	assert.False(t, plain.IsLink())
	assert.Equal(t, "plain text", plain.Text)
}
