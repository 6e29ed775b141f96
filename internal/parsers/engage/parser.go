// Package engage parses engage page topics. An engage page opens with a
// key/value metadata table describing the page; the table is validated,
// lifted into the document's metadata and removed from the body.
package engage

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/harborweb/discontent/internal/core/domain"
	"github.com/harborweb/discontent/internal/parsers/topic"
)

// Required metadata keys per page kind. Present with an empty value is
// legitimate; absent is not. Takeovers carry far less metadata than
// full engage pages: only a title and the active flag are needed to
// render one.
var (
	requiredKeys         = []string{"path", "topic_name", "type", "active"}
	takeoverRequiredKeys = []string{"title", "active"}
)

// Parser parses engage page topics.
type Parser struct {
	base       *topic.Parser
	required   []string
	additional []string
}

// Option configures a Parser.
type Option func(*Parser)

// WithAdditionalRequired extends the set of metadata keys every page
// must carry.
func WithAdditionalRequired(keys []string) Option {
	return func(p *Parser) {
		p.additional = append(p.additional, keys...)
	}
}

// New creates an engage page parser for a forum at baseURL hosting
// pages under urlPrefix.
func New(baseURL, urlPrefix string, opts ...Option) *Parser {
	p := &Parser{
		base:     topic.New(baseURL, urlPrefix),
		required: requiredKeys,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// NewTakeovers creates a parser for takeover pages: the same metadata
// table handling with the takeover key set.
func NewTakeovers(baseURL, urlPrefix string, opts ...Option) *Parser {
	p := New(baseURL, urlPrefix, opts...)
	p.required = takeoverRequiredKeys
	return p
}

// Parse parses an engage page topic. The page's first table is its
// metadata: keys in the first column, values in the second. A missing
// table or missing required keys fail with a *domain.MetadataError; the
// page is skipped from listings but other pages are unaffected.
func (p *Parser) Parse(t *domain.Topic) (*domain.ParsedDocument, error) {
	doc, err := p.base.Parse(t)
	if err != nil {
		return nil, err
	}

	metadata, body, found := liftMetadataTable(doc.BodyHTML)
	if !found {
		return nil, &domain.MetadataError{TopicID: t.ID}
	}
	if missing := p.missingKeys(metadata); len(missing) > 0 {
		return nil, &domain.MetadataError{TopicID: t.ID, Missing: missing}
	}

	doc.Metadata = metadata
	doc.BodyHTML = body
	doc.Tags = mergeTags(doc.Tags, metadata)
	return doc, nil
}

// missingKeys returns the required keys absent from the metadata table,
// in declaration order.
func (p *Parser) missingKeys(metadata domain.MetadataTable) []string {
	var missing []string
	for _, key := range append(append([]string(nil), p.required...), p.additional...) {
		if _, ok := metadata.Lookup(key); !ok {
			missing = append(missing, key)
		}
	}
	return missing
}

// liftMetadataTable extracts the page's leading metadata table from its
// body. Returns the table, the body without it, and whether the body
// opened with a table at all.
func liftMetadataTable(bodyHTML string) (domain.MetadataTable, string, bool) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(bodyHTML))
	if err != nil {
		return domain.MetadataTable{}, bodyHTML, false
	}

	first := doc.Find("body").Children().First()
	if !first.Is("table") {
		return domain.MetadataTable{}, bodyHTML, false
	}

	metadata := domain.MetadataTable{Name: "metadata"}
	first.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		cells := tr.Find("td")
		if cells.Length() < 2 {
			return
		}
		metadata.Rows = append(metadata.Rows, domain.MetadataRow{{
			Key:   topic.NormalizeKey(cells.First().Text()),
			Value: topic.CellValue(cells.Last()),
		}})
	})

	first.Remove()
	body, err := doc.Find("body").Html()
	if err != nil {
		return domain.MetadataTable{}, bodyHTML, false
	}
	return metadata, strings.TrimSpace(body), true
}

// mergeTags combines the topic's forum tags with the comma-separated
// tags metadata field, deduplicated in order.
func mergeTags(forumTags []string, metadata domain.MetadataTable) []string {
	seen := make(map[string]struct{})
	var tags []string
	add := func(tag string) {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			return
		}
		if _, ok := seen[tag]; ok {
			return
		}
		seen[tag] = struct{}{}
		tags = append(tags, tag)
	}

	for _, tag := range forumTags {
		add(tag)
	}
	if value, ok := metadata.Lookup("tags"); ok {
		for _, tag := range strings.Split(value.Text, ",") {
			add(tag)
		}
	}
	return tags
}
