package topic

import (
	"errors"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/dustin/go-humanize"

	"github.com/harborweb/discontent/internal/core/domain"
	"github.com/harborweb/discontent/internal/core/ports/driven"
)

// Ensure Parser implements the interface.
var _ driven.TopicParser = (*Parser)(nil)

// Parser is the shared base parser. Specialized parsers delegate to it
// and extend its output with their own extraction.
type Parser struct {
	baseURL   string
	urlPrefix string
	urlMap    map[int]string
	redirects map[string]string
}

// Option configures a Parser.
type Option func(*Parser)

// WithURLMap supplies topic-ID-to-site-path mappings used when
// rewriting internal links.
func WithURLMap(urlMap map[int]string) Option {
	return func(p *Parser) {
		p.urlMap = urlMap
	}
}

// WithRedirects supplies path-to-location mappings consulted when an
// internal link's site path has moved.
func WithRedirects(redirects map[string]string) Option {
	return func(p *Parser) {
		p.redirects = redirects
	}
}

// New creates a base parser. baseURL is the upstream forum URL;
// urlPrefix is the site path the content is hosted under.
func New(baseURL, urlPrefix string, opts ...Option) *Parser {
	p := &Parser{
		baseURL:   strings.TrimRight(baseURL, "/"),
		urlPrefix: urlPrefix,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse converts a topic's raw body into a normalized document.
// Markup that cannot be parsed into a DOM at all fails with a
// *domain.ParseError; a missing metadata table does not.
func (p *Parser) Parse(t *domain.Topic) (*domain.ParsedDocument, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(t.RawBody))
	if err != nil {
		return nil, &domain.ParseError{TopicID: t.ID, Err: err}
	}

	body := doc.Find("body")
	if body.Length() == 0 {
		return nil, &domain.ParseError{TopicID: t.ID, Err: errors.New("document has no body")}
	}

	p.replaceNotifications(doc)
	p.removeEditorNotes(doc)
	p.stripLightboxMeta(doc)
	p.replacePolls(doc)
	p.rewriteLinks(doc)
	applyStyleDirectives(body.Get(0))

	metadata := firstDetailsTable(doc)
	sections := extractSections(body)
	navigation := headingTree(doc)

	bodyHTML, err := body.Html()
	if err != nil {
		return nil, &domain.ParseError{TopicID: t.ID, Err: err}
	}

	return &domain.ParsedDocument{
		TopicID:    t.ID,
		Title:      t.Title,
		TopicPath:  t.Path(),
		BodyHTML:   strings.TrimSpace(bodyHTML),
		Updated:    humanize.Time(t.UpdatedAt),
		UpdatedAt:  t.UpdatedAt,
		Navigation: navigation,
		Metadata:   metadata,
		Sections:   sections,
		Tags:       append([]string(nil), t.Tags...),
	}, nil
}

// NormalizeKey reduces a table header to a lower snake case field key.
func NormalizeKey(header string) string {
	key := strings.ToLower(strings.TrimSpace(header))
	key = strings.ReplaceAll(key, " ", "_")
	key = strings.ReplaceAll(key, "-", "_")
	return key
}
