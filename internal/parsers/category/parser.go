// Package category parses category index topics: topics whose body
// carries named data tables, either as [details=NAME] paragraph markers
// or as collapsible details blocks.
package category

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/harborweb/discontent/internal/core/domain"
	"github.com/harborweb/discontent/internal/parsers/topic"
)

// Parser parses category index topics.
type Parser struct {
	base *topic.Parser
}

// New creates a category parser for a forum at baseURL hosting content
// under urlPrefix.
func New(baseURL, urlPrefix string) *Parser {
	return &Parser{base: topic.New(baseURL, urlPrefix)}
}

// Parse parses a category topic's body like any other page.
func (p *Parser) Parse(t *domain.Topic) (*domain.ParsedDocument, error) {
	return p.base.Parse(t)
}

// ParseIndex extracts every named data table from an index topic. Both
// marker forms are recognized; a table present in both forms under the
// same name comes back once, from the collapsible form.
func (p *Parser) ParseIndex(t *domain.Topic) ([]domain.MetadataTable, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(t.RawBody))
	if err != nil {
		return nil, &domain.ParseError{TopicID: t.ID, Err: err}
	}
	return topic.DetailsTables(doc), nil
}

// Table returns the named data table from a parsed set.
func Table(tables []domain.MetadataTable, name string) (domain.MetadataTable, bool) {
	for _, table := range tables {
		if table.Name == name {
			return table, true
		}
	}
	return domain.MetadataTable{}, false
}
