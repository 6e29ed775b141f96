package docs

import (
	"net/url"
	"path"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/harborweb/discontent/internal/core/domain"
	"github.com/harborweb/discontent/internal/parsers/topic"
)

// Parser parses documentation topics. The index topic must be parsed
// first; the maps it yields drive link rewriting on every page topic.
type Parser struct {
	baseURL   string
	urlPrefix string
}

// New creates a documentation parser for a forum at baseURL hosting
// content under urlPrefix.
func New(baseURL, urlPrefix string) *Parser {
	return &Parser{
		baseURL:   strings.TrimRight(baseURL, "/"),
		urlPrefix: normalizePrefix(urlPrefix),
	}
}

// Index is everything extracted from an index topic: the index page
// content itself, the navigation trees, and the URL and redirect maps.
type Index struct {
	// Doc is the index page content, cut off at the Navigation heading.
	Doc domain.ParsedDocument

	// Navigation is the default version's tree. Its root is a
	// synthetic container; render its children.
	Navigation *domain.NavigationNode

	// Versions are the documentation versions from the index topic's
	// version table. Page sets without one carry a single default
	// version under an empty path.
	Versions []*DocVersion

	// PathByID and IDByPath are the two directions of the URL map,
	// flattened across versions. Path resolution is version-scoped;
	// the flat maps drive link rewriting.
	PathByID map[int]string
	IDByPath map[string]int

	// Redirects maps retired site paths to their new location.
	Redirects map[string]string

	urlPrefix string
}

// DocVersion is one documentation version: the leading site path
// segment it lives under, its display label, and the navigation and
// URL map parsed from its own index topic.
type DocVersion struct {
	// Path is the leading path segment, empty for the default version.
	Path string

	// Label is the version cell text, e.g. "1.x and older".
	Label string

	// IndexTopicID is the topic carrying this version's Navigation
	// section.
	IndexTopicID int

	// Navigation is this version's tree. Nil until the version's index
	// topic has been parsed.
	Navigation *domain.NavigationNode

	// PathByID and IDByPath scope the URL map to this version.
	PathByID map[int]string
	IDByPath map[string]int
}

// ParseIndex extracts the navigation tree, URL map and redirect map
// from an index topic, then parses the topic's preamble as the index
// page content.
func (p *Parser) ParseIndex(t *domain.Topic) (*Index, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(t.RawBody))
	if err != nil {
		return nil, &domain.ParseError{TopicID: t.ID, Err: err}
	}

	idx := &Index{
		PathByID:  make(map[int]string),
		IDByPath:  make(map[string]int),
		Redirects: make(map[string]string),
		urlPrefix: p.urlPrefix,
	}

	idx.Versions = parseVersionTable(sectionContent(doc, "Navigation"), t.ID)
	for _, v := range idx.Versions {
		if v.IndexTopicID == t.ID {
			p.attachVersion(idx, v, doc)
		}
	}
	if def := idx.versionFor("/"); def != nil && def.Navigation != nil {
		idx.Navigation = def.Navigation
	} else {
		idx.Navigation = buildNavigationTree(nil)
	}
	p.parseRedirects(idx, sectionContent(doc, "Redirects"))

	preamble := &domain.Topic{
		ID:        t.ID,
		Slug:      t.Slug,
		Title:     t.Title,
		UpdatedAt: t.UpdatedAt,
		CreatedAt: t.CreatedAt,
		RawBody:   preambleHTML(t.RawBody),
		Tags:      t.Tags,
	}
	parsed, err := p.ParseTopic(preamble, idx)
	if err != nil {
		return nil, err
	}
	idx.Doc = *parsed

	return idx, nil
}

// ParseTopic parses a page topic, rewriting internal links through the
// index's URL and redirect maps.
func (p *Parser) ParseTopic(t *domain.Topic, idx *Index) (*domain.ParsedDocument, error) {
	opts := []topic.Option{}
	if idx != nil {
		opts = append(opts,
			topic.WithURLMap(idx.PathByID),
			topic.WithRedirects(idx.Redirects),
		)
	}
	return topic.New(p.baseURL, p.urlPrefix, opts...).Parse(t)
}

// ParseVersionIndex parses a secondary version's index topic and
// attaches its navigation tree and URL map to the index.
func (p *Parser) ParseVersionIndex(idx *Index, v *DocVersion, t *domain.Topic) error {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(t.RawBody))
	if err != nil {
		return &domain.ParseError{TopicID: t.ID, Err: err}
	}
	p.attachVersion(idx, v, doc)
	return nil
}

// ResolvePath resolves a site-relative path to a topic ID within the
// path's version. A retired path yields a *domain.RedirectError
// carrying the new location; a forum topic URL whose topic has a
// pretty path yields a redirect to that path; anything unknown yields
// a *domain.PathNotFoundError.
func (idx *Index) ResolvePath(relative string) (int, error) {
	fullPath := path.Join(idx.urlPrefix, strings.TrimLeft(relative, "/"))

	if target, ok := idx.Redirects[fullPath]; ok {
		return 0, &domain.RedirectError{Path: fullPath, Target: target}
	}

	idByPath, pathByID := idx.IDByPath, idx.PathByID
	if v := idx.versionFor(relative); v != nil && v.IDByPath != nil {
		idByPath, pathByID = v.IDByPath, v.PathByID
	}

	if id, ok := idByPath[fullPath]; ok {
		return id, nil
	}
	if id, ok := topic.TopicIDFromPath(relative); ok {
		if pretty, ok := pathByID[id]; ok {
			return 0, &domain.RedirectError{Path: fullPath, Target: pretty}
		}
	}
	return 0, &domain.PathNotFoundError{Path: fullPath}
}

// ResolvePathAllVersions maps a version-relative path to its
// counterpart in every version. A version without that page falls
// back to its home path.
func (idx *Index) ResolvePathAllVersions(relative string) map[string]string {
	relative = "/" + strings.TrimLeft(relative, "/")
	if v := idx.versionFor(relative); v != nil && v.Path != "" {
		relative = strings.TrimPrefix(relative, "/"+v.Path)
		if relative == "" {
			relative = "/"
		}
	}

	out := make(map[string]string, len(idx.Versions))
	for _, v := range idx.Versions {
		candidate := path.Join(idx.urlPrefix, v.Path, strings.TrimLeft(relative, "/"))
		if _, ok := v.IDByPath[candidate]; ok {
			out[v.Path] = candidate
		} else {
			out[v.Path] = path.Join(idx.urlPrefix, v.Path)
		}
	}
	return out
}

// versionFor returns the version owning a site-relative path, matched
// by its leading path segment. Unmatched paths belong to the default
// version.
func (idx *Index) versionFor(relative string) *DocVersion {
	first, _, _ := strings.Cut(strings.TrimLeft(relative, "/"), "/")
	var fallback *DocVersion
	for _, v := range idx.Versions {
		if v.Path == "" {
			fallback = v
			continue
		}
		if v.Path == first {
			return v
		}
	}
	return fallback
}

// attachVersion parses the navigation table out of a version's index
// topic document, builds the version's tree and scoped URL map, and
// merges the map into the flat maps.
func (p *Parser) attachVersion(idx *Index, v *DocVersion, doc *goquery.Document) {
	items := parseNavigationTable(sectionContent(doc, "Navigation"))
	p.buildURLMap(idx, v, items)
	rewriteNavLinks(idx, v, items)
	v.Navigation = buildNavigationTree(items)
}

// buildURLMap fills a version's path maps from its flat navigation
// items. Rows carrying both a path and a topic link map in both
// directions under the version's prefix; the version home maps to its
// index topic. Entries also merge into the index's flat maps, earlier
// versions winning the reverse direction.
func (p *Parser) buildURLMap(idx *Index, v *DocVersion, items []*domain.NavigationNode) {
	v.PathByID = make(map[int]string)
	v.IDByPath = make(map[string]int)

	prefix := p.urlPrefix
	if v.Path != "" {
		prefix = path.Join(p.urlPrefix, v.Path)
	}

	for _, item := range items {
		if item.Path == "" || item.NavlinkHref == "" {
			continue
		}
		id, ok := topic.TopicIDFromPath(item.NavlinkHref)
		if !ok {
			continue
		}
		pretty := path.Join(prefix, strings.TrimLeft(item.Path, "/"))
		v.IDByPath[pretty] = id
		if _, seen := v.PathByID[id]; !seen {
			v.PathByID[id] = pretty
		}
	}

	home := prefix
	if home == "" {
		home = "/"
	}
	v.IDByPath[home] = v.IndexTopicID
	if _, seen := v.PathByID[v.IndexTopicID]; !seen {
		v.PathByID[v.IndexTopicID] = home
	}

	for pth, id := range v.IDByPath {
		idx.IDByPath[pth] = id
	}
	for id, pth := range v.PathByID {
		if _, seen := idx.PathByID[id]; !seen {
			idx.PathByID[id] = pth
		}
	}
}

// parseRedirects fills the redirect map from a Redirects section table.
// Rows whose path falls outside the URL prefix, whose location is
// neither under the prefix nor an absolute URL, or whose path clashes
// with the URL map are dropped.
func (p *Parser) parseRedirects(idx *Index, section *goquery.Selection) {
	if section == nil {
		return
	}
	section.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		cells := tr.Find("td")
		if cells.Length() < 2 {
			return
		}
		from := strings.TrimSpace(cells.First().Text())
		to := strings.TrimSpace(cells.Last().Text())

		if !strings.HasPrefix(from, p.urlPrefix+"/") && from != p.urlPrefix {
			return
		}
		if !strings.HasPrefix(to, p.urlPrefix) && !isAbsoluteURL(to) {
			return
		}
		if _, clash := idx.IDByPath[from]; clash {
			return
		}
		idx.Redirects[from] = to
	})
}

// rewriteNavLinks replaces forum topic links in navigation items with
// their pretty paths, preferring the owning version's map, preserving
// any fragment.
func rewriteNavLinks(idx *Index, v *DocVersion, items []*domain.NavigationNode) {
	for _, item := range items {
		if item.NavlinkHref == "" {
			continue
		}
		id, ok := topic.TopicIDFromPath(item.NavlinkHref)
		if !ok {
			continue
		}
		pretty, ok := v.PathByID[id]
		if !ok {
			pretty, ok = idx.PathByID[id]
		}
		if !ok {
			continue
		}
		if parsed, err := url.Parse(item.NavlinkHref); err == nil && parsed.Fragment != "" {
			pretty += "#" + parsed.Fragment
		}
		item.NavlinkHref = pretty
	}
}

// normalizePrefix reduces a URL prefix to "/segment" form; a bare "/"
// collapses to empty so path joining stays uniform.
func normalizePrefix(prefix string) string {
	prefix = "/" + strings.Trim(prefix, "/")
	if prefix == "/" {
		return ""
	}
	return prefix
}

func isAbsoluteURL(raw string) bool {
	parsed, err := url.Parse(raw)
	return err == nil && parsed.Scheme != "" && parsed.Host != ""
}
