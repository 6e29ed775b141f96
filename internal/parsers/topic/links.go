package topic

import (
	"net/url"
	"path"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// topicURLPattern matches forum topic paths and pulls out the slug and
// topic ID, e.g. /t/install-guide/100000 or /install-guide/100000/2.
var topicURLPattern = regexp.MustCompile(`^(?:/t)?(?:/(?P<slug>[^/]+))?/(?P<id>\d+)(?:/\d+)?$`)

// TopicIDFromPath extracts the topic ID from a forum topic URL or
// path. Returns false when the path does not reference a topic.
func TopicIDFromPath(rawURL string) (int, bool) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return 0, false
	}
	match := topicURLPattern.FindStringSubmatch(parsed.Path)
	if match == nil {
		return 0, false
	}
	id, err := strconv.Atoi(match[2])
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}

// rewriteLinks rewrites links that look like forum topic URLs to the
// site path in the URL map, or the target in the redirect map, or an
// absolute forum URL when neither knows the topic. User references
// (@name) link back to forum profile pages. External links are left
// untouched.
func (p *Parser) rewriteLinks(doc *goquery.Document) {
	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")

		if strings.HasPrefix(href, "/u/") && strings.HasPrefix(strings.TrimSpace(a.Text()), "@") {
			a.SetAttr("href", p.baseURL+href)
			return
		}

		link := strings.TrimPrefix(href, p.baseURL)
		if !strings.HasPrefix(link, "/") {
			return
		}

		id, ok := TopicIDFromPath(link)
		if !ok {
			return
		}

		parsed, err := url.Parse(link)
		if err != nil {
			return
		}
		fullPath := path.Join(p.urlPrefix, strings.TrimPrefix(parsed.Path, "/"))

		switch {
		case p.urlMap[id] != "":
			parsed.Path = p.urlMap[id]
			a.SetAttr("href", parsed.String())
		case p.redirects[fullPath] != "":
			parsed.Path = p.redirects[fullPath]
			a.SetAttr("href", parsed.String())
		default:
			a.SetAttr("href", p.baseURL+link)
		}
	})
}
