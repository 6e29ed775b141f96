package topic

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"

	"github.com/harborweb/discontent/internal/core/domain"
)

// extractSections splits the body at second-level headings. Each
// section holds the HTML between its heading and the next one.
func extractSections(body *goquery.Selection) []domain.Section {
	var sections []domain.Section
	body.Find("h2").Each(func(_ int, heading *goquery.Selection) {
		title := strings.TrimSpace(heading.Text())

		var content strings.Builder
		heading.NextUntil("h2").Each(func(_ int, sibling *goquery.Selection) {
			chunk, err := goquery.OuterHtml(sibling)
			if err != nil {
				return
			}
			content.WriteString(chunk)
		})

		sections = append(sections, domain.Section{
			Title:   title,
			Slug:    sectionSlug(title),
			Content: strings.TrimSpace(content.String()),
		})
	})
	return sections
}

// sectionSlug reduces a heading to a URL fragment: letters, digits and
// spaces survive, lowered, spaces become dashes.
func sectionSlug(title string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(title) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	return strings.ReplaceAll(b.String(), " ", "-")
}

// headingTree builds a navigation fragment from the body's heading
// elements. Returns nil when the body has no headings.
func headingTree(doc *goquery.Document) *domain.NavigationNode {
	headings := doc.Find("h1, h2, h3, h4, h5, h6")
	if headings.Length() == 0 {
		return nil
	}

	root := &domain.NavigationNode{}
	stack := []*domain.NavigationNode{root}

	headings.Each(func(_ int, heading *goquery.Selection) {
		level, err := strconv.Atoi(strings.TrimPrefix(goquery.NodeName(heading), "h"))
		if err != nil {
			return
		}
		text := strings.TrimSpace(heading.Text())

		href := ""
		if id, ok := heading.Attr("id"); ok && id != "" {
			href = "#" + id
		} else if anchor, ok := heading.Find("a[href]").First().Attr("href"); ok {
			href = anchor
		}

		node := &domain.NavigationNode{
			Level:       level,
			NavlinkText: text,
			NavlinkHref: href,
		}

		for len(stack) > 1 && stack[len(stack)-1].Level >= level {
			stack = stack[:len(stack)-1]
		}
		parent := stack[len(stack)-1]
		parent.Children = append(parent.Children, node)
		stack = append(stack, node)
	})

	return root
}
