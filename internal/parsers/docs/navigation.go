package docs

import (
	"path"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/harborweb/discontent/internal/core/domain"
	"github.com/harborweb/discontent/internal/logger"
	"github.com/harborweb/discontent/internal/parsers/topic"
)

// sectionContent returns the content between the heading with the given
// text and the next heading of the same level, or nil when the document
// has no such heading.
func sectionContent(doc *goquery.Document, title string) *goquery.Selection {
	var content *goquery.Selection
	doc.Find("h1, h2, h3, h4, h5, h6").EachWithBreak(func(_ int, heading *goquery.Selection) bool {
		if strings.TrimSpace(heading.Text()) != title {
			return true
		}
		content = heading.NextUntil(goquery.NodeName(heading))
		return false
	})
	return content
}

// parseNavigationTable extracts the flat navigation items from a
// Navigation section. The navigation table is the one whose header row
// mentions Navlink; surrounding markup does not matter. An empty level
// hides the row: it still takes part in URL mapping but is not
// rendered.
func parseNavigationTable(section *goquery.Selection) []*domain.NavigationNode {
	if section == nil {
		return nil
	}

	var table *goquery.Selection
	section.Find("table").Each(func(_ int, candidate *goquery.Selection) {
		candidate.Find("th").Each(func(_ int, th *goquery.Selection) {
			if strings.Contains(th.Text(), "Navlink") {
				table = candidate
			}
		})
	})
	if table == nil {
		return nil
	}

	var items []*domain.NavigationNode
	table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		cells := tr.Find("td")
		if cells.Length() < 3 {
			return
		}

		levelText := strings.TrimSpace(cells.Eq(0).Text())
		hidden := levelText == ""
		level := 0
		if !hidden {
			parsed, err := strconv.Atoi(levelText)
			if err != nil || parsed < 0 {
				logger.Warn("navigation row has invalid level %q", levelText)
				return
			}
			level = parsed
		}

		navlink := cells.Last()
		href := ""
		if anchor, ok := navlink.Find("a[href]").First().Attr("href"); ok {
			href = strings.ReplaceAll(anchor, "–", "--")
		}

		text := strings.TrimSpace(navlink.Text())
		if hidden {
			text = ""
		}

		items = append(items, &domain.NavigationNode{
			Level:       level,
			Path:        strings.ReplaceAll(strings.TrimSpace(cells.Eq(1).Text()), "–", "--"),
			NavlinkText: text,
			NavlinkHref: href,
			Hidden:      hidden,
		})
	})
	return items
}

// parseVersionTable extracts the documentation versions from a
// Navigation section. The version table is the one whose header row
// mentions Version, each row carrying a path segment and a version
// cell optionally linking to that version's own index topic. Rows
// missing the link or the path fall back to the main index topic, as
// does the single default version when the table is absent.
func parseVersionTable(section *goquery.Selection, indexTopicID int) []*DocVersion {
	fallback := []*DocVersion{{Label: "latest", IndexTopicID: indexTopicID}}
	if section == nil {
		return fallback
	}

	var table *goquery.Selection
	section.Find("table").Each(func(_ int, candidate *goquery.Selection) {
		candidate.Find("th").Each(func(_ int, th *goquery.Selection) {
			if strings.Contains(th.Text(), "Version") {
				table = candidate
			}
		})
	})
	if table == nil {
		return fallback
	}

	var versions []*DocVersion
	table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		cells := tr.Find("td")
		if cells.Length() < 2 {
			return
		}

		pathSegment := strings.Trim(strings.TrimSpace(cells.First().Text()), "/")
		versionCell := cells.Last()

		id := 0
		if href, ok := versionCell.Find("a[href]").First().Attr("href"); ok {
			id, _ = topic.TopicIDFromPath(href)
		}
		if id == 0 || pathSegment == "" {
			id = indexTopicID
		}

		versions = append(versions, &DocVersion{
			Path:         pathSegment,
			Label:        strings.TrimSpace(versionCell.Text()),
			IndexTopicID: id,
		})
	})
	if len(versions) == 0 {
		return fallback
	}
	return versions
}

// buildNavigationTree nests flat navigation items by level. A synthetic
// level zero parent is inserted when the first item starts deeper, so a
// table beginning at level one still produces a single forest.
func buildNavigationTree(items []*domain.NavigationNode) *domain.NavigationNode {
	root := &domain.NavigationNode{}
	if len(items) == 0 {
		return root
	}

	if items[0].Level != 0 {
		items = append([]*domain.NavigationNode{{}}, items...)
	}

	for _, item := range items {
		parent := root
		for depth := 0; depth < item.Level; depth++ {
			if len(parent.Children) == 0 {
				break
			}
			parent = parent.Children[len(parent.Children)-1]
		}
		parent.Children = append(parent.Children, item)
	}
	return root
}

// Activate returns a copy of the navigation tree owning activePath,
// with the matching node marked active and its ancestors marked as
// having an active child. The cached trees are never touched.
func (idx *Index) Activate(activePath string) *domain.NavigationNode {
	tree := idx.Navigation
	prefix := idx.urlPrefix
	relative := strings.TrimPrefix(activePath, idx.urlPrefix)
	if v := idx.versionFor(relative); v != nil && v.Navigation != nil {
		tree = v.Navigation
		if v.Path != "" {
			prefix = path.Join(idx.urlPrefix, v.Path)
		}
	}

	nav := tree.Clone()
	if nav == nil {
		return nil
	}
	markActive(nav, prefix, activePath)
	return nav
}

func markActive(node *domain.NavigationNode, urlPrefix, activePath string) bool {
	href, _, _ := strings.Cut(node.NavlinkHref, "#")
	if href != "" && href == activePath {
		node.IsActive = true
	}
	if node.Path != "" && path.Join(urlPrefix, strings.TrimLeft(node.Path, "/")) == activePath {
		node.IsActive = true
	}

	for _, child := range node.Children {
		if markActive(child, urlPrefix, activePath) {
			node.HasActiveChild = true
		}
	}
	return node.IsActive || node.HasActiveChild
}

// preambleHTML cuts a topic body off at its Navigation heading, keeping
// everything before it. Bodies without the heading pass through whole.
func preambleHTML(raw string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return raw
	}

	found := false
	doc.Find("body").Children().Each(func(_ int, child *goquery.Selection) {
		if found {
			child.Remove()
			return
		}
		name := goquery.NodeName(child)
		if len(name) == 2 && name[0] == 'h' && strings.TrimSpace(child.Text()) == "Navigation" {
			found = true
			child.Remove()
		}
	})
	if !found {
		return raw
	}

	html, err := doc.Find("body").Html()
	if err != nil {
		return raw
	}
	return html
}
