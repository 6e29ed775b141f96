package topic

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/harborweb/discontent/internal/core/domain"
)

var (
	styleDirective   = regexp.MustCompile(`\[style=([A-Za-z0-9_-]+)\]`)
	detailsDirective = regexp.MustCompile(`\[details=(.+?)\]`)
)

// applyStyleDirectives processes every [style=CLASS] directive in the
// body. The directive text is removed and CLASS is added to the next
// element in document order, regardless of nesting depth. Directives
// are independent and may target the same element; classes accumulate
// without duplicates. A directive with no following element still has
// its text removed.
func applyStyleDirectives(body *html.Node) {
	if body == nil {
		return
	}

	var carriers []*html.Node
	walkNodes(body, func(n *html.Node) {
		if n.Type == html.TextNode && styleDirective.MatchString(n.Data) {
			carriers = append(carriers, n)
		}
	})

	for _, node := range carriers {
		classes := styleDirective.FindAllStringSubmatch(node.Data, -1)
		node.Data = styleDirective.ReplaceAllString(node.Data, "")

		target := nextElement(node)
		if target != nil {
			for _, match := range classes {
				addClass(target, match[1])
			}
		}

		if strings.TrimSpace(node.Data) == "" && node.Parent != nil {
			node.Parent.RemoveChild(node)
		}
	}
}

// walkNodes visits n and its descendants in document order.
func walkNodes(n *html.Node, fn func(*html.Node)) {
	fn(n)
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		walkNodes(child, fn)
	}
}

// nextElement returns the first element encountered after n in document
// order: its first descendant-or-following node that is an element.
func nextElement(n *html.Node) *html.Node {
	for cur := successor(n); cur != nil; cur = successor(cur) {
		if cur.Type == html.ElementNode {
			return cur
		}
	}
	return nil
}

// successor returns the node after n in document order.
func successor(n *html.Node) *html.Node {
	if n.FirstChild != nil {
		return n.FirstChild
	}
	for ; n != nil; n = n.Parent {
		if n.NextSibling != nil {
			return n.NextSibling
		}
	}
	return nil
}

// addClass appends a class to an element unless already present.
func addClass(n *html.Node, class string) {
	for i, attr := range n.Attr {
		if attr.Key != "class" {
			continue
		}
		for _, existing := range strings.Fields(attr.Val) {
			if existing == class {
				return
			}
		}
		n.Attr[i].Val = attr.Val + " " + class
		return
	}
	n.Attr = append(n.Attr, html.Attribute{Key: "class", Val: class})
}

// DetailsTables extracts every named data table from a document. Both
// source forms are recognized: a paragraph carrying a [details=NAME]
// marker followed by a table, and a collapsible <details> block whose
// <summary> names the table. Both normalize to the same row shape;
// when both forms name the same table the collapsible form wins.
func DetailsTables(doc *goquery.Document) []domain.MetadataTable {
	byName := make(map[string]int)
	var tables []domain.MetadataTable

	record := func(table domain.MetadataTable) {
		if i, ok := byName[table.Name]; ok {
			tables[i] = table
			return
		}
		byName[table.Name] = len(tables)
		tables = append(tables, table)
	}

	doc.Find("p").Each(func(_ int, p *goquery.Selection) {
		match := detailsDirective.FindStringSubmatch(p.Text())
		if match == nil {
			return
		}
		table := followingTable(p)
		if table == nil {
			return
		}
		record(parseTable(match[1], table))
	})

	doc.Find("details").Each(func(_ int, details *goquery.Selection) {
		summary := strings.TrimSpace(details.Find("summary").First().Text())
		if summary == "" {
			return
		}
		table := details.Find("table").First()
		if table.Length() == 0 {
			return
		}
		record(parseTable(summary, table))
	})

	return tables
}

// firstDetailsTable returns the first named table in the document, or
// an empty table. Absence is a soft anomaly, never an error.
func firstDetailsTable(doc *goquery.Document) domain.MetadataTable {
	tables := DetailsTables(doc)
	if len(tables) == 0 {
		return domain.MetadataTable{}
	}
	return tables[0]
}

// followingTable finds the first table after a marker in document
// order. A table nested inside a following collapsible container is
// found the same way as a bare one.
func followingTable(marker *goquery.Selection) *goquery.Selection {
	node := marker.Get(0)
	for cur := successor(node); cur != nil; cur = successor(cur) {
		if cur.Type == html.ElementNode && cur.Data == "table" {
			return goquery.NewDocumentFromNode(cur).Selection
		}
	}
	return nil
}

// parseTable converts a table element into rows of key/value fields.
// Keys come from the header cells; a cell whose content is exactly one
// hyperlink keeps the link URL alongside its text.
func parseTable(name string, table *goquery.Selection) domain.MetadataTable {
	var headers []string
	table.Find("th").Each(func(_ int, th *goquery.Selection) {
		headers = append(headers, NormalizeKey(th.Text()))
	})

	out := domain.MetadataTable{Name: strings.TrimSpace(name)}
	table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		cells := tr.Find("td")
		if cells.Length() == 0 {
			return
		}
		var row domain.MetadataRow
		cells.Each(func(i int, cell *goquery.Selection) {
			key := ""
			if i < len(headers) {
				key = headers[i]
			}
			row = append(row, domain.MetadataField{Key: key, Value: CellValue(cell)})
		})
		out.Rows = append(out.Rows, row)
	})
	return out
}

// CellValue extracts a metadata value from one table cell. The link
// form is used only when the cell content is exactly one anchor; the
// decision is made per cell, not per table.
func CellValue(cell *goquery.Selection) domain.MetadataValue {
	text := strings.TrimSpace(cell.Text())
	anchors := cell.Find("a[href]")
	if anchors.Length() == 1 {
		anchorText := strings.TrimSpace(anchors.First().Text())
		if anchorText == text {
			href, _ := anchors.First().Attr("href")
			return domain.MetadataValue{Text: anchorText, URL: href}
		}
	}
	return domain.MetadataValue{Text: text}
}
