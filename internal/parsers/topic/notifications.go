package topic

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

const noteMarker = "ⓘ" // ⓘ

// replaceNotifications rewrites notification blockquotes into site
// markup. A blockquote whose first paragraph starts with ⓘ becomes a
// plain notification; one opening with a :warning: emoji becomes a
// caution notification.
func (p *Parser) replaceNotifications(doc *goquery.Document) {
	doc.Find("blockquote").Each(func(_ int, blockquote *goquery.Selection) {
		first := blockquote.Children().First()
		if !first.Is("p") {
			return
		}

		class := ""
		if strings.HasPrefix(strings.TrimSpace(first.Text()), noteMarker) {
			class = "p-notification"
			stripNoteMarker(first)
		} else if warning := first.Find(`img[title=":warning:"]`); warning.Length() > 0 {
			class = "p-notification--caution"
			warning.Remove()
			trimLeadingSpace(first)
		}
		if class == "" {
			return
		}

		first.AddClass("u-no-padding--top")
		if last := blockquote.Children().Last(); last.Is("p") {
			last.AddClass("u-no-margin--bottom")
		}

		contents, err := blockquote.Html()
		if err != nil {
			return
		}
		blockquote.ReplaceWithHtml(fmt.Sprintf(
			`<div class="%s"><div class="p-notification__response">%s</div></div>`,
			class, contents,
		))
	})
}

// stripNoteMarker removes the leading ⓘ control character and any
// spaces after it from a paragraph's first text node.
func stripNoteMarker(paragraph *goquery.Selection) {
	node := paragraph.Get(0)
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		if child.Type != html.TextNode {
			continue
		}
		trimmed := strings.TrimPrefix(strings.TrimLeft(child.Data, " \n\t"), noteMarker)
		child.Data = strings.TrimLeft(trimmed, " ")
		return
	}
}

// trimLeadingSpace drops leading whitespace from a paragraph's first
// text node, left over from a removed emoji image.
func trimLeadingSpace(paragraph *goquery.Selection) {
	node := paragraph.Get(0)
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		if child.Type != html.TextNode {
			continue
		}
		child.Data = strings.TrimLeft(child.Data, " ")
		return
	}
}

// removeEditorNotes drops quoted "NOTE TO EDITORS" asides entirely.
func (p *Parser) removeEditorNotes(doc *goquery.Document) {
	doc.Find("aside.quote").Each(func(_ int, aside *goquery.Selection) {
		if strings.Contains(aside.Text(), "NOTE TO EDITORS") {
			aside.Remove()
		}
	})
}

// stripLightboxMeta removes the forum's lightbox metadata chrome,
// keeping the image itself.
func (p *Parser) stripLightboxMeta(doc *goquery.Document) {
	doc.Find("div.lightbox-wrapper div.meta").Remove()
}

// replacePolls rewrites the forum poll plugin's list markup into radio
// inputs with labels. The poll's question heading, when present as the
// nearest preceding h3, gets the poll name as its anchor.
func (p *Parser) replacePolls(doc *goquery.Document) {
	doc.Find("div.poll").Each(func(_ int, poll *goquery.Selection) {
		poll.Find("div.poll-info").Remove()

		name, _ := poll.Attr("data-poll-name")
		if question := poll.PrevAllFiltered("h3").First(); question.Length() > 0 && name != "" {
			question.SetAttr("id", name)
		}

		poll.Find("li").Each(func(_ int, option *goquery.Selection) {
			value := strings.TrimSpace(option.Text())
			id, _ := option.Attr("data-poll-option-id")
			option.ReplaceWithHtml(fmt.Sprintf(
				`<input type="radio" id="%s" name="%s"><label for="%s">%s</label>`,
				id, name, id, html.EscapeString(value),
			))
		})
	})
}
