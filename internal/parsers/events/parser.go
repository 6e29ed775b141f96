// Package events extracts calendar events from topic markup. The forum
// calendar plugin emits either an event container with data-start and
// data-end attributes or a pair of local-date spans; both forms
// normalize to the same event record.
package events

import (
	"sort"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/harborweb/discontent/internal/core/domain"
)

// Parser extracts events from topics. It never reads the wall clock;
// future/past classification happens in Filter against an injected now.
type Parser struct{}

// New creates an events parser.
func New() *Parser {
	return &Parser{}
}

// Parse extracts the events from a topic's calendar markup. Topics
// without calendar markup yield no events and no error.
func (p *Parser) Parse(t *domain.Topic) ([]domain.Event, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(t.RawBody))
	if err != nil {
		return nil, &domain.ParseError{TopicID: t.ID, Err: err}
	}

	var events []domain.Event
	doc.Find("[data-start]").Each(func(_ int, container *goquery.Selection) {
		raw, _ := container.Attr("data-start")
		start, ok := parseStamp(raw)
		if !ok {
			return
		}

		event := domain.Event{
			TopicID:    t.ID,
			CategoryID: t.CategoryID,
			Title:      t.Title,
			Start:      start,
			Tags:       append([]string(nil), t.Tags...),
		}
		if raw, found := container.Attr("data-end"); found {
			if end, ok := parseStamp(raw); ok {
				event.End = &end
			}
		}
		if recurring, found := container.Attr("data-recurring"); found && recurring != "" {
			event.Recurring = true
		}
		events = append(events, event)
	})

	if len(events) == 0 {
		if event, ok := p.fromLocalDates(t, doc); ok {
			events = append(events, event)
		}
	}
	return events, nil
}

// fromLocalDates builds an event from local-date spans: the first span
// is the start, a second one the end.
func (p *Parser) fromLocalDates(t *domain.Topic, doc *goquery.Document) (domain.Event, bool) {
	spans := doc.Find("span.discourse-local-date")
	if spans.Length() == 0 {
		return domain.Event{}, false
	}

	start, ok := spanTime(spans.Eq(0))
	if !ok {
		return domain.Event{}, false
	}

	event := domain.Event{
		TopicID:    t.ID,
		CategoryID: t.CategoryID,
		Title:      t.Title,
		Start:      start,
		Tags:       append([]string(nil), t.Tags...),
	}
	if spans.Length() > 1 {
		if end, ok := spanTime(spans.Eq(1)); ok {
			event.End = &end
		}
	}
	if recurring, found := spans.Eq(0).Attr("data-recurring"); found && recurring != "" {
		event.Recurring = true
	}
	return event, true
}

// spanTime reads a local-date span's data-date and optional data-time
// attributes.
func spanTime(span *goquery.Selection) (time.Time, bool) {
	date, ok := span.Attr("data-date")
	if !ok {
		return time.Time{}, false
	}
	if clock, found := span.Attr("data-time"); found && clock != "" {
		return parseStamp(date + "T" + clock)
	}
	return parseStamp(date)
}

// stampLayouts are the timestamp shapes the calendar plugin emits.
var stampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

func parseStamp(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	for _, layout := range stampLayouts {
		if stamp, err := time.Parse(layout, raw); err == nil {
			return stamp, true
		}
	}
	return time.Time{}, false
}

// Filter narrows events by tag and future/past relative to now, in
// start order. Pure over its inputs.
func Filter(events []domain.Event, tag string, futureOnly bool, now time.Time) []domain.Event {
	var out []domain.Event
	for _, event := range events {
		if tag != "" && !event.HasTag(tag) {
			continue
		}
		if futureOnly && !event.IsFuture(now) {
			continue
		}
		out = append(out, event)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Start.Before(out[j].Start)
	})
	return out
}
