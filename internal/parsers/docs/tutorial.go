package docs

import (
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/harborweb/discontent/internal/core/domain"
)

// TutorialParser parses tutorial topics. Tutorials are documentation
// pages whose sections open with a "Duration: MM:SS" line; the line is
// lifted out of the section content and the time left for the rest of
// the tutorial is computed per section.
type TutorialParser struct {
	docs *Parser
}

// NewTutorials creates a tutorial parser for a forum at baseURL hosting
// tutorials under urlPrefix.
func NewTutorials(baseURL, urlPrefix string) *TutorialParser {
	return &TutorialParser{docs: New(baseURL, urlPrefix)}
}

// ParseIndex parses the tutorials index topic.
func (p *TutorialParser) ParseIndex(t *domain.Topic) (*Index, error) {
	return p.docs.ParseIndex(t)
}

// ParseVersionIndex parses a secondary version's index topic.
func (p *TutorialParser) ParseVersionIndex(idx *Index, v *DocVersion, t *domain.Topic) error {
	return p.docs.ParseVersionIndex(idx, v, t)
}

// ParseTopic parses a tutorial topic and annotates its sections with
// durations.
func (p *TutorialParser) ParseTopic(t *domain.Topic, idx *Index) (*domain.ParsedDocument, error) {
	doc, err := p.docs.ParseTopic(t, idx)
	if err != nil {
		return nil, err
	}
	doc.Sections = annotateDurations(doc.Sections)
	return doc, nil
}

// annotateDurations lifts "Duration: MM:SS" lines out of section
// content and fills in each timed section's remaining whole minutes.
// Sections without a duration line pass through untouched.
func annotateDurations(sections []domain.Section) []domain.Section {
	var total time.Duration
	durations := make([]time.Duration, len(sections))

	for i := range sections {
		text, content, ok := liftDurationLine(sections[i].Content)
		if !ok {
			continue
		}
		sections[i].Duration = text
		sections[i].Content = content

		if d, ok := parseClock(text); ok {
			durations[i] = d
			total += d
		}
	}

	remaining := total
	for i := range sections {
		if sections[i].Duration == "" {
			continue
		}
		remaining -= durations[i]
		sections[i].RemainingMinutes = int(remaining.Minutes())
	}
	return sections
}

// liftDurationLine removes a leading "Duration: MM:SS" element from a
// section's content and returns the duration text and the remaining
// content.
func liftDurationLine(content string) (string, string, bool) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return "", content, false
	}

	first := doc.Find("body").Children().First()
	text := strings.TrimSpace(first.Text())
	if !strings.HasPrefix(text, "Duration") {
		return "", content, false
	}
	first.Remove()

	rest, err := doc.Find("body").Html()
	if err != nil {
		return "", content, false
	}

	duration := strings.TrimSpace(strings.TrimPrefix(text, "Duration:"))
	return duration, strings.TrimSpace(rest), true
}

// parseClock parses a MM:SS duration.
func parseClock(text string) (time.Duration, bool) {
	minutes, seconds, ok := strings.Cut(text, ":")
	if !ok {
		return 0, false
	}
	m, err := strconv.Atoi(strings.TrimSpace(minutes))
	if err != nil || m < 0 {
		return 0, false
	}
	s, err := strconv.Atoi(strings.TrimSpace(seconds))
	if err != nil || s < 0 {
		return 0, false
	}
	return time.Duration(m)*time.Minute + time.Duration(s)*time.Second, true
}
