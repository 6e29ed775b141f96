package domain

import "time"

// Event is a calendar event extracted from calendar-plugin markup
// inside a topic.
type Event struct {
	// TopicID is the topic the event was extracted from.
	TopicID int

	// CategoryID is the forum category of the source topic.
	CategoryID int

	// Title is the event title, taken from the topic title.
	Title string

	// Start is when the event begins.
	Start time.Time

	// End is when the event finishes. Nil for open-ended events.
	End *time.Time

	// Recurring is true for events the calendar plugin repeats.
	Recurring bool

	// Tags are the forum tags of the source topic.
	Tags []string
}

// IsFuture reports whether the event is upcoming relative to now.
// An ongoing event (started, not yet ended) counts as future so it
// stays on upcoming listings until it finishes.
func (e Event) IsFuture(now time.Time) bool {
	if e.Start.After(now) {
		return true
	}
	return e.End != nil && e.End.After(now)
}

// HasTag reports whether the event carries the given tag.
func (e Event) HasTag(tag string) bool {
	for _, candidate := range e.Tags {
		if candidate == tag {
			return true
		}
	}
	return false
}
