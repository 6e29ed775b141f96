package domain

import (
	"fmt"
	"strings"
	"time"
)

// Default pagination and cache settings.
const (
	// DefaultLimit is the page size applied when a caller passes no limit.
	DefaultLimit = 50

	// DefaultOffset is the page offset applied when a caller passes none.
	DefaultOffset = 0

	// DefaultMaxLimit is the pagination ceiling; requests above it are
	// rejected before touching the cache.
	DefaultMaxLimit = 500

	// DefaultEventTag is the tag used to select featured events.
	DefaultEventTag = "featured-event"
)

// Settings is the recognized configuration surface of the engine.
type Settings struct {
	// BaseURL is the upstream forum URL, e.g. https://forum.example.com.
	BaseURL string

	// CategoryID is the forum category synchronized into the cache.
	CategoryID int

	// IndexTopicID designates the topic whose body encodes navigation
	// and URL structure for the page set.
	IndexTopicID int

	// URLPrefix is the site path the content is hosted under.
	URLPrefix string

	// APIKey and APIUsername authenticate access to protected
	// categories. Both must be set together.
	APIKey      string
	APIUsername string

	// ExcludeTopics lists topic IDs skipped during parsing and
	// validation.
	ExcludeTopics []int

	// AdditionalMetadataValidation lists extra metadata keys engage
	// pages must carry beyond the built-in required set.
	AdditionalMetadataValidation []string

	// Limit and Offset are the pagination defaults.
	Limit  int
	Offset int

	// MaxLimit is the pagination ceiling.
	MaxLimit int

	// EventTag is the default tag filter for event listings.
	EventTag string

	// RefreshInterval enables background reconciliation when positive.
	RefreshInterval time.Duration
}

// WithDefaults returns a copy with unset fields filled in.
func (s Settings) WithDefaults() Settings {
	if s.Limit == 0 {
		s.Limit = DefaultLimit
	}
	if s.MaxLimit == 0 {
		s.MaxLimit = DefaultMaxLimit
	}
	if s.EventTag == "" {
		s.EventTag = DefaultEventTag
	}
	if s.URLPrefix == "" {
		s.URLPrefix = "/"
	}
	return s
}

// Validate checks the settings before any I/O happens.
// Configuration errors surface immediately to the caller.
func (s Settings) Validate() error {
	if s.BaseURL == "" {
		return fmt.Errorf("%w: base_url is required", ErrInvalidInput)
	}
	if !strings.HasPrefix(s.BaseURL, "http://") && !strings.HasPrefix(s.BaseURL, "https://") {
		return fmt.Errorf("%w: base_url must be an absolute http(s) URL", ErrInvalidInput)
	}
	if (s.APIKey == "") != (s.APIUsername == "") {
		return fmt.Errorf("%w: api_key and api_username must be set together", ErrAuthRequired)
	}
	if s.MaxLimit < 0 {
		return fmt.Errorf("%w: max_limit must be positive", ErrInvalidInput)
	}
	return nil
}

// Excluded reports whether a topic ID is on the exclusion list.
func (s Settings) Excluded(id int) bool {
	for _, excluded := range s.ExcludeTopics {
		if excluded == id {
			return true
		}
	}
	return false
}
