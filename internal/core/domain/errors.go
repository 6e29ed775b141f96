package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUpstreamFetch indicates a forum API call failed. During
	// reconciliation this means "could not refresh this topic"; the
	// previous cached value stays in place.
	ErrUpstreamFetch = errors.New("upstream fetch failed")

	// ErrAuthRequired indicates credentials are needed for a protected
	// resource but were not configured. A configuration error, not a
	// parse error.
	ErrAuthRequired = errors.New("authentication required")

	// ErrRateLimited indicates the forum API rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")
)

// MaxLimitError is returned when a pagination limit exceeds the
// configured ceiling. A dedicated kind so callers can tell it apart
// from generic bad input; it is raised before any I/O happens.
type MaxLimitError struct {
	Limit   int
	Ceiling int
}

func (e *MaxLimitError) Error() string {
	return fmt.Sprintf("limit %d exceeds maximum of %d", e.Limit, e.Ceiling)
}

// ParseError indicates a topic's raw body could not be parsed into a
// document at all. Fatal for that topic; it must not abort
// reconciliation of other topics in the same batch.
type ParseError struct {
	TopicID int
	Err     error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse topic %d: %v", e.TopicID, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// MetadataError indicates a topic's metadata table is missing or lacks
// required keys. The affected topic is skipped from listings; other
// topics are unaffected.
type MetadataError struct {
	TopicID int
	Missing []string
}

func (e *MetadataError) Error() string {
	if len(e.Missing) == 0 {
		return fmt.Sprintf("topic %d: metadata table not found", e.TopicID)
	}
	return fmt.Sprintf("topic %d: metadata missing %s", e.TopicID, strings.Join(e.Missing, ", "))
}

// PathNotFoundError indicates a URL path did not resolve to any topic.
type PathNotFoundError struct {
	Path string
}

func (e *PathNotFoundError) Error() string {
	return fmt.Sprintf("path %s not found", e.Path)
}

// RedirectError indicates a path should be served from a different URL.
type RedirectError struct {
	Path   string
	Target string
}

func (e *RedirectError) Error() string {
	return fmt.Sprintf("path %s has moved to %s", e.Path, e.Target)
}
