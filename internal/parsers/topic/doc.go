// Package topic implements the shared base parser: it turns one topic's
// cooked forum markup into a normalized document.
//
// The pipeline rewrites internal forum links to site paths, applies
// [style=CLASS] directives, extracts [details=NAME] metadata tables,
// replaces forum-specific markup (notifications, polls, lightboxes,
// editor notes) with site markup, and derives sections and a heading
// navigation fragment from the body.
//
// Parsers are stateless pure transformers: the same raw body always
// yields a structurally identical document.
package topic
