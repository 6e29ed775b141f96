// Package forum implements the forum API client over the forum's JSON
// endpoints. Authentication, proactive rate limiting and bounded
// retries all live here; the core never retries.
package forum
