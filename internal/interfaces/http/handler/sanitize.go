package handler

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// Sanitizers run before validation, so validators always see cleaned values.
// Plain-text fields get every tag stripped; rich-text fields keep the markup
// a store editor is allowed to write.
var (
	strictPolicy = bluemonday.StrictPolicy()
	ugcPolicy    = bluemonday.UGCPolicy()
)

// sanitizePlainText strips all HTML and trims whitespace.
// Used for names, SKUs, slugs, authors and address fields.
func sanitizePlainText(s string) string {
	return strings.TrimSpace(strictPolicy.Sanitize(s))
}

// sanitizeRichText keeps user-generated-content markup (links, lists,
// emphasis) and drops scripts and event handlers.
// Used for descriptions and order note content.
func sanitizeRichText(s string) string {
	return strings.TrimSpace(ugcPolicy.Sanitize(s))
}

// sanitizeSearchTerm strips markup from a search query
func sanitizeSearchTerm(s string) string {
	return sanitizePlainText(s)
}

// sanitizePlainTextPtr sanitizes through a pointer, keeping nil as nil
func sanitizePlainTextPtr(s *string) *string {
	if s == nil {
		return nil
	}
	cleaned := sanitizePlainText(*s)
	return &cleaned
}

// sanitizeRichTextPtr sanitizes rich text through a pointer, keeping nil as nil
func sanitizeRichTextPtr(s *string) *string {
	if s == nil {
		return nil
	}
	cleaned := sanitizeRichText(*s)
	return &cleaned
}
