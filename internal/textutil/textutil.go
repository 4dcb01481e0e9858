// Package textutil provides text-derivation helpers for blog content:
// read-time estimation and excerpt extraction from HTML or plain text.
package textutil

import (
	"regexp"
	"strings"
)

// DefaultExcerptLength is the maximum excerpt length when none is given.
const DefaultExcerptLength = 200

// wordsPerMinute is the assumed average reading speed.
const wordsPerMinute = 200

// htmlTags matches HTML tags for removal before word counting.
var htmlTags = regexp.MustCompile(`<[^>]*>`)

// StripHTML removes HTML tags from a string, leaving only text content.
func StripHTML(s string) string {
	return htmlTags.ReplaceAllString(s, "")
}

// ReadTime estimates the reading time of content in minutes, assuming
// 200 words per minute. Markup is stripped first. Always at least 1.
func ReadTime(content string) int {
	text := strings.TrimSpace(StripHTML(content))
	if text == "" {
		return 1
	}

	words := len(strings.Fields(text))
	minutes := (words + wordsPerMinute - 1) / wordsPerMinute
	if minutes < 1 {
		minutes = 1
	}
	return minutes
}

// Excerpt derives an excerpt from content by stripping markup and
// truncating to maxLength characters, appending an ellipsis when the
// text was cut. maxLength <= 0 uses DefaultExcerptLength.
func Excerpt(content string, maxLength int) string {
	if maxLength <= 0 {
		maxLength = DefaultExcerptLength
	}

	text := strings.TrimSpace(StripHTML(content))
	runes := []rune(text)
	if len(runes) <= maxLength {
		return text
	}

	return strings.TrimSpace(string(runes[:maxLength])) + "..."
}
