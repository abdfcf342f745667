package utils

import "github.com/microcosm-cc/bluemonday"

var (
	sanitizer = bluemonday.UGCPolicy()
	stripper  = bluemonday.StrictPolicy()
)

// Sanitize cleans HTML content to prevent XSS attacks. Used for post bodies
// and comments, which may carry a safe markup subset.
func Sanitize(input string) string {
	return sanitizer.Sanitize(input)
}

// StripTags removes all markup. Used for titles, excerpts, and category fields
// which are rendered as plain text.
func StripTags(input string) string {
	return stripper.Sanitize(input)
}
