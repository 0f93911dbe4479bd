package utils

import "github.com/microcosm-cc/bluemonday"

var sanitizer = bluemonday.StrictPolicy()

// Sanitize strips any HTML from user-supplied text (action names, profile
// fields) before it is stored or echoed back.
func Sanitize(input string) string {
	return sanitizer.Sanitize(input)
}
