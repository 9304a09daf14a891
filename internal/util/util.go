// Package util provides common string helpers used by the input parsers.
package util

import "strings"

// TrimQuotes removes leading and trailing double quotes from a string.
func TrimQuotes(s string) string {
	return strings.Trim(s, `"`)
}

// NormalizeKey lowercases and trims a header keyword so raster headers can
// be matched case-insensitively.
func NormalizeKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Fields splits a line on any run of spaces or tabs.
func Fields(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == '\t'
	})
}
