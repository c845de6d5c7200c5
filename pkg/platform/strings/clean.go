// Package strings holds text cleanup shared by importers and request decoding.
package strings

import (
	"strings"
	"unicode/utf8"
)

// Cleanse drops NUL bytes and invalid UTF-8, which Postgres TEXT rejects, and
// trims surrounding whitespace.
func Cleanse(s string) string {
	if s == "" {
		return ""
	}
	if utf8.ValidString(s) && !strings.ContainsRune(s, 0) {
		return strings.TrimSpace(s)
	}
	s = strings.ToValidUTF8(s, "")
	return strings.TrimSpace(strings.ReplaceAll(s, "\x00", ""))
}

// DedupeAndTrim cleanses each value and drops empties and repeats, keeping
// first-seen order. The result is never nil.
//
//	DedupeAndTrim([]string{"  a ", "b", "a", "", "  "}) // []string{"a", "b"}
func DedupeAndTrim(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))
	for _, v := range values {
		v = Cleanse(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		result = append(result, v)
	}
	return result
}
