package model

import (
	"net/url"
	"strings"
)

// SanitizeString trims v and returns it, or fallback when the trimmed value
// is empty.
func SanitizeString(v, fallback string) string {
	trimmed := strings.TrimSpace(v)
	if trimmed == "" {
		return fallback
	}
	return trimmed
}

// NormalizeDifficulty returns v when it is a canonical difficulty, else
// DifficultyMedium. Invalid input is coerced, never rejected.
func NormalizeDifficulty(v string) Difficulty {
	d := Difficulty(strings.TrimSpace(v))
	if d.Valid() {
		return d
	}
	return DifficultyMedium
}

// NormalizeURL returns the trimmed value when it parses as an absolute URL.
// As a lenient fallback, a trimmed value starting with "http" is passed
// through as-is. Anything else degrades to the empty string; this never
// fails.
func NormalizeURL(v string) string {
	trimmed := strings.TrimSpace(v)
	if trimmed == "" {
		return ""
	}
	if u, err := url.Parse(trimmed); err == nil && u.IsAbs() {
		return trimmed
	}
	if strings.HasPrefix(trimmed, "http") {
		return trimmed
	}
	return ""
}

// SanitizeTags trims each entry and drops empties, preserving input order.
func SanitizeTags(tags []string) []string {
	var out []string
	for _, tag := range tags {
		if trimmed := strings.TrimSpace(tag); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
