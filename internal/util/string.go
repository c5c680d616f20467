package util

import (
	"regexp"
	"strings"
)

// Control characters except tab, LF and CR.
var controlCharsPattern = regexp.MustCompile(`[\x00-\x08\x0B\x0C\x0E-\x1F\x7F]`)

// TruncateString truncates a string to maxRunes characters (rune-based, not byte-based)
// If truncated, appends "..." to the result
func TruncateString(s string, maxRunes int) string {
	runes := []rune(s)
	if len(runes) <= maxRunes {
		return s
	}
	return string(runes[:maxRunes]) + "..."
}

// Normalize performs basic string normalization (lowercase + trim)
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// SanitizeField strips control characters and surrounding whitespace but keeps line breaks.
func SanitizeField(s string) string {
	return strings.TrimSpace(controlCharsPattern.ReplaceAllString(s, ""))
}

// StripCodeFence unwraps a ```json ... ``` or ``` ... ``` block.
func StripCodeFence(text string) string {
	cleaned := strings.TrimSpace(text)
	if strings.HasPrefix(cleaned, "```json") {
		cleaned = strings.TrimPrefix(cleaned, "```json")
		cleaned = strings.TrimSpace(cleaned)
	} else if strings.HasPrefix(cleaned, "```") {
		cleaned = strings.TrimPrefix(cleaned, "```")
		cleaned = strings.TrimSpace(cleaned)
	}
	if strings.HasSuffix(cleaned, "```") {
		cleaned = strings.TrimSuffix(cleaned, "```")
		cleaned = strings.TrimSpace(cleaned)
	}
	return cleaned
}

// FormatHashtags renders tags with a leading '#', keeping at most limit entries (0 = all).
func FormatHashtags(tags []string, limit int) string {
	if limit > 0 && len(tags) > limit {
		tags = tags[:limit]
	}
	parts := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimPrefix(strings.TrimSpace(tag), "#")
		if tag == "" {
			continue
		}
		parts = append(parts, "#"+tag)
	}
	return strings.Join(parts, " ")
}
