package templates

import (
	"regexp"
	"strconv"
	"strings"
)

var placeholderPattern = regexp.MustCompile(`\{\{(\d+)\}\}`)

// ExtractPlaceholders returns the placeholder indices found in text, left to
// right. A repeated index is kept only at its first occurrence.
func ExtractPlaceholders(text string) []int {
	matches := placeholderPattern.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil
	}

	seen := make(map[int]bool, len(matches))
	placeholders := make([]int, 0, len(matches))
	for _, m := range matches {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		if seen[n] {
			continue
		}
		seen[n] = true
		placeholders = append(placeholders, n)
	}
	return placeholders
}

// RenderPreview replaces each {{N}} in text with its example value.
// Placeholders without an example are left as they are.
func RenderPreview(text string, examples ExampleMapping) string {
	return placeholderPattern.ReplaceAllStringFunc(text, func(match string) string {
		n, err := strconv.Atoi(strings.Trim(match, "{}"))
		if err != nil {
			return match
		}
		if value, ok := examples.Get(n); ok {
			return value
		}
		return match
	})
}
