package extractor

import "strings"

// NormalizePage applies the per-page output contract: no control characters
// (U+0000–U+001F), whitespace runs collapsed to single spaces, trimmed.
// Control characters are treated as separators before collapsing so that
// line and page structure never glues words together.
func NormalizePage(text string) string {
	cleaned := strings.Map(func(r rune) rune {
		if r < 0x20 {
			return ' '
		}
		return r
	}, text)
	return strings.Join(strings.Fields(cleaned), " ")
}
