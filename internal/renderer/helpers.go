package renderer

import (
	"strconv"
	"strings"
	"unicode"
)

// maxLabelRunes caps the length of an item label on the chart.
const maxLabelRunes = 24

// svgFontFamily lists Japanese-capable families first so SVG viewers pick
// a font that covers the theme and item names.
const svgFontFamily = "'Noto Sans CJK JP', 'Hiragino Sans', 'Yu Gothic', 'IPAexGothic', sans-serif"

// truncate truncates a string to maxRunes runes, appending "..." when cut.
func truncate(s string, maxRunes int) string {
	runes := []rune(s)
	if len(runes) <= maxRunes {
		return s
	}
	if maxRunes <= 3 {
		return string(runes[:maxRunes])
	}
	return string(runes[:maxRunes-3]) + "..."
}

// formatTick renders a tick value without a trailing ".0".
func formatTick(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// sanitizeFilename keeps letters, digits and '-'/'_' and replaces
// everything else with '_'. Non-ASCII letters such as kana are kept.
func sanitizeFilename(s string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(s) {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}
