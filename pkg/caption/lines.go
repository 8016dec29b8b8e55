package caption

import (
	"strings"

	"github.com/rivo/uniseg"

	"github.com/visionex-project/captioner/pkg/utils"
)

// SplitLines turns raw input into caption lines: split on line breaks, keep the first
// MaxLines lines and cut each to MaxCharsPerLine characters. Overflow is clipped, never
// reported. Empty input yields a single empty line.
func SplitLines(raw string) []string {
	segments := strings.Split(raw, "\n")
	if len(segments) > MaxLines {
		segments = segments[:MaxLines]
	}
	return utils.Map(segments, func(segment string) string {
		return truncateGraphemes(strings.TrimSuffix(segment, "\r"), MaxCharsPerLine)
	})
}

// Cuts text to at most limit user-perceived characters.
func truncateGraphemes(text string, limit int) string {
	count := 0
	end := 0
	graphemes := uniseg.NewGraphemes(text)
	for graphemes.Next() {
		if count == limit {
			return text[:end]
		}
		_, end = graphemes.Positions()
		count++
	}
	return text
}

// Byte offsets at which each grapheme cluster of text ends.
func graphemeBoundaries(text string) []int {
	boundaries := []int{}
	graphemes := uniseg.NewGraphemes(text)
	for graphemes.Next() {
		_, end := graphemes.Positions()
		boundaries = append(boundaries, end)
	}
	return boundaries
}
