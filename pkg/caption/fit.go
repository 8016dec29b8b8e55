package caption

import "math"

// MeasureFunc returns the rendered width of text at px using the current font settings.
// It must be deterministic for a fixed font.
type MeasureFunc func(text string, px float64) float64

// Fit returns text and a font size such that the text drawn at that size is no wider than
// targetWidth. It first shrinks proportionally, never below MinFontSize, and only then
// drops trailing characters and appends an ellipsis.
func Fit(text string, targetWidth float64, desiredPx float64, measure MeasureFunc) FittedLine {
	width := measure(text, desiredPx)
	if width <= targetWidth {
		return FittedLine{Text: text, Px: desiredPx}
	}

	scale := targetWidth / width
	px := math.Max(math.Floor(desiredPx*scale), MinFontSize)
	if measure(text, px) <= targetWidth {
		return FittedLine{Text: text, Px: px}
	}

	// Prefixes shrink by one character per step; the empty prefix ends the loop.
	boundaries := graphemeBoundaries(text)
	n := len(boundaries)
	for n > 0 && measure(text[:boundaries[n-1]]+Ellipsis, px) > targetWidth {
		n--
	}
	if n == 0 {
		return FittedLine{Text: Ellipsis, Px: px}
	}
	return FittedLine{Text: text[:boundaries[n-1]] + Ellipsis, Px: px}
}
