package caption

import (
	"math/rand"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

// Every rune is half as wide as the font size.
func halfEm(text string, px float64) float64 {
	return float64(utf8.RuneCountInString(text)) * px * 0.5
}

func TestFit(t *testing.T) {
	tests := []struct {
		name        string
		text        string
		targetWidth float64
		desiredPx   float64
		expected    FittedLine
	}{
		{
			name:        "fits unchanged",
			text:        "hello",
			targetWidth: 100,
			desiredPx:   20,
			expected:    FittedLine{Text: "hello", Px: 20},
		},
		{
			name:        "exact width fits",
			text:        "hello",
			targetWidth: 50,
			desiredPx:   20,
			expected:    FittedLine{Text: "hello", Px: 20},
		},
		{
			name:        "shrinks proportionally",
			text:        "hello world!",
			targetWidth: 120,
			desiredPx:   40,
			expected:    FittedLine{Text: "hello world!", Px: 20},
		},
		{
			name:        "shrunk size is floored",
			text:        "abcdefg",
			targetWidth: 50,
			desiredPx:   20,
			expected:    FittedLine{Text: "abcdefg", Px: 14},
		},
		{
			name:        "truncates at the minimum size",
			text:        strings.Repeat("a", 100),
			targetWidth: 100,
			desiredPx:   40,
			expected:    FittedLine{Text: strings.Repeat("a", 15) + Ellipsis, Px: MinFontSize},
		},
		{
			name:        "ellipsis alone when nothing fits",
			text:        "abc",
			targetWidth: 3,
			desiredPx:   12,
			expected:    FittedLine{Text: Ellipsis, Px: MinFontSize},
		},
		{
			name:        "negative width ends with ellipsis",
			text:        "abc",
			targetWidth: -24,
			desiredPx:   30,
			expected:    FittedLine{Text: Ellipsis, Px: MinFontSize},
		},
		{
			name:        "empty text",
			text:        "",
			targetWidth: 10,
			desiredPx:   30,
			expected:    FittedLine{Text: "", Px: 30},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Fit(tt.text, tt.targetWidth, tt.desiredPx, halfEm))
		})
	}
}

func TestFitMeasuresDesiredSizeFirst(t *testing.T) {
	var sizes []float64
	Fit("hello", 100, 24, func(text string, px float64) float64 {
		sizes = append(sizes, px)
		return halfEm(text, px)
	})

	assert.Equal(t, []float64{24}, sizes)
}

func TestFitTruncatesWholeCharacters(t *testing.T) {
	fitted := Fit(strings.Repeat("字", 40), 60, 12, halfEm)

	assert.True(t, utf8.ValidString(fitted.Text))
	assert.Equal(t, strings.Repeat("字", 9)+Ellipsis, fitted.Text)
}

func TestFitNeverOverflows(t *testing.T) {
	random := rand.New(rand.NewSource(1))
	alphabet := []rune("abcdefghij 字幕图…")
	for i := 0; i < 500; i++ {
		runes := make([]rune, random.Intn(80))
		for j := range runes {
			runes[j] = alphabet[random.Intn(len(alphabet))]
		}
		text := string(runes)
		targetWidth := float64(random.Intn(400))
		desiredPx := float64(MinFontSize + random.Intn(60))

		fitted := Fit(text, targetWidth, desiredPx, halfEm)

		assert.GreaterOrEqual(t, fitted.Px, float64(MinFontSize))
		assert.LessOrEqual(t, fitted.Px, desiredPx)
		if fitted.Text != Ellipsis {
			assert.LessOrEqual(t, halfEm(fitted.Text, fitted.Px), targetWidth, "text=%q width=%v", text, targetWidth)
		}
		if halfEm(text, desiredPx) <= targetWidth {
			assert.Equal(t, FittedLine{Text: text, Px: desiredPx}, fitted)
		}
	}
}
