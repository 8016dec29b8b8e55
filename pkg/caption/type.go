package caption

import (
	"errors"
	"image"
	"image/color"
	"strconv"
	"strings"
	"unicode"
)

const (
	// Uploads larger than this are rejected before decoding.
	MaxFileSize = 10 * 1024 * 1024
	// Lines beyond this count are dropped silently.
	MaxLines = 20
	// Each line is cut to this many characters before fitting.
	MaxCharsPerLine = 60
	// Text is never shrunk below this size in pixels.
	MinFontSize = 12
	// Horizontal padding between the bar edge and the text box.
	TextPaddingX = 12
	// Corner radius of a caption bar.
	BarRadius = 0
	// Appended to text truncated by Fit.
	Ellipsis = "…"

	DefaultFontFamily = "sans-serif"
	DefaultFontStyle  = "normal"
	DefaultFontWeight = "400"
)

// Background of every caption bar, rgba(0,0,0,0.75).
var BarColor = color.NRGBA{R: 0, G: 0, B: 0, A: 191}

var (
	ErrUnsupportedFormat = errors.New("unsupported format")
	ErrFileTooLarge      = errors.New("file too large")
	ErrDecode            = errors.New("decode error")
	ErrInvalidParameters = errors.New("invalid parameters")
)

// A decoded upload together with its intrinsic pixel size.
type SourceImage struct {
	// The decoded bitmap. E.g., *image.RGBA
	Image image.Image
	// Intrinsic width in pixels. E.g., 1920
	Width int
	// Intrinsic height in pixels. E.g., 1080
	Height int
	// Name of the uploaded file. E.g., "holiday.jpg"
	Name string
}

// StyleConfig holds the user controlled render settings. Values are read fresh on every
// render; colors are opaque tokens resolved by the compositor.
type StyleConfig struct {
	// Height of one caption bar in pixels. E.g., 48
	RowHeight float64
	// Desired font size in pixels before fitting. E.g., 28
	FontSize float64
	// "normal", "italic" or "oblique".
	FontStyle string
	// "normal", "bold" or a number between 1 and 1000. E.g., "700"
	FontWeight string
	// E.g., "Go Mono"
	FontFamily string
	// E.g., "#ffffff"
	FillColor string
	// E.g., "black"
	StrokeColor string
}

// FittedLine is the text actually drawn for one caption line and the size it is drawn at.
type FittedLine struct {
	Text string
	Px   float64
}

// FontSpec identifies a font face at a concrete size.
type FontSpec struct {
	Style  string
	Weight int
	Family string
	Px     float64
}

// Italic reports whether the font spec asks for a slanted face.
func (f FontSpec) Italic() bool {
	return f.Style == "italic" || f.Style == "oblique"
}

// WithPx returns a copy of the font spec at another size.
func (f FontSpec) WithPx(px float64) FontSpec {
	f.Px = px
	return f
}

// String renders the font spec in CSS font shorthand. E.g., `italic 700 24px "Go Mono", sans-serif`
func (f FontSpec) String() string {
	style := f.Style
	if style == "" {
		style = DefaultFontStyle
	}
	weight := f.Weight
	if weight == 0 {
		weight = 400
	}
	return style + " " + strconv.Itoa(weight) + " " +
		strconv.FormatFloat(f.Px, 'f', -1, 64) + "px " +
		NormalizeFamily(f.Family) + ", " + DefaultFontFamily
}

// NormalizeFamily quotes a family name containing whitespace or commas so it is read as
// a single name, and falls back to the default family when empty.
func NormalizeFamily(family string) string {
	family = strings.TrimSpace(family)
	if family == "" {
		return DefaultFontFamily
	}
	if strings.ContainsFunc(family, func(r rune) bool { return unicode.IsSpace(r) || r == ',' }) {
		return `"` + family + `"`
	}
	return family
}
