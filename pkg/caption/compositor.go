package caption

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"
)

// Font weight thresholds based on standard CSS values.
const (
	REGULAR_WEIGHT  = 400
	SEMIBOLD_WEIGHT = 600
	BOLD_WEIGHT     = 700
)

// SurfaceFactory creates the output surface for one render pass.
type SurfaceFactory func(width, height int) Surface

type Compositor struct {
	newSurface SurfaceFactory
}

// NewCompositor returns a compositor drawing on gg canvases with the given fonts.
func NewCompositor(fonts FontResolver) *Compositor {
	return NewCompositorWithSurface(func(width, height int) Surface {
		return NewCanvas(width, height, fonts)
	})
}

func NewCompositorWithSurface(newSurface SurfaceFactory) *Compositor {
	return &Compositor{newSurface: newSurface}
}

// Style values after validation.
type resolvedStyle struct {
	rowHeight float64
	font      FontSpec
	fill      color.Color
	stroke    color.Color
}

// Render stacks one caption bar per line under the source image and returns the new
// surface. The first bar overlaps the bottom of the image; every further bar is appended
// below it on a backdrop cropped from the bottom strip of the source. With no lines Render
// draws nothing and returns a nil surface.
func (c *Compositor) Render(source *SourceImage, lines []string, style StyleConfig) (Surface, error) {
	resolved, err := resolveStyle(style)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, nil
	}

	width := source.Width
	rowHeight := resolved.rowHeight
	surface := c.newSurface(width, OutputHeight(source.Height, len(lines), rowHeight))
	surface.DrawImageRegion(source.Image, source.Image.Bounds(), image.Point{})

	innerWidth := float64(width) - 2*TextPaddingX
	backdrop := backdropStrip(source, rowHeight)
	for i, text := range lines {
		top := float64(source.Height) - rowHeight
		if i > 0 {
			top = float64(source.Height) + float64(i-1)*rowHeight
			surface.DrawImageRegion(source.Image, backdrop, image.Pt(TextPaddingX, int(top)))
		}
		surface.FillRoundedRect(0, top, float64(width), rowHeight, BarRadius, BarColor)
		drawLine(surface, text, innerWidth, float64(width)/2, top+rowHeight/2, resolved)
	}
	return surface, nil
}

// OutputHeight is the height of the output surface for lineCount bars.
func OutputHeight(sourceHeight int, lineCount int, rowHeight float64) int {
	if lineCount <= 1 {
		return sourceHeight
	}
	return sourceHeight + int(float64(lineCount-1)*rowHeight)
}

// The crop of the source reused behind every appended bar: the bottom row of the image,
// inset by the text padding on both sides.
func backdropStrip(source *SourceImage, rowHeight float64) image.Rectangle {
	bounds := source.Image.Bounds()
	strip := image.Rect(
		TextPaddingX,
		source.Height-int(rowHeight),
		source.Width-TextPaddingX,
		source.Height,
	)
	return strip.Add(bounds.Min).Intersect(bounds)
}

func drawLine(surface Surface, text string, innerWidth float64, centerX float64, centerY float64, style resolvedStyle) {
	fitted := Fit(text, innerWidth, style.font.Px, func(text string, px float64) float64 {
		surface.SetFont(style.font.WithPx(px))
		return surface.MeasureText(text)
	})
	if text == "" {
		return
	}
	surface.SetFont(style.font.WithPx(fitted.Px))
	surface.StrokeText(fitted.Text, centerX, centerY, math.Ceil(fitted.Px/10), style.stroke)
	surface.FillText(fitted.Text, centerX, centerY, style.fill)
}

func resolveStyle(style StyleConfig) (resolvedStyle, error) {
	if !isFinite(style.RowHeight) || style.RowHeight <= 0 {
		return resolvedStyle{}, fmt.Errorf("%w: row height %v", ErrInvalidParameters, style.RowHeight)
	}
	if !isFinite(style.FontSize) || style.FontSize <= 0 {
		return resolvedStyle{}, fmt.Errorf("%w: font size %v", ErrInvalidParameters, style.FontSize)
	}
	fontStyle, err := ParseFontStyle(style.FontStyle)
	if err != nil {
		return resolvedStyle{}, err
	}
	weight, err := ParseFontWeight(style.FontWeight)
	if err != nil {
		return resolvedStyle{}, err
	}
	fill, err := ParseColor(style.FillColor)
	if err != nil {
		return resolvedStyle{}, err
	}
	stroke, err := ParseColor(style.StrokeColor)
	if err != nil {
		return resolvedStyle{}, err
	}

	family := style.FontFamily
	if strings.TrimSpace(family) == "" {
		family = DefaultFontFamily
	}
	return resolvedStyle{
		rowHeight: style.RowHeight,
		font: FontSpec{
			Style:  fontStyle,
			Weight: weight,
			Family: family,
			Px:     style.FontSize,
		},
		fill:   fill,
		stroke: stroke,
	}, nil
}

func isFinite(value float64) bool {
	return !math.IsNaN(value) && !math.IsInf(value, 0)
}

// ParseFontStyle accepts "normal", "italic" and "oblique"; empty means normal.
func ParseFontStyle(token string) (string, error) {
	switch token = strings.ToLower(strings.TrimSpace(token)); token {
	case "":
		return DefaultFontStyle, nil
	case "normal", "italic", "oblique":
		return token, nil
	}
	return "", fmt.Errorf("%w: font style %q", ErrInvalidParameters, token)
}

// ParseFontWeight accepts "normal", "bold" or a number from 1 to 1000; empty means 400.
func ParseFontWeight(token string) (int, error) {
	switch token = strings.ToLower(strings.TrimSpace(token)); token {
	case "", "normal":
		return REGULAR_WEIGHT, nil
	case "bold":
		return BOLD_WEIGHT, nil
	}
	weight, err := strconv.Atoi(token)
	if err != nil || weight < 1 || weight > 1000 {
		return 0, fmt.Errorf("%w: font weight %q", ErrInvalidParameters, token)
	}
	return weight, nil
}

// ParseColor accepts hex colors ("#fff", "#ffffff") and CSS color names.
func ParseColor(token string) (color.Color, error) {
	token = strings.ToLower(strings.TrimSpace(token))
	if strings.HasPrefix(token, "#") {
		parsed, err := colorful.Hex(token)
		if err != nil {
			return nil, fmt.Errorf("%w: color %q", ErrInvalidParameters, token)
		}
		r, g, b := parsed.RGB255()
		return color.RGBA{R: r, G: g, B: b, A: 0xff}, nil
	}
	if named, ok := colornames.Map[token]; ok {
		return named, nil
	}
	return nil, fmt.Errorf("%w: color %q", ErrInvalidParameters, token)
}
