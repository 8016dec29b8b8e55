package caption

import (
	"image"
	"image/color"
	"image/draw"
	"io"
	"math"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"
)

// Surface is the minimal 2D drawing capability the compositor needs.
type Surface interface {
	// Copies the sr rectangle of src so that sr.Min lands on dp.
	DrawImageRegion(src image.Image, sr image.Rectangle, dp image.Point)
	FillRoundedRect(x, y, width, height, radius float64, c color.Color)
	SetFont(spec FontSpec)
	MeasureText(text string) float64
	// Draws the outline of text centered on (x, y).
	StrokeText(text string, x, y, lineWidth float64, c color.Color)
	// Draws text centered on (x, y).
	FillText(text string, x, y float64, c color.Color)
	Image() image.Image
	EncodePNG(w io.Writer) error
}

// FontResolver maps a font spec to a face. Unknown families resolve to a fallback
// family, so resolution never fails.
type FontResolver interface {
	Face(spec FontSpec) font.Face
}

// The number of directions a glyph run is repeated in to build its outline.
const strokeSamples = 16

type canvas struct {
	context *gg.Context
	fonts   FontResolver
}

// NewCanvas returns a transparent gg backed surface of the given size.
func NewCanvas(width, height int, fonts FontResolver) Surface {
	return &canvas{
		context: gg.NewContext(width, height),
		fonts:   fonts,
	}
}

func (c *canvas) DrawImageRegion(src image.Image, sr image.Rectangle, dp image.Point) {
	sr = sr.Intersect(src.Bounds())
	if sr.Empty() {
		return
	}
	crop := image.NewRGBA(image.Rect(0, 0, sr.Dx(), sr.Dy()))
	draw.Draw(crop, crop.Bounds(), src, sr.Min, draw.Src)
	c.context.DrawImage(crop, dp.X, dp.Y)
}

func (c *canvas) FillRoundedRect(x, y, width, height, radius float64, fill color.Color) {
	if radius > 0 {
		c.context.DrawRoundedRectangle(x, y, width, height, radius)
	} else {
		c.context.DrawRectangle(x, y, width, height)
	}
	c.context.SetColor(fill)
	c.context.Fill()
}

func (c *canvas) SetFont(spec FontSpec) {
	c.context.SetFontFace(c.fonts.Face(spec))
}

func (c *canvas) MeasureText(text string) float64 {
	width, _ := c.context.MeasureString(text)
	return width
}

// gg has no glyph outlines, so the stroke is the text repeated around a circle of half the
// line width, drawn under the fill.
func (c *canvas) StrokeText(text string, x, y, lineWidth float64, stroke color.Color) {
	radius := lineWidth / 2
	c.context.SetColor(stroke)
	for i := 0; i < strokeSamples; i++ {
		angle := 2 * math.Pi * float64(i) / strokeSamples
		c.context.DrawStringAnchored(
			text,
			x+radius*math.Cos(angle), /* =x */
			y+radius*math.Sin(angle), /* =y */
			0.5,                      /* =ax (center in x) */
			0.5,                      /* =ay (center in y) */
		)
	}
}

func (c *canvas) FillText(text string, x, y float64, fill color.Color) {
	c.context.SetColor(fill)
	c.context.DrawStringAnchored(text, x, y, 0.5, 0.5)
}

func (c *canvas) Image() image.Image {
	return c.context.Image()
}

func (c *canvas) EncodePNG(w io.Writer) error {
	return c.context.EncodePNG(w)
}
