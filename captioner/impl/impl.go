package impl

import (
	"context"
	"image"
	"log"

	"github.com/nfnt/resize"

	"github.com/visionex-project/captioner/captioner/impl/counter"
	"github.com/visionex-project/captioner/captioner/impl/storage"
	"github.com/visionex-project/captioner/pkg/caption"
)

// studio is one editing session: a loaded photo, the caption text, the style and the last
// generated output. It is driven by one caller at a time; each command runs to completion
// before the next one starts.
type studio struct {
	compositor *caption.Compositor
	counter    counter.Counter
	exporter   storage.Exporter

	// Locale used to format the generation count. E.g., "zh-CN"
	locale string
	// File name handed to the exporter. E.g., "字幕图.png"
	exportName string

	source *caption.SourceImage
	text   string
	style  caption.StyleConfig
	output caption.Surface

	canGenerate bool
	canSave     bool

	// The last user-facing error, empty after a successful step.
	errorMessage string
}

type Options struct {
	Locale     string
	ExportName string
	Style      caption.StyleConfig
}

func New(
	fonts caption.FontResolver,
	counter counter.Counter,
	exporter storage.Exporter,
	options Options,
) *studio {
	return &studio{
		compositor: caption.NewCompositor(fonts),
		counter:    counter,
		exporter:   exporter,
		locale:     options.Locale,
		exportName: options.ExportName,
		style:      options.Style,
		text:       "",
	}
}

// OnTextChanged stores the raw caption text and returns how many lines it will render as.
func (s *studio) OnTextChanged(text string) int {
	s.text = text
	return s.LineCount()
}

// OnStyleChanged replaces the style. It is validated on the next generate.
func (s *studio) OnStyleChanged(style caption.StyleConfig) {
	s.style = style
}

func (s *studio) LineCount() int {
	return len(caption.SplitLines(s.text))
}

func (s *studio) ErrorMessage() string {
	return s.errorMessage
}

func (s *studio) CanGenerate() bool {
	return s.canGenerate
}

func (s *studio) CanSave() bool {
	return s.canSave
}

// Source returns the loaded photo, or nil before the first successful load.
func (s *studio) Source() *caption.SourceImage {
	return s.source
}

// Output returns the last generated image, or nil before the first generate.
func (s *studio) Output() image.Image {
	if s.output == nil {
		return nil
	}
	return s.output.Image()
}

// GenerationCount returns the total number of generated images, locale formatted.
func (s *studio) GenerationCount(ctx context.Context) string {
	total, err := s.counter.Get(ctx)
	if err != nil {
		log.Printf("Failed to read generation count: %v", err)
		total = 0
	}
	return counter.Format(total, s.locale)
}

// Preview returns the last output scaled to fit within maxWidth x maxHeight, keeping the
// aspect ratio. Images already inside the box are returned unscaled.
func (s *studio) Preview(maxWidth uint, maxHeight uint) image.Image {
	output := s.Output()
	if output == nil {
		return nil
	}
	return resize.Thumbnail(maxWidth, maxHeight, output, resize.Lanczos3)
}

func (s *studio) setError(message string) {
	s.errorMessage = message
}

func (s *studio) clearError() {
	s.errorMessage = ""
}
