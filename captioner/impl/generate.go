package impl

import (
	"context"
	"errors"
	"image"
	"log"

	"github.com/visionex-project/captioner/pkg/caption"
)

var ErrNoImage = errors.New("no image loaded")

// OnGenerate renders the current text and style over the loaded photo. On success the
// output replaces the previous one, save is enabled and the generation counter is bumped.
// On failure the previous output is kept.
func (s *studio) OnGenerate(ctx context.Context) (image.Image, error) {
	if !s.canGenerate || s.source == nil {
		return nil, ErrNoImage
	}

	lines := caption.SplitLines(s.text)
	surface, err := s.compositor.Render(s.source, lines, s.style)
	if err != nil {
		log.Printf("Failed to render captions: %v", err)
		s.setError("Invalid parameters")
		return nil, err
	}
	s.clearError()
	if surface == nil {
		return nil, nil
	}

	s.output = surface
	s.canSave = true
	if _, err := s.counter.Increment(ctx); err != nil {
		log.Printf("Failed to increment generation count: %v", err)
	}
	return surface.Image(), nil
}
