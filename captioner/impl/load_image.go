package impl

import (
	"errors"
	"log"

	"github.com/visionex-project/captioner/pkg/caption"
)

// OnFileSelected validates and decodes a new photo. On failure the previous photo and
// output are left as they were, but generate and save are disabled until a load succeeds.
func (s *studio) OnFileSelected(file caption.File) error {
	source, err := caption.Load(file)
	if err != nil {
		log.Printf("Failed to load image %s: %v", file.Name(), err)
		s.canGenerate = false
		s.canSave = false
		s.setError(loadErrorMessage(err))
		return err
	}

	s.source = source
	s.canGenerate = true
	s.canSave = false
	s.clearError()
	log.Printf("Loaded %s (%dx%d)", source.Name, source.Width, source.Height)
	return nil
}

func loadErrorMessage(err error) string {
	switch {
	case errors.Is(err, caption.ErrUnsupportedFormat):
		return "Only PNG/JPG images are supported"
	case errors.Is(err, caption.ErrFileTooLarge):
		return "File is larger than 10MB"
	default:
		return "Failed to decode image"
	}
}
