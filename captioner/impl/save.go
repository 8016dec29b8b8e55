package impl

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
)

var ErrNothingToSave = errors.New("nothing generated yet")

// OnSave encodes the last output as PNG and hands it to the exporter. It returns where
// the file was written.
func (s *studio) OnSave(ctx context.Context) (string, error) {
	if !s.canSave || s.output == nil {
		return "", ErrNothingToSave
	}

	buffer := new(bytes.Buffer)
	if err := s.output.EncodePNG(buffer); err != nil {
		log.Printf("Failed to encode image: %v", err)
		return "", fmt.Errorf("failed to encode image: %w", err)
	}

	location, err := s.exporter.Export(ctx, s.exportName, buffer.Bytes())
	if err != nil {
		log.Printf("Failed to export image: %v", err)
		s.setError("Failed to save image")
		return "", fmt.Errorf("failed to export image: %w", err)
	}
	s.clearError()
	log.Printf("Saved %s", location)
	return location, nil
}
