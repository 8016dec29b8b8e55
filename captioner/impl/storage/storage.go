package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"cloud.google.com/go/storage"
	"github.com/cenkalti/backoff/v4"
)

// Exporter receives the encoded PNG of a generated image and returns where it was written.
type Exporter interface {
	Export(ctx context.Context, name string, data []byte) (string, error)
}

type directoryExporter struct {
	dir string
}

// NewDirectory writes exports into dir, creating it when missing.
func NewDirectory(dir string) Exporter {
	return &directoryExporter{dir: dir}
}

func (e *directoryExporter) Export(ctx context.Context, name string, data []byte) (string, error) {
	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}
	path := filepath.Join(e.dir, filepath.Base(name))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}

type gcsExporter struct {
	storageClient   *storage.Client
	bucketName      string
	backoffDuration time.Duration
	maxRetries      uint64
}

// NewGCS uploads exports to a Google Cloud Storage bucket, retrying a failed upload up to
// maxRetries times.
func NewGCS(storageClient *storage.Client, bucketName string, backoffDuration time.Duration, maxRetries uint64) Exporter {
	return &gcsExporter{
		storageClient:   storageClient,
		bucketName:      bucketName,
		backoffDuration: backoffDuration,
		maxRetries:      maxRetries,
	}
}

func (e *gcsExporter) Export(ctx context.Context, name string, data []byte) (string, error) {
	objectName := fmt.Sprintf("%d-%s", time.Now().UTC().Unix(), filepath.Base(name))
	err := backoff.Retry(func() error {
		return e.saveBytes(ctx, objectName, data)
	}, backoff.WithContext(backoff.WithMaxRetries(backoff.NewConstantBackOff(e.backoffDuration), e.maxRetries), ctx))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("gs://%s/%s", e.bucketName, objectName), nil
}

func (e *gcsExporter) saveBytes(ctx context.Context, objectName string, data []byte) error {
	writer := e.storageClient.Bucket(e.bucketName).Object(objectName).NewWriter(ctx)
	writer.ContentType = "image/png"

	if _, err := writer.Write(data); err != nil {
		writer.Close()
		return fmt.Errorf("failed to write to GCS: %w", err)
	}

	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to close GCS writer: %w", err)
	}

	return nil
}
