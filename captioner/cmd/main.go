package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	gcs "cloud.google.com/go/storage"
	"github.com/ridge/must/v2"

	"github.com/visionex-project/captioner/captioner/impl"
	"github.com/visionex-project/captioner/captioner/impl/counter"
	"github.com/visionex-project/captioner/captioner/impl/font"
	"github.com/visionex-project/captioner/captioner/impl/storage"
	"github.com/visionex-project/captioner/pkg/caption"
	"github.com/visionex-project/captioner/pkg/config"
	"github.com/visionex-project/captioner/pkg/env"
)

func main() {
	imagePath := flag.String("image", "", "PNG or JPEG photo to caption")
	text := flag.String("text", "", "caption text, one bar per line")
	textFile := flag.String("text-file", "", "read the caption text from this file instead of -text")
	out := flag.String("out", "", "export file name (defaults to export_name from the config file)")
	flag.Parse()

	env.Load()

	cfg := must.OK1(config.Load(env.StringVariable("CAPTIONER_CONFIG", "captioner.toml")))
	if *out != "" {
		cfg.ExportName = *out
	}

	fontProvider := must.OK1(font.New(env.StringVariable("CAPTIONER_FONT_DIR", "")))

	counterPath := env.StringVariable("CAPTIONER_COUNTER_DB", "")
	if counterPath == "" {
		counterPath = must.OK1(counter.DefaultPath())
	}
	counterDB := must.OK1(counter.Open(counterPath))
	defer counterDB.Close()

	ctx := context.Background()
	var exporter storage.Exporter
	if env.StringVariable("CAPTIONER_EXPORT", "directory") == "gcs" {
		storageClient := must.OK1(gcs.NewClient(ctx))
		defer storageClient.Close()
		exporter = storage.NewGCS(
			storageClient,
			env.RequiredStringVariable("CAPTIONER_GCS_BUCKET"),
			env.DurationVariable("CAPTIONER_BACKOFF", time.Second/2),
			uint64(env.IntVariable("CAPTIONER_UPLOAD_RETRIES", 4)),
		)
	} else {
		exporter = storage.NewDirectory(env.StringVariable("CAPTIONER_EXPORT_DIR", "."))
	}

	studio := impl.New(
		fontProvider,
		counter.New(counterDB, counter.TotalKey),
		exporter,
		impl.Options{
			Locale:     env.StringVariable("CAPTIONER_LOCALE", "zh-CN"),
			ExportName: cfg.ExportName,
			Style:      cfg.Style.ToCaption(),
		},
	)
	log.Printf("Generated so far: %s", studio.GenerationCount(ctx))

	if *imagePath == "" {
		log.Fatalf("-image is required")
	}
	file, err := caption.OpenFile(*imagePath)
	if err != nil {
		log.Fatalf("Failed to open %s: %v", *imagePath, err)
	}
	if err := studio.OnFileSelected(file); err != nil {
		log.Fatalf("%s", studio.ErrorMessage())
	}

	captionText := *text
	if *textFile != "" {
		captionText = string(must.OK1(os.ReadFile(*textFile)))
	}
	log.Printf("Rendering %d caption line(s)", studio.OnTextChanged(captionText))

	if _, err := studio.OnGenerate(ctx); err != nil {
		log.Fatalf("%s: %v", studio.ErrorMessage(), err)
	}
	location, err := studio.OnSave(ctx)
	if err != nil {
		log.Fatalf("%s: %v", studio.ErrorMessage(), err)
	}
	log.Printf("Saved to %s, generated so far: %s", location, studio.GenerationCount(ctx))
}
