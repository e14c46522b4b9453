package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/kochan17/recruitment-app/internal/common"
	"github.com/kochan17/recruitment-app/internal/extract"
	"github.com/kochan17/recruitment-app/internal/ingest"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if len(os.Args) != 2 {
		logger.Error("usage", "cmd", "runextract <file|gs://bucket/object>")
		os.Exit(2)
	}
	ref := os.Args[1]

	cfg, err := common.LoadConfig(os.Getenv("CONFIG_PATH"))
	if err != nil {
		logger.Error("load config", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	ctx = common.WithRequestID(ctx, uuid.NewString())

	loader := ingest.NewLoader(logger)
	defer func() {
		if cerr := loader.Close(); cerr != nil {
			logger.Error("close loader", "error", cerr)
		}
	}()

	doc, err := loader.Load(ctx, ref)
	if err != nil {
		logger.Error("load document", "ref", ref, "error", err)
		os.Exit(common.ExitCode(err))
	}

	ex := extract.NewExtractor(extract.Config{
		Pdftotext:    cfg.Extract.Pdftotext,
		Pdftoppm:     cfg.Extract.Pdftoppm,
		DPI:          cfg.Extract.DPI,
		MaxPages:     cfg.Extract.MaxPages,
		PDFImageMode: cfg.Extract.PDFImageMode,
	}, logger)

	start := time.Now()
	text, err := ex.ExtractText(ctx, doc)
	if err != nil {
		logger.Error("text extraction failed", "document", doc.Name, "error", err,
			"duration_ms", time.Since(start).Milliseconds())
		os.Exit(common.ExitCode(err))
	}
	logger.Info("text extraction OK", "document", doc.Name, "content_type", doc.ContentType,
		"chars", len([]rune(text)), "duration_ms", time.Since(start).Milliseconds())

	images, err := ex.ExtractImages(ctx, doc)
	if err != nil {
		logger.Warn("image extraction failed", "document", doc.Name, "error", err)
	}

	fmt.Println(text)
	for _, img := range images {
		fmt.Fprintf(os.Stderr, "image %s page=%d bytes=%d\n", img.Name, img.Page, len(img.Data))
	}
}
