package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/deedscan/deedscan/internal/common"
	"github.com/deedscan/deedscan/internal/ocr"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if len(os.Args) != 2 {
		logger.Error("usage", "cmd", "runocr <file-path>")
		os.Exit(2)
	}
	path := os.Args[1]
	if _, err := os.Stat(path); err != nil {
		logger.Error("file not readable", "path", path, "error", err)
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	cfg := common.LoadConfig()
	extractor := ocr.NewExtractor(ocr.Config{
		Tesseract:     cfg.OCR.Tesseract,
		Pdftotext:     cfg.OCR.Pdftotext,
		Pdftoppm:      cfg.OCR.Pdftoppm,
		TesseractLang: cfg.OCR.TesseractLang,
		TessdataDir:   cfg.OCR.TessdataDir,
		DPI:           cfg.OCR.DPI,
		MaxPages:      cfg.OCR.MaxPages,
	}, logger)

	start := time.Now()
	res, err := extractor.Extract(ctx, path)
	dur := time.Since(start)

	if err != nil {
		logger.Error("text extraction failed",
			"path", path, "error", err, "duration_ms", dur.Milliseconds())
		os.Exit(1)
	}

	logger.Info("text extraction OK",
		"path", path,
		"method", res.Method,
		"pages", res.Pages,
		"bytes", len(res.Text),
		"warnings", res.Warnings,
		"duration_ms", dur.Milliseconds(),
	)
	if _, err := os.Stdout.WriteString(res.Text + "\n"); err != nil {
		logger.Error("write text", "error", err)
	}
}
