package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/deedscan/deedscan/internal/artifact"
	"github.com/deedscan/deedscan/internal/batch"
	"github.com/deedscan/deedscan/internal/chunk"
	"github.com/deedscan/deedscan/internal/common"
	"github.com/deedscan/deedscan/internal/llm/openai"
	"github.com/deedscan/deedscan/internal/ocr"
	"github.com/deedscan/deedscan/internal/pipeline"
	"github.com/deedscan/deedscan/internal/repository"
	"github.com/deedscan/deedscan/internal/server"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Run store
	var store repository.RunStore
	if cfg.Store.DBPath == "" {
		logger.Warn("DB_PATH not set, run history will not survive restarts")
		store = repository.NewMemoryStore()
	} else {
		s, err := repository.OpenSQLite(ctx, cfg.Store.DBPath, logger)
		if err != nil {
			logger.Error("open run store", "error", err)
			os.Exit(1)
		}
		store = s
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("close run store", "error", err)
		}
	}()

	// Token counter; chunking degrades to fixed windows without it.
	counter, err := chunk.NewTiktokenCounter()
	if err != nil {
		logger.Warn("tokenizer unavailable, using rune-window chunking", "error", err)
	}
	chunker := chunk.New(counter, cfg.Pipeline.MaxChunkTokens, logger)

	extractor := ocr.NewExtractor(ocr.Config{
		Tesseract:     cfg.OCR.Tesseract,
		Pdftotext:     cfg.OCR.Pdftotext,
		Pdftoppm:      cfg.OCR.Pdftoppm,
		TesseractLang: cfg.OCR.TesseractLang,
		TessdataDir:   cfg.OCR.TessdataDir,
		DPI:           cfg.OCR.DPI,
		MaxPages:      cfg.OCR.MaxPages,
	}, logger)

	client := openai.NewClient(openai.Config{
		APIKey:      cfg.LLM.APIKey,
		BaseURL:     cfg.LLM.BaseURL,
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
		MaxTokens:   cfg.LLM.MaxTokens,
		Timeout:     cfg.LLM.Timeout,
	}, logger)
	logger.Info("model client initialized", "model", cfg.LLM.Model)

	runner := batch.NewRunner(
		batch.Config{
			ArtifactDir: cfg.Pipeline.ArtifactDir,
			ResultsPath: cfg.Pipeline.ResultsPath,
			XLSXPath:    cfg.Pipeline.XLSXPath,
			Checkpoint:  cfg.Pipeline.Checkpoint,
		},
		pipeline.NewTextExtractStage(extractor, logger),
		pipeline.NewParseStage(chunker, client, logger),
		logger,
	)

	trigger := server.NewTrigger(store, runner.Run, logger)
	router := server.NewRouter(trigger, cfg.Server.Mode)

	if cfg.Pipeline.Watch {
		events, err := artifact.Watch(ctx, cfg.Pipeline.ArtifactDir, cfg.Pipeline.WatchDebounce, logger)
		if err != nil {
			logger.Error("start artifact watcher", "error", err)
			os.Exit(1)
		}
		go func() {
			for range events {
				if _, err := trigger.Start(ctx); err != nil {
					if errors.Is(err, common.ErrConflict) {
						logger.Debug("watch run skipped, already running")
						continue
					}
					logger.Error("watch run start failed", "error", err)
				}
			}
		}()
	}

	srv := &http.Server{
		Addr:              cfg.Server.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("http serving", "addr", cfg.Server.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http serve", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown", "error", err)
	}
	logger.Info("stopped")
}
