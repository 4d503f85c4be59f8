package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/fatih/color"

	"github.com/deedscan/deedscan/internal/batch"
	"github.com/deedscan/deedscan/internal/chunk"
	"github.com/deedscan/deedscan/internal/common"
	"github.com/deedscan/deedscan/internal/llm/openai"
	"github.com/deedscan/deedscan/internal/ocr"
	"github.com/deedscan/deedscan/internal/pipeline"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	// Parse CLI flags
	var (
		dir       = flag.String("dir", "", "directory of captured documents to process (required)")
		out       = flag.String("out", "", "output JSON file path (defaults to <dir>/../results.json)")
		xlsx      = flag.String("xlsx", "", "optional XLSX export path")
		maxTokens = flag.Int("max-tokens", 0, "chunk token budget (defaults to MAX_CHUNK_TOKENS)")
		quiet     = flag.Bool("quiet", false, "suppress the rendered listing")
	)
	flag.Parse()

	if *dir == "" {
		printError("Error: --dir is required\n")
		os.Exit(1)
	}
	if *out == "" {
		*out = filepath.Join(filepath.Dir(*dir), "results.json")
	}

	// Setup logger
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	ctx := context.Background()

	cfg := common.LoadConfig()
	if *maxTokens > 0 {
		cfg.Pipeline.MaxChunkTokens = *maxTokens
	}
	if cfg.LLM.APIKey == "" {
		printError("Error: OPENAI_API_KEY is required\n")
		os.Exit(1)
	}

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

	runner := batch.NewRunner(
		batch.Config{
			ArtifactDir: *dir,
			ResultsPath: *out,
			XLSXPath:    *xlsx,
			Checkpoint:  cfg.Pipeline.Checkpoint,
		},
		pipeline.NewTextExtractStage(extractor, logger),
		pipeline.NewParseStage(chunker, client, logger),
		logger,
	)

	result := runner.Run(ctx)
	if !result.Success {
		color.Red("Batch run failed at %s: %s", result.Step, result.Error)
		os.Exit(1)
	}

	if !*quiet {
		fmt.Println(result.Output)
	}
	color.Green("Batch run complete!")
	fmt.Printf("- Documents processed: %d\n", result.Processed)
	fmt.Printf("- Results: %s\n", *out)
	if *xlsx != "" {
		fmt.Printf("- XLSX: %s\n", *xlsx)
	}
}
