package pipeline

import (
	"context"
	"log/slog"

	"github.com/deedscan/deedscan/internal/artifact"
	"github.com/deedscan/deedscan/internal/ocr"
)

// TextExtractor is the OCR contract the pipeline depends on.
// *ocr.Extractor satisfies it.
type TextExtractor interface {
	Extract(ctx context.Context, path string) (ocr.ExtractionResult, error)
}

// TextExtractStage turns one artifact into plain text.
//
// Best effort, never abort the batch: every extraction failure (corrupt
// file, unsupported format, OCR engine error) is logged and converted to an
// empty string result, which the orchestrator treats as "no text extracted".
type TextExtractStage struct {
	extractor TextExtractor
	logger    *slog.Logger
}

func NewTextExtractStage(extractor TextExtractor, logger *slog.Logger) *TextExtractStage {
	if logger == nil {
		logger = slog.Default()
	}
	return &TextExtractStage{extractor: extractor, logger: logger}
}

// Run extracts text from the artifact. Errors never propagate.
func (s *TextExtractStage) Run(ctx context.Context, a artifact.Artifact) string {
	res, err := s.extractor.Extract(ctx, a.Path)
	if err != nil {
		s.logger.Warn("pipeline.extract.failed",
			"artifact", a.Name,
			"error", err,
			"warnings", res.Warnings,
		)
		return ""
	}
	s.logger.Debug("pipeline.extract.ok",
		"artifact", a.Name,
		"method", res.Method,
		"pages", res.Pages,
		"text_bytes", len(res.Text),
	)
	return res.Text
}
