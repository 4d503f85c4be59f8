// Package pipeline turns captured artifacts into normalized land-record
// results: OCR text extraction, token-budget chunking, per-segment model
// extraction, and first-found-wins merging, one artifact at a time.
package pipeline

import (
	"context"
	"log/slog"
	"strings"

	"github.com/deedscan/deedscan/constants"
	"github.com/deedscan/deedscan/internal/artifact"
	"github.com/deedscan/deedscan/internal/record"
)

// CheckpointFunc persists the full result set built so far. Called after
// every artifact when set, so a crash mid-batch loses at most the in-flight
// artifact. Failures are logged, never fatal.
type CheckpointFunc func(record.ResultSet) error

// Processor is the batch orchestrator. Strictly sequential: one artifact is
// fully processed before the next begins, so the checkpoint is always a
// consistent snapshot.
type Processor struct {
	textExtract *TextExtractStage
	parse       *ParseStage
	checkpoint  CheckpointFunc
	logger      *slog.Logger
}

func NewProcessor(textExtract *TextExtractStage, parse *ParseStage, checkpoint CheckpointFunc, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{
		textExtract: textExtract,
		parse:       parse,
		checkpoint:  checkpoint,
		logger:      logger,
	}
}

// Run processes every artifact in order and returns one record per
// artifact. No artifact's failure aborts the batch; degraded artifacts are
// marked with sentinel values instead of being omitted.
func (p *Processor) Run(ctx context.Context, artifacts []artifact.Artifact) record.ResultSet {
	rs := make(record.ResultSet, 0, len(artifacts))

	for _, a := range artifacts {
		p.logger.Info("pipeline.artifact.start",
			"artifact", a.Name,
			"ordinal", a.Ordinal,
			"format", a.Format,
			"pages", a.Pages,
		)

		var fields record.Fields
		switch {
		case a.Format == constants.PDF && a.Pages == 0:
			// Discovery could not read a page count out of the document,
			// so the extraction tools will not fare better.
			p.logger.Warn("pipeline.artifact.unreadable_pdf", "artifact", a.Name)
			fields = record.NoTextFields()
		default:
			text := p.textExtract.Run(ctx, a)
			if strings.TrimSpace(text) == "" {
				// Short-circuit: no point spending model calls on nothing.
				p.logger.Warn("pipeline.artifact.no_text", "artifact", a.Name)
				fields = record.NoTextFields()
			} else {
				fields = p.parse.Run(ctx, a.Name, text)
			}
		}

		rs = append(rs, record.NewRecord(a.Name, a.Ordinal, fields))
		p.logger.Info("pipeline.artifact.done",
			"artifact", a.Name,
			"owner_name", fields.OwnerName,
			"date", fields.Date,
			"apn_taxid", fields.APNTaxID,
		)

		if p.checkpoint != nil {
			if err := p.checkpoint(rs); err != nil {
				p.logger.Error("pipeline.checkpoint.failed", "artifact", a.Name, "error", err)
			}
		}
	}

	p.logger.Info("pipeline.run.done", "artifacts", len(artifacts))
	return rs
}
