package pipeline

import (
	"context"
	"log/slog"

	"github.com/deedscan/deedscan/internal/llm"
	"github.com/deedscan/deedscan/internal/record"
)

// Chunker splits extracted text into model-sized segments.
// *chunk.Chunker satisfies it.
type Chunker interface {
	Split(text string) []string
}

// ParseStage turns one artifact's extracted text into a merged record: the
// text is chunked, every segment goes through the field extractor, and the
// candidates merge first-found-wins in segment order.
type ParseStage struct {
	chunker   Chunker
	extractor llm.FieldExtractor
	logger    *slog.Logger
}

func NewParseStage(chunker Chunker, extractor llm.FieldExtractor, logger *slog.Logger) *ParseStage {
	if logger == nil {
		logger = slog.Default()
	}
	return &ParseStage{chunker: chunker, extractor: extractor, logger: logger}
}

// Run extracts fields from text belonging to the named artifact.
func (s *ParseStage) Run(ctx context.Context, artifactName, text string) record.Fields {
	segments := s.chunker.Split(text)
	candidates := make([]record.Candidate, 0, len(segments))
	for i, seg := range segments {
		s.logger.Info("pipeline.parse.segment",
			"artifact", artifactName,
			"segment", i+1,
			"segments", len(segments),
		)
		cand := s.extractor.ExtractFields(ctx, llm.ExtractRequest{
			ArtifactName: artifactName,
			SegmentText:  seg,
		})
		if cand.Kind != record.CandidateOK {
			s.logger.Warn("pipeline.parse.segment_degraded",
				"artifact", artifactName,
				"segment", i+1,
				"kind", cand.Kind.String(),
			)
		}
		candidates = append(candidates, cand)
	}
	return record.Merge(candidates)
}
