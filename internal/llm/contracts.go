package llm

import (
	"context"

	"github.com/deedscan/deedscan/internal/record"
)

// ExtractRequest carries one text segment to the model, along with the
// artifact name embedded in the prompt for context.
type ExtractRequest struct {
	ArtifactName string
	SegmentText  string
}

// FieldExtractor is the interface the pipeline depends on.
//
// ExtractFields never fails: malformed replies and transport errors come
// back as sentinel candidates (parse_error / call_error) so the batch can
// keep going. Retries, if ever wanted, belong to an outer layer.
type FieldExtractor interface {
	ExtractFields(ctx context.Context, req ExtractRequest) record.Candidate
}
