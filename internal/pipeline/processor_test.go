package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deedscan/deedscan/constants"
	"github.com/deedscan/deedscan/internal/artifact"
	"github.com/deedscan/deedscan/internal/llm"
	"github.com/deedscan/deedscan/internal/ocr"
	"github.com/deedscan/deedscan/internal/record"
)

// fakeOCR returns canned text per path, or an error.
type fakeOCR struct {
	calls int
	texts map[string]string
	errs  map[string]error
}

func (f *fakeOCR) Extract(_ context.Context, path string) (ocr.ExtractionResult, error) {
	f.calls++
	if err := f.errs[path]; err != nil {
		return ocr.ExtractionResult{}, err
	}
	return ocr.ExtractionResult{Text: f.texts[path], Pages: 1, Method: "image-ocr"}, nil
}

// fakeExtractor parses "key value" markers out of the segment text, close
// enough to stand in for the model.
type fakeExtractor struct {
	calls     int
	candidate *record.Candidate // when set, returned verbatim
}

func (f *fakeExtractor) ExtractFields(_ context.Context, req llm.ExtractRequest) record.Candidate {
	f.calls++
	if f.candidate != nil {
		return *f.candidate
	}
	fields := record.NotFoundFields()
	if strings.Contains(req.SegmentText, "Jane Doe") {
		fields.OwnerName = "Jane Doe"
	}
	if strings.Contains(req.SegmentText, "123-45-6789") {
		fields.APNTaxID = "123-45-6789"
	}
	if strings.Contains(req.SegmentText, "2024-01-02") {
		fields.Date = "2024-01-02"
	}
	return record.Candidate{Kind: record.CandidateOK, Fields: fields}
}

// wholeTextChunker emits the input as a single segment.
type wholeTextChunker struct{}

func (wholeTextChunker) Split(text string) []string { return []string{text} }

func newProcessor(ocrStub *fakeOCR, fe *fakeExtractor, checkpoint CheckpointFunc) *Processor {
	return NewProcessor(
		NewTextExtractStage(ocrStub, nil),
		NewParseStage(wholeTextChunker{}, fe, nil),
		checkpoint,
		nil,
	)
}

func arts(names ...string) []artifact.Artifact {
	out := make([]artifact.Artifact, len(names))
	for i, n := range names {
		out[i] = artifact.Artifact{Path: n, Name: n, Format: constants.IMAGE, Ordinal: i}
	}
	return out
}

func TestRunEndToEnd(t *testing.T) {
	ocrStub := &fakeOCR{texts: map[string]string{
		"A.png": "Owner: Jane Doe, APN 123-45-6789, Date 2024-01-02",
		"B.png": "",
	}}
	fe := &fakeExtractor{}
	p := newProcessor(ocrStub, fe, nil)

	rs := p.Run(context.Background(), arts("A.png", "B.png"))
	require.Len(t, rs, 2)

	assert.Equal(t, "A.png", rs[0].ImageName)
	assert.Equal(t, "Jane Doe", rs[0].OwnerName)
	assert.Equal(t, "123456789", rs[0].APNTaxID) // canonicalized at merge
	assert.Equal(t, "2024-01-02", rs[0].Date)

	assert.Equal(t, "B.png", rs[1].ImageName)
	for _, v := range []string{rs[1].Date, rs[1].OwnerName, rs[1].Address, rs[1].APNTaxID} {
		assert.Equal(t, constants.NoTextExtracted, v)
	}
}

func TestRunEmptyTextSkipsFieldExtractor(t *testing.T) {
	ocrStub := &fakeOCR{texts: map[string]string{"B.png": "   \n "}}
	fe := &fakeExtractor{}
	p := newProcessor(ocrStub, fe, nil)

	rs := p.Run(context.Background(), arts("B.png"))
	require.Len(t, rs, 1)
	assert.Equal(t, constants.NoTextExtracted, rs[0].OwnerName)
	assert.Equal(t, 0, fe.calls, "field extractor must not be invoked for empty text")
}

func TestRunOCRFailureDoesNotAbortBatch(t *testing.T) {
	ocrStub := &fakeOCR{
		texts: map[string]string{
			"A.png": "Owner: Jane Doe",
			"C.png": "APN 123-45-6789",
		},
		errs: map[string]error{"B.png": errors.New("ocr engine crashed")},
	}
	fe := &fakeExtractor{}
	p := newProcessor(ocrStub, fe, nil)

	rs := p.Run(context.Background(), arts("A.png", "B.png", "C.png"))
	require.Len(t, rs, 3, "every artifact must produce an entry")

	assert.Equal(t, "Jane Doe", rs[0].OwnerName)
	assert.Equal(t, constants.NoTextExtracted, rs[1].OwnerName)
	assert.Equal(t, "123456789", rs[2].APNTaxID)
}

func TestRunChecksPointsAfterEveryArtifact(t *testing.T) {
	ocrStub := &fakeOCR{texts: map[string]string{
		"A.png": "Owner: Jane Doe",
		"B.png": "Date 2024-01-02",
	}}
	var snapshots []int
	checkpoint := func(rs record.ResultSet) error {
		snapshots = append(snapshots, len(rs))
		return nil
	}
	p := newProcessor(ocrStub, &fakeExtractor{}, checkpoint)

	rs := p.Run(context.Background(), arts("A.png", "B.png"))
	require.Len(t, rs, 2)
	assert.Equal(t, []int{1, 2}, snapshots)
}

func TestRunCheckpointFailureIsNotFatal(t *testing.T) {
	ocrStub := &fakeOCR{texts: map[string]string{"A.png": "Owner: Jane Doe"}}
	checkpoint := func(record.ResultSet) error { return errors.New("disk full") }
	p := newProcessor(ocrStub, &fakeExtractor{}, checkpoint)

	rs := p.Run(context.Background(), arts("A.png"))
	require.Len(t, rs, 1)
	assert.Equal(t, "Jane Doe", rs[0].OwnerName)
}

func TestRunUnreadablePDFSkipsExtraction(t *testing.T) {
	ocrStub := &fakeOCR{texts: map[string]string{
		"good.pdf": "Owner: Jane Doe",
		"bad.pdf":  "must never be read",
	}}
	fe := &fakeExtractor{}
	p := newProcessor(ocrStub, fe, nil)

	artifacts := []artifact.Artifact{
		{Path: "bad.pdf", Name: "bad.pdf", Format: constants.PDF, Ordinal: 0, Pages: 0},
		{Path: "good.pdf", Name: "good.pdf", Format: constants.PDF, Ordinal: 1, Pages: 2},
	}
	rs := p.Run(context.Background(), artifacts)
	require.Len(t, rs, 2)

	// A PDF that discovery could not page-count is not fed to the tools.
	assert.Equal(t, constants.NoTextExtracted, rs[0].OwnerName)
	assert.Equal(t, "Jane Doe", rs[1].OwnerName)
	assert.Equal(t, 1, ocrStub.calls, "only the readable PDF goes through OCR")
}

func TestRunErrorCandidatesYieldNotFound(t *testing.T) {
	ocrStub := &fakeOCR{texts: map[string]string{"A.png": "some text"}}
	cand := record.CallErrorCandidate()
	fe := &fakeExtractor{candidate: &cand}
	p := newProcessor(ocrStub, fe, nil)

	rs := p.Run(context.Background(), arts("A.png"))
	require.Len(t, rs, 1)
	// The call failed, the candidate was skipped by the merge, and the
	// record reports nothing found rather than aborting.
	assert.Equal(t, constants.NotFound, rs[0].OwnerName)
	assert.Equal(t, constants.NotFound, rs[0].Date)
}

func TestRunNoArtifacts(t *testing.T) {
	p := newProcessor(&fakeOCR{}, &fakeExtractor{}, nil)
	rs := p.Run(context.Background(), nil)
	assert.Empty(t, rs)
}

func TestParseStageMergesAcrossSegments(t *testing.T) {
	fe := &fakeExtractor{}
	stage := NewParseStage(splitOnPipe{}, fe, nil)

	fields := stage.Run(context.Background(), "A.png", "Owner Jane Doe here|APN 123-45-6789|Date 2024-01-02")
	assert.Equal(t, 3, fe.calls)
	assert.Equal(t, "Jane Doe", fields.OwnerName)
	assert.Equal(t, "123456789", fields.APNTaxID)
	assert.Equal(t, "2024-01-02", fields.Date)
	assert.Equal(t, constants.NotFound, fields.Address)
}

type splitOnPipe struct{}

func (splitOnPipe) Split(text string) []string { return strings.Split(text, "|") }
