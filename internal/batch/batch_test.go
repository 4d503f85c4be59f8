package batch

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deedscan/deedscan/internal/llm"
	"github.com/deedscan/deedscan/internal/ocr"
	"github.com/deedscan/deedscan/internal/pipeline"
	"github.com/deedscan/deedscan/internal/record"
	"github.com/deedscan/deedscan/internal/results"
)

type staticOCR struct{ text string }

func (s staticOCR) Extract(context.Context, string) (ocr.ExtractionResult, error) {
	return ocr.ExtractionResult{Text: s.text, Pages: 1, Method: "image-ocr"}, nil
}

type staticExtractor struct{ fields record.Fields }

func (s staticExtractor) ExtractFields(context.Context, llm.ExtractRequest) record.Candidate {
	return record.Candidate{Kind: record.CandidateOK, Fields: s.fields}
}

type wholeChunker struct{}

func (wholeChunker) Split(text string) []string { return []string{text} }

func newTestRunner(t *testing.T, dir string) (*Runner, string) {
	t.Helper()
	out := filepath.Join(t.TempDir(), "results.json")
	fields := record.NotFoundFields()
	fields.OwnerName = "Jane Doe"
	r := NewRunner(
		Config{ArtifactDir: dir, ResultsPath: out, Checkpoint: true},
		pipeline.NewTextExtractStage(staticOCR{text: "deed text"}, nil),
		pipeline.NewParseStage(wholeChunker{}, staticExtractor{fields: fields}, nil),
		nil,
	)
	return r, out
}

func writeArtifact(t *testing.T, dir, name string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
}

func TestRunPersistsResults(t *testing.T) {
	dir := t.TempDir()
	writeArtifact(t, dir, "b.png")
	writeArtifact(t, dir, "a.png")
	writeArtifact(t, dir, "notes.txt") // ignored

	r, out := newTestRunner(t, dir)
	res := r.Run(context.Background())

	require.True(t, res.Success)
	assert.Equal(t, 2, res.Processed)
	assert.Equal(t, out, res.ResultsPath)
	assert.Contains(t, res.Output, "ANALYSIS RESULTS (JSON FORMAT)")
	assert.Contains(t, res.Output, "Total artifacts processed: 2")

	rs, err := results.ReadJSON(out)
	require.NoError(t, err)
	require.Len(t, rs, 2)
	assert.Equal(t, "a.png", rs[0].ImageName) // lexical order
	assert.Equal(t, "b.png", rs[1].ImageName)
	assert.Equal(t, "Jane Doe", rs[0].OwnerName)
}

func TestRunEmptyDirectorySucceeds(t *testing.T) {
	r, out := newTestRunner(t, t.TempDir())
	res := r.Run(context.Background())

	assert.True(t, res.Success, "an empty capture directory is not a failure")
	assert.Equal(t, 0, res.Processed)
	assert.Contains(t, res.Output, "Total artifacts processed: 0")

	rs, err := results.ReadJSON(out)
	require.NoError(t, err)
	assert.Empty(t, rs)
}

func TestRunMissingDirectoryFails(t *testing.T) {
	r, _ := newTestRunner(t, filepath.Join(t.TempDir(), "nope"))
	res := r.Run(context.Background())

	assert.False(t, res.Success)
	assert.Equal(t, "discover", res.Step)
	assert.NotEmpty(t, res.Error)
}

func TestRunWritesXLSXWhenConfigured(t *testing.T) {
	dir := t.TempDir()
	writeArtifact(t, dir, "a.png")

	out := filepath.Join(t.TempDir(), "results.json")
	xlsx := strings.TrimSuffix(out, ".json") + ".xlsx"
	fields := record.NotFoundFields()
	r := NewRunner(
		Config{ArtifactDir: dir, ResultsPath: out, XLSXPath: xlsx},
		pipeline.NewTextExtractStage(staticOCR{text: "deed text"}, nil),
		pipeline.NewParseStage(wholeChunker{}, staticExtractor{fields: fields}, nil),
		nil,
	)
	res := r.Run(context.Background())

	require.True(t, res.Success)
	info, err := os.Stat(xlsx)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}
