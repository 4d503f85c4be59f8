package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deedscan/deedscan/constants"
	"github.com/deedscan/deedscan/internal/llm"
	"github.com/deedscan/deedscan/internal/record"
)

func fakeCompletion(content string) string {
	reply := map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"content": content}},
		},
	}
	b, _ := json.Marshal(reply)
	return string(b)
}

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c := NewClient(Config{APIKey: "test-key", BaseURL: srv.URL, Model: "gpt-4"}, nil)
	return c, srv
}

func TestExtractFieldsHappyPath(t *testing.T) {
	var gotBody map[string]any
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chat/completions", r.URL.Path)
		require.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_, _ = w.Write([]byte(fakeCompletion(`{"date":"2024-01-02","owner_name":"Jane Doe","address":"123 Main St","apn_taxid":"123-45-6789"}`)))
	})

	cand := c.ExtractFields(context.Background(), llm.ExtractRequest{
		ArtifactName: "doc1.png",
		SegmentText:  "Owner: Jane Doe",
	})

	assert.Equal(t, record.CandidateOK, cand.Kind)
	assert.Equal(t, "Jane Doe", cand.Fields.OwnerName)

	assert.Equal(t, "gpt-4", gotBody["model"])
	assert.InDelta(t, 0.1, gotBody["temperature"], 1e-6)
	assert.InDelta(t, 500, gotBody["max_tokens"], 1e-6)
	msgs := gotBody["messages"].([]any)
	require.Len(t, msgs, 2)
	user := msgs[1].(map[string]any)["content"].(string)
	assert.Contains(t, user, "Document Name: doc1.png")
	assert.Contains(t, user, "Owner: Jane Doe")
}

func TestExtractFieldsFencedReply(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(fakeCompletion("```json\n{\"owner_name\":\"Jane Doe\"}\n```")))
	})

	cand := c.ExtractFields(context.Background(), llm.ExtractRequest{ArtifactName: "a.png", SegmentText: "x"})
	assert.Equal(t, record.CandidateOK, cand.Kind)
	assert.Equal(t, "Jane Doe", cand.Fields.OwnerName)
}

func TestExtractFieldsParseErrorSentinel(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(fakeCompletion("I could not find any structured data, sorry.")))
	})

	cand := c.ExtractFields(context.Background(), llm.ExtractRequest{ArtifactName: "a.png", SegmentText: "x"})
	assert.Equal(t, record.CandidateParseError, cand.Kind)
	assert.Equal(t, constants.ParseErrorSentinel, cand.Fields.OwnerName)
}

func TestExtractFieldsCallErrorSentinelOnHTTPFailure(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"rate limited"}`, http.StatusTooManyRequests)
	})

	cand := c.ExtractFields(context.Background(), llm.ExtractRequest{ArtifactName: "a.png", SegmentText: "x"})
	assert.Equal(t, record.CandidateCallError, cand.Kind)
	assert.Equal(t, constants.CallErrorSentinel, cand.Fields.Date)
}

func TestExtractFieldsCallErrorSentinelOnEmptyChoices(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	})

	cand := c.ExtractFields(context.Background(), llm.ExtractRequest{ArtifactName: "a.png", SegmentText: "x"})
	assert.Equal(t, record.CandidateCallError, cand.Kind)
}
