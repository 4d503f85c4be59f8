package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/deedscan/deedscan/internal/llm"
	"github.com/deedscan/deedscan/internal/record"
)

// ExtractFields implements llm.FieldExtractor using text-only
// chat/completions. Transport failures become call-error candidates and
// unusable replies become parse-error candidates; the method itself never
// fails, and it performs no retries.
func (c *Client) ExtractFields(ctx context.Context, req llm.ExtractRequest) record.Candidate {
	rid := uuid.New().String()
	start := time.Now()

	c.log.Info("llm.extract.start",
		"req_id", rid,
		"model", c.cfg.Model,
		"temp", c.cfg.Temperature,
		"artifact", req.ArtifactName,
		"segment_len", len(req.SegmentText),
	)

	body := map[string]any{
		"model":       c.cfg.Model,
		"temperature": c.cfg.Temperature,
		"max_tokens":  c.cfg.MaxTokens,
		"messages": []map[string]any{
			{"role": "system", "content": llm.SystemPrompt},
			{"role": "user", "content": llm.BuildExtractionPrompt(req.ArtifactName, req.SegmentText)},
		},
	}

	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/chat/completions"
	raw, err := c.post(ctx, endpoint, body)
	if err != nil {
		c.log.Error("llm.extract.http_error",
			"req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return record.CallErrorCandidate()
	}

	var cc struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(raw, &cc); err != nil {
		c.log.Error("llm.extract.decode_error",
			"req_id", rid, "error", err, "raw_bytes", len(raw),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return record.CallErrorCandidate()
	}
	if len(cc.Choices) == 0 {
		c.log.Error("llm.extract.no_choices",
			"req_id", rid, "raw_bytes", len(raw),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return record.CallErrorCandidate()
	}

	cand := llm.ParseCandidate(cc.Choices[0].Message.Content, c.log)
	c.log.Info("llm.extract.done",
		"req_id", rid,
		"kind", cand.Kind.String(),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return cand
}

func (c *Client) post(ctx context.Context, url string, body map[string]any) ([]byte, error) {
	b, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("openai http error: %w", err)
	}
	defer func(body io.ReadCloser) {
		if cerr := body.Close(); cerr != nil {
			c.log.Warn("openai response body close error", "error", cerr)
		}
	}(resp.Body)

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("openai status %d: %s", resp.StatusCode, string(raw))
	}
	return raw, nil
}
