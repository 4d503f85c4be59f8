// Package chunk splits extracted document text into segments that fit a
// model token budget.
package chunk

import (
	"log/slog"
	"strings"
)

// FallbackWindowRunes is the window size used when no token counter is
// available (degraded character chunking).
const FallbackWindowRunes = 4000

// Chunker splits text into ordered segments of at most maxTokens tokens.
type Chunker struct {
	counter   TokenCounter
	maxTokens int
	logger    *slog.Logger
}

// New builds a Chunker. A nil counter puts the chunker into degraded mode:
// fixed-size character windows instead of token-budget splitting.
func New(counter TokenCounter, maxTokens int, logger *slog.Logger) *Chunker {
	if logger == nil {
		logger = slog.Default()
	}
	if maxTokens < 1 {
		maxTokens = 2000
	}
	return &Chunker{counter: counter, maxTokens: maxTokens, logger: logger}
}

// Split returns the ordered segments of text.
//
// Words (whitespace-delimited) accumulate into a buffer; whenever the
// buffer's token count exceeds the budget, the buffer minus the just-added
// word is emitted and a new buffer starts with that word. Boundaries fall on
// word boundaries only, so a single word longer than the budget is emitted
// alone and may exceed maxTokens.
//
// Empty (or all-whitespace) input yields a single empty segment; Split is
// total and the caller decides whether empty text is worth extracting.
func (c *Chunker) Split(text string) []string {
	if c.counter == nil {
		return c.splitRunes(text)
	}

	words := strings.Fields(text)
	if len(words) == 0 {
		return []string{""}
	}

	var chunks []string
	buf := []string{words[0]}
	for _, w := range words[1:] {
		buf = append(buf, w)
		if c.counter.Count(strings.Join(buf, " ")) > c.maxTokens {
			chunks = append(chunks, strings.Join(buf[:len(buf)-1], " "))
			buf = []string{w}
		}
	}
	chunks = append(chunks, strings.Join(buf, " "))

	if len(chunks) > 1 {
		c.logger.Debug("chunk.split", "segments", len(chunks), "max_tokens", c.maxTokens)
	}
	return chunks
}

// splitRunes is the degraded mode: fixed windows over the raw text. Not
// surfaced as an error, only as a behavior change.
func (c *Chunker) splitRunes(text string) []string {
	runes := []rune(text)
	if len(runes) == 0 {
		return []string{""}
	}
	var chunks []string
	for i := 0; i < len(runes); i += FallbackWindowRunes {
		end := i + FallbackWindowRunes
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[i:end]))
	}
	c.logger.Warn("chunk.split.degraded", "segments", len(chunks), "window_runes", FallbackWindowRunes)
	return chunks
}
