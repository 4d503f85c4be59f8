package chunk

import (
	"github.com/pkoukk/tiktoken-go"
)

// TokenCounter reports how many model tokens a piece of text consumes.
type TokenCounter interface {
	Count(text string) int
}

// TiktokenCounter counts tokens with the cl100k_base vocabulary, the same
// encoding the downstream model family uses.
type TiktokenCounter struct {
	enc *tiktoken.Tiktoken
}

// NewTiktokenCounter loads the cl100k_base encoding. Loading can fail (the
// vocabulary may be unavailable offline); callers fall back to degraded
// character chunking in that case.
func NewTiktokenCounter() (*TiktokenCounter, error) {
	enc, err := tiktoken.GetEncoding("cl100k_base")
	if err != nil {
		return nil, err
	}
	return &TiktokenCounter{enc: enc}, nil
}

func (c *TiktokenCounter) Count(text string) int {
	return len(c.enc.Encode(text, nil, nil))
}
