package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/deedscan/deedscan/constants"
	"github.com/deedscan/deedscan/internal/record"
)

const sampleReply = `{"date": "2024-01-02", "owner_name": "Jane Doe", "address": "123 Main St", "apn_taxid": "123-45-6789"}`

func TestParseCandidateFencedAndUnfencedAgree(t *testing.T) {
	fenced := "```json\n" + sampleReply + "\n```"
	assert.Equal(t, ParseCandidate(sampleReply, nil), ParseCandidate(fenced, nil))
}

func TestParseCandidateValidReply(t *testing.T) {
	got := ParseCandidate(sampleReply, nil)
	assert.Equal(t, record.CandidateOK, got.Kind)
	assert.Equal(t, "Jane Doe", got.Fields.OwnerName)
	assert.Equal(t, "2024-01-02", got.Fields.Date)
	assert.Equal(t, "123 Main St", got.Fields.Address)
	// The raw value is kept here; canonicalization happens at merge time.
	assert.Equal(t, "123-45-6789", got.Fields.APNTaxID)
}

func TestParseCandidateMissingFieldsBecomeNotFound(t *testing.T) {
	got := ParseCandidate(`{"owner_name": "Jane Doe"}`, nil)
	assert.Equal(t, record.CandidateOK, got.Kind)
	assert.Equal(t, "Jane Doe", got.Fields.OwnerName)
	assert.Equal(t, constants.NotFound, got.Fields.Date)
	assert.Equal(t, constants.NotFound, got.Fields.Address)
	assert.Equal(t, constants.NotFound, got.Fields.APNTaxID)
}

func TestParseCandidateRejectsMalformedReplies(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"not json", "the owner appears to be Jane Doe"},
		{"truncated json", `{"date": "2024-`},
		{"array not object", `["date", "owner_name"]`},
		{"wrongly typed field", `{"date": 20240102}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseCandidate(tt.content, nil)
			assert.Equal(t, record.CandidateParseError, got.Kind)
			assert.Equal(t, constants.ParseErrorSentinel, got.Fields.Date)
		})
	}
}

func TestParseCandidateToleratesExtraKeys(t *testing.T) {
	got := ParseCandidate(`{"owner_name": "Jane Doe", "confidence": 0.9}`, nil)
	assert.Equal(t, record.CandidateOK, got.Kind)
	assert.Equal(t, "Jane Doe", got.Fields.OwnerName)
}

func TestStripFences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"no fences", `{"a":1}`, `{"a":1}`},
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"bare fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"surrounding whitespace", "  ```json\n{\"a\":1}\n```  ", `{"a":1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripFences(tt.in))
		})
	}
}

func TestBuildExtractionPromptEmbedsInputsVerbatim(t *testing.T) {
	p := BuildExtractionPrompt("doc7.png", "DEED OF TRUST between parties")
	assert.Contains(t, p, "Document Name: doc7.png")
	assert.Contains(t, p, "DEED OF TRUST between parties")
	assert.Contains(t, p, `use "Not found" as the value`)
}
