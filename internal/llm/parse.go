package llm

import (
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/deedscan/deedscan/constants"
	"github.com/deedscan/deedscan/internal/record"
)

// StripFences removes an optional Markdown code-fence wrapper (a leading
// "```json" and a trailing "```") from a model reply.
func StripFences(content string) string {
	s := strings.TrimSpace(content)
	if strings.HasPrefix(s, "```json") {
		s = strings.TrimPrefix(s, "```json")
	} else if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// ParseCandidate turns a raw model reply into a candidate record.
//
// The reply is fence-stripped, parsed as JSON, and validated against the
// record schema. Anything that fails yields the parse-error sentinel
// candidate, a recoverable flagged state the merger will skip.
func ParseCandidate(content string, logger *slog.Logger) record.Candidate {
	if logger == nil {
		logger = slog.Default()
	}

	raw := []byte(StripFences(content))
	if err := ValidateReply(raw); err != nil {
		logger.Warn("llm.parse.invalid_reply", "error", err, "reply_bytes", len(content))
		return record.ParseErrorCandidate()
	}

	var reply struct {
		Date      *string `json:"date"`
		OwnerName *string `json:"owner_name"`
		Address   *string `json:"address"`
		APNTaxID  *string `json:"apn_taxid"`
	}
	if err := json.Unmarshal(raw, &reply); err != nil {
		logger.Warn("llm.parse.decode_error", "error", err)
		return record.ParseErrorCandidate()
	}

	f := record.NotFoundFields()
	assign(&f.Date, reply.Date)
	assign(&f.OwnerName, reply.OwnerName)
	assign(&f.Address, reply.Address)
	assign(&f.APNTaxID, reply.APNTaxID)
	return record.Candidate{Kind: record.CandidateOK, Fields: f}
}

func assign(dst *string, src *string) {
	if src == nil {
		return
	}
	if s := strings.TrimSpace(*src); s != "" {
		*dst = s
	} else {
		*dst = constants.NotFound
	}
}
