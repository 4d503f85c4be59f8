package record

import (
	"strings"

	"github.com/deedscan/deedscan/constants"
)

// Merge combines candidate records from the segments of one source document
// into one best-effort Fields, scanning in segment order.
//
// First-found-wins: once a field holds a concrete value it is never
// overwritten, even by a different later value. Candidates flagged as parse
// or call errors contribute nothing. The APN/tax ID of the merged result is
// canonicalized last.
func Merge(candidates []Candidate) Fields {
	out := NotFoundFields()
	for _, c := range candidates {
		if c.Kind != CandidateOK {
			continue
		}
		take(&out.Date, c.Fields.Date)
		take(&out.OwnerName, c.Fields.OwnerName)
		take(&out.Address, c.Fields.Address)
		take(&out.APNTaxID, c.Fields.APNTaxID)
	}
	out.APNTaxID = CleanAPN(out.APNTaxID)
	return out
}

func take(dst *string, src string) {
	if *dst != constants.NotFound {
		return
	}
	if src == "" || src == constants.NotFound {
		return
	}
	*dst = src
}

// CleanAPN canonicalizes an APN/tax ID by stripping every non-digit
// character. If nothing is left (e.g. "N/A"), the original value is
// retained so unknown-format IDs are not erased.
func CleanAPN(apn string) string {
	var b strings.Builder
	for _, r := range apn {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return apn
	}
	return b.String()
}
