package record

import (
	"github.com/deedscan/deedscan/constants"
)

// Fields is the normalized shape we want from the LLM for one land-record
// document: the four target fields, each either a concrete value or a
// sentinel.
type Fields struct {
	Date      string `json:"date"`
	OwnerName string `json:"owner_name"`
	Address   string `json:"address"`
	APNTaxID  string `json:"apn_taxid"`
}

// NotFoundFields returns a Fields with every field set to the "Not found"
// sentinel, the starting point for a merge.
func NotFoundFields() Fields {
	return uniformFields(constants.NotFound)
}

// NoTextFields returns the record used for artifacts that produced no OCR
// text at all.
func NoTextFields() Fields {
	return uniformFields(constants.NoTextExtracted)
}

func uniformFields(v string) Fields {
	return Fields{Date: v, OwnerName: v, Address: v, APNTaxID: v}
}

// CandidateKind classifies one extraction attempt.
type CandidateKind int

const (
	// CandidateOK means the model reply parsed and validated; Fields may
	// still carry "Not found" values.
	CandidateOK CandidateKind = iota
	// CandidateParseError means the reply was not valid JSON.
	CandidateParseError
	// CandidateCallError means the model call itself failed.
	CandidateCallError
)

func (k CandidateKind) String() string {
	switch k {
	case CandidateOK:
		return "ok"
	case CandidateParseError:
		return "parse_error"
	case CandidateCallError:
		return "call_error"
	default:
		return "unknown"
	}
}

// Candidate is one extraction attempt's output for one text segment.
type Candidate struct {
	Kind   CandidateKind
	Fields Fields
}

// ParseErrorCandidate builds the sentinel candidate for an unparseable reply.
func ParseErrorCandidate() Candidate {
	return Candidate{Kind: CandidateParseError, Fields: uniformFields(constants.ParseErrorSentinel)}
}

// CallErrorCandidate builds the sentinel candidate for a failed model call.
func CallErrorCandidate() Candidate {
	return Candidate{Kind: CandidateCallError, Fields: uniformFields(constants.CallErrorSentinel)}
}

// Record is the final per-artifact result.
type Record struct {
	ImageName string `json:"image_name"`
	Date      string `json:"date"`
	OwnerName string `json:"owner_name"`
	Address   string `json:"address"`
	APNTaxID  string `json:"apn_taxid"`

	// Ordinal is the originating row index in the source results table,
	// when known. Not part of the persisted shape.
	Ordinal int `json:"-"`
}

// NewRecord tags merged fields with their artifact identifier.
func NewRecord(imageName string, ordinal int, f Fields) Record {
	return Record{
		ImageName: imageName,
		Date:      f.Date,
		OwnerName: f.OwnerName,
		Address:   f.Address,
		APNTaxID:  f.APNTaxID,
		Ordinal:   ordinal,
	}
}

// ResultSet is the ordered sequence of records produced by one batch run.
// Append-only during a run; the orchestrator is its single writer.
type ResultSet []Record
