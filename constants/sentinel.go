package constants

// Sentinel values stored in record fields in place of genuine extracted
// content. These exact strings end up in the persisted result set, so they
// must stay stable.
const (
	// NotFound marks a field the model could not locate in any segment.
	NotFound = "Not found"

	// NoTextExtracted marks every field of an artifact that produced no OCR
	// text at all; the field extractor is never invoked for such artifacts.
	NoTextExtracted = "No text extracted"

	// ParseErrorSentinel marks a candidate whose model reply was not valid
	// JSON. Candidates carrying it are excluded from merging.
	ParseErrorSentinel = "Error parsing response"

	// CallErrorSentinel marks a candidate whose model call failed outright
	// (network, auth, quota). Also excluded from merging.
	CallErrorSentinel = "Error occurred"
)
