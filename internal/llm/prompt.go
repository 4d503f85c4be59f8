package llm

import "strings"

// SystemPrompt pins the model into extraction-only behavior.
const SystemPrompt = "You are a data extraction specialist. Extract only the requested information and return it in valid JSON format."

// BuildExtractionPrompt composes the fixed instruction prompt for one text
// segment. The artifact name and segment text are embedded verbatim.
func BuildExtractionPrompt(artifactName, segmentText string) string {
	var b strings.Builder
	b.WriteString(`Extract the following information from this document text chunk:
1. Owner Name (or Property Owner)
2. Property Address (full address)
3. Tax ID/APN (Assessment Parcel Number or Tax Identification Number)
4. Date (Sale Date, Deed Date, or any clearly labeled date in the document)

Return the information in JSON format like this:
{
    "date": "2024-05-01",
    "owner_name": "John Doe",
    "address": "123 Main St, City, State ZIP",
    "apn_taxid": "123-456-789"
}

If any information is not found, use "Not found" as the value.
Only extract information that is clearly present in the text.

Document Name: `)
	b.WriteString(artifactName)
	b.WriteString("\nText Content:\n")
	b.WriteString(segmentText)
	return b.String()
}
