package results

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/deedscan/deedscan/internal/record"
)

// Render produces the human-readable listing of a result set, as printed to
// the console at the end of a run.
func Render(rs record.ResultSet) string {
	if rs == nil {
		rs = record.ResultSet{}
	}
	b, err := json.MarshalIndent(rs, "", "  ")
	if err != nil {
		// A ResultSet of plain strings cannot fail to marshal; keep the
		// listing total anyway.
		b = []byte("[]")
	}

	var sb strings.Builder
	sb.WriteString(strings.Repeat("=", 50))
	sb.WriteString("\nANALYSIS RESULTS (JSON FORMAT)\n")
	sb.WriteString(strings.Repeat("=", 50))
	sb.WriteString("\n")
	sb.Write(b)
	sb.WriteString(fmt.Sprintf("\n\nTotal artifacts processed: %d\n", len(rs)))
	return sb.String()
}
