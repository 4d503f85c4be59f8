// Package artifact models captured land-record media (screenshots, PDFs)
// and discovers them on disk.
package artifact

import (
	"github.com/deedscan/deedscan/constants"
)

// Artifact is one captured image or document file. Produced by the scraping
// layer; immutable once produced; consumed exactly once by the pipeline.
type Artifact struct {
	Path    string
	Name    string // base name, used as the record identifier
	Format  constants.Format
	Ordinal int // originating row index (discovery order)
	Pages   int // PDFs only, best effort; 0 when unknown
}
