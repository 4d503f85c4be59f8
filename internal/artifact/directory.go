package artifact

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/deedscan/deedscan/constants"
)

// DiscoverDir enumerates the artifacts under dir by file extension
// (*.png, *.jpg, *.jpeg, *.pdf). Filesystem enumeration order is not stable,
// so paths are sorted lexically before ordinals are assigned.
//
// PDF page counts come from pdfcpu: a corrupt PDF is still returned as an
// artifact, with a zero page count that the orchestrator treats as
// unreadable (recorded as "No text extracted", never fed to the tools).
func DiscoverDir(dir string, logger *slog.Logger) ([]Artifact, error) {
	if logger == nil {
		logger = slog.Default()
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read artifact directory: %w", err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := constants.NormalizeExt(filepath.Ext(entry.Name()))
		if _, ok := constants.AllowedExtensions[ext]; ok {
			paths = append(paths, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(paths)

	artifacts := make([]Artifact, 0, len(paths))
	for i, p := range paths {
		a := Artifact{
			Path:    p,
			Name:    filepath.Base(p),
			Format:  constants.MapExtToFormat(filepath.Ext(p)),
			Ordinal: i,
		}
		if a.Format == constants.PDF {
			if n, err := api.PageCountFile(p); err == nil {
				a.Pages = n
			} else {
				logger.Warn("artifact.pdf.page_count_failed", "path", p, "error", err)
			}
		}
		artifacts = append(artifacts, a)
	}

	logger.Info("artifact.discover", "dir", dir, "count", len(artifacts))
	return artifacts, nil
}
