// Package batch wires discovery, the extraction pipeline, and result
// persistence into one run unit, the thing the trigger service starts and
// the CLI invokes directly.
package batch

import (
	"context"
	"log/slog"

	"github.com/deedscan/deedscan/internal/artifact"
	"github.com/deedscan/deedscan/internal/common"
	"github.com/deedscan/deedscan/internal/pipeline"
	"github.com/deedscan/deedscan/internal/record"
	"github.com/deedscan/deedscan/internal/repository"
	"github.com/deedscan/deedscan/internal/results"
)

// Config controls one batch run.
type Config struct {
	ArtifactDir string
	ResultsPath string
	XLSXPath    string // empty disables the XLSX export
	Checkpoint  bool   // rewrite ResultsPath after every artifact
}

// Runner executes batch runs over a fixed pipeline.
type Runner struct {
	cfg         Config
	textExtract *pipeline.TextExtractStage
	parse       *pipeline.ParseStage
	logger      *slog.Logger
}

func NewRunner(cfg Config, textExtract *pipeline.TextExtractStage, parse *pipeline.ParseStage, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{cfg: cfg, textExtract: textExtract, parse: parse, logger: logger}
}

// Run discovers artifacts, processes them sequentially, and persists the
// result set. The returned RunResult always describes what happened; only
// artifact discovery can fail the run outright, everything downstream is
// best effort per the pipeline's sentinel policy.
func (r *Runner) Run(ctx context.Context) repository.RunResult {
	artifacts, err := artifact.DiscoverDir(r.cfg.ArtifactDir, r.logger)
	if err != nil {
		r.logger.Error("batch.discover.failed", "dir", r.cfg.ArtifactDir, "error", err)
		return repository.RunResult{Success: false, Step: "discover", Error: err.Error()}
	}
	if len(artifacts) == 0 {
		// An empty capture directory is a successful run over nothing,
		// not a failure; the persisted result set is just empty.
		r.logger.Warn("batch.discover.empty", "dir", r.cfg.ArtifactDir)
	}

	var checkpoint pipeline.CheckpointFunc
	if r.cfg.Checkpoint {
		checkpoint = func(rs record.ResultSet) error {
			return results.WriteJSON(r.cfg.ResultsPath, rs)
		}
	}

	proc := pipeline.NewProcessor(r.textExtract, r.parse, checkpoint, r.logger)
	rs := proc.Run(ctx, artifacts)

	if err := results.WriteJSON(r.cfg.ResultsPath, rs); err != nil {
		// Best effort: the run itself succeeded, the listing still goes
		// into the run record below.
		r.logger.Error("batch.persist.failed", "path", r.cfg.ResultsPath, "error", common.WrapError(err, "persist results"))
	}
	if r.cfg.XLSXPath != "" {
		if err := results.WriteXLSX(r.cfg.XLSXPath, rs, r.logger); err != nil {
			r.logger.Error("batch.xlsx.failed", "path", r.cfg.XLSXPath, "error", err)
		}
	}

	listing := results.Render(rs)
	return repository.RunResult{
		Success:     true,
		Processed:   len(rs),
		ResultsPath: r.cfg.ResultsPath,
		Output:      listing,
	}
}
