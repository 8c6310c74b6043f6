// Package runner orchestrates a check pass: pre-flight configuration
// validation, entry filtering, per-entry evaluation (sequential or parallel),
// fault isolation, and deterministic report assembly.
package runner

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/sgpo-tools/pocheck/internal/checks"
	"github.com/sgpo-tools/pocheck/internal/config"
	"github.com/sgpo-tools/pocheck/internal/errors"
	"github.com/sgpo-tools/pocheck/internal/filter"
	"github.com/sgpo-tools/pocheck/internal/logging"
	"github.com/sgpo-tools/pocheck/internal/report"
	"github.com/sgpo-tools/pocheck/internal/types"
)

// Runner executes one check pass over a sequence of entries. The
// configuration is validated at construction and read-only afterwards, so a
// Runner is safe for repeated and concurrent Run calls.
type Runner struct {
	cfg      *config.Config
	checkers []checks.Checker
	filter   *filter.EntryFilter
	logger   logging.Logger
}

// New validates the configuration pre-flight and builds a runner. A
// configuration fault is returned before any entry could be processed.
func New(cfg *config.Config, logger logging.Logger) (*Runner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logging.NopLogger{}
	}

	return &Runner{
		cfg:      cfg,
		checkers: checks.ForConfig(cfg),
		filter:   filter.New(cfg),
		logger:   logger.WithComponent("runner"),
	}, nil
}

// Run performs a single synchronous pass over entries and returns the
// assembled report plus the mutation directives derived from it.
//
// Entries are evaluated independently against the read-only configuration;
// with Parallelism > 1 they are processed by concurrent workers and merged
// by original entry index, so the report is identical to a sequential run
// regardless of scheduling. Cancellation takes effect at entry boundaries
// only: a canceled run returns an error and no partial report.
func (r *Runner) Run(ctx context.Context, entries []*types.Entry) (*types.Report, []types.Directive, error) {
	candidates := r.filter.Candidates(entries)
	skipped := len(entries) - len(candidates)

	r.logger.Debug(ctx, "starting check pass",
		"entries", len(entries), "candidates", len(candidates),
		"level", r.cfg.Level.String(), "workers", r.cfg.Parallelism)

	perEntry := make([][]types.Finding, len(candidates))

	if r.cfg.Parallelism > 1 {
		if err := r.runParallel(ctx, candidates, perEntry); err != nil {
			return nil, nil, err
		}
	} else {
		for i, e := range candidates {
			if err := ctx.Err(); err != nil {
				return nil, nil, err
			}
			perEntry[i] = r.checkEntry(ctx, e)
		}
	}

	var raw []types.Finding
	for _, findings := range perEntry {
		raw = append(raw, findings...)
	}

	classified := report.ClassifyAll(r.cfg, raw)
	rep := report.Assemble(entries, classified, len(candidates), skipped)
	directives := report.BuildDirectives(r.cfg, rep)

	r.logger.Info(ctx, "check pass complete",
		"errors", rep.TotalErrors(), "warnings", rep.TotalWarnings(),
		"flagged_entries", len(rep.Entries))

	return rep, directives, nil
}

func (r *Runner) runParallel(ctx context.Context, candidates []*types.Entry, perEntry [][]types.Finding) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.cfg.Parallelism)

	for i, e := range candidates {
		i, e := i, e
		g.Go(func() error {
			// Checkpoint granularity is one entry: a canceled run stops
			// picking up new entries and reports nothing partial.
			if err := gctx.Err(); err != nil {
				return err
			}
			perEntry[i] = r.checkEntry(gctx, e)

			return nil
		})
	}

	return g.Wait()
}

// checkEntry evaluates one entry with every enabled checker. An internal
// fault in a checker is isolated: it becomes a finding of kind "internal"
// naming the entry, and the pass continues.
func (r *Runner) checkEntry(ctx context.Context, e *types.Entry) (findings []types.Finding) {
	defer func() {
		if rec := recover(); rec != nil {
			fault := errors.NewInternalError("checker_panic",
				fmt.Sprintf("checker panicked on entry %q", e.Key), fmt.Errorf("%v", rec))
			r.logger.Warn(ctx, fault, "checker panicked", "entry_key", e.Key)
			findings = append(findings, types.Finding{
				EntryKey:   e.Key,
				EntryIndex: e.Index,
				Kind:       types.CheckInternal,
				Severity:   types.SeverityError,
				Message:    fmt.Sprintf("internal fault while checking entry %q: %v", e.Key, rec),
			})
		}
	}()

	for _, c := range r.checkers {
		findings = append(findings, c.Check(e, r.cfg)...)
	}

	return findings
}
