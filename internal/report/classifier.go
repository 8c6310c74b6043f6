// Package report applies the level-dependent severity policy to raw
// findings, assembles them into a deterministic ordered report, and renders
// the report in text, JSON, or YAML form.
package report

import (
	"github.com/sgpo-tools/pocheck/internal/config"
	"github.com/sgpo-tools/pocheck/internal/types"
)

// Classify applies the check level's promotion/suppression policy to one raw
// finding. The second return value is false when the finding is suppressed
// entirely.
//
// Policy: strict promotes every warning to an error; lenient suppresses
// warnings; normal reports findings as the checkers emitted them. Internal
// findings are exempt — a failed entry is always visible regardless of level.
func Classify(cfg *config.Config, f types.Finding) (types.Finding, bool) {
	if f.Kind == types.CheckInternal {
		return f, true
	}

	if f.Severity == types.SeverityWarning {
		switch cfg.Level {
		case config.LevelStrict:
			f.Severity = types.SeverityError
		case config.LevelLenient:
			return f, false
		}
	}

	return f, true
}

// ClassifyAll filters and reclassifies a finding slice, preserving order.
func ClassifyAll(cfg *config.Config, findings []types.Finding) []types.Finding {
	out := make([]types.Finding, 0, len(findings))
	for _, f := range findings {
		if classified, keep := Classify(cfg, f); keep {
			out = append(out, classified)
		}
	}

	return out
}
