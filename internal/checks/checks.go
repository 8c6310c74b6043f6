// Package checks implements the three consistency rule evaluators: escape
// sequences, HTML tags, and runtime-substitution placeholders.
//
// Each checker consumes one translation entry plus the read-only run
// configuration and produces zero or more findings. Checkers never mutate
// the entry; annotation requests are assembled separately as directives.
// Checkers emit raw severities (important mismatches as errors, the rest as
// warnings); level-dependent promotion and suppression happens in the
// report classifier.
package checks

import (
	"github.com/sgpo-tools/pocheck/internal/config"
	"github.com/sgpo-tools/pocheck/internal/types"
)

// Checker is one rule evaluator. Implementations are stateless and safe for
// concurrent use.
type Checker interface {
	// Kind identifies the evaluator in the closed dispatch table
	Kind() types.CheckKind
	// Check evaluates a single entry against the run configuration
	Check(entry *types.Entry, cfg *config.Config) []types.Finding
}

// table is the fixed set of rule evaluators, keyed by kind. Check selection
// dispatches through this table; there is no runtime string matching.
var table = map[types.CheckKind]Checker{
	types.CheckEscape:      &EscapeChecker{},
	types.CheckHTML:        &HTMLChecker{},
	types.CheckPlaceholder: &PlaceholderChecker{},
}

// ForConfig returns the enabled checkers in the configuration's dispatch
// order.
func ForConfig(cfg *config.Config) []Checker {
	checkers := make([]Checker, 0, len(cfg.EnabledChecks))
	for _, kind := range cfg.EnabledChecks {
		if c, ok := table[kind]; ok {
			checkers = append(checkers, c)
		}
	}

	return checkers
}

// finding is a small helper for constructing a Finding bound to an entry.
func finding(e *types.Entry, kind types.CheckKind, sev types.Severity, msg, snippet string) types.Finding {
	return types.Finding{
		EntryKey:   e.Key,
		EntryIndex: e.Index,
		Kind:       kind,
		Severity:   sev,
		Message:    msg,
		Snippet:    snippet,
	}
}
