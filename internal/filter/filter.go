// Package filter selects which translation entries are eligible for
// checking. Filtering is deterministic and order-preserving: the same input
// sequence always yields the same candidate sequence.
package filter

import (
	"github.com/sgpo-tools/pocheck/internal/config"
	"github.com/sgpo-tools/pocheck/internal/types"
)

// EntryFilter excludes entries the checker must not evaluate: untranslated
// entries, entries flagged "fixed", and (unless configured otherwise)
// entries flagged "obsolete".
type EntryFilter struct {
	includeObsolete bool
}

// New creates an entry filter from the active configuration.
func New(cfg *config.Config) *EntryFilter {
	return &EntryFilter{includeObsolete: cfg.IncludeObsolete}
}

// Eligible reports whether a single entry is a checking candidate.
func (f *EntryFilter) Eligible(e *types.Entry) bool {
	if !e.IsTranslated() {
		return false
	}
	if e.HasFlag(types.FlagFixed) {
		return false
	}
	if e.HasFlag(types.FlagObsolete) && !f.includeObsolete {
		return false
	}

	return true
}

// Candidates returns the eligible entries in their original order. The
// result is a fresh slice; calling Candidates again on the same input
// returns the same sequence.
func (f *EntryFilter) Candidates(entries []*types.Entry) []*types.Entry {
	candidates := make([]*types.Entry, 0, len(entries))
	for _, e := range entries {
		if f.Eligible(e) {
			candidates = append(candidates, e)
		}
	}

	return candidates
}
