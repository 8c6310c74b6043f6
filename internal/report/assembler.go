package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sgpo-tools/pocheck/internal/config"
	"github.com/sgpo-tools/pocheck/internal/types"
)

// Assemble groups classified findings by entry, preserving original file
// order. Only entries with at least one finding appear in the report.
// The grouping is a stable sort on the original entry index, so parallel and
// sequential evaluation produce byte-identical reports.
func Assemble(entries []*types.Entry, findings []types.Finding, checked, skipped int) *types.Report {
	byIndex := make(map[int][]types.Finding)
	for _, f := range findings {
		byIndex[f.EntryIndex] = append(byIndex[f.EntryIndex], f)
	}

	indexes := make([]int, 0, len(byIndex))
	for idx := range byIndex {
		indexes = append(indexes, idx)
	}
	sort.Ints(indexes)

	lineOf := make(map[int]*types.Entry, len(entries))
	for _, e := range entries {
		lineOf[e.Index] = e
	}

	reports := make([]types.EntryReport, 0, len(indexes))
	for _, idx := range indexes {
		group := byIndex[idx]
		er := types.EntryReport{
			Key:      group[0].EntryKey,
			Index:    idx,
			Findings: group,
		}
		if e, ok := lineOf[idx]; ok {
			er.Line = e.Line
		}
		reports = append(reports, er)
	}

	return &types.Report{
		Checked: checked,
		Skipped: skipped,
		Entries: reports,
	}
}

// BuildDirectives derives the mutation directives from a report per the
// output toggles: entries with at least one error finding get a set-fuzzy
// request and/or an appended checker comment recording the findings.
// Directives are idempotent by construction — the comment carries the
// configured prefix on every line so re-application can strip previous
// annotations instead of duplicating them.
func BuildDirectives(cfg *config.Config, rep *types.Report) []types.Directive {
	if !cfg.SetFuzzy && !cfg.AddComment {
		return nil
	}

	var directives []types.Directive
	for i := range rep.Entries {
		er := &rep.Entries[i]
		if er.Errors() == 0 {
			continue
		}

		d := types.Directive{
			EntryKey:   er.Key,
			EntryIndex: er.Index,
			SetFuzzy:   cfg.SetFuzzy,
		}
		if cfg.AddComment {
			d.AppendComment = formatComment(cfg.CommentPrefix, er)
		}
		directives = append(directives, d)
	}

	return directives
}

// formatComment renders an entry's findings as checker comment lines, every
// line carrying the prefix.
func formatComment(prefix string, er *types.EntryReport) string {
	var b strings.Builder

	writeSection := func(title string, severity types.Severity) {
		wroteHeader := false
		for _, f := range er.Findings {
			if f.Severity != severity {
				continue
			}
			if !wroteHeader {
				if b.Len() > 0 {
					b.WriteByte('\n')
				}
				fmt.Fprintf(&b, "%s === %s ===", prefix, title)
				wroteHeader = true
			}
			fmt.Fprintf(&b, "\n%s   [%s] %s", prefix, f.Kind, f.Message)
		}
	}

	writeSection("ERRORS", types.SeverityError)
	writeSection("WARNINGS", types.SeverityWarning)

	return b.String()
}
