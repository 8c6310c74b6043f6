package types

import "fmt"

// CheckKind identifies which rule evaluator produced a Finding. It is a
// closed set: checkers are dispatched through a fixed table keyed by kind,
// never by runtime string matching.
type CheckKind int

const (
	// CheckEscape is the escape-sequence consistency check
	CheckEscape CheckKind = iota
	// CheckHTML is the HTML tag consistency and balance check
	CheckHTML
	// CheckPlaceholder is the runtime-substitution placeholder check
	CheckPlaceholder
	// CheckMalformed marks findings about input the tokenizers could not
	// fully interpret (e.g. a truncated escape token at end of text)
	CheckMalformed
	// CheckInternal marks findings produced when evaluating an entry
	// failed internally; the entry is reported and the pass continues
	CheckInternal
)

// String returns the stable wire name of the check kind.
func (k CheckKind) String() string {
	switch k {
	case CheckEscape:
		return "escape"
	case CheckHTML:
		return "html"
	case CheckPlaceholder:
		return "placeholder"
	case CheckMalformed:
		return "malformed"
	case CheckInternal:
		return "internal"
	default:
		return "unknown"
	}
}

// ParseCheckKind maps a user-supplied check name to its kind. Only the three
// selectable checks are accepted; "malformed" and "internal" are produced by
// the engine and cannot be requested.
func ParseCheckKind(name string) (CheckKind, error) {
	switch name {
	case "escape":
		return CheckEscape, nil
	case "html":
		return CheckHTML, nil
	case "placeholder":
		return CheckPlaceholder, nil
	default:
		return 0, fmt.Errorf("unknown check kind %q (supported: escape, html, placeholder)", name)
	}
}

// MarshalText implements encoding.TextMarshaler for JSON/YAML output.
func (k CheckKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *CheckKind) UnmarshalText(text []byte) error {
	switch string(text) {
	case "escape":
		*k = CheckEscape
	case "html":
		*k = CheckHTML
	case "placeholder":
		*k = CheckPlaceholder
	case "malformed":
		*k = CheckMalformed
	case "internal":
		*k = CheckInternal
	default:
		return fmt.Errorf("unknown check kind %q", text)
	}

	return nil
}

// Severity classifies a Finding.
type Severity int

const (
	// SeverityWarning marks a mismatch worth reviewing but not shipping-blocking
	SeverityWarning Severity = iota
	// SeverityError marks a mismatch that must be fixed before the
	// translation ships
	SeverityError
)

// String returns the stable wire name of the severity.
func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler for JSON/YAML output.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Severity) UnmarshalText(text []byte) error {
	switch string(text) {
	case "error":
		*s = SeverityError
	case "warning":
		*s = SeverityWarning
	default:
		return fmt.Errorf("unknown severity %q", text)
	}

	return nil
}

// Finding is one detected inconsistency between a source and target text.
// Findings are immutable once created and never mutate the entry they
// describe.
type Finding struct {
	// EntryKey identifies the entry the finding belongs to
	EntryKey string `json:"entry_key" yaml:"entry_key"`
	// EntryIndex is the original file position of the entry
	EntryIndex int `json:"entry_index" yaml:"entry_index"`
	// Kind names the check that produced the finding
	Kind CheckKind `json:"check_kind" yaml:"check_kind"`
	// Severity is the classified severity after level promotion/suppression
	Severity Severity `json:"severity" yaml:"severity"`
	// Message is the human-readable description of the mismatch
	Message string `json:"message" yaml:"message"`
	// Snippet locates the mismatch in the offending text, when available
	Snippet string `json:"snippet,omitempty" yaml:"snippet,omitempty"`
}

// EntryReport groups the findings of a single entry.
type EntryReport struct {
	Key      string    `json:"key" yaml:"key"`
	Index    int       `json:"index" yaml:"index"`
	Line     int       `json:"line,omitempty" yaml:"line,omitempty"`
	Findings []Finding `json:"findings" yaml:"findings"`
}

// Errors returns the number of error-severity findings for the entry.
func (r *EntryReport) Errors() int {
	n := 0
	for _, f := range r.Findings {
		if f.Severity == SeverityError {
			n++
		}
	}

	return n
}

// Warnings returns the number of warning-severity findings for the entry.
func (r *EntryReport) Warnings() int {
	n := 0
	for _, f := range r.Findings {
		if f.Severity == SeverityWarning {
			n++
		}
	}

	return n
}

// Report is the ordered result of one check pass: findings grouped by entry,
// entries in original file order.
type Report struct {
	// Checked is the number of candidate entries evaluated
	Checked int `json:"checked" yaml:"checked"`
	// Skipped is the number of entries excluded by the entry filter
	Skipped int `json:"skipped" yaml:"skipped"`
	// Entries lists only entries with at least one finding
	Entries []EntryReport `json:"entries" yaml:"entries"`
}

// TotalErrors returns the number of error findings across all entries.
func (r *Report) TotalErrors() int {
	n := 0
	for i := range r.Entries {
		n += r.Entries[i].Errors()
	}

	return n
}

// TotalWarnings returns the number of warning findings across all entries.
func (r *Report) TotalWarnings() int {
	n := 0
	for i := range r.Entries {
		n += r.Entries[i].Warnings()
	}

	return n
}

// HasErrors reports whether any entry has an error finding.
func (r *Report) HasErrors() bool {
	return r.TotalErrors() > 0
}

// Directive is a requested mutation of one entry, produced by the report
// assembler and persisted by the orchestrator's collaborator. Directives are
// idempotent: applying one twice must not duplicate flags or comments.
type Directive struct {
	// EntryKey identifies the entry to annotate
	EntryKey string `json:"entry_key" yaml:"entry_key"`
	// EntryIndex is the original file position of the entry
	EntryIndex int `json:"entry_index" yaml:"entry_index"`
	// SetFuzzy requests the "fuzzy" flag be set on the entry
	SetFuzzy bool `json:"set_fuzzy" yaml:"set_fuzzy"`
	// AppendComment is a checker comment to append to the entry's
	// translator comment, empty when no comment is requested
	AppendComment string `json:"append_comment,omitempty" yaml:"append_comment,omitempty"`
}
