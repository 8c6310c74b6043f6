// Package types provides common type definitions shared across the pocheck
// packages. This package contains the translation-entry domain model and the
// checker output types to avoid circular dependencies between packages.
package types

import "strings"

// Well-known entry flags. Flags are free-form strings in the PO format;
// these are the ones the checker itself interprets.
const (
	FlagFuzzy    = "fuzzy"
	FlagFixed    = "fixed"
	FlagObsolete = "obsolete"
)

// Entry is one source/target translation pair from the corpus.
//
// Entries are externally owned: the checker treats them as immutable input
// and expresses any requested changes as Directives instead of mutating the
// entry in place.
type Entry struct {
	// Key is the context key identifying the entry (msgctxt, falling back
	// to msgid when no context is present)
	Key string
	// Source is the untranslated text (msgid)
	Source string
	// Target is the translated text (msgstr)
	Target string
	// Flags holds the entry's flag set (e.g. "fuzzy", "fixed", "obsolete")
	Flags []string
	// Comment is the free-form translator comment attached to the entry
	Comment string
	// Index is the zero-based position of the entry in the original file
	// order; it drives deterministic report ordering
	Index int
	// Line is the 1-based line number of the entry in the source file,
	// zero when unknown
	Line int
}

// HasFlag reports whether the entry carries the named flag.
// Flag comparison is case-insensitive, matching gettext tooling.
func (e *Entry) HasFlag(name string) bool {
	for _, f := range e.Flags {
		if strings.EqualFold(f, name) {
			return true
		}
	}

	return false
}

// IsTranslated reports whether the entry has a non-blank target text.
func (e *Entry) IsTranslated() bool {
	return strings.TrimSpace(e.Target) != ""
}
