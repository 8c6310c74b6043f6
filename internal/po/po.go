// Package po implements the corpus collaborator: ordered reading of gettext
// PO files, flag and comment mutation, and write-after-validate saving.
//
// The checker core never touches this package directly; the orchestrator
// loads entries here, runs the pass, and applies the resulting directives
// back through this package only after the pass completed successfully.
package po

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sgpo-tools/pocheck/internal/config"
	"github.com/sgpo-tools/pocheck/internal/errors"
	"github.com/sgpo-tools/pocheck/internal/types"
)

// Entry is one PO file entry with enough structure to round-trip the file.
type Entry struct {
	TranslatorComments []string // "# " lines
	ExtractedComments  []string // "#." lines
	References         []string // "#:" lines
	Flags              []string // "#," entries
	Msgctxt            string
	HasCtxt            bool
	Msgid              string
	MsgidPlural        string
	HasPlural          bool
	Msgstr             string
	MsgstrPlural       []string
	Obsolete           bool // "#~" entries
	Line               int
}

// File is a parsed PO file: a header entry plus the ordered translation
// entries.
type File struct {
	Path string
	// Header is the msgid "" metadata entry, nil when the file has none
	Header *Entry
	// Entries holds the translation entries in file order
	Entries []*Entry
	// Language is the base language code from the header metadata,
	// falling back to the file name ("ja.po", "app_ja.po")
	Language string
}

// Load parses the PO file at path.
func Load(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.NewIOError("po_read", fmt.Sprintf("failed to open %s", path), err)
	}
	defer f.Close()

	file, err := parse(bufio.NewScanner(f))
	if err != nil {
		return nil, err
	}
	file.Path = path
	file.Language = detectLanguage(file, path)

	return file, nil
}

// TranslationEntries converts the file's entries to the checker's domain
// model, in file order. The header entry is never included. Obsolete file
// entries carry the "obsolete" flag so the entry filter can decide on them.
func (f *File) TranslationEntries() []*types.Entry {
	out := make([]*types.Entry, 0, len(f.Entries))
	for i, e := range f.Entries {
		key := e.Msgctxt
		if key == "" {
			key = e.Msgid
		}

		flags := append([]string(nil), e.Flags...)
		if e.Obsolete {
			flags = append(flags, types.FlagObsolete)
		}

		out = append(out, &types.Entry{
			Key:     key,
			Source:  e.Msgid,
			Target:  e.Msgstr,
			Flags:   flags,
			Comment: strings.Join(e.TranslatorComments, "\n"),
			Index:   i,
			Line:    e.Line,
		})
	}

	return out
}

// ApplyDirectives annotates entries per the checker's mutation directives.
// Previously written checker comments (lines carrying prefix) are stripped
// from every entry first, so repeated runs replace their annotations instead
// of accumulating them, and entries that have since been fixed lose their
// stale annotations.
func (f *File) ApplyDirectives(directives []types.Directive, prefix string) {
	for _, e := range f.Entries {
		e.TranslatorComments = stripPrefixed(e.TranslatorComments, prefix)
	}

	for _, d := range directives {
		if d.EntryIndex < 0 || d.EntryIndex >= len(f.Entries) {
			continue
		}
		e := f.Entries[d.EntryIndex]

		if d.SetFuzzy && !hasFlag(e.Flags, types.FlagFuzzy) {
			e.Flags = append(e.Flags, types.FlagFuzzy)
		}
		if d.AppendComment != "" {
			e.TranslatorComments = append(e.TranslatorComments,
				strings.Split(d.AppendComment, "\n")...)
		}
	}
}

// Save writes the file back to its path. The content is built fully in
// memory and written in one operation, so a failed save never leaves a
// partially annotated file behind.
func (f *File) Save() error {
	return f.SaveAs(f.Path)
}

// SaveAs writes the file to the given path.
func (f *File) SaveAs(path string) error {
	var b strings.Builder

	if f.Header != nil {
		writeEntry(&b, f.Header)
	}
	for _, e := range f.Entries {
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		writeEntry(&b, e)
	}

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return errors.NewIOError("po_write", fmt.Sprintf("failed to write %s", path), err)
	}

	return nil
}

// ExportErrors writes a sibling file containing only the entries whose
// indexes are listed, preserving the original header. The export path is
// derived from the source path ("ja.po" -> "ja_errors.po").
func (f *File) ExportErrors(indexes map[int]bool) (string, error) {
	if len(indexes) == 0 {
		return "", nil
	}

	export := &File{
		Path:     exportPath(f.Path),
		Header:   f.Header,
		Language: f.Language,
	}
	for i, e := range f.Entries {
		if indexes[i] {
			export.Entries = append(export.Entries, e)
		}
	}

	if err := export.SaveAs(export.Path); err != nil {
		return "", err
	}

	return export.Path, nil
}

func exportPath(path string) string {
	ext := filepath.Ext(path)

	return strings.TrimSuffix(path, ext) + "_errors" + ext
}

func stripPrefixed(lines []string, prefix string) []string {
	if prefix == "" {
		return lines
	}

	kept := lines[:0]
	for _, line := range lines {
		if !strings.HasPrefix(line, prefix) {
			kept = append(kept, line)
		}
	}

	return kept
}

func hasFlag(flags []string, name string) bool {
	for _, f := range flags {
		if strings.EqualFold(f, name) {
			return true
		}
	}

	return false
}

// detectLanguage reads the Language header field, falling back to the file
// name pattern used in this corpus ("ja.po", "app_ja.po"). The result is a
// guess derived from data, never from the caller: a candidate that is not a
// valid language code is discarded rather than surfaced as a fault, so a
// file like "strings_v2.po" is simply checked with no ignore overlay.
func detectLanguage(f *File, path string) string {
	if f.Header != nil {
		for _, line := range strings.Split(f.Header.Msgstr, "\n") {
			if rest, ok := strings.CutPrefix(line, "Language:"); ok {
				if code, err := config.NormalizeLanguage(strings.TrimSpace(rest)); err == nil && code != "" {
					return code
				}
			}
		}
	}

	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	parts := strings.Split(base, "_")
	for _, p := range []string{parts[0], parts[len(parts)-1]} {
		if len(p) != 2 || p != strings.ToLower(p) {
			continue
		}
		if code, err := config.NormalizeLanguage(p); err == nil {
			return code
		}
	}

	return ""
}
