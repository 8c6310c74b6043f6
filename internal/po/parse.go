package po

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"github.com/sgpo-tools/pocheck/internal/errors"
)

// parse reads a PO file line by line. The parser is tolerant: unknown
// comment markers are kept as translator comments, and blank-line placement
// is normalized on save.
func parse(scanner *bufio.Scanner) (*File, error) {
	// PO entries can hold long metadata blocks.
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	file := &File{}
	cur := &Entry{}
	started := false
	lineNum := 0

	// section tracks which string the next continuation line extends.
	const (
		secNone = iota
		secCtxt
		secID
		secIDPlural
		secStr
	)
	section := secNone
	strIndex := 0

	flush := func() {
		if !started {
			return
		}
		if cur.Msgid == "" && !cur.HasCtxt && file.Header == nil && !cur.Obsolete {
			file.Header = cur
		} else {
			file.Entries = append(file.Entries, cur)
		}
		cur = &Entry{}
		started = false
		section = secNone
	}

	for scanner.Scan() {
		lineNum++
		line := strings.TrimRight(scanner.Text(), "\r")

		obsolete := false
		if rest, ok := strings.CutPrefix(line, "#~"); ok {
			obsolete = true
			line = strings.TrimPrefix(rest, " ")
		}

		trimmed := strings.TrimSpace(line)

		switch {
		case trimmed == "":
			flush()

		case strings.HasPrefix(trimmed, "#,"):
			startEntry(cur, &started, lineNum, obsolete)
			for _, flag := range strings.Split(trimmed[2:], ",") {
				if f := strings.TrimSpace(flag); f != "" {
					cur.Flags = append(cur.Flags, f)
				}
			}

		case strings.HasPrefix(trimmed, "#."):
			startEntry(cur, &started, lineNum, obsolete)
			cur.ExtractedComments = append(cur.ExtractedComments, strings.TrimSpace(trimmed[2:]))

		case strings.HasPrefix(trimmed, "#:"):
			startEntry(cur, &started, lineNum, obsolete)
			cur.References = append(cur.References, strings.TrimSpace(trimmed[2:]))

		case strings.HasPrefix(trimmed, "#"):
			startEntry(cur, &started, lineNum, obsolete)
			cur.TranslatorComments = append(cur.TranslatorComments,
				strings.TrimPrefix(strings.TrimPrefix(trimmed, "#"), " "))

		case strings.HasPrefix(trimmed, "msgctxt "):
			startEntry(cur, &started, lineNum, obsolete)
			cur.HasCtxt = true
			cur.Msgctxt = extractString(trimmed[len("msgctxt "):])
			section = secCtxt

		case strings.HasPrefix(trimmed, "msgid_plural "):
			startEntry(cur, &started, lineNum, obsolete)
			cur.HasPlural = true
			cur.MsgidPlural = extractString(trimmed[len("msgid_plural "):])
			section = secIDPlural

		case strings.HasPrefix(trimmed, "msgid "):
			startEntry(cur, &started, lineNum, obsolete)
			cur.Msgid = extractString(trimmed[len("msgid "):])
			section = secID

		case strings.HasPrefix(trimmed, "msgstr["):
			startEntry(cur, &started, lineNum, obsolete)
			end := strings.IndexByte(trimmed, ']')
			if end < 0 {
				return nil, parseError(lineNum, trimmed)
			}
			idx, err := strconv.Atoi(trimmed[len("msgstr["):end])
			if err != nil || idx < 0 {
				return nil, parseError(lineNum, trimmed)
			}
			for len(cur.MsgstrPlural) <= idx {
				cur.MsgstrPlural = append(cur.MsgstrPlural, "")
			}
			cur.MsgstrPlural[idx] = extractString(trimmed[end+1:])
			if idx == 0 {
				cur.Msgstr = cur.MsgstrPlural[0]
			}
			section = secStr
			strIndex = idx

		case strings.HasPrefix(trimmed, "msgstr "):
			startEntry(cur, &started, lineNum, obsolete)
			cur.Msgstr = extractString(trimmed[len("msgstr "):])
			section = secStr
			strIndex = -1

		case strings.HasPrefix(trimmed, `"`):
			if !started {
				return nil, parseError(lineNum, trimmed)
			}
			part := extractString(trimmed)
			switch section {
			case secCtxt:
				cur.Msgctxt += part
			case secID:
				cur.Msgid += part
			case secIDPlural:
				cur.MsgidPlural += part
			case secStr:
				if strIndex >= 0 {
					cur.MsgstrPlural[strIndex] += part
					if strIndex == 0 {
						cur.Msgstr = cur.MsgstrPlural[0]
					}
				} else {
					cur.Msgstr += part
				}
			default:
				return nil, parseError(lineNum, trimmed)
			}

		default:
			return nil, parseError(lineNum, trimmed)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, errors.NewIOError("po_read", "failed to read corpus", err)
	}
	flush()

	return file, nil
}

func startEntry(cur *Entry, started *bool, line int, obsolete bool) {
	if !*started {
		*started = true
		cur.Line = line
	}
	if obsolete {
		cur.Obsolete = true
	}
}

func parseError(line int, text string) error {
	return errors.NewValidationError("po_parse",
		fmt.Sprintf("malformed PO line %d: %q", line, text))
}

// extractString unquotes a PO string value, resolving the PO-level escapes.
// A backslash sequence that survives this step (e.g. `\\n` in the file) is a
// literal backslash token in the logical string, which is exactly what the
// escape checker counts.
func extractString(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`) {
		s = s[1 : len(s)-1]
	}

	var b strings.Builder
	b.Grow(len(s))

	for i := 0; i < len(s); i++ {
		if s[i] != '\\' || i+1 >= len(s) {
			b.WriteByte(s[i])
			continue
		}
		i++
		switch s[i] {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		case '"':
			b.WriteByte('"')
		case '\\':
			b.WriteByte('\\')
		default:
			b.WriteByte('\\')
			b.WriteByte(s[i])
		}
	}

	return b.String()
}

// escapeString is the inverse of extractString.
func escapeString(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 8)

	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '\r':
			b.WriteString(`\r`)
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		default:
			b.WriteByte(s[i])
		}
	}

	return b.String()
}

// writeEntry serializes one entry in canonical field order.
func writeEntry(b *strings.Builder, e *Entry) {
	prefix := ""
	if e.Obsolete {
		prefix = "#~ "
	}

	for _, c := range e.TranslatorComments {
		fmt.Fprintf(b, "# %s\n", c)
	}
	for _, c := range e.ExtractedComments {
		fmt.Fprintf(b, "#. %s\n", c)
	}
	for _, r := range e.References {
		fmt.Fprintf(b, "#: %s\n", r)
	}
	if len(e.Flags) > 0 {
		fmt.Fprintf(b, "#, %s\n", strings.Join(e.Flags, ", "))
	}

	if e.HasCtxt {
		fmt.Fprintf(b, "%smsgctxt \"%s\"\n", prefix, escapeString(e.Msgctxt))
	}
	fmt.Fprintf(b, "%smsgid \"%s\"\n", prefix, escapeString(e.Msgid))
	if e.HasPlural {
		fmt.Fprintf(b, "%smsgid_plural \"%s\"\n", prefix, escapeString(e.MsgidPlural))
		for i, s := range e.MsgstrPlural {
			fmt.Fprintf(b, "%smsgstr[%d] \"%s\"\n", prefix, i, escapeString(s))
		}
		return
	}
	fmt.Fprintf(b, "%smsgstr \"%s\"\n", prefix, escapeString(e.Msgstr))
}
