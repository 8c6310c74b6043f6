package checks

// InNonLiteralContext reports whether the character at pos occurs inside a
// recognizably non-literal span of text, where a backslash describes a
// pattern rather than a literal control character. Tokens in such spans are
// excluded from escape-sequence counting entirely.
//
// Two span forms are recognized:
//
//   - backtick code spans: `...`
//   - slash-delimited regex spans: /.../ where the opening slash starts the
//     text or follows whitespace, and a closing slash is followed by
//     whitespace, punctuation, or end of text
//
// The heuristic is approximate on purpose; its exact accept/reject behavior
// is pinned down by the tests in context_test.go.
func InNonLiteralContext(text string, pos int) bool {
	if pos < 0 || pos >= len(text) {
		return false
	}

	return inBacktickSpan(text, pos) || inRegexSpan(text, pos)
}

func inBacktickSpan(text string, pos int) bool {
	open := -1
	for i := 0; i < len(text); i++ {
		if text[i] != '`' {
			continue
		}
		if open < 0 {
			open = i
		} else {
			if pos > open && pos < i {
				return true
			}
			open = -1
		}
	}

	return false
}

func inRegexSpan(text string, pos int) bool {
	for i := 0; i < len(text); i++ {
		if text[i] != '/' || !opensRegex(text, i) {
			continue
		}
		end := closingSlash(text, i+1)
		if end < 0 {
			continue
		}
		if pos > i && pos < end {
			return true
		}
		i = end
	}

	return false
}

// opensRegex reports whether the slash at i can open a regex span: it must
// start the text or follow whitespace, and must not form a "//" pair as in
// URLs.
func opensRegex(text string, i int) bool {
	if i > 0 && !isSpace(text[i-1]) {
		return false
	}
	if i+1 < len(text) && text[i+1] == '/' {
		return false
	}

	return true
}

// closingSlash finds the unescaped slash terminating a span opened just
// before from, requiring it to be followed by whitespace, punctuation, or
// end of text. Returns -1 when no closing slash exists.
func closingSlash(text string, from int) int {
	for i := from; i < len(text); i++ {
		if text[i] != '/' {
			continue
		}
		if i > 0 && text[i-1] == '\\' {
			continue
		}
		if i+1 == len(text) || isSpace(text[i+1]) || isClosingPunct(text[i+1]) {
			return i
		}
	}

	return -1
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isClosingPunct(c byte) bool {
	switch c {
	case '.', ',', ';', ':', ')', ']', '}', '!', '?':
		return true
	default:
		return false
	}
}
