package checks

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sgpo-tools/pocheck/internal/config"
	"github.com/sgpo-tools/pocheck/internal/types"
)

// escapeIndicators is the fixed set of characters the recognizer accepts
// after a backslash. Custom tokens from configuration extend this set.
const escapeIndicators = `nt"\r()*[]`

// EscapeChecker compares escape-sequence occurrence counts between source
// and target text.
type EscapeChecker struct{}

// Kind returns the escape check kind.
func (c *EscapeChecker) Kind() types.CheckKind { return types.CheckEscape }

// Check tokenizes both texts with the shared recognizer and reports a
// finding for every token kind whose counts differ. Important tokens yield
// errors, all others warnings; tokens ignored for the entry's language are
// excluded from counting entirely.
func (c *EscapeChecker) Check(entry *types.Entry, cfg *config.Config) []types.Finding {
	ignored := cfg.IgnoredTokens(cfg.Language)

	srcTokens, srcMalformed := tokenizeEscapes(entry.Source, cfg)
	tgtTokens, tgtMalformed := tokenizeEscapes(entry.Target, cfg)

	var findings []types.Finding

	for _, m := range srcMalformed {
		findings = append(findings, finding(entry, types.CheckMalformed,
			types.SeverityWarning, m.message+" in source text", m.snippet))
	}
	for _, m := range tgtMalformed {
		findings = append(findings, finding(entry, types.CheckMalformed,
			types.SeverityWarning, m.message+" in target text", m.snippet))
	}

	srcCounts := countTokens(srcTokens)
	tgtCounts := countTokens(tgtTokens)

	for _, token := range sortedTokenUnion(srcCounts, tgtCounts) {
		if ignored[token] {
			continue
		}

		sc, tc := srcCounts[token], tgtCounts[token]
		if sc == tc {
			continue
		}

		severity := types.SeverityWarning
		if cfg.EscapeTierOf(token) == config.TierImportant {
			severity = types.SeverityError
		}

		verb := "missing"
		if tc > sc {
			verb = "extra"
		}
		msg := fmt.Sprintf("%s escape sequence '%s' (source has %d, target has %d)",
			verb, token, sc, tc)

		findings = append(findings, finding(entry, types.CheckEscape, severity, msg, token))
	}

	return findings
}

type escapeToken struct {
	token string
	pos   int
}

type malformedToken struct {
	message string
	snippet string
}

// tokenizeEscapes scans text for backslash tokens using the fixed indicator
// set plus configured custom tokens. Tokens inside non-literal context (see
// InNonLiteralContext) are excluded. A truncated token at end of text is
// reported as malformed rather than counted.
func tokenizeEscapes(text string, cfg *config.Config) ([]escapeToken, []malformedToken) {
	var tokens []escapeToken
	var malformed []malformedToken

	custom := sortedCustomTokens(cfg)

	i := 0
	for i < len(text) {
		if text[i] != '\\' {
			i++
			continue
		}

		if tok, ok := matchCustom(text[i:], custom); ok {
			if !InNonLiteralContext(text, i) {
				tokens = append(tokens, escapeToken{token: tok, pos: i})
			}
			i += len(tok)
			continue
		}

		if i+1 >= len(text) {
			malformed = append(malformed, malformedToken{
				message: "truncated escape sequence at end of text",
				snippet: snippetAround(text, i),
			})
			break
		}

		next := text[i+1]

		if next == 'u' {
			if !hasHexDigits(text, i+2, 4) {
				malformed = append(malformed, malformedToken{
					message: `truncated \u escape sequence`,
					snippet: snippetAround(text, i),
				})
				i += 2
				continue
			}
			if !InNonLiteralContext(text, i) {
				tokens = append(tokens, escapeToken{token: `\u`, pos: i})
			}
			i += 6
			continue
		}

		if strings.IndexByte(escapeIndicators, next) >= 0 {
			if !InNonLiteralContext(text, i) {
				tokens = append(tokens, escapeToken{token: `\` + string(next), pos: i})
			}
			i += 2
			continue
		}

		// Backslash before a character outside the indicator set is not
		// a recognized escape token.
		i++
	}

	return tokens, malformed
}

// sortedCustomTokens returns the configured custom tokens longest-first so
// that prefix matching is unambiguous.
func sortedCustomTokens(cfg *config.Config) []string {
	if len(cfg.CustomEscapes) == 0 {
		return nil
	}

	custom := make([]string, 0, len(cfg.CustomEscapes))
	for tok := range cfg.CustomEscapes {
		custom = append(custom, tok)
	}
	sort.Slice(custom, func(a, b int) bool {
		if len(custom[a]) != len(custom[b]) {
			return len(custom[a]) > len(custom[b])
		}
		return custom[a] < custom[b]
	})

	return custom
}

func matchCustom(rest string, custom []string) (string, bool) {
	for _, tok := range custom {
		if strings.HasPrefix(rest, tok) {
			return tok, true
		}
	}

	return "", false
}

func hasHexDigits(text string, from, n int) bool {
	if from+n > len(text) {
		return false
	}
	for i := from; i < from+n; i++ {
		c := text[i]
		isHex := (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
		if !isHex {
			return false
		}
	}

	return true
}

func countTokens(tokens []escapeToken) map[string]int {
	counts := make(map[string]int, len(tokens))
	for _, t := range tokens {
		counts[t.token]++
	}

	return counts
}

func sortedTokenUnion(a, b map[string]int) []string {
	union := make(map[string]bool, len(a)+len(b))
	for tok := range a {
		union[tok] = true
	}
	for tok := range b {
		union[tok] = true
	}

	out := make([]string, 0, len(union))
	for tok := range union {
		out = append(out, tok)
	}
	sort.Strings(out)

	return out
}

// snippetAround extracts a short window of text centered on pos for use as
// a finding snippet.
func snippetAround(text string, pos int) string {
	const radius = 15

	start := pos - radius
	if start < 0 {
		start = 0
	}
	end := pos + radius
	if end > len(text) {
		end = len(text)
	}

	return text[start:end]
}
