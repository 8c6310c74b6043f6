package checks

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/sgpo-tools/pocheck/internal/config"
	"github.com/sgpo-tools/pocheck/internal/types"
)

// The four placeholder extraction grammars. Each is applied independently
// and the findings are unioned.
var (
	// C-style conversion specifiers: %d, %s, %5.2f, %#x, ... ("%%" is a
	// literal percent and excluded after matching). Positional forms are
	// not matched here: the '$' after the index digits fails the match.
	cFormatRe = regexp.MustCompile(`%[-+ #0]*[0-9]*(?:\.[0-9]+)?[hlLqjzt]{0,2}[diouxXeEfFgGaAcspb%]`)

	// Positional specifiers: %1$d, %2$s, ...
	positionalRe = regexp.MustCompile(`%([0-9]+)\$[-+ #0]*[0-9]*(?:\.[0-9]+)?([diouxXeEfFgGaAcspb])`)

	// Brace specifiers: {name}, {0}, {user.name}
	braceRe = regexp.MustCompile(`\{[A-Za-z0-9_][A-Za-z0-9_.]*\}`)

	// Template specifiers: ${variable}
	templateRe = regexp.MustCompile(`\$\{[^}{]+\}`)
)

// PlaceholderChecker verifies that every runtime-substitution placeholder of
// the source survives into the target, and that the target introduces none
// of its own (a guard against cross-entry copy errors).
type PlaceholderChecker struct{}

// Kind returns the placeholder check kind.
func (c *PlaceholderChecker) Kind() types.CheckKind { return types.CheckPlaceholder }

// Check applies the four grammars and unions their findings. Reordering
// between source and target is always permitted; for positional specifiers
// the set of index numbers must be identical, and conversion-type agreement
// at a shared index is enforced only when the configuration requests it.
func (c *PlaceholderChecker) Check(entry *types.Entry, cfg *config.Config) []types.Finding {
	var findings []types.Finding

	// Positional specifiers are compared by index set, not by token.
	findings = append(findings, c.checkPositional(entry, cfg)...)

	// Template matches are masked before the brace grammar runs so that
	// "${var}" is not double-counted as "{var}".
	src := maskMatches(entry.Source, templateRe)
	tgt := maskMatches(entry.Target, templateRe)

	findings = append(findings, c.comparePresence(entry, "placeholder",
		extractCFormat(src), extractCFormat(tgt))...)
	findings = append(findings, c.comparePresence(entry, "placeholder",
		braceRe.FindAllString(src, -1), braceRe.FindAllString(tgt, -1))...)
	findings = append(findings, c.comparePresence(entry, "template placeholder",
		templateRe.FindAllString(entry.Source, -1), templateRe.FindAllString(entry.Target, -1))...)

	return findings
}

// comparePresence reports a dropped-placeholder error for every source token
// absent from the target and an introduced-placeholder error for every
// target token absent from the source.
func (c *PlaceholderChecker) comparePresence(entry *types.Entry, label string, srcTokens, tgtTokens []string) []types.Finding {
	srcSet := toSet(srcTokens)
	tgtSet := toSet(tgtTokens)

	var findings []types.Finding

	for _, token := range sortedKeys(srcSet) {
		if !tgtSet[token] {
			findings = append(findings, finding(entry, types.CheckPlaceholder,
				types.SeverityError,
				fmt.Sprintf("dropped %s '%s'", label, token), token))
		}
	}
	for _, token := range sortedKeys(tgtSet) {
		if !srcSet[token] {
			findings = append(findings, finding(entry, types.CheckPlaceholder,
				types.SeverityError,
				fmt.Sprintf("introduced %s '%s'", label, token), token))
		}
	}

	return findings
}

// checkPositional compares the index sets of positional specifiers.
// Reordering is permitted, but a mismatched index set is an error even when
// specifier counts match. Conversion-type agreement at a shared index is an
// explicit configuration choice.
func (c *PlaceholderChecker) checkPositional(entry *types.Entry, cfg *config.Config) []types.Finding {
	srcSpecs := positionalRe.FindAllStringSubmatch(entry.Source, -1)
	tgtSpecs := positionalRe.FindAllStringSubmatch(entry.Target, -1)

	if len(srcSpecs) == 0 && len(tgtSpecs) == 0 {
		return nil
	}

	srcIdx := indexVerbs(srcSpecs)
	tgtIdx := indexVerbs(tgtSpecs)

	var findings []types.Finding

	for _, idx := range sortedKeys(setOf(srcIdx)) {
		if _, ok := tgtIdx[idx]; !ok {
			findings = append(findings, finding(entry, types.CheckPlaceholder,
				types.SeverityError,
				fmt.Sprintf("dropped positional placeholder %%%s$", idx), "%"+idx+"$"))
		}
	}
	for _, idx := range sortedKeys(setOf(tgtIdx)) {
		if _, ok := srcIdx[idx]; !ok {
			findings = append(findings, finding(entry, types.CheckPlaceholder,
				types.SeverityError,
				fmt.Sprintf("introduced positional placeholder %%%s$", idx), "%"+idx+"$"))
		}
	}

	if cfg.PositionalTypeCheck {
		for _, idx := range sortedKeys(setOf(srcIdx)) {
			sv, tv := srcIdx[idx], tgtIdx[idx]
			if tv != "" && sv != tv {
				findings = append(findings, finding(entry, types.CheckPlaceholder,
					types.SeverityError,
					fmt.Sprintf("positional placeholder %%%s$ conversion type changed from %%%s$%s to %%%s$%s",
						idx, idx, sv, idx, tv),
					"%"+idx+"$"+tv))
			}
		}
	}

	return findings
}

// extractCFormat returns the C-style conversion specifiers of text,
// excluding the "%%" literal.
func extractCFormat(text string) []string {
	matches := cFormatRe.FindAllString(text, -1)

	out := matches[:0]
	for _, m := range matches {
		if !strings.HasSuffix(m, "%") {
			out = append(out, m)
		}
	}

	return out
}

// indexVerbs maps positional index -> conversion verb. When an index occurs
// more than once the last verb wins; the index set is what matters.
func indexVerbs(specs [][]string) map[string]string {
	verbs := make(map[string]string, len(specs))
	for _, m := range specs {
		verbs[m[1]] = m[2]
	}

	return verbs
}

func maskMatches(text string, re *regexp.Regexp) string {
	return re.ReplaceAllStringFunc(text, func(m string) string {
		return strings.Repeat(" ", len(m))
	})
}

func toSet(tokens []string) map[string]bool {
	set := make(map[string]bool, len(tokens))
	for _, t := range tokens {
		set[t] = true
	}

	return set
}

func setOf(m map[string]string) map[string]bool {
	set := make(map[string]bool, len(m))
	for k := range m {
		set[k] = true
	}

	return set
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return keys
}
