package checks

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/net/html"

	"github.com/sgpo-tools/pocheck/internal/config"
	"github.com/sgpo-tools/pocheck/internal/types"
)

// voidElements never take a closing tag and are excluded from the balance
// check (HTML5 void element list).
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"param": true, "source": true, "track": true, "wbr": true,
}

// HTMLChecker verifies tag identity and nesting structure between source and
// target text. Attribute content is never compared: attribute values such as
// links or alt text may legitimately change under translation.
type HTMLChecker struct{}

// Kind returns the HTML check kind.
func (c *HTMLChecker) Kind() types.CheckKind { return types.CheckHTML }

// Check extracts the ordered tag sequences of both texts with a tolerant
// scanner and reports:
//
//  1. tag-name multiset mismatches between source and target, and
//  2. open/close imbalance in the target alone — an unbalanced target
//     corrupts rendering even when the source is balanced.
//
// Under the lenient level, only the presence check (1) runs.
func (c *HTMLChecker) Check(entry *types.Entry, cfg *config.Config) []types.Finding {
	srcTags := extractTags(entry.Source)
	tgtTags := extractTags(entry.Target)

	var findings []types.Finding

	srcCounts := countTags(srcTags)
	tgtCounts := countTags(tgtTags)

	for _, key := range sortedTagUnion(srcCounts, tgtCounts) {
		sc, tc := srcCounts[key], tgtCounts[key]
		if sc == tc {
			continue
		}

		verb := "missing"
		diff := sc - tc
		if tc > sc {
			verb = "extra"
			diff = tc - sc
		}
		msg := fmt.Sprintf("%s HTML tag <%s> (%d time(s))", verb, key, diff)

		findings = append(findings, finding(entry, types.CheckHTML,
			types.SeverityError, msg, "<"+key+">"))
	}

	if cfg.Level != config.LevelLenient {
		findings = append(findings, checkTagStructure(entry, tgtTags)...)
	}

	return findings
}

type tagKind int

const (
	tagOpen tagKind = iota
	tagClose
	tagSelfClose
)

type tag struct {
	name string
	kind tagKind
}

// extractTags returns the ordered tag sequence of text. The tokenizer is
// tolerant: malformed markup yields whatever tags are recognizable and never
// fails.
func extractTags(text string) []tag {
	if !strings.ContainsRune(text, '<') {
		return nil
	}

	z := html.NewTokenizer(strings.NewReader(text))

	var tags []tag
	for {
		switch z.Next() {
		case html.ErrorToken:
			return tags
		case html.StartTagToken:
			name, _ := z.TagName()
			tags = append(tags, tag{name: string(name), kind: tagOpen})
		case html.EndTagToken:
			name, _ := z.TagName()
			tags = append(tags, tag{name: string(name), kind: tagClose})
		case html.SelfClosingTagToken:
			name, _ := z.TagName()
			tags = append(tags, tag{name: string(name), kind: tagSelfClose})
		}
	}
}

// countTags builds the tag-name multiset, keyed "name" for opening and
// self-closing tags and "/name" for closing tags.
func countTags(tags []tag) map[string]int {
	counts := make(map[string]int, len(tags))
	for _, t := range tags {
		key := t.name
		if t.kind == tagClose {
			key = "/" + t.name
		}
		counts[key]++
	}

	return counts
}

func sortedTagUnion(a, b map[string]int) []string {
	union := make(map[string]bool, len(a)+len(b))
	for k := range a {
		union[k] = true
	}
	for k := range b {
		union[k] = true
	}

	out := make([]string, 0, len(union))
	for k := range union {
		out = append(out, k)
	}
	sort.Strings(out)

	return out
}

// checkTagStructure performs a stack-based open/close match over the target
// tag sequence, reporting each violation independently.
func checkTagStructure(entry *types.Entry, tags []tag) []types.Finding {
	var findings []types.Finding
	var stack []string

	for _, t := range tags {
		switch t.kind {
		case tagOpen:
			if voidElements[t.name] {
				continue
			}
			stack = append(stack, t.name)
		case tagClose:
			if voidElements[t.name] {
				continue
			}
			if len(stack) == 0 {
				findings = append(findings, finding(entry, types.CheckHTML,
					types.SeverityError,
					fmt.Sprintf("closing tag </%s> without opening tag in target", t.name),
					"</"+t.name+">"))
				continue
			}
			top := stack[len(stack)-1]
			if top != t.name {
				findings = append(findings, finding(entry, types.CheckHTML,
					types.SeverityError,
					fmt.Sprintf("incorrect tag nesting in target: <%s> closed by </%s>", top, t.name),
					"</"+t.name+">"))
			}
			stack = stack[:len(stack)-1]
		case tagSelfClose:
			// self-closing tags never affect the stack
		}
	}

	for _, name := range stack {
		findings = append(findings, finding(entry, types.CheckHTML,
			types.SeverityError,
			fmt.Sprintf("unclosed tag <%s> in target", name),
			"<"+name+">"))
	}

	return findings
}
