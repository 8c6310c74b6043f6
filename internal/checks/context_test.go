package checks

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// The suppression predicate is approximate by design; these tests pin down
// its accept/reject behavior so regressions are visible.
func TestInNonLiteralContext(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		marker string // substring whose first byte is probed
		want   bool
	}{
		{
			name:   "inside backtick code span",
			text:   "use `\\n` to break lines",
			marker: `\n`,
			want:   true,
		},
		{
			name:   "outside backtick span",
			text:   "a literal \\n after `code`",
			marker: `\n`,
			want:   false,
		},
		{
			name:   "unterminated backtick is literal",
			text:   "odd `tick \\n stays literal",
			marker: `\n`,
			want:   false,
		},
		{
			name:   "inside regex span",
			text:   `matches /\t+/ in input`,
			marker: `\t`,
			want:   true,
		},
		{
			name:   "regex span at start of text",
			text:   `/\n/ matches a newline`,
			marker: `\n`,
			want:   true,
		},
		{
			name:   "url double slash does not open a span",
			text:   `see https://example.com/docs \n end`,
			marker: `\n`,
			want:   false,
		},
		{
			name:   "slash mid-word does not open a span",
			text:   `either/or \n stays literal`,
			marker: `\n`,
			want:   false,
		},
		{
			name:   "unclosed slash is literal",
			text:   `1/2 cup \n of flour`,
			marker: `\n`,
			want:   false,
		},
		{
			name:   "windows path is literal",
			text:   `Path: C:\(temp\)`,
			marker: `\(`,
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pos := strings.Index(tt.text, tt.marker)
			assert.GreaterOrEqual(t, pos, 0, "marker must exist in text")
			assert.Equal(t, tt.want, InNonLiteralContext(tt.text, pos))
		})
	}
}

func TestInNonLiteralContextBounds(t *testing.T) {
	assert.False(t, InNonLiteralContext("abc", -1))
	assert.False(t, InNonLiteralContext("abc", 3))
	assert.False(t, InNonLiteralContext("", 0))
}
