package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sgpo-tools/pocheck/internal/config"
	"github.com/sgpo-tools/pocheck/internal/types"
)

func entry(key, target string, flags ...string) *types.Entry {
	return &types.Entry{Key: key, Source: "source", Target: target, Flags: flags}
}

func TestEligible(t *testing.T) {
	tests := []struct {
		name            string
		entry           *types.Entry
		includeObsolete bool
		want            bool
	}{
		{name: "translated entry", entry: entry("a", "translated"), want: true},
		{name: "empty target", entry: entry("a", ""), want: false},
		{name: "whitespace target", entry: entry("a", "  \n "), want: false},
		{name: "fixed flag", entry: entry("a", "translated", "fixed"), want: false},
		{name: "fixed flag uppercase", entry: entry("a", "translated", "Fixed"), want: false},
		{name: "obsolete excluded by default", entry: entry("a", "translated", "obsolete"), want: false},
		{name: "obsolete included when configured", entry: entry("a", "translated", "obsolete"), includeObsolete: true, want: true},
		{name: "fuzzy is still checked", entry: entry("a", "translated", "fuzzy"), want: true},
		{name: "fixed wins over include-obsolete", entry: entry("a", "translated", "fixed", "obsolete"), includeObsolete: true, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New(config.LevelNormal, config.WithIncludeObsolete(tt.includeObsolete))
			f := New(cfg)
			assert.Equal(t, tt.want, f.Eligible(tt.entry))
		})
	}
}

func TestCandidatesOrderPreservingAndRestartable(t *testing.T) {
	entries := []*types.Entry{
		entry("first", "ok"),
		entry("skipped-empty", ""),
		entry("second", "ok"),
		entry("skipped-fixed", "ok", "fixed"),
		entry("third", "ok"),
	}

	f := New(config.Default())

	first := f.Candidates(entries)
	second := f.Candidates(entries)

	require.Len(t, first, 3)
	assert.Equal(t, "first", first[0].Key)
	assert.Equal(t, "second", first[1].Key)
	assert.Equal(t, "third", first[2].Key)
	assert.Equal(t, first, second)
}
