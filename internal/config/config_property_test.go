//go:build property
// +build property

package config

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// TestConfigProperties tests construction and validation properties of the
// configuration model.
func TestConfigProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	// Property: the lenient important set is a subset of every other
	// level's important set.
	properties.Property("lenient mandatory subset", prop.ForAll(
		func(levelIdx int) bool {
			level := []CheckLevel{LevelNormal, LevelStrict}[levelIdx%2]
			lenient := New(LevelLenient)
			other := New(level)
			for token := range lenient.ImportantEscapes {
				if !other.ImportantEscapes[token] {
					return false
				}
			}
			return true
		},
		gen.IntRange(0, 1),
	))

	// Property: strict leaves no token in the warning tier.
	properties.Property("strict promotes everything", prop.ForAll(
		func(token string) bool {
			cfg := New(LevelStrict, WithCustomEscape(`\`+token))
			return len(cfg.WarningOnlyEscapes) == 0 ||
				cfg.EscapeTierOf(`\`+token) == TierWarning
		},
		gen.RegexMatch(`^[a-z]$`),
	))

	// Property: ignore tokens survive construction regardless of level.
	properties.Property("language ignores independent of level", prop.ForAll(
		func(levelIdx int, token string) bool {
			level := []CheckLevel{LevelNormal, LevelStrict, LevelLenient}[levelIdx%3]
			cfg := New(level, WithIgnoreToken("ja", `\`+token))
			return cfg.IgnoredTokens("ja")[`\`+token]
		},
		gen.IntRange(0, 2),
		gen.RegexMatch(`^[a-z#%]$`),
	))

	// Property: validation is deterministic.
	properties.Property("validation consistency", prop.ForAll(
		func(lang string) bool {
			cfg1 := New(LevelNormal, WithLanguage(lang))
			cfg2 := New(LevelNormal, WithLanguage(lang))
			err1 := cfg1.Validate()
			err2 := cfg2.Validate()
			if (err1 == nil) != (err2 == nil) {
				return false
			}
			return err1 != nil || cfg1.Language == cfg2.Language
		},
		gen.OneConstOf("ja", "ja_JP", "zh-TW", "en", "", "not a language", "de-DE"),
	))

	properties.TestingRun(t)
}
