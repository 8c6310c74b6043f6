// Package config provides the checker configuration model for pocheck using
// Viper for flexible configuration loading from files, environment variables,
// and command-line flags.
//
// A Config is built once per run from a level preset (strict, normal,
// lenient) plus language and per-run overrides, validated pre-flight, and
// read-only afterwards. There is no ambient global configuration: every
// checker receives the Config it should use explicitly.
package config

import (
	"github.com/sgpo-tools/pocheck/internal/types"
)

// CheckLevel is a named preset controlling which mismatches are reported and
// at what severity.
type CheckLevel int

const (
	// LevelNormal is the full rule set with the default error/warning split
	LevelNormal CheckLevel = iota
	// LevelStrict promotes warning-only escape mismatches to errors and
	// enables full structural checks
	LevelStrict
	// LevelLenient restricts escape checking to the minimal mandatory
	// subset and relaxes structural checks to presence-only
	LevelLenient
)

// String returns the stable name of the level.
func (l CheckLevel) String() string {
	switch l {
	case LevelStrict:
		return "strict"
	case LevelLenient:
		return "lenient"
	default:
		return "normal"
	}
}

// EscapeTier classifies an escape token for severity purposes.
type EscapeTier int

const (
	// TierImportant tokens produce error findings on any count mismatch
	TierImportant EscapeTier = iota
	// TierWarning tokens produce warning findings under normal, are
	// suppressed under lenient, and promoted to errors under strict
	TierWarning
)

// Config is the effective checker configuration for one run. Built once at
// run start and read-only thereafter; safe for concurrent readers.
type Config struct {
	// Level is the active check level preset
	Level CheckLevel
	// EnabledChecks lists the selected rule evaluators in dispatch order
	EnabledChecks []types.CheckKind
	// Language is the normalized base language code of the corpus under
	// check ("ja", "zh", ...); empty when unknown
	Language string

	// ImportantEscapes holds escape tokens whose count mismatch is always
	// an error (literal token spelling, e.g. `\n`)
	ImportantEscapes map[string]bool
	// WarningOnlyEscapes holds escape tokens whose count mismatch is a
	// warning under the normal level
	WarningOnlyEscapes map[string]bool
	// CustomEscapes holds additional tokens the recognizer accepts beyond
	// the fixed indicator set
	CustomEscapes map[string]bool
	// LanguageIgnores maps a base language code to tokens that never
	// yield findings for entries in that language, regardless of level
	LanguageIgnores map[string]map[string]bool

	// IncludeObsolete includes entries flagged "obsolete" in the pass.
	// Default excluded.
	IncludeObsolete bool
	// PositionalTypeCheck additionally requires positional placeholders
	// at the same index to use the same conversion type. Default off:
	// only the index set is compared.
	PositionalTypeCheck bool

	// ExportReport writes entries with error findings to a separate file
	ExportReport bool
	// SetFuzzy emits a set-fuzzy directive for entries with error findings
	SetFuzzy bool
	// AddComment emits an append-comment directive recording the findings
	AddComment bool
	// CommentPrefix prefixes every checker-written comment line so that
	// re-runs can strip and replace previous annotations
	CommentPrefix string

	// Parallelism is the number of concurrent entry workers; values < 2
	// select the sequential path
	Parallelism int
}

// AllChecks is the fixed dispatch order of the selectable rule evaluators.
var AllChecks = []types.CheckKind{types.CheckEscape, types.CheckHTML, types.CheckPlaceholder}

// Default returns the normal-level configuration: the full rule set with the
// default error/warning split. Token defaults follow the corpus conventions:
// newline, tab, quote and backslash escapes are load-bearing; bracket and
// markdown escapes commonly appear in explanatory text and only warn.
func Default() *Config {
	return &Config{
		Level:         LevelNormal,
		EnabledChecks: append([]types.CheckKind(nil), AllChecks...),
		ImportantEscapes: map[string]bool{
			`\n`: true,
			`\t`: true,
			`\"`: true,
			`\\`: true,
		},
		WarningOnlyEscapes: map[string]bool{
			`\r`: true,
			`\(`: true,
			`\)`: true,
			`\*`: true,
			`\[`: true,
			`\]`: true,
			`\u`: true,
		},
		CustomEscapes: map[string]bool{},
		LanguageIgnores: map[string]map[string]bool{
			"ja": {
				`\（`: true, `\）`: true,
				`\「`: true, `\」`: true,
				`\『`: true, `\』`: true,
			},
			"zh": {
				`\（`: true, `\）`: true,
				`\「`: true, `\」`: true,
				`\【`: true, `\】`: true,
			},
		},
		IncludeObsolete:     false,
		PositionalTypeCheck: false,
		ExportReport:        true,
		SetFuzzy:            true,
		AddComment:          true,
		CommentPrefix:       "[Checker]",
		Parallelism:         1,
	}
}

// New builds an effective configuration from a level preset plus options.
func New(level CheckLevel, opts ...Option) *Config {
	cfg := Default()
	cfg.Level = level

	switch level {
	case LevelStrict:
		// Every warning-only token is promoted to the important tier.
		for tok := range cfg.WarningOnlyEscapes {
			cfg.ImportantEscapes[tok] = true
		}
		cfg.WarningOnlyEscapes = map[string]bool{}
	case LevelLenient:
		// Minimal mandatory subset only.
		cfg.ImportantEscapes = map[string]bool{
			`\n`: true,
			`\t`: true,
		}
	}

	for _, opt := range opts {
		opt(cfg)
	}

	return cfg
}

// Option mutates a Config during construction.
type Option func(*Config)

// WithLanguage sets the corpus language. The code is normalized during
// Validate; pass the raw user input here.
func WithLanguage(code string) Option {
	return func(c *Config) { c.Language = code }
}

// WithChecks replaces the enabled check set, preserving dispatch order.
func WithChecks(kinds ...types.CheckKind) Option {
	return func(c *Config) {
		selected := map[types.CheckKind]bool{}
		for _, k := range kinds {
			selected[k] = true
		}
		enabled := make([]types.CheckKind, 0, len(AllChecks))
		for _, k := range AllChecks {
			if selected[k] {
				enabled = append(enabled, k)
			}
		}
		c.EnabledChecks = enabled
	}
}

// WithImportantEscape adds a token to the important tier.
func WithImportantEscape(token string) Option {
	return func(c *Config) {
		c.ImportantEscapes[token] = true
		delete(c.WarningOnlyEscapes, token)
	}
}

// WithWarningEscape adds a token to the warning-only tier.
func WithWarningEscape(token string) Option {
	return func(c *Config) {
		if !c.ImportantEscapes[token] {
			c.WarningOnlyEscapes[token] = true
		}
	}
}

// WithCustomEscape extends the recognizer with an extra token. Custom tokens
// default to the warning-only tier unless also added as important.
func WithCustomEscape(token string) Option {
	return func(c *Config) {
		c.CustomEscapes[token] = true
		if !c.ImportantEscapes[token] {
			c.WarningOnlyEscapes[token] = true
		}
	}
}

// WithIgnoreToken suppresses a token entirely for one language.
func WithIgnoreToken(lang, token string) Option {
	return func(c *Config) {
		if c.LanguageIgnores[lang] == nil {
			c.LanguageIgnores[lang] = map[string]bool{}
		}
		c.LanguageIgnores[lang][token] = true
	}
}

// WithIncludeObsolete controls whether obsolete-flagged entries are checked.
func WithIncludeObsolete(include bool) Option {
	return func(c *Config) { c.IncludeObsolete = include }
}

// WithPositionalTypeCheck controls positional conversion-type strictness.
func WithPositionalTypeCheck(enabled bool) Option {
	return func(c *Config) { c.PositionalTypeCheck = enabled }
}

// WithOutputs sets the three output toggles.
func WithOutputs(export, setFuzzy, addComment bool) Option {
	return func(c *Config) {
		c.ExportReport = export
		c.SetFuzzy = setFuzzy
		c.AddComment = addComment
	}
}

// WithParallelism sets the worker count for the run.
func WithParallelism(n int) Option {
	return func(c *Config) { c.Parallelism = n }
}

// ShouldCheck reports whether the given check kind is enabled.
func (c *Config) ShouldCheck(kind types.CheckKind) bool {
	for _, k := range c.EnabledChecks {
		if k == kind {
			return true
		}
	}

	return false
}

// IgnoredTokens returns the ignore overlay for the given base language code.
// The returned map must not be mutated.
func (c *Config) IgnoredTokens(lang string) map[string]bool {
	if set, ok := c.LanguageIgnores[lang]; ok {
		return set
	}

	return nil
}

// EscapeTierOf classifies an escape token. Tokens outside the important set
// fall into the warning tier; the classifier applies level promotion and
// suppression on top of this.
func (c *Config) EscapeTierOf(token string) EscapeTier {
	if c.ImportantEscapes[token] {
		return TierImportant
	}

	return TierWarning
}
