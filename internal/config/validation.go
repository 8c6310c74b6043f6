package config

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"

	"github.com/sgpo-tools/pocheck/internal/errors"
	"github.com/sgpo-tools/pocheck/internal/types"
)

// ParseCheckLevel maps a user-supplied level name to its preset.
func ParseCheckLevel(name string) (CheckLevel, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "normal":
		return LevelNormal, nil
	case "strict":
		return LevelStrict, nil
	case "lenient":
		return LevelLenient, nil
	default:
		return LevelNormal, errors.NewConfigError("unknown_level",
			fmt.Sprintf("unknown check level %q (supported: strict, normal, lenient)", name))
	}
}

// NormalizeLanguage validates a language code and reduces it to its base
// form ("ja_JP" and "ja-JP" both normalize to "ja"). An empty code is valid
// and means no per-language ignore overlay applies.
func NormalizeLanguage(code string) (string, error) {
	if strings.TrimSpace(code) == "" {
		return "", nil
	}

	// Gettext file names use underscores where BCP 47 uses hyphens.
	tag, err := language.Parse(strings.ReplaceAll(code, "_", "-"))
	if err != nil {
		return "", errors.NewConfigError("unknown_language",
			fmt.Sprintf("unknown language code %q", code))
	}

	base, _ := tag.Base()

	return base.String(), nil
}

// Validate performs the pre-flight checks on a constructed configuration.
// Any error returned here is a caller fault and must abort the run before
// the first entry is processed.
func (c *Config) Validate() error {
	if len(c.EnabledChecks) == 0 {
		return errors.NewConfigError("no_checks", "no checks enabled")
	}

	seen := map[types.CheckKind]bool{}
	for _, kind := range c.EnabledChecks {
		if _, err := ParseCheckKindName(kind.String()); err != nil {
			return err
		}
		if seen[kind] {
			return errors.NewConfigError("duplicate_check",
				fmt.Sprintf("check kind %q enabled twice", kind))
		}
		seen[kind] = true
	}

	normalized, err := NormalizeLanguage(c.Language)
	if err != nil {
		return err
	}
	c.Language = normalized

	for token := range c.ImportantEscapes {
		if err := validateToken(token); err != nil {
			return err
		}
	}
	for token := range c.WarningOnlyEscapes {
		if err := validateToken(token); err != nil {
			return err
		}
	}
	for token := range c.CustomEscapes {
		if err := validateToken(token); err != nil {
			return err
		}
	}

	if c.Parallelism < 0 {
		return errors.NewConfigError("bad_parallelism",
			fmt.Sprintf("parallelism must be >= 0, got %d", c.Parallelism))
	}
	if c.Parallelism == 0 {
		c.Parallelism = 1
	}

	return nil
}

// ParseCheckKindName maps a check name to its kind, wrapping unknown names
// into a configuration fault.
func ParseCheckKindName(name string) (types.CheckKind, error) {
	kind, err := types.ParseCheckKind(name)
	if err != nil {
		return 0, errors.NewConfigError("unknown_check", err.Error())
	}

	return kind, nil
}

func validateToken(token string) error {
	if len(token) < 2 || token[0] != '\\' {
		return errors.NewConfigError("bad_escape_token",
			fmt.Sprintf("escape token %q must be a backslash followed by an indicator character", token))
	}

	return nil
}
