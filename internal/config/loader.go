package config

import (
	"github.com/spf13/viper"

	"github.com/sgpo-tools/pocheck/internal/errors"
	"github.com/sgpo-tools/pocheck/internal/types"
)

// FileConfig is the on-disk configuration shape (.pocheck.yml). All fields
// are optional; unset fields keep the level-preset defaults.
type FileConfig struct {
	Level    string   `yaml:"level" mapstructure:"level"`
	Language string   `yaml:"language" mapstructure:"language"`
	Checks   []string `yaml:"checks" mapstructure:"checks"`

	Escape struct {
		Important   []string `yaml:"important" mapstructure:"important"`
		WarningOnly []string `yaml:"warning_only" mapstructure:"warning_only"`
		Custom      []string `yaml:"custom" mapstructure:"custom"`
	} `yaml:"escape" mapstructure:"escape"`

	// Ignore maps a language code to tokens suppressed for that language.
	Ignore map[string][]string `yaml:"ignore" mapstructure:"ignore"`

	Output struct {
		Export     *bool `yaml:"export" mapstructure:"export"`
		SetFuzzy   *bool `yaml:"set_fuzzy" mapstructure:"set_fuzzy"`
		AddComment *bool `yaml:"add_comment" mapstructure:"add_comment"`
	} `yaml:"output" mapstructure:"output"`

	IncludeObsolete     *bool `yaml:"include_obsolete" mapstructure:"include_obsolete"`
	PositionalTypeCheck *bool `yaml:"positional_type_check" mapstructure:"positional_type_check"`
	Parallelism         int   `yaml:"parallelism" mapstructure:"parallelism"`
}

// Load builds an effective Config from the viper state (config file plus
// POCHECK_* environment variables), leaving flag-level overrides to the
// caller. The returned Config has not been validated yet; run Validate
// before the first entry is processed.
func Load() (*Config, error) {
	var file FileConfig
	if err := viper.Unmarshal(&file); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConfig, "config_decode",
			"failed to decode configuration")
	}

	level, err := ParseCheckLevel(file.Level)
	if err != nil {
		return nil, err
	}

	opts := []Option{WithLanguage(file.Language)}

	if len(file.Checks) > 0 {
		kinds := make([]types.CheckKind, 0, len(file.Checks))
		for _, name := range file.Checks {
			kind, err := ParseCheckKindName(name)
			if err != nil {
				return nil, err
			}
			kinds = append(kinds, kind)
		}
		opts = append(opts, WithChecks(kinds...))
	}

	for _, token := range file.Escape.Important {
		opts = append(opts, WithImportantEscape(token))
	}
	for _, token := range file.Escape.WarningOnly {
		opts = append(opts, WithWarningEscape(token))
	}
	for _, token := range file.Escape.Custom {
		opts = append(opts, WithCustomEscape(token))
	}

	for lang, tokens := range file.Ignore {
		normalized, err := NormalizeLanguage(lang)
		if err != nil {
			return nil, err
		}
		for _, token := range tokens {
			opts = append(opts, WithIgnoreToken(normalized, token))
		}
	}

	cfg := New(level, opts...)

	// Pointer fields distinguish "unset" from an explicit false
	// (workaround for viper zero-value handling on booleans).
	if file.Output.Export != nil {
		cfg.ExportReport = *file.Output.Export
	}
	if file.Output.SetFuzzy != nil {
		cfg.SetFuzzy = *file.Output.SetFuzzy
	}
	if file.Output.AddComment != nil {
		cfg.AddComment = *file.Output.AddComment
	}
	if file.IncludeObsolete != nil {
		cfg.IncludeObsolete = *file.IncludeObsolete
	}
	if file.PositionalTypeCheck != nil {
		cfg.PositionalTypeCheck = *file.PositionalTypeCheck
	}
	if file.Parallelism > 0 {
		cfg.Parallelism = file.Parallelism
	}

	return cfg, nil
}
