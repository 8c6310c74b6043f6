// Package cmd provides the command-line interface for pocheck with
// configuration management supporting multiple configuration sources.
//
// Configuration System:
//
//	The CLI supports flexible configuration through multiple sources with clear precedence:
//	1. Command-line flags (--config, --level, etc.) - highest priority
//	2. POCHECK_CONFIG_FILE environment variable - custom config file path
//	3. Individual environment variables (POCHECK_LEVEL, etc.)
//	4. Configuration files (.pocheck.yml) - lowest priority
//
// Environment Variables:
//
//	POCHECK_CONFIG_FILE: Path to custom configuration file
//	POCHECK_LEVEL: Override the check level
//	POCHECK_LANGUAGE: Override the corpus language
//	And more following the POCHECK_<SECTION>_<OPTION> pattern
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sgpo-tools/pocheck/internal/logging"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "pocheck",
	Short: "A consistency checker for gettext translation corpora",
	Long: `pocheck verifies that translated entries in gettext PO files preserve the
technical content of their sources: escape sequences, HTML tags, and format
placeholders.

Checks:
  • escape       backslash escape sequences (\n, \t, \", ...)
  • html         HTML tag presence and structure
  • placeholder  printf, positional, {name} and ${var} placeholders

Quick Start:
  pocheck check ja.po             Check a corpus at the normal level
  pocheck check --level strict *.po
  pocheck watch ja.po             Re-check on every save

Entries that fail a check are marked fuzzy and annotated in place, and the
failing entries are exported to a sibling <name>_errors.po file for review.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .pocheck.yml, can also use POCHECK_CONFIG_FILE env var)")
	rootCmd.PersistentFlags().StringP("log-level", "l", "info", "log level (debug, info, warn, error)")
	viper.BindPFlag("log-level", rootCmd.PersistentFlags().Lookup("log-level"))
}

// initConfig initializes the configuration system.
//
// Configuration Loading Priority (highest to lowest):
//  1. --config flag: Explicitly specified config file path
//  2. POCHECK_CONFIG_FILE environment variable: Custom config file path
//  3. Default: .pocheck.yml in current directory
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else if envConfigFile := os.Getenv("POCHECK_CONFIG_FILE"); envConfigFile != "" {
		viper.SetConfigFile(envConfigFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".pocheck")
	}

	// Enable automatic environment variable binding with POCHECK_ prefix
	// Examples: POCHECK_LEVEL, POCHECK_OUTPUT_SET_FUZZY
	viper.SetEnvPrefix("POCHECK")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// A missing or unreadable config file is not fatal; the level presets
	// cover everything.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// newLogger builds the CLI logger from the persistent log-level flag.
func newLogger() logging.Logger {
	return logging.NewLogger(&logging.LoggerConfig{
		Level:  logging.ParseLevel(viper.GetString("log-level")),
		Format: "text",
		Output: os.Stderr,
	})
}
