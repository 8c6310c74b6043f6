package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sgpo-tools/pocheck/internal/config"
	checkerrors "github.com/sgpo-tools/pocheck/internal/errors"
	"github.com/sgpo-tools/pocheck/internal/logging"
	"github.com/sgpo-tools/pocheck/internal/po"
	"github.com/sgpo-tools/pocheck/internal/report"
	"github.com/sgpo-tools/pocheck/internal/runner"
	"github.com/sgpo-tools/pocheck/internal/types"
)

var (
	checkLevel           string
	checkLanguage        string
	checkKinds           []string
	checkFormat          string
	checkNoExport        bool
	checkNoFuzzy         bool
	checkNoComment       bool
	checkIncludeObsolete bool
	checkPositionalTypes bool
	checkParallel        int
	checkDryRun          bool
)

// checkCmd represents the check command.
var checkCmd = &cobra.Command{
	Use:   "check <file.po> [file.po...]",
	Short: "Check translation entries for consistency issues",
	Long: `Check every translated entry of the given PO files against its source text:

- escape sequence counts (\n, \t, \", ...)
- HTML tag presence and structure
- printf, positional, {name} and ${var} placeholders

Entries with error findings are marked fuzzy, annotated with a comment
describing the findings, and exported to a sibling <name>_errors.po file.
Previous annotations are replaced, not accumulated, so re-running after a fix
clears the stale markers.

Examples:
  pocheck check ja.po                   # Normal level, language from the file
  pocheck check --level strict *.po     # Promote warnings to errors
  pocheck check --check escape ja.po    # Run a single check
  pocheck check --dry-run ja.po         # Report only, leave the file untouched`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCheckCommand,
}

func init() {
	rootCmd.AddCommand(checkCmd)
	addCheckFlags(checkCmd)
	checkCmd.Flags().BoolVar(&checkDryRun, "dry-run", false, "Report findings without modifying any file")
}

// addCheckFlags registers the flags shared by check and watch.
func addCheckFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&checkLevel, "level", "L", "normal", "Check level (strict, normal, lenient)")
	cmd.Flags().StringVar(&checkLanguage, "language", "", "Corpus language code (default: detected per file)")
	cmd.Flags().StringSliceVarP(&checkKinds, "check", "c", nil, "Check to run (escape, html, placeholder); repeatable, default all")
	cmd.Flags().StringVarP(&checkFormat, "format", "f", "text", "Output format (text, json, yaml)")
	cmd.Flags().BoolVar(&checkNoExport, "no-export", false, "Don't write the <name>_errors.po export file")
	cmd.Flags().BoolVar(&checkNoFuzzy, "no-fuzzy", false, "Don't mark failing entries fuzzy")
	cmd.Flags().BoolVar(&checkNoComment, "no-comment", false, "Don't annotate failing entries with comments")
	cmd.Flags().BoolVar(&checkIncludeObsolete, "include-obsolete", false, "Also check obsolete (#~) entries")
	cmd.Flags().BoolVar(&checkPositionalTypes, "positional-types", false, "Require matching conversion types on positional placeholders")
	cmd.Flags().IntVarP(&checkParallel, "parallel", "p", 0, "Number of concurrent entry workers (0 = sequential)")
}

// buildCheckConfig resolves the effective configuration: config file and
// environment first, then explicit flag overrides pushed into viper so they
// take precedence over both.
func buildCheckConfig(cmd *cobra.Command) (*config.Config, error) {
	flags := cmd.Flags()

	if flags.Changed("level") {
		viper.Set("level", checkLevel)
	}
	if flags.Changed("language") {
		viper.Set("language", checkLanguage)
	}
	if flags.Changed("check") {
		viper.Set("checks", checkKinds)
	}
	if flags.Changed("include-obsolete") {
		viper.Set("include_obsolete", checkIncludeObsolete)
	}
	if flags.Changed("positional-types") {
		viper.Set("positional_type_check", checkPositionalTypes)
	}
	if flags.Changed("parallel") {
		viper.Set("parallelism", checkParallel)
	}
	if flags.Changed("no-export") {
		viper.Set("output.export", !checkNoExport)
	}
	if flags.Changed("no-fuzzy") {
		viper.Set("output.set_fuzzy", !checkNoFuzzy)
	}
	if flags.Changed("no-comment") {
		viper.Set("output.add_comment", !checkNoComment)
	}

	return config.Load()
}

func runCheckCommand(cmd *cobra.Command, args []string) error {
	cfg, err := buildCheckConfig(cmd)
	if err != nil {
		return err
	}

	// Findings are diagnostics, not usage errors.
	cmd.SilenceUsage = true

	logger := newLogger()

	var totalErrors int
	for _, path := range args {
		rep, err := checkFile(cmd.Context(), cfg, logger, path, os.Stdout, checkDryRun)
		if err != nil {
			// Configuration faults are caller errors; show usage for those.
			if checkerrors.IsConfigError(err) {
				cmd.SilenceUsage = false
			}
			return err
		}
		totalErrors += rep.TotalErrors()
	}

	if totalErrors > 0 {
		return fmt.Errorf("%d error(s) found", totalErrors)
	}

	return nil
}

// checkFile runs one pass over a single corpus file, renders the report, and
// applies the resulting mutations. All writes happen after the pass completed
// successfully; dry-run skips them entirely.
func checkFile(ctx context.Context, cfg *config.Config, logger logging.Logger, path string, out io.Writer, dryRun bool) (*types.Report, error) {
	file, err := po.Load(path)
	if err != nil {
		return nil, err
	}

	// Per-file copy: the language can differ between files in one invocation.
	runCfg := *cfg
	if runCfg.Language == "" {
		runCfg.Language = file.Language
	}

	r, err := runner.New(&runCfg, logger)
	if err != nil {
		return nil, err
	}

	rep, directives, err := r.Run(ctx, file.TranslationEntries())
	if err != nil {
		return nil, err
	}

	if checkFormat == "text" || checkFormat == "" {
		fmt.Fprintf(out, "%s:\n", path)
	}
	if err := report.Render(out, rep, checkFormat); err != nil {
		return nil, err
	}

	if dryRun {
		return rep, nil
	}

	// Applying with zero directives still strips annotations from entries
	// that have been fixed since the previous run.
	if runCfg.SetFuzzy || runCfg.AddComment {
		file.ApplyDirectives(directives, runCfg.CommentPrefix)
		if err := file.Save(); err != nil {
			return nil, err
		}
	}

	if runCfg.ExportReport && rep.HasErrors() {
		indexes := map[int]bool{}
		for i := range rep.Entries {
			if rep.Entries[i].Errors() > 0 {
				indexes[rep.Entries[i].Index] = true
			}
		}
		exportedPath, err := file.ExportErrors(indexes)
		if err != nil {
			return nil, err
		}
		if exportedPath != "" {
			logger.Info(ctx, "exported failing entries", "path", exportedPath)
		}
	}

	return rep, nil
}
