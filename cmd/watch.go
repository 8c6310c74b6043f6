package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	checkerrors "github.com/sgpo-tools/pocheck/internal/errors"
	"github.com/sgpo-tools/pocheck/internal/watcher"
)

var watchDebounce time.Duration

// watchCmd represents the watch command.
var watchCmd = &cobra.Command{
	Use:   "watch <file.po> [file.po...]",
	Short: "Re-check corpus files on every save",
	Long: `Watch the given PO files and re-run the checks whenever one changes.

Watch mode is report-only: findings are printed but the files are never
marked, annotated, or exported, so a save never triggers another pass on the
checker's own writes. Run "pocheck check" to persist annotations.

Press Ctrl+C to stop.

Examples:
  pocheck watch ja.po
  pocheck watch --level strict --debounce 500ms locale/*.po`,
	Args: cobra.MinimumNArgs(1),
	RunE: runWatchCommand,
}

func init() {
	rootCmd.AddCommand(watchCmd)
	addCheckFlags(watchCmd)
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", 300*time.Millisecond, "Quiet period before a changed file is re-checked")
}

func runWatchCommand(cmd *cobra.Command, args []string) error {
	cfg, err := buildCheckConfig(cmd)
	if err != nil {
		return err
	}

	cmd.SilenceUsage = true
	logger := newLogger().WithComponent("watch")

	sigCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancelCause(sigCtx)
	defer cancel(nil)

	watched := map[string]bool{}
	for _, path := range args {
		abs, err := filepath.Abs(path)
		if err != nil {
			return err
		}
		watched[abs] = true
	}

	recheck := func(paths []string) {
		for _, path := range paths {
			if !watched[path] {
				continue
			}
			logger.Info(ctx, "file changed", "path", path)
			if _, err := checkFile(ctx, cfg, logger, path, os.Stdout, true); err != nil {
				// A half-saved file will parse on the next write; anything
				// else won't get better by waiting.
				if checkerrors.IsRecoverable(err) {
					logger.Warn(ctx, err, "check failed, still watching", "path", path)
					continue
				}
				logger.Error(ctx, err, "check failed", "path", path)
				cancel(err)

				return
			}
		}
	}

	fw, err := watcher.New(watchDebounce, watcher.POFileFilter, recheck)
	if err != nil {
		return err
	}
	defer fw.Stop()

	for path := range watched {
		if err := fw.Add(path); err != nil {
			return err
		}
	}

	// Initial pass so the first report doesn't wait for a save.
	for _, path := range args {
		if _, err := checkFile(ctx, cfg, logger, path, os.Stdout, true); err != nil {
			return err
		}
	}

	logger.Info(ctx, "watching for changes", "files", len(watched))

	err = fw.Start(ctx)
	if cause := context.Cause(ctx); cause != nil && !errors.Is(cause, context.Canceled) {
		return cause
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	return nil
}
