package cmd

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sgpo-tools/pocheck/internal/config"
	checkerrors "github.com/sgpo-tools/pocheck/internal/errors"
	"github.com/sgpo-tools/pocheck/internal/logging"
	"github.com/sgpo-tools/pocheck/internal/po"
)

const checkSample = `msgid ""
msgstr "Language: ja\n"

msgid "Line one\\nLine two"
msgstr "一行目 二行目"

msgid "Open <b>%s</b>"
msgstr "<b>%s</b>を開く"
`

func writeCorpus(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ja.po")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	return path
}

func TestCheckFileAnnotatesAndExports(t *testing.T) {
	path := writeCorpus(t, checkSample)

	var out strings.Builder
	rep, err := checkFile(context.Background(), config.Default(), logging.NopLogger{}, path, &out, false)
	require.NoError(t, err)

	// The dropped \n is an error; the reordered <b> tag is fine.
	assert.Equal(t, 1, rep.TotalErrors())
	assert.Contains(t, out.String(), `'\n'`)

	annotated, err := po.Load(path)
	require.NoError(t, err)
	assert.Contains(t, annotated.Entries[0].Flags, "fuzzy")
	assert.NotContains(t, annotated.Entries[1].Flags, "fuzzy")

	var hasChecker bool
	for _, c := range annotated.Entries[0].TranslatorComments {
		if strings.HasPrefix(c, "[Checker]") {
			hasChecker = true
		}
	}
	assert.True(t, hasChecker)

	exported, err := po.Load(strings.TrimSuffix(path, ".po") + "_errors.po")
	require.NoError(t, err)
	require.Len(t, exported.Entries, 1)
	assert.Equal(t, `Line one\nLine two`, exported.Entries[0].Msgid)
}

func TestCheckFileDryRunLeavesFileUntouched(t *testing.T) {
	path := writeCorpus(t, checkSample)

	var out strings.Builder
	rep, err := checkFile(context.Background(), config.Default(), logging.NopLogger{}, path, &out, true)
	require.NoError(t, err)
	assert.Equal(t, 1, rep.TotalErrors())

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, checkSample, string(after))

	_, err = os.Stat(strings.TrimSuffix(path, ".po") + "_errors.po")
	assert.True(t, os.IsNotExist(err))
}

func TestCheckFileCleanCorpus(t *testing.T) {
	path := writeCorpus(t, "msgid \"Save %s\"\nmsgstr \"%sを保存\"\n")

	var out strings.Builder
	rep, err := checkFile(context.Background(), config.Default(), logging.NopLogger{}, path, &out, false)
	require.NoError(t, err)
	assert.False(t, rep.HasErrors())
	assert.Contains(t, out.String(), "no issues found")

	_, err = os.Stat(strings.TrimSuffix(path, ".po") + "_errors.po")
	assert.True(t, os.IsNotExist(err))
}

func TestCheckFileUsesFileLanguageForIgnores(t *testing.T) {
	// The fullwidth bracket token is ignored for Japanese corpora; the
	// header's language must reach the checkers without a flag.
	body := "msgid \"see \\\\（note\\\\）\"\nmsgstr \"参照\"\n"
	cfg := config.New(config.LevelNormal, config.WithCustomEscape(`\（`), config.WithCustomEscape(`\）`))

	japanese := "msgid \"\"\nmsgstr \"Language: ja\\n\"\n\n" + body
	var out strings.Builder
	rep, err := checkFile(context.Background(), cfg, logging.NopLogger{},
		writeCorpus(t, japanese), &out, true)
	require.NoError(t, err)
	assert.Empty(t, rep.Entries)

	german := "msgid \"\"\nmsgstr \"Language: de\\n\"\n\n" + body
	rep, err = checkFile(context.Background(), cfg, logging.NopLogger{},
		writeCorpus(t, german), &out, true)
	require.NoError(t, err)
	assert.NotEmpty(t, rep.Entries)
}

func TestCheckFileVersionSuffixedFilename(t *testing.T) {
	// A filename segment that merely looks language-shaped ("v2") must not
	// become the corpus language and abort the run pre-flight.
	path := filepath.Join(t.TempDir(), "strings_v2.po")
	require.NoError(t, os.WriteFile(path, []byte("msgid \"Save %s\"\nmsgstr \"%sを保存\"\n"), 0o644))

	var out strings.Builder
	rep, err := checkFile(context.Background(), config.Default(), logging.NopLogger{}, path, &out, true)
	require.NoError(t, err)
	assert.False(t, rep.HasErrors())
	assert.Equal(t, 1, rep.Checked)
}

func TestCheckFileMissingFile(t *testing.T) {
	var out strings.Builder
	_, err := checkFile(context.Background(), config.Default(), logging.NopLogger{},
		filepath.Join(t.TempDir(), "missing.po"), &out, true)
	require.Error(t, err)
}

func TestRunCheckCommandExitStatus(t *testing.T) {
	path := writeCorpus(t, checkSample)

	cmd := checkCmd
	cmd.SetContext(context.Background())
	cmd.SetArgs(nil)
	checkFormat = "text"
	checkDryRun = true
	defer func() { checkDryRun = false }()

	err := runCheckCommand(cmd, []string{path})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error(s) found")
}

func TestRunCheckCommandConfigFaultShowsUsage(t *testing.T) {
	path := writeCorpus(t, checkSample)

	require.NoError(t, checkCmd.Flags().Set("language", "q5!"))
	t.Cleanup(func() {
		checkLanguage = ""
		viper.Set("language", "")
	})

	checkCmd.SilenceUsage = false
	err := runCheckCommand(checkCmd, []string{path})
	require.Error(t, err)
	assert.True(t, checkerrors.IsConfigError(err))
	// Caller faults keep usage output; finding-driven exits silence it.
	assert.False(t, checkCmd.SilenceUsage)
}
