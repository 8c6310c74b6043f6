package checks

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sgpo-tools/pocheck/internal/config"
	"github.com/sgpo-tools/pocheck/internal/types"
)

func testEntry(source, target string) *types.Entry {
	return &types.Entry{Key: "test.key", Source: source, Target: target}
}

func TestEscapeTokenizer(t *testing.T) {
	cfg := config.Default()

	tests := []struct {
		name string
		text string
		want []string
	}{
		{name: "plain text", text: "no escapes here", want: nil},
		{name: "newline and tab", text: `a\n b\t c`, want: []string{`\n`, `\t`}},
		{name: "escaped backslash consumed first", text: `a\\n`, want: []string{`\\`}},
		{name: "quote escape", text: `say \"hi\"`, want: []string{`\"`, `\"`}},
		{name: "brackets", text: `\(x\) \[y\] \*z`, want: []string{`\(`, `\)`, `\[`, `\]`, `\*`}},
		{name: "unicode escape", text: `snow \u2603 here`, want: []string{`\u`}},
		{name: "unrecognized indicator skipped", text: `\q\z`, want: nil},
		{name: "repeated", text: `\n\n\n`, want: []string{`\n`, `\n`, `\n`}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, malformed := tokenizeEscapes(tt.text, cfg)
			assert.Empty(t, malformed)

			var got []string
			for _, tok := range tokens {
				got = append(got, tok.token)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEscapeTokenizerMalformed(t *testing.T) {
	cfg := config.Default()

	t.Run("trailing backslash", func(t *testing.T) {
		tokens, malformed := tokenizeEscapes(`ends with \`, cfg)
		assert.Empty(t, tokens)
		require.Len(t, malformed, 1)
		assert.Contains(t, malformed[0].message, "truncated escape sequence")
	})

	t.Run("truncated unicode escape", func(t *testing.T) {
		_, malformed := tokenizeEscapes(`bad \u26`, cfg)
		require.Len(t, malformed, 1)
		assert.Contains(t, malformed[0].message, `\u`)
	})
}

func TestEscapeTokenizerCustomTokens(t *testing.T) {
	cfg := config.New(config.LevelNormal, config.WithCustomEscape(`\（`))

	tokens, malformed := tokenizeEscapes(`全角 \（かっこ\n`, cfg)
	assert.Empty(t, malformed)
	require.Len(t, tokens, 2)
	assert.Equal(t, `\（`, tokens[0].token)
	assert.Equal(t, `\n`, tokens[1].token)
}

func TestEscapeDroppedTab(t *testing.T) {
	// Missing \t is exactly one error; matching \n yields nothing.
	entry := testEntry(`Value: \n total: \t`, `値：\n 合計：`)

	findings := (&EscapeChecker{}).Check(entry, config.Default())

	require.Len(t, findings, 1)
	assert.Equal(t, types.CheckEscape, findings[0].Kind)
	assert.Equal(t, types.SeverityError, findings[0].Severity)
	assert.Contains(t, findings[0].Message, `'\t'`)
	assert.Contains(t, findings[0].Message, "source has 1, target has 0")
}

func TestEscapeExtraTokenInTarget(t *testing.T) {
	entry := testEntry(`plain`, `with \n added`)

	findings := (&EscapeChecker{}).Check(entry, config.Default())

	require.Len(t, findings, 1)
	assert.Contains(t, findings[0].Message, "extra escape sequence")
	assert.Contains(t, findings[0].Message, `'\n'`)
}

func TestEscapeWarningTiering(t *testing.T) {
	// One \) dropped from the target. The raw severity depends on the
	// level preset; lenient suppression happens in the classifier.
	source := `Path: C:\(temp\)`
	target := `パス: C:\(temp`

	t.Run("normal yields warning", func(t *testing.T) {
		findings := (&EscapeChecker{}).Check(testEntry(source, target), config.New(config.LevelNormal))
		require.Len(t, findings, 1)
		assert.Equal(t, types.SeverityWarning, findings[0].Severity)
	})

	t.Run("strict yields error", func(t *testing.T) {
		findings := (&EscapeChecker{}).Check(testEntry(source, target), config.New(config.LevelStrict))
		require.Len(t, findings, 1)
		assert.Equal(t, types.SeverityError, findings[0].Severity)
	})
}

func TestEscapeLanguageIgnore(t *testing.T) {
	source := `Path: C:\(temp`
	target := `パス: C:temp`

	t.Run("ignored for ja", func(t *testing.T) {
		cfg := config.New(config.LevelNormal,
			config.WithLanguage("ja"), config.WithIgnoreToken("ja", `\(`))
		require.NoError(t, cfg.Validate())

		findings := (&EscapeChecker{}).Check(testEntry(source, target), cfg)
		assert.Empty(t, findings)
	})

	t.Run("still warns for en", func(t *testing.T) {
		cfg := config.New(config.LevelNormal,
			config.WithLanguage("en"), config.WithIgnoreToken("ja", `\(`))
		require.NoError(t, cfg.Validate())

		findings := (&EscapeChecker{}).Check(testEntry(source, target), cfg)
		require.Len(t, findings, 1)
		assert.Equal(t, types.SeverityWarning, findings[0].Severity)
	})
}

func TestEscapeNonLiteralContextExcluded(t *testing.T) {
	// The \d inside the regex span is not a literal control character and
	// must not be counted even though \d is a configured custom token.
	cfg := config.New(config.LevelNormal, config.WithCustomEscape(`\d`))

	entry := testEntry(`Match digits with /\d+/ here`, `数字は /\d+/ で一致`)
	findings := (&EscapeChecker{}).Check(entry, cfg)
	assert.Empty(t, findings)

	// Outside any span the same token is counted normally.
	entry = testEntry(`literal \d here`, `ここ`)
	findings = (&EscapeChecker{}).Check(entry, cfg)
	require.Len(t, findings, 1)
	assert.Contains(t, findings[0].Message, `'\d'`)
}

func TestEscapeMalformedFinding(t *testing.T) {
	entry := testEntry(`fine text`, `broken \`)

	findings := (&EscapeChecker{}).Check(entry, config.Default())

	require.Len(t, findings, 1)
	assert.Equal(t, types.CheckMalformed, findings[0].Kind)
	assert.Contains(t, findings[0].Message, "target text")
}

func TestEscapeDeterministicOrder(t *testing.T) {
	entry := testEntry(`\n\t\(\)`, `nothing`)

	first := (&EscapeChecker{}).Check(entry, config.Default())
	second := (&EscapeChecker{}).Check(entry, config.Default())

	assert.Equal(t, first, second)
	require.Len(t, first, 4)
	// Union iteration is sorted, so findings come out token-ordered.
	assert.Contains(t, first[0].Message, `'\('`)
	assert.Contains(t, first[3].Message, `'\t'`)
}
