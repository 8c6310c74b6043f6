package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckErrorFormat(t *testing.T) {
	tests := []struct {
		name     string
		err      *CheckError
		expected string
	}{
		{
			name:     "code and message",
			err:      NewConfigError("unknown_language", "unknown language code \"xx-klingon\""),
			expected: `[unknown_language] unknown language code "xx-klingon"`,
		},
		{
			name:     "with cause",
			err:      NewIOError("po_read", "failed to read corpus", fmt.Errorf("open ja.po: no such file")),
			expected: "[po_read] failed to read corpus: open ja.po: no such file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestWrapPreservesCheckError(t *testing.T) {
	inner := NewValidationError("po_parse", "unterminated string on line 12")
	wrapped := Wrap(inner, ErrorTypeIO, "po_read", "failed to load corpus")

	require.NotNil(t, wrapped)
	assert.Equal(t, ErrorTypeIO, wrapped.Type)
	assert.True(t, stderrors.Is(wrapped, &CheckError{Type: ErrorTypeIO, Code: "po_read"}))

	var ce *CheckError
	require.True(t, stderrors.As(wrapped.Unwrap(), &ce))
	assert.Equal(t, "po_parse", ce.Code)
}

func TestWrapNil(t *testing.T) {
	assert.Nil(t, Wrap(nil, ErrorTypeInternal, "x", "y"))
}

func TestIsConfigError(t *testing.T) {
	err := fmt.Errorf("pre-flight: %w", NewConfigError("unknown_check", "unknown check kind"))
	assert.True(t, IsConfigError(err))
	assert.False(t, IsConfigError(stderrors.New("plain")))
}

func TestRecoverable(t *testing.T) {
	assert.True(t, IsRecoverable(NewValidationError("po_parse", "bad entry")))
	assert.False(t, IsRecoverable(NewConfigError("unknown_language", "bad language")))
	assert.False(t, IsRecoverable(stderrors.New("plain")))
}
