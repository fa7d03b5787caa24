package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorCodes(t *testing.T) {
	codes := []string{
		ErrConfig,
		ErrFetch,
		ErrDecode,
		ErrRender,
		ErrExec,
	}

	seen := make(map[string]bool)
	for _, code := range codes {
		assert.NotEmpty(t, code, "error code should not be empty")
		assert.False(t, seen[code], "error code %q should be unique", code)
		seen[code] = true
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		name       string
		code       string
		message    string
		suggestion string
	}{
		{
			name:       "config error",
			code:       ErrConfig,
			message:    "Invalid configuration in .pidash.yaml",
			suggestion: "Check your configuration file syntax",
		},
		{
			name:       "fetch error",
			code:       ErrFetch,
			message:    "Metrics endpoint unreachable",
			suggestion: "Check the endpoint URL",
		},
		{
			name:       "decode error",
			code:       ErrDecode,
			message:    "Metrics payload is not valid JSON",
			suggestion: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code, tt.message, tt.suggestion)

			require.NotNil(t, err)
			assert.Equal(t, tt.code, err.Code)
			assert.Equal(t, tt.message, err.Message)
			assert.Equal(t, tt.suggestion, err.Suggestion)
			assert.Nil(t, err.Cause)
		})
	}
}

func TestErrorFormatting(t *testing.T) {
	err := WrapWithCode(
		errors.New("dial tcp 10.0.0.5:5000: connect: connection refused"),
		ErrFetch,
		"Can't reach the metrics endpoint",
		"Is the server running?",
	)

	output := err.Error()
	lines := strings.Split(output, "\n")

	assert.True(t, strings.HasPrefix(lines[0], "✗"), "first line should start with failure symbol")
	assert.Contains(t, lines[0], "Can't reach the metrics endpoint")
	assert.Contains(t, output, "connection refused")
	assert.Contains(t, output, "Is the server running?")
}

func TestErrorFormatting_NoSuggestion(t *testing.T) {
	output := New(ErrExec, "Command failed", "").Error()
	assert.Equal(t, "✗ Command failed\n", output)
}

func TestShort(t *testing.T) {
	assert.Equal(t, "Bad status", New(ErrFetch, "Bad status", "hint").Short())
	assert.Equal(t, "Bad status: 503", WrapWithCode(errors.New("503"), ErrFetch, "Bad status", "hint").Short())
}

func TestSummary(t *testing.T) {
	assert.Equal(t, "", Summary(nil))
	assert.Equal(t, "plain", Summary(errors.New("plain")))

	wrapped := fmt.Errorf("cycle: %w", WrapWithCode(errors.New("timeout"), ErrFetch, "Request failed", "retry"))
	assert.Equal(t, "Request failed: timeout", Summary(wrapped))
}

func TestWrap(t *testing.T) {
	cause := errors.New("underlying network error")
	wrapped := Wrap(cause, "Request failed")

	require.NotNil(t, wrapped)
	assert.Equal(t, ErrFetch, wrapped.Code, "Wrap should default to ErrFetch code")
	assert.Equal(t, cause, wrapped.Cause)
}

func TestErrorsIsAndAs(t *testing.T) {
	cause := errors.New("specific error")
	wrapped := WrapWithCode(cause, ErrDecode, "Decode error", "")

	assert.True(t, errors.Is(wrapped, cause))
	assert.Equal(t, cause, wrapped.Unwrap())

	var pdErr *Error
	require.True(t, errors.As(fmt.Errorf("outer: %w", wrapped), &pdErr))
	assert.Equal(t, ErrDecode, pdErr.Code)
}

func TestIsCode(t *testing.T) {
	err := New(ErrConfig, "Config error", "")

	assert.True(t, IsCode(err, ErrConfig))
	assert.False(t, IsCode(err, ErrFetch))
	assert.False(t, IsCode(errors.New("standard error"), ErrConfig))
	assert.False(t, IsCode(nil, ErrConfig))
}

func TestExitError(t *testing.T) {
	err := NewExitError(2)
	assert.Equal(t, "exit code 2", err.Error())

	code, ok := GetExitCode(fmt.Errorf("wrapped: %w", err))
	assert.True(t, ok)
	assert.Equal(t, 2, code)

	_, ok = GetExitCode(New(ErrExec, "test", ""))
	assert.False(t, ok)

	_, ok = GetExitCode(nil)
	assert.False(t, ok)
}
