package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("boom")
	err := Wrap(CodeInvalidInput, "bad longitude", cause)

	require.EqualError(t, err, "bad longitude: boom")
	require.ErrorIs(t, err, cause)
	require.True(t, IsCode(err, CodeInvalidInput))
	require.False(t, IsCode(err, CodeInternal))
}

func TestCodeOf(t *testing.T) {
	wrapped := fmt.Errorf("generate: %w", Wrap(CodeInvariantViolation, "index out of range", nil))
	require.Equal(t, CodeInvariantViolation, CodeOf(wrapped))
	require.Equal(t, CodeInternal, CodeOf(errors.New("plain")))
}
