package errors_test

import (
	stderrors "errors"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sriram-PR/go-discovery/internal/errors"
)

type limitError struct{ limit int }

func (e *limitError) Error() string { return "limit exceeded" }

func TestWithStackTrace_Nil(t *testing.T) {
	assert.NoError(t, errors.WithStackTrace(nil))
	assert.NoError(t, errors.WithStackTraceAndPrefix(nil, "prefix"))
	assert.NoError(t, errors.New(nil))
}

func TestWithStackTrace_PreservesChain(t *testing.T) {
	err := errors.WithStackTrace(&limitError{limit: 3})
	require.Error(t, err)
	assert.True(t, errors.ContainsStackTrace(err))

	var target *limitError
	require.True(t, errors.As(err, &target))
	assert.Equal(t, 3, target.limit)
}

func TestWithStackTrace_NoDoubleWrap(t *testing.T) {
	first := errors.WithStackTrace(fs.ErrNotExist)
	second := errors.WithStackTrace(first)
	assert.Same(t, first, second)
	assert.True(t, errors.Is(second, fs.ErrNotExist))
}

func TestErrorf(t *testing.T) {
	err := errors.Errorf("reading %s: %w", "a.txt", fs.ErrPermission)
	assert.True(t, errors.Is(err, fs.ErrPermission))
	assert.Contains(t, err.Error(), "reading a.txt")
	assert.Contains(t, errors.ErrorStack(err), "errors_test.go")
}

func TestErrorStack_PlainError(t *testing.T) {
	err := stderrors.New("plain")
	assert.Equal(t, "plain", errors.ErrorStack(err))
	assert.False(t, errors.ContainsStackTrace(err))
	assert.Equal(t, "", errors.ErrorStack(nil))
}

func TestWithStackTraceAndPrefix(t *testing.T) {
	err := errors.WithStackTraceAndPrefix(fs.ErrClosed, "closing %s", "f")
	assert.Contains(t, err.Error(), "closing f")
	assert.True(t, errors.Is(err, fs.ErrClosed))
}
