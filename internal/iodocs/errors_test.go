package iodocs

import (
	"errors"
	"testing"

	"github.com/gnames/gn"
	"github.com/gnames/gndocs/pkg/errcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotFoundError_Structure(t *testing.T) {
	err := NotFoundError(42)

	gnErr, ok := err.(*gn.Error)
	require.True(t, ok, "Error should be of type *gn.Error")

	assert.Equal(t, errcode.DocumentNotFoundError, gnErr.Code)
	assert.Equal(t, []any{int64(42)}, gnErr.Vars)
	assert.Contains(t, gnErr.Err.Error(), "42")
}

func TestFilenameError_Structure(t *testing.T) {
	err := FilenameError("notes.md")

	gnErr, ok := err.(*gn.Error)
	require.True(t, ok, "Error should be of type *gn.Error")

	assert.Equal(t, errcode.DocumentFilenameError, gnErr.Code)
	assert.Contains(t, gnErr.Msg, ".txt")
	assert.Equal(t, []any{"notes.md"}, gnErr.Vars)
}

func TestIDConflictError_Structure(t *testing.T) {
	originalErr := errors.New("duplicate key value")

	err := IDConflictError(13, "a.txt", originalErr)

	gnErr, ok := err.(*gn.Error)
	require.True(t, ok, "Error should be of type *gn.Error")

	assert.Equal(t, errcode.DocumentIDConflictError, gnErr.Code)
	assert.Equal(t, []any{int64(13), "a.txt"}, gnErr.Vars)
	assert.ErrorIs(t, gnErr.Err, originalErr)
}

func TestQueryError_Structure(t *testing.T) {
	originalErr := errors.New("connection reset")

	err := QueryError("list documents", originalErr)

	gnErr, ok := err.(*gn.Error)
	require.True(t, ok, "Error should be of type *gn.Error")

	assert.Equal(t, errcode.DocumentQueryError, gnErr.Code)
	assert.ErrorIs(t, gnErr.Err, originalErr)
	assert.Contains(t, gnErr.Err.Error(), "list documents")
}
