package iofs

import (
	"errors"
	"testing"

	"github.com/gnames/gn"
	"github.com/gnames/gndocs/pkg/errcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestCreateDirError_Structure verifies error structure.
func TestCreateDirError_Structure(t *testing.T) {
	testDir := "/test/dir"
	originalErr := errors.New("permission denied")

	err := CreateDirError(testDir, originalErr)

	require.NotNil(t, err)

	gnErr, ok := err.(*gn.Error)
	require.True(t, ok,
		"Error should be of type *gn.Error")

	assert.Equal(t, errcode.CreateDirError, gnErr.Code,
		"Error code should be CreateDirError")
	assert.Contains(t, gnErr.Msg, "%s",
		"Message should contain format placeholder")

	require.Len(t, gnErr.Vars, 1)
	assert.Equal(t, testDir, gnErr.Vars[0],
		"Variable should be the directory path")

	assert.ErrorIs(t, gnErr.Err, originalErr,
		"Should wrap original error")
	assert.Contains(t, gnErr.Err.Error(), "cannot create",
		"Internal error should describe the failure")
}

// TestCopyFileError_Structure verifies error structure.
func TestCopyFileError_Structure(t *testing.T) {
	path := "/test/config.yaml"
	originalErr := errors.New("read-only file system")

	err := CopyFileError(path, originalErr)

	gnErr, ok := err.(*gn.Error)
	require.True(t, ok)

	assert.Equal(t, errcode.CopyFileError, gnErr.Code)
	assert.Equal(t, []any{path}, gnErr.Vars)
	assert.ErrorIs(t, gnErr.Err, originalErr)
	assert.Contains(t, gnErr.Err.Error(), "TestCopyFileError_Structure",
		"Internal error should name the caller")
}

// TestReadFileError_Structure verifies error structure.
func TestReadFileError_Structure(t *testing.T) {
	path := "/test/config.yaml"
	originalErr := errors.New("yaml: line 3: did not find expected key")

	err := ReadFileError(path, originalErr)

	gnErr, ok := err.(*gn.Error)
	require.True(t, ok)

	assert.Equal(t, errcode.ReadFileError, gnErr.Code)
	assert.Equal(t, []any{path}, gnErr.Vars)
	assert.ErrorIs(t, gnErr.Err, originalErr)
}
