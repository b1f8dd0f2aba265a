package ioseq

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/gnames/gndocs/pkg/errcode"
)

// NotConnectedError creates an error for a repair attempted
// without a database handle.
func NotConnectedError() error {
	msg := "Sequence repair attempted without database connection"

	return &gn.Error{
		Code: errcode.DBNotConnectedError,
		Msg:  msg,
		Vars: nil,
		Err:  fmt.Errorf("not connected to database"),
	}
}

// MaxIDError creates an error for a failed maximum ID lookup.
func MaxIDError(err error) error {
	msg := "Cannot find the largest document ID"

	return &gn.Error{
		Code: errcode.SequenceMaxIDError,
		Msg:  msg,
		Vars: nil,
		Err:  fmt.Errorf("failed to select max(id) from documents: %w", err),
	}
}

// SetValError creates an error for a failed sequence update.
func SetValError(maxID int64, err error) error {
	msg := `Cannot move documents ID sequence past <em>%d</em>

<em>How to fix:</em>
  1. Check that documents.id is a SERIAL column
  2. Run <em>gndocs repair</em> after fixing the schema`

	vars := []any{maxID}

	return &gn.Error{
		Code: errcode.SequenceSetValError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("failed to set documents sequence to %d: %w", maxID, err),
	}
}
