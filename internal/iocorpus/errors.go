package iocorpus

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/gnames/gndocs/pkg/errcode"
)

// NotConnectedError creates an error for a load attempted
// without a database handle.
func NotConnectedError() error {
	msg := "Corpus load attempted without database connection"

	return &gn.Error{
		Code: errcode.DBNotConnectedError,
		Msg:  msg,
		Vars: nil,
		Err:  fmt.Errorf("not connected to database"),
	}
}

// UpsertError creates an error for a failed document upsert.
func UpsertError(file string, err error) error {
	msg := "Cannot save corpus file <em>%s</em> as a document"
	vars := []any{file}

	return &gn.Error{
		Code: errcode.CorpusUpsertError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("failed to upsert document %s: %w", file, err),
	}
}

// CancelledError creates an error for a load interrupted by
// context cancellation.
func CancelledError(processed int, err error) error {
	msg := "Corpus load was cancelled after <em>%d</em> files"
	vars := []any{processed}

	return &gn.Error{
		Code: errcode.CorpusCancelledError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("corpus load cancelled: %w", err),
	}
}
