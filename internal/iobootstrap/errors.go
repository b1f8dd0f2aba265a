package iobootstrap

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/gnames/gndocs/pkg/errcode"
)

// NotConnectedError creates an error for a bootstrap attempted
// without a database pool.
func NotConnectedError() error {
	msg := "Bootstrap attempted without database connection"

	return &gn.Error{
		Code: errcode.DBNotConnectedError,
		Msg:  msg,
		Vars: nil,
		Err:  fmt.Errorf("not connected to database"),
	}
}

// BeginTxError creates an error for a transaction that could
// not start.
func BeginTxError(err error) error {
	msg := "Cannot start bootstrap transaction"

	return &gn.Error{
		Code: errcode.DBBeginTxError,
		Msg:  msg,
		Vars: nil,
		Err:  fmt.Errorf("failed to begin bootstrap transaction: %w", err),
	}
}

// LockError creates an error for a failed advisory lock query.
// A lock held by another replica is not an error.
func LockError(key int64, err error) error {
	msg := "Cannot query bootstrap lock <em>%d</em>"
	vars := []any{key}

	return &gn.Error{
		Code: errcode.BootstrapLockError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("failed to try advisory lock %d: %w", key, err),
	}
}

// CommitTxError creates an error for a failed commit.
func CommitTxError(err error) error {
	msg := "Cannot commit bootstrap transaction, changes were rolled back"

	return &gn.Error{
		Code: errcode.DBCommitTxError,
		Msg:  msg,
		Vars: nil,
		Err:  fmt.Errorf("failed to commit bootstrap transaction: %w", err),
	}
}

// CancelledError creates an error for a bootstrap interrupted
// by context cancellation.
func CancelledError(err error) error {
	msg := "Bootstrap was cancelled, changes were rolled back"

	return &gn.Error{
		Code: errcode.BootstrapCancelledError,
		Msg:  msg,
		Vars: nil,
		Err:  fmt.Errorf("bootstrap cancelled: %w", err),
	}
}
