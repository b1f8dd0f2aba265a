package ioanalysis

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/gnames/gndocs/pkg/errcode"
)

// NotConnectedError creates an error for a store opened without a
// connection pool.
func NotConnectedError() error {
	msg := "Database is not connected"

	return &gn.Error{
		Code: errcode.DBNotConnectedError,
		Msg:  msg,
		Err:  fmt.Errorf("analysis store: pool is nil"),
	}
}

// GORMConnectionError creates an error for a failed GORM setup.
func GORMConnectionError(err error) error {
	msg := "Cannot open analysis store"

	return &gn.Error{
		Code: errcode.AnalysisStoreError,
		Msg:  msg,
		Err:  fmt.Errorf("failed to open GORM connection: %w", err),
	}
}

// NotFoundError creates an error for a document without analysis.
func NotFoundError(documentID int64) error {
	msg := "Analysis not found for document <em>%d</em>"
	vars := []any{documentID}

	return &gn.Error{
		Code: errcode.AnalysisNotFoundError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("analysis of document %d not found", documentID),
	}
}

// DocumentMissingError creates an error for an analysis that refers
// to a document that does not exist.
func DocumentMissingError(documentID int64, err error) error {
	msg := "Document <em>%d</em> not found"
	vars := []any{documentID}

	return &gn.Error{
		Code: errcode.DocumentNotFoundError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("store analysis of document %d: %w", documentID, err),
	}
}

// StoreError creates an error for a failed analysis upsert.
func StoreError(documentID int64, err error) error {
	msg := "Cannot store analysis of document <em>%d</em>"
	vars := []any{documentID}

	return &gn.Error{
		Code: errcode.AnalysisStoreError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("failed to store analysis of document %d: %w", documentID, err),
	}
}

// QueryError creates an error for a failed analyses query.
func QueryError(op string, err error) error {
	msg := "Database error: cannot %s"
	vars := []any{op}

	return &gn.Error{
		Code: errcode.AnalysisQueryError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("failed to %s: %w", op, err),
	}
}
