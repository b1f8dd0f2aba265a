package iodocs

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/gnames/gndocs/pkg/errcode"
)

// NotFoundError creates an error for a missing document.
func NotFoundError(id int64) error {
	msg := "Document <em>%d</em> not found"
	vars := []any{id}

	return &gn.Error{
		Code: errcode.DocumentNotFoundError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("document %d not found", id),
	}
}

// NotUTF8Error creates an error for uploaded content that is
// not UTF-8 text.
func NotUTF8Error(filename string) error {
	msg := "Uploaded file <em>%s</em> must be UTF-8 encoded text"
	vars := []any{filename}

	return &gn.Error{
		Code: errcode.DocumentNotUTF8Error,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("content of %s is not UTF-8 text", filename),
	}
}

// FilenameError creates an error for an unacceptable file name.
func FilenameError(filename string) error {
	msg := "Provided filename <em>%s</em> must end with .txt"
	vars := []any{filename}

	return &gn.Error{
		Code: errcode.DocumentFilenameError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("filename %s does not end with .txt", filename),
	}
}

// IDConflictError creates an error for an insert that lost a race
// for the next document id or filename.
func IDConflictError(id int64, filename string, err error) error {
	msg := "Document <em>%d</em> (%s) was created concurrently, try again"
	vars := []any{id, filename}

	return &gn.Error{
		Code: errcode.DocumentIDConflictError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("insert document %d %s: %w", id, filename, err),
	}
}

// QueryError creates an error for a failed documents query.
func QueryError(op string, err error) error {
	msg := "Database error: cannot %s"
	vars := []any{op}

	return &gn.Error{
		Code: errcode.DocumentQueryError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("failed to %s: %w", op, err),
	}
}
