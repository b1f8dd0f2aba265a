package ioweb

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/gnames/gndocs/pkg/errcode"
)

// BadIDError creates an error for a path parameter that is not a
// document id.
func BadIDError(param string) error {
	msg := "Document id must be an integer, got <em>%s</em>"
	vars := []any{param}

	return &gn.Error{
		Code: errcode.WebBadRequestError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("bad document id %q", param),
	}
}

// MissingFileError creates an error for an upload without the
// "file" form field.
func MissingFileError(err error) error {
	msg := "Form field <em>file</em> is required"

	return &gn.Error{
		Code: errcode.WebBadRequestError,
		Msg:  msg,
		Err:  fmt.Errorf("read upload: %w", err),
	}
}

// ReadUploadError creates an error for an upload that cannot be read.
func ReadUploadError(err error) error {
	msg := "Failed to read uploaded file"

	return &gn.Error{
		Code: errcode.WebReadUploadError,
		Msg:  msg,
		Err:  fmt.Errorf("read upload: %w", err),
	}
}

// AnalyzerError creates an error for an analyzer that failed to load
// or to analyze a document.
func AnalyzerError(id int64, err error) error {
	msg := "Analysis of document <em>%d</em> failed"
	vars := []any{id}

	return &gn.Error{
		Code: errcode.AnalyzerInitError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("analyze document %d: %w", id, err),
	}
}
