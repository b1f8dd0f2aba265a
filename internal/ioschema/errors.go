package ioschema

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/gnames/gndocs/pkg/errcode"
)

// NotConnectedError creates an error for when schema
// operation is attempted without database connection.
func NotConnectedError() error {
	msg := "Schema operation attempted without database connection"

	return &gn.Error{
		Code: errcode.DBNotConnectedError,
		Msg:  msg,
		Vars: nil,
		Err:  fmt.Errorf("not connected to database"),
	}
}

// CreateSchemaError creates an error for schema
// creation failures.
func CreateSchemaError(table string, err error) error {
	msg := `Cannot create table <em>%s</em>

<em>Possible causes:</em>
  - Insufficient database permissions
  - A table with the same name but different structure

<em>How to fix:</em>
  1. Check database user has CREATE permissions
  2. Check database logs for details`

	vars := []any{table}

	return &gn.Error{
		Code: errcode.SchemaCreateError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("failed to create schema for %s: %w", table, err),
	}
}

// CheckSchemaError creates an error for failures of the
// schema presence check.
func CheckSchemaError(err error) error {
	msg := "Cannot check if database schema exists"

	return &gn.Error{
		Code: errcode.SchemaCheckError,
		Msg:  msg,
		Vars: nil,
		Err:  fmt.Errorf("failed to check schema: %w", err),
	}
}
