package iodb

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/gnames/gndocs/pkg/errcode"
)

// ConnectionError creates an error for database connection
// failures.
func ConnectionError(
	host string,
	port int,
	database, user string,
	err error,
) error {
	msg := `Cannot connect to PostgreSQL at <em>%s:%d</em>

<em>Possible causes:</em>
  - PostgreSQL is not running
  - Database configuration is incorrect
  - Network connectivity issues

<em>How to fix:</em>
  1. Check if PostgreSQL is running:
     <em>pg_isready -h %s -p %d</em>
  2. Verify database <em>%s</em> exists and user <em>%s</em> can log in
  3. Check GNDOCS_DATABASE_* variables or ~/.config/gndocs/config.yaml`

	vars := []any{host, port, host, port, database, user}

	return &gn.Error{
		Code: errcode.DBConnectionError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf(
			"failed to connect to %s:%d/%s: %w",
			host, port, database, err),
	}
}

// NotConnectedError creates an error for when a database
// operation is attempted before Connect.
func NotConnectedError() error {
	msg := "Database operation attempted without database connection"

	return &gn.Error{
		Code: errcode.DBNotConnectedError,
		Msg:  msg,
		Vars: nil,
		Err:  fmt.Errorf("not connected to database"),
	}
}

// NotReadyError creates an error for a database that did not
// answer within the startup timeout.
func NotReadyError(host string, port, seconds int, err error) error {
	msg := `PostgreSQL at <em>%s:%d</em> did not answer in %d seconds

<em>How to fix:</em>
  1. Check that the database container or service is up
  2. Increase <em>database.ready_timeout</em> if it starts slowly`

	vars := []any{host, port, seconds}

	return &gn.Error{
		Code: errcode.DBNotReadyError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf(
			"database %s:%d not ready after %ds: %w",
			host, port, seconds, err),
	}
}

// TableExistsCheckError creates an error for table existence
// check failures.
func TableExistsCheckError(tableName string, err error) error {
	msg := "Cannot check if table <em>%s</em> exists"
	vars := []any{tableName}

	return &gn.Error{
		Code: errcode.DBTableExistsCheckError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf(
			"failed to check table %s existence: %w",
			tableName, err),
	}
}
