package iotesting

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Statement is one SQL call seen by a Recorder.
type Statement struct {
	SQL  string
	Args []any
}

// Recorder is an in-memory db.Querier for unit tests. It records every
// statement and lets a test decide results with the OnExec and OnQueryRow
// hooks. Nil hooks mean success with empty results.
type Recorder struct {
	mu         sync.Mutex
	Statements []Statement

	// OnExec returns an error for a statement, nil for success.
	OnExec func(sql string, args []any) error

	// OnQueryRow returns the row for a query.
	OnQueryRow func(sql string, args []any) pgx.Row
}

func (r *Recorder) record(sql string, args []any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Statements = append(r.Statements, Statement{SQL: sql, Args: args})
}

// Exec implements db.Querier.
func (r *Recorder) Exec(
	_ context.Context,
	sql string,
	args ...any,
) (pgconn.CommandTag, error) {
	r.record(sql, args)
	if r.OnExec != nil {
		if err := r.OnExec(sql, args); err != nil {
			return pgconn.CommandTag{}, err
		}
	}
	return pgconn.NewCommandTag("OK"), nil
}

// Query implements db.Querier. Multi-row queries are not faked.
func (r *Recorder) Query(
	_ context.Context,
	sql string,
	args ...any,
) (pgx.Rows, error) {
	r.record(sql, args)
	return nil, errors.New("iotesting: Query is not supported")
}

// QueryRow implements db.Querier.
func (r *Recorder) QueryRow(
	_ context.Context,
	sql string,
	args ...any,
) pgx.Row {
	r.record(sql, args)
	if r.OnQueryRow != nil {
		return r.OnQueryRow(sql, args)
	}
	return Row{Err: pgx.ErrNoRows}
}

// SQL returns recorded statements that contain substr.
func (r *Recorder) SQL(substr string) []Statement {
	r.mu.Lock()
	defer r.mu.Unlock()
	var res []Statement
	for _, s := range r.Statements {
		if strings.Contains(s.SQL, substr) {
			res = append(res, s)
		}
	}
	return res
}

// Row is a pgx.Row with fixed values.
type Row struct {
	Values []any
	Err    error
}

// Scan copies Values into dest, converting between compatible
// kinds (for example int to int64).
func (r Row) Scan(dest ...any) error {
	if r.Err != nil {
		return r.Err
	}
	if len(dest) != len(r.Values) {
		return fmt.Errorf("iotesting: %d values for %d targets",
			len(r.Values), len(dest))
	}
	for i, d := range dest {
		dv := reflect.ValueOf(d)
		if dv.Kind() != reflect.Pointer || dv.IsNil() {
			return fmt.Errorf("iotesting: target %d is not a pointer", i)
		}
		el := dv.Elem()
		v := reflect.ValueOf(r.Values[i])
		if !v.Type().ConvertibleTo(el.Type()) {
			return fmt.Errorf("iotesting: cannot scan %T into %s",
				r.Values[i], el.Type())
		}
		el.Set(v.Convert(el.Type()))
	}
	return nil
}

// Tx is a fake pgx.Tx backed by a Recorder. Methods that are not
// overridden panic through the nil embedded interface.
type Tx struct {
	pgx.Tx
	Rec *Recorder

	// CommitErr is returned by Commit.
	CommitErr error

	mu         sync.Mutex
	committed  bool
	rolledBack bool
}

// NewTx creates a Tx with an empty Recorder.
func NewTx() *Tx {
	return &Tx{Rec: &Recorder{}}
}

func (t *Tx) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return t.Rec.Exec(ctx, sql, args...)
}

func (t *Tx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return t.Rec.Query(ctx, sql, args...)
}

func (t *Tx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return t.Rec.QueryRow(ctx, sql, args...)
}

// Commit marks the transaction committed unless CommitErr is set.
func (t *Tx) Commit(context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.committed || t.rolledBack {
		return pgx.ErrTxClosed
	}
	if t.CommitErr != nil {
		t.rolledBack = true
		return t.CommitErr
	}
	t.committed = true
	return nil
}

// Rollback marks the transaction rolled back. After Commit it returns
// pgx.ErrTxClosed as the real implementation does.
func (t *Tx) Rollback(context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.committed || t.rolledBack {
		return pgx.ErrTxClosed
	}
	t.rolledBack = true
	return nil
}

// Committed reports whether Commit succeeded.
func (t *Tx) Committed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.committed
}

// RolledBack reports whether the transaction was rolled back.
func (t *Tx) RolledBack() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.rolledBack
}

// Beginner hands out transactions created by NewTx, one per Begin call.
type Beginner struct {
	// NewTx creates the transaction for the next Begin.
	NewTx func() *Tx

	// Err is returned by Begin when set.
	Err error

	mu  sync.Mutex
	Txs []*Tx
}

// Begin implements db.TxBeginner.
func (b *Beginner) Begin(context.Context) (pgx.Tx, error) {
	if b.Err != nil {
		return nil, b.Err
	}
	tx := NewTx()
	if b.NewTx != nil {
		tx = b.NewTx()
	}
	b.mu.Lock()
	b.Txs = append(b.Txs, tx)
	b.mu.Unlock()
	return tx, nil
}
