// Package ioseq keeps the documents ID generator ahead of stored IDs.
// Explicit-ID inserts and bulk loads do not advance a PostgreSQL
// serial sequence, so every such write is followed by Repair in the
// same transaction.
package ioseq

import (
	"context"
	"log/slog"

	"github.com/gnames/gndocs/pkg/db"
	"github.com/gnames/gndocs/pkg/lifecycle"
)

const (
	maxIDSQL = `SELECT COALESCE(MAX(id), 0) FROM documents`

	// setval with is_called=true makes nextval return max+1.
	setCalledSQL = `SELECT setval(pg_get_serial_sequence('documents', 'id'), $1, true)`

	// An empty table cannot use setval(seq, 0): 0 is below the sequence
	// minimum. is_called=false makes nextval return 1.
	setEmptySQL = `SELECT setval(pg_get_serial_sequence('documents', 'id'), 1, false)`
)

type repairer struct{}

// NewRepairer creates a SequenceRepairer for the documents table.
func NewRepairer() lifecycle.SequenceRepairer {
	return repairer{}
}

// Repair sets the documents sequence so the next generated ID is
// max(id)+1 and returns that ID.
func (repairer) Repair(ctx context.Context, q db.Querier) (int64, error) {
	if q == nil {
		return 0, NotConnectedError()
	}

	var maxID int64
	if err := q.QueryRow(ctx, maxIDSQL).Scan(&maxID); err != nil {
		return 0, MaxIDError(err)
	}

	var set int64
	var err error
	if maxID > 0 {
		err = q.QueryRow(ctx, setCalledSQL, maxID).Scan(&set)
	} else {
		err = q.QueryRow(ctx, setEmptySQL).Scan(&set)
	}
	if err != nil {
		return 0, SetValError(maxID, err)
	}

	next := maxID + 1
	slog.Debug("Documents sequence repaired", "max_id", maxID, "next_id", next)
	return next, nil
}
