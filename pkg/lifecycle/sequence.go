package lifecycle

import (
	"context"

	"github.com/gnames/gndocs/pkg/db"
)

// SequenceRepairer realigns the documents ID generator with the largest
// stored ID. It must run in the same transaction as the inserts it
// protects.
type SequenceRepairer interface {
	// Repair sets the generator so the next assigned ID is max(id)+1
	// (1 for an empty table) and returns that next ID.
	Repair(ctx context.Context, q db.Querier) (int64, error)
}
