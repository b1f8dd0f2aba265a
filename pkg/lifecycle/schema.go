package lifecycle

import (
	"context"

	"github.com/gnames/gndocs/pkg/db"
)

// SchemaManager creates database structures for documents and analyses.
// Every statement is guarded by an existence check, so Create is safe
// to call on a database that already has the schema.
type SchemaManager interface {
	// Create runs the create-if-absent DDL for both tables and the
	// analyses index using the given Querier, normally the bootstrap
	// transaction.
	Create(ctx context.Context, q db.Querier) error

	// Exists reports whether both tables are present.
	Exists(ctx context.Context, q db.Querier) (bool, error)
}
