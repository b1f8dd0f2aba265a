// Package ioschema implements SchemaManager interface for
// database schema management. This is an impure I/O package
// that runs DDL generated from pkg/schema models.
package ioschema

import (
	"context"
	"log/slog"

	"github.com/gnames/gndocs/pkg/db"
	"github.com/gnames/gndocs/pkg/lifecycle"
	"github.com/gnames/gndocs/pkg/schema"
)

// manager implements the lifecycle.SchemaManager interface.
type manager struct {
	models []schema.DDLGenerator
}

// NewManager creates a new SchemaManager for documents and analyses.
func NewManager() lifecycle.SchemaManager {
	return &manager{models: schema.AllModels()}
}

// Create runs create-if-absent DDL for every model in dependency order:
// documents before analyses that reference them, tables before their
// indexes. Running it on an existing schema changes nothing.
func (m *manager) Create(ctx context.Context, q db.Querier) error {
	if q == nil {
		return NotConnectedError()
	}

	for _, model := range m.models {
		table := model.TableName()
		if _, err := q.Exec(ctx, model.TableDDL()); err != nil {
			return CreateSchemaError(table, err)
		}
		for _, idx := range model.IndexDDL() {
			if _, err := q.Exec(ctx, idx); err != nil {
				return CreateSchemaError(table, err)
			}
		}
		slog.Debug("Table is ready", "table", table)
	}
	return nil
}

// Exists reports whether all model tables are present in the
// public schema.
func (m *manager) Exists(ctx context.Context, q db.Querier) (bool, error) {
	if q == nil {
		return false, NotConnectedError()
	}

	tables := make([]string, len(m.models))
	for i, model := range m.models {
		tables[i] = model.TableName()
	}

	query := `
		SELECT COUNT(*)
		FROM information_schema.tables
		WHERE table_schema = 'public'
		AND table_name = ANY($1)
	`

	var count int
	if err := q.QueryRow(ctx, query, tables).Scan(&count); err != nil {
		return false, CheckSchemaError(err)
	}
	return count == len(tables), nil
}
