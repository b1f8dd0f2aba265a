// Package store defines persistence contracts for documents and
// their analyses. Implementations live in internal/iodocs and
// internal/ioanalysis.
package store

import (
	"context"

	"github.com/gnames/gndocs/pkg/nlp"
	"github.com/gnames/gndocs/pkg/schema"
)

// DocumentInfo is a document without its content.
type DocumentInfo struct {
	ID       int64  `db:"id" json:"id"`
	Filename string `db:"filename" json:"filename"`
}

// DocumentStore keeps uploaded and seeded text documents.
type DocumentStore interface {
	// List returns all documents ordered by ID.
	List(ctx context.Context) ([]DocumentInfo, error)

	// Get returns a document with its content.
	Get(ctx context.Context, id int64) (*schema.Document, error)

	// Insert stores an uploaded UTF-8 text under the given filename,
	// renaming it if the name is taken. The document receives ID
	// max(id)+1 and the ID generator is repaired in the same
	// transaction.
	Insert(ctx context.Context, filename string, data []byte) (*DocumentInfo, error)

	// Delete removes a document. Its analysis is removed by the
	// database cascade. Returns the deleted document.
	Delete(ctx context.Context, id int64) (*DocumentInfo, error)

	// Count returns the number of stored documents.
	Count(ctx context.Context) (int64, error)
}

// AnalysisStore keeps at most one analysis per document.
type AnalysisStore interface {
	// Store inserts or replaces the analysis of a document.
	Store(ctx context.Context, documentID int64, res *nlp.Result) error

	// Get returns the stored analysis of a document.
	Get(ctx context.Context, documentID int64) (*nlp.Result, error)

	// Delete removes the stored analysis of a document.
	Delete(ctx context.Context, documentID int64) error

	// Count returns the number of stored analyses.
	Count(ctx context.Context) (int64, error)
}
