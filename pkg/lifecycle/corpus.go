package lifecycle

import (
	"context"

	"github.com/gnames/gndocs/pkg/db"
)

// CorpusStats summarizes one corpus load.
type CorpusStats struct {
	// Processed is the number of files upserted as documents.
	Processed int

	// Skipped is the number of files ignored because their content
	// was not valid UTF-8 or could not be read.
	Skipped int

	// SkippedFiles lists names of skipped files in load order.
	SkippedFiles []string
}

// CorpusLoader upserts text files of a directory as documents.
type CorpusLoader interface {
	// Load reads files with the configured extension from dir in name
	// order and upserts them by filename. A missing directory yields
	// empty stats and no error. Bad files are skipped, never fatal.
	Load(ctx context.Context, q db.Querier, dir string) (*CorpusStats, error)
}
