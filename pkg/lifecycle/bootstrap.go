package lifecycle

import (
	"context"
	"time"
)

// BootstrapResult describes the outcome of one bootstrap attempt.
type BootstrapResult struct {
	// Acquired is true when this process held the bootstrap lock and
	// performed initialization. False means another replica is doing
	// or already did it.
	Acquired bool

	// Corpus has load statistics, nil when the lock was not acquired.
	Corpus *CorpusStats

	// NextID is the documents generator value after repair.
	NextID int64

	// Duration of the attempt.
	Duration time.Duration
}

// Bootstrapper initializes schema and seed documents when a replica
// starts. Safe to call concurrently from any number of processes.
type Bootstrapper interface {
	// Run tries to take the cluster-wide bootstrap lock without waiting.
	// When the lock is taken it creates the schema, loads the corpus and
	// repairs the documents sequence in one transaction. When it is not,
	// Run returns a result with Acquired false and a nil error.
	Run(ctx context.Context) (*BootstrapResult, error)
}
