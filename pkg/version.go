// Package gndocs stores text documents and their linguistic analyses in
// PostgreSQL and seeds the database from a corpus directory when a service
// replica starts.
package gndocs

var (
	// Version of gndocs, set by build flags.
	Version = "v0.1.0"

	// Build timestamp, set by build flags.
	Build = "n/a"
)
