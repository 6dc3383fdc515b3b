// Package remote is the persistence boundary of the pipeline. The core
// treats the store as an opaque key-value endpoint: one Get to gate the
// prediction flow, one Put to publish a result. Calls are single-attempt
// and network-bound; the caller decides what a failure means.
package remote

import "context"

// Store is the remote key-value collaborator.
type Store interface {
	// Get reads the value at path. ok is false when the path holds nothing;
	// err reports transport or backend failures.
	Get(ctx context.Context, path string) (value string, ok bool, err error)

	// Put writes key=value under path.
	Put(ctx context.Context, path, key, value string) error
}
