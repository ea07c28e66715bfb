// Package store is the keyed repository holding stream records. The
// engine itself has no process-wide mutable state: it addresses records
// through the StreamStore interface, so the core logic runs identically
// against the in-memory store in tests and the SQLite store in an
// embedded deployment.
package store

import (
	"context"

	"github.com/streamvest/engine-go/core/types"
	"github.com/streamvest/engine-go/core/util"
)

// StreamStore is the injected repository of stream records, keyed by the
// stream's derived identity.
type StreamStore interface {
	// Put inserts a new record. Fails with ErrorStreamExists if a record
	// with the same ID is already present.
	Put(ctx context.Context, stream *types.Stream) error
	// Update replaces an existing record. Fails with ErrorStreamNotFound
	// if no record with the ID exists.
	Update(ctx context.Context, stream *types.Stream) error
	// Get returns the record for the given stream ID, or
	// ErrorStreamNotFound.
	Get(ctx context.Context, id util.Address) (*types.Stream, error)
	// ListBySender returns all records whose sender matches.
	ListBySender(ctx context.Context, sender util.Address) ([]*types.Stream, error)
	// ListByRecipient returns all records whose recipient matches.
	ListByRecipient(ctx context.Context, recipient util.Address) ([]*types.Stream, error)
}
