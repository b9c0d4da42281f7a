/*
storage.go - Blob persistence contract

PURPOSE:
  Defines the interface between the ledger engine and its persistence.
  The engine serializes a whole record collection as one JSON blob under a
  fixed per-domain key on every mutation, and loads it once at startup.
  No partial writes, no incremental persistence, no migrations.

MALFORMED DATA:
  A blob that fails to decode is treated as "no data": the collection
  starts empty and the failure is logged, never raised to the user.
  Individual records that decode but fail validation are quarantined
  (dropped with a log line) rather than crashing the load.

IMPLEMENTATIONS:
  - generic/store:  In-memory, for tests and dev
  - store/sqlite:   SQLite-backed, for production

SEE ALSO:
  - ledger.go: The only consumer of this interface
*/
package generic

import "context"

// BlobStore is the key-value persistence contract.
type BlobStore interface {
	// Load returns the blob stored under key, or (nil, nil) when the key
	// has never been written.
	Load(ctx context.Context, key string) ([]byte, error)

	// Save overwrites the blob stored under key.
	Save(ctx context.Context, key string, blob []byte) error
}
