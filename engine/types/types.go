package types

import (
	"context"

	"github.com/guileen/doclitedb/storage"
)

// IndexEntry is one scanned index row: the full composite key plus the
// identifier of the document that produced it.
type IndexEntry struct {
	Key   []byte
	DocID string
}

// ScanRange describes one contiguous scan region over the ordered keyspace,
// start inclusive and end exclusive.
//
// Limit and Offset are raw truncation/skip over the pre-dedup entry stream.
// Snapshot, when set, pins the read to a point in time; nil reads live data.
type ScanRange struct {
	Start    []byte
	End      []byte
	Limit    int
	Offset   int
	Reverse  bool
	Snapshot storage.Snapshot
}

// EntryIterator is a pull-based lazy sequence of index entries. Ceasing to
// call Next and calling Close releases the underlying cursor; no further
// engine reads are issued.
type EntryIterator interface {
	Next() (IndexEntry, bool)
	Err() error
	Close() error
}

// IndexEngine is the ordered key-value collaborator the query core scans
// against.
type IndexEngine interface {
	// GetRange returns the entries in [Start, End) in ascending key order,
	// or descending when Reverse is set.
	GetRange(ctx context.Context, r ScanRange) EntryIterator
	// GetKeysCount returns the exact number of raw entries in [Start, End).
	GetKeysCount(ctx context.Context, r ScanRange) (int64, error)
	// CompareKey is the engine's total order over encoded keys.
	CompareKey(a, b []byte) int
}
