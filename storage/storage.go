// Package storage provides the public API for the storage module
package storage

import (
	"github.com/guileen/doclitedb/storage/internal/kv"
	"github.com/guileen/doclitedb/storage/shared"
)

// KV defines the interface for key-value storage operations
type KV = shared.KV

// Batch defines the interface for batch operations
type Batch = shared.Batch

// IteratorOptions defines options for iterator operations
type IteratorOptions = shared.IteratorOptions

// Iterator defines the interface for iterating over key-value pairs
type Iterator = shared.Iterator

// Snapshot defines the interface for point-in-time reads
type Snapshot = shared.Snapshot

// Error types
var (
	ErrNotFound = shared.ErrNotFound
	ErrClosed   = shared.ErrClosed
)

// IsNotFound checks if an error is a "not found" error
func IsNotFound(err error) bool {
	return shared.IsNotFound(err)
}

// PebbleConfig holds the configuration for the Pebble KV store
type PebbleConfig = kv.PebbleConfig

// NewPebbleKV creates a new Pebble-based KV store
func NewPebbleKV(config *PebbleConfig) (KV, error) {
	return kv.NewPebbleKV(config)
}

// DefaultPebbleConfig creates a default configuration for Pebble KV store
func DefaultPebbleConfig(path string) *PebbleConfig {
	return kv.DefaultPebbleConfig(path)
}

// TestPebbleConfig creates a small-footprint configuration for tests
func TestPebbleConfig(path string) *PebbleConfig {
	return kv.TestPebbleConfig(path)
}
