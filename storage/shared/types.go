// Package shared provides shared types and interfaces for the storage module
package shared

import (
	"context"
	"io"
)

// KV defines the interface for key-value storage operations
type KV interface {
	Get(ctx context.Context, key []byte) ([]byte, error)
	Set(ctx context.Context, key, value []byte) error
	Delete(ctx context.Context, key []byte) error
	NewBatch() Batch
	CommitBatch(ctx context.Context, batch Batch) error
	NewIterator(opts *IteratorOptions) Iterator
	NewSnapshot() (Snapshot, error)
	Flush() error
	Close() error
}

// Batch defines the interface for batch operations
type Batch interface {
	Set(key, value []byte) error
	Delete(key []byte) error
	Count() int
	Reset()
	Close() error
}

// IteratorOptions defines options for iterator operations
type IteratorOptions struct {
	LowerBound []byte
	UpperBound []byte
	Reverse    bool
}

// Iterator defines the interface for iterating over key-value pairs
type Iterator interface {
	io.Closer
	Valid() bool
	Next() bool
	Key() []byte
	Value() []byte
	Error() error
	First() bool
}

// Snapshot defines the interface for point-in-time reads
type Snapshot interface {
	io.Closer
	Get(key []byte) ([]byte, error)
	NewIterator(opts *IteratorOptions) Iterator
}

// Error types
var (
	ErrNotFound = &kvError{msg: "key not found"}
	ErrClosed   = &kvError{msg: "kv store closed"}
)

type kvError struct {
	msg string
}

func (e *kvError) Error() string {
	return e.msg
}

// IsNotFound checks if an error is a "not found" error
func IsNotFound(err error) bool {
	if err == nil {
		return false
	}
	if err == ErrNotFound {
		return true
	}
	if e, ok := err.(*kvError); ok {
		return e.msg == "key not found"
	}
	return false
}
