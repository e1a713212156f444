// Package pebble implements the IndexEngine collaborator over the
// pebble-backed storage layer.
package pebble

import (
	"bytes"
	"context"

	"github.com/guileen/doclitedb/engine/types"
	"github.com/guileen/doclitedb/storage"
)

// Engine serves ordered range scans and key counts over a storage.KV whose
// keys were produced by the codec package (plain byte order).
type Engine struct {
	kv storage.KV
}

func NewEngine(kv storage.KV) *Engine {
	return &Engine{kv: kv}
}

func (e *Engine) GetRange(ctx context.Context, r types.ScanRange) types.EntryIterator {
	opts := &storage.IteratorOptions{
		LowerBound: r.Start,
		UpperBound: r.End,
		Reverse:    r.Reverse,
	}

	var iter storage.Iterator
	if r.Snapshot != nil {
		iter = r.Snapshot.NewIterator(opts)
	} else {
		iter = e.kv.NewIterator(opts)
	}

	return &rangeIterator{
		ctx:       ctx,
		iter:      iter,
		remaining: r.Limit,
		limited:   r.Limit > 0,
		skip:      r.Offset,
	}
}

func (e *Engine) GetKeysCount(ctx context.Context, r types.ScanRange) (int64, error) {
	opts := &storage.IteratorOptions{
		LowerBound: r.Start,
		UpperBound: r.End,
	}

	var iter storage.Iterator
	if r.Snapshot != nil {
		iter = r.Snapshot.NewIterator(opts)
	} else {
		iter = e.kv.NewIterator(opts)
	}
	defer iter.Close()

	var count int64
	for iter.Next() {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		count++
	}
	if err := iter.Error(); err != nil {
		return 0, err
	}
	return count, nil
}

func (e *Engine) CompareKey(a, b []byte) int {
	return bytes.Compare(a, b)
}

// rangeIterator adapts a storage iterator to the lazy entry sequence,
// applying raw offset/limit before any downstream processing.
type rangeIterator struct {
	ctx       context.Context
	iter      storage.Iterator
	remaining int
	limited   bool
	skip      int
	err       error
	closed    bool
}

func (it *rangeIterator) Next() (types.IndexEntry, bool) {
	if it.closed || it.err != nil {
		return types.IndexEntry{}, false
	}
	if it.limited && it.remaining <= 0 {
		return types.IndexEntry{}, false
	}
	for {
		if err := it.ctx.Err(); err != nil {
			it.err = err
			return types.IndexEntry{}, false
		}
		if !it.iter.Next() {
			it.err = it.iter.Error()
			return types.IndexEntry{}, false
		}
		if it.skip > 0 {
			it.skip--
			continue
		}
		break
	}
	if it.limited {
		it.remaining--
	}

	key := make([]byte, len(it.iter.Key()))
	copy(key, it.iter.Key())
	return types.IndexEntry{Key: key, DocID: string(it.iter.Value())}, true
}

func (it *rangeIterator) Err() error {
	return it.err
}

func (it *rangeIterator) Close() error {
	if it.closed {
		return nil
	}
	it.closed = true
	return it.iter.Close()
}
