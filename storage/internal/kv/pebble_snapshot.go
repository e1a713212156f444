package kv

import (
	"fmt"

	"github.com/cockroachdb/pebble"
	"github.com/guileen/doclitedb/storage/shared"
)

type PebbleSnapshot struct {
	snapshot *pebble.Snapshot
}

func (s *PebbleSnapshot) Get(key []byte) ([]byte, error) {
	value, closer, err := s.snapshot.Get(key)
	if err != nil {
		if err == pebble.ErrNotFound {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("pebble snapshot get: %w", err)
	}
	defer closer.Close()

	result := make([]byte, len(value))
	copy(result, value)
	return result, nil
}

func (s *PebbleSnapshot) NewIterator(opts *shared.IteratorOptions) shared.Iterator {
	iter, err := s.snapshot.NewIter(pebbleIterOptions(opts))
	if err != nil {
		return &PebbleIterator{err: err}
	}
	return &PebbleIterator{
		iter:    iter,
		reverse: opts != nil && opts.Reverse,
	}
}

func (s *PebbleSnapshot) Close() error {
	return s.snapshot.Close()
}
