package kv

import (
	"context"
	"fmt"
	"sync"

	"github.com/cockroachdb/pebble"
	"github.com/guileen/doclitedb/storage/shared"
)

type PebbleKV struct {
	db     *pebble.DB
	dbPath string
	closed bool
	mu     sync.RWMutex
}

type PebbleConfig struct {
	Path               string
	CacheSize          int64
	MemTableSize       int
	MaxOpenFiles       int
	BlockSize          int
	CompressionEnabled bool
}

func DefaultPebbleConfig(path string) *PebbleConfig {
	return &PebbleConfig{
		Path:               path,
		CacheSize:          256 * 1024 * 1024,
		MemTableSize:       64 * 1024 * 1024,
		MaxOpenFiles:       10000,
		BlockSize:          32 << 10,
		CompressionEnabled: true,
	}
}

// TestPebbleConfig keeps memory small for short-lived test stores.
func TestPebbleConfig(path string) *PebbleConfig {
	return &PebbleConfig{
		Path:               path,
		CacheSize:          8 * 1024 * 1024,
		MemTableSize:       4 * 1024 * 1024,
		MaxOpenFiles:       100,
		BlockSize:          4 << 10,
		CompressionEnabled: false,
	}
}

func NewPebbleKV(config *PebbleConfig) (*PebbleKV, error) {
	cache := pebble.NewCache(config.CacheSize)
	defer cache.Unref()

	compression := pebble.SnappyCompression
	if !config.CompressionEnabled {
		compression = pebble.NoCompression
	}

	opts := &pebble.Options{
		Cache:        cache,
		MaxOpenFiles: config.MaxOpenFiles,
		MemTableSize: uint64(config.MemTableSize),
	}
	for i := range opts.Levels {
		opts.Levels[i].BlockSize = config.BlockSize
		opts.Levels[i].Compression = compression
	}

	db, err := pebble.Open(config.Path, opts)
	if err != nil {
		return nil, fmt.Errorf("open pebble at %s: %w", config.Path, err)
	}

	return &PebbleKV{db: db, dbPath: config.Path}, nil
}

func (p *PebbleKV) Get(ctx context.Context, key []byte) ([]byte, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return nil, shared.ErrClosed
	}

	value, closer, err := p.db.Get(key)
	if err != nil {
		if err == pebble.ErrNotFound {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("pebble get: %w", err)
	}
	defer closer.Close()

	result := make([]byte, len(value))
	copy(result, value)
	return result, nil
}

func (p *PebbleKV) Set(ctx context.Context, key, value []byte) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return shared.ErrClosed
	}
	if err := p.db.Set(key, value, pebble.NoSync); err != nil {
		return fmt.Errorf("pebble set: %w", err)
	}
	return nil
}

func (p *PebbleKV) Delete(ctx context.Context, key []byte) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return shared.ErrClosed
	}
	if err := p.db.Delete(key, pebble.NoSync); err != nil {
		return fmt.Errorf("pebble delete: %w", err)
	}
	return nil
}

func (p *PebbleKV) NewBatch() shared.Batch {
	return &PebbleBatch{batch: p.db.NewBatch()}
}

func (p *PebbleKV) CommitBatch(ctx context.Context, batch shared.Batch) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return shared.ErrClosed
	}
	pb, ok := batch.(*PebbleBatch)
	if !ok {
		return fmt.Errorf("unexpected batch type %T", batch)
	}
	if err := pb.batch.Commit(pebble.NoSync); err != nil {
		return fmt.Errorf("pebble batch commit: %w", err)
	}
	return nil
}

func (p *PebbleKV) NewIterator(opts *shared.IteratorOptions) shared.Iterator {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return &PebbleIterator{err: shared.ErrClosed}
	}

	iter, err := p.db.NewIter(pebbleIterOptions(opts))
	if err != nil {
		return &PebbleIterator{err: err}
	}
	return &PebbleIterator{iter: iter, reverse: opts != nil && opts.Reverse}
}

func (p *PebbleKV) NewSnapshot() (shared.Snapshot, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return nil, shared.ErrClosed
	}
	return &PebbleSnapshot{snapshot: p.db.NewSnapshot()}, nil
}

func (p *PebbleKV) Flush() error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return shared.ErrClosed
	}
	return p.db.Flush()
}

func (p *PebbleKV) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true
	return p.db.Close()
}

func pebbleIterOptions(opts *shared.IteratorOptions) *pebble.IterOptions {
	if opts == nil {
		return nil
	}
	return &pebble.IterOptions{
		LowerBound: opts.LowerBound,
		UpperBound: opts.UpperBound,
	}
}

// PebbleBatch wraps a pebble batch behind the shared.Batch interface.
type PebbleBatch struct {
	batch *pebble.Batch
}

func (b *PebbleBatch) Set(key, value []byte) error {
	return b.batch.Set(key, value, nil)
}

func (b *PebbleBatch) Delete(key []byte) error {
	return b.batch.Delete(key, nil)
}

func (b *PebbleBatch) Count() int {
	return int(b.batch.Count())
}

func (b *PebbleBatch) Reset() {
	b.batch.Reset()
}

func (b *PebbleBatch) Close() error {
	return b.batch.Close()
}
