package query

import (
	"context"

	"github.com/guileen/doclitedb/codec"
	"github.com/guileen/doclitedb/engine/types"
	"github.com/guileen/doclitedb/index"
	"github.com/guileen/doclitedb/metrics"
	"github.com/guileen/doclitedb/storage"
)

// defaultNarrowWarnThreshold is the raw entry count past which the residual
// narrower emits its soft diagnostic.
const defaultNarrowWarnThreshold = 10000

// Request describes one filter invocation against a selected index. Index
// selection happened upstream; this core only plans and executes against the
// given one.
type Request struct {
	Clauses []Clause
	Index   index.Metadata
	// Limit and Offset follow the raw-scan policy: with more than one
	// composed range the offset is forced to zero, and on a multi-valued
	// index the limit is inflated to survive deduplication. The caller
	// trims the final sequence.
	Limit   int
	Offset  int
	Reverse bool
	// Snapshot pins reads to a point in time; nil reads live data.
	Snapshot storage.Snapshot
}

// Result pairs the clauses the index resolved with the lazy entry sequence.
// Clauses not in Used must still be applied by the caller against the
// documents themselves.
type Result struct {
	Used    []Clause
	Entries EntrySeq
}

// Filterer runs the plan-scan-narrow pipeline against one index engine.
type Filterer struct {
	engine        types.IndexEngine
	metrics       *metrics.Metrics
	cache         *planCache
	warnThreshold int
}

// Option configures a Filterer.
type Option func(*Filterer)

// WithMetrics attaches Prometheus instrumentation.
func WithMetrics(m *metrics.Metrics) Option {
	return func(f *Filterer) { f.metrics = m }
}

// WithPlanCache caches plans for repeated clause/index combinations.
func WithPlanCache(size int) Option {
	return func(f *Filterer) { f.cache = newPlanCache(size) }
}

// WithNarrowWarnThreshold overrides the soft-diagnostic threshold.
func WithNarrowWarnThreshold(n int) Option {
	return func(f *Filterer) { f.warnThreshold = n }
}

func NewFilterer(engine types.IndexEngine, opts ...Option) *Filterer {
	f := &Filterer{
		engine:        engine,
		metrics:       metrics.NewNop(),
		warnThreshold: defaultNarrowWarnThreshold,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// FilterUsingIndex plans the request, scans the composed ranges (or the full
// partition when nothing mapped onto the leading field), deduplicates
// multi-valued results, and narrows residual clauses against the index keys.
// The returned sequence is lazy: closing it early stops engine reads.
func (f *Filterer) FilterUsingIndex(ctx context.Context, req Request) (Result, error) {
	plan, err := f.plan(req)
	if err != nil {
		return Result{}, err
	}
	if plan.Empty {
		return Result{Used: plan.Used, Entries: emptySeq{}}, nil
	}

	var seq EntrySeq
	if len(plan.Ranges) == 0 {
		f.metrics.FullScansTotal.Inc()
		seq = f.fullScan(ctx, req)
	} else {
		seq = f.scanRanges(ctx, req, plan.Ranges)
	}

	seq = newCountingSeq(seq, f.metrics.EntriesScanned.Inc)

	if req.Index.MultiValued() {
		seq = newDedupSeq(seq)
	}

	preds, err := buildNarrowPredicates(&plan, req.Clauses, req.Index)
	if err != nil {
		seq.Close()
		return Result{}, err
	}
	seq = narrowSeq(ctx, seq, preds, f.warnThreshold, f.metrics.EntriesNarrowed.Inc)

	return Result{Used: plan.Used, Entries: seq}, nil
}

// plan returns a private copy of the (possibly cached) plan so the narrowing
// pass can extend its used set without corrupting shared state.
func (f *Filterer) plan(req Request) (PlanResult, error) {
	if f.cache == nil {
		return Plan(req.Clauses, req.Index)
	}
	if cached, ok := f.cache.get(req.Clauses, req.Index); ok {
		f.metrics.PlanCacheHits.Inc()
		return cached.clone(), nil
	}
	f.metrics.PlanCacheMisses.Inc()
	plan, err := Plan(req.Clauses, req.Index)
	if err != nil {
		return PlanResult{}, err
	}
	f.cache.put(req.Clauses, req.Index, plan)
	return plan.clone(), nil
}

// scanRanges issues one engine scan per composed range, in range order for
// ascending scans and reversed for descending ones. Ranges are pre-sorted
// and disjoint, so concatenation preserves the global order.
func (f *Filterer) scanRanges(ctx context.Context, req Request, ranges []IndexRange) EntrySeq {
	limit, offset := f.scanPolicy(req, len(ranges))

	factories := make([]func() EntrySeq, 0, len(ranges))
	for i := range ranges {
		r := ranges[i]
		if req.Reverse {
			r = ranges[len(ranges)-1-i]
		}
		scan := types.ScanRange{
			Start:    encodeBoundary(req.Index.IndexID, r.Start),
			End:      encodeBoundary(req.Index.IndexID, r.End),
			Limit:    limit,
			Offset:   offset,
			Reverse:  req.Reverse,
			Snapshot: req.Snapshot,
		}
		factories = append(factories, func() EntrySeq {
			f.metrics.RangesScanned.Inc()
			return f.engine.GetRange(ctx, scan)
		})
	}
	return newConcatSeq(factories...)
}

// scanPolicy applies the raw limit/offset rules: offsets cannot be accounted
// across multiple ranges, and a multi-valued index needs enough raw entries
// to survive deduplication.
func (f *Filterer) scanPolicy(req Request, rangeCount int) (limit, offset int) {
	limit = req.Limit
	offset = req.Offset
	if rangeCount > 1 {
		offset = 0
	}
	if limit > 0 && req.Index.MaxKeysPerItem > 1 {
		limit *= req.Index.MaxKeysPerItem
	}
	return limit, offset
}

// fullScan reads the whole index partition in two sub-scans so that entries
// with a null or absent leading field come last in ascending order, matching
// the legacy output convention rather than the engine's native placement.
func (f *Filterer) fullScan(ctx context.Context, req Request) EntrySeq {
	limit, offset := f.scanPolicy(req, 2)

	undefinedEdge := codec.AppendEdgeMarker(
		codec.AppendValue(codec.PartitionStart(req.Index.IndexID), codec.Undefined))

	defined := types.ScanRange{
		Start:    undefinedEdge,
		End:      codec.PartitionEnd(req.Index.IndexID),
		Limit:    limit,
		Offset:   offset,
		Reverse:  req.Reverse,
		Snapshot: req.Snapshot,
	}
	undefined := types.ScanRange{
		Start:    codec.PartitionStart(req.Index.IndexID),
		End:      undefinedEdge,
		Limit:    limit,
		Offset:   offset,
		Reverse:  req.Reverse,
		Snapshot: req.Snapshot,
	}

	scans := []types.ScanRange{defined, undefined}
	if req.Reverse {
		scans = []types.ScanRange{undefined, defined}
	}

	factories := make([]func() EntrySeq, 0, len(scans))
	for i := range scans {
		scan := scans[i]
		factories = append(factories, func() EntrySeq {
			f.metrics.RangesScanned.Inc()
			return f.engine.GetRange(ctx, scan)
		})
	}

	return newConcatSeq(factories...)
}
