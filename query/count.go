package query

import (
	"context"

	"github.com/guileen/doclitedb/codec"
	"github.com/guileen/doclitedb/engine/errors"
	"github.com/guileen/doclitedb/engine/types"
	"github.com/guileen/doclitedb/index"
	"github.com/guileen/doclitedb/storage"
)

// CountRequest describes a key-count query. Counting never materializes
// entries, so there is no limit, offset, or direction.
type CountRequest struct {
	Clauses  []Clause
	Index    index.Metadata
	Snapshot storage.Snapshot
}

// CountUsingIndex answers the query by counting index keys alone, without
// touching documents. That is only sound when the composed ranges decide
// every clause and each document holds at most one key, so any residual
// clause or a multi-valued index is rejected up front.
func (f *Filterer) CountUsingIndex(ctx context.Context, req CountRequest) (int64, error) {
	f.metrics.CountQueries.Inc()

	if req.Index.MultiValued() {
		return 0, errors.New(errors.ErrCodeMultiValuedIndexCount,
			"cannot count by keys on a multi-valued index")
	}

	plan, err := f.plan(Request{Clauses: req.Clauses, Index: req.Index, Snapshot: req.Snapshot})
	if err != nil {
		return 0, err
	}
	// A clause admitting no value decides the count alone; the conjunction
	// is empty no matter what the other clauses would have resolved to.
	if plan.Empty {
		return 0, nil
	}
	if unused := plan.Unused(req.Clauses); len(unused) > 0 {
		return 0, errors.Errorf(errors.ErrCodeUnresolvableFilter,
			"%d filter clause(s) not resolvable by index ranges, counting would require reading documents", len(unused))
	}

	if len(plan.Ranges) == 0 {
		return f.engine.GetKeysCount(ctx, types.ScanRange{
			Start:    codec.PartitionStart(req.Index.IndexID),
			End:      codec.PartitionEnd(req.Index.IndexID),
			Snapshot: req.Snapshot,
		})
	}

	var total int64
	for _, r := range plan.Ranges {
		n, err := f.engine.GetKeysCount(ctx, types.ScanRange{
			Start:    encodeBoundary(req.Index.IndexID, r.Start),
			End:      encodeBoundary(req.Index.IndexID, r.End),
			Snapshot: req.Snapshot,
		})
		if err != nil {
			return 0, err
		}
		total += n
	}
	return total, nil
}
