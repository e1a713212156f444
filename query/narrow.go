package query

import (
	"context"

	"github.com/guileen/doclitedb/codec"
	errs "github.com/guileen/doclitedb/engine/errors"
	"github.com/guileen/doclitedb/index"
	"github.com/guileen/doclitedb/logger"
)

// narrowPredicate evaluates one still-unresolved clause against the value
// embedded at a known position of each scanned key, so the document itself
// never has to be loaded.
type narrowPredicate struct {
	clause Clause
	pos    int
}

// buildNarrowPredicates collects the classified-but-unused clauses whose
// fields exist in the index key and marks them used. Clauses on fields
// outside the index stay unused and remain the caller's concern.
func buildNarrowPredicates(plan *PlanResult, clauses []Clause, meta index.Metadata) ([]narrowPredicate, error) {
	var preds []narrowPredicate
	for _, i := range classify(clauses) {
		if plan.used[i] {
			continue
		}
		pos, ok := meta.FieldPosition(clauses[i].Field)
		if !ok {
			continue
		}
		pred := narrowPredicate{clause: clauses[i], pos: pos}
		if err := pred.validate(); err != nil {
			return nil, err
		}
		plan.used[i] = true
		plan.Used = append(plan.Used, clauses[i])
		preds = append(preds, pred)
	}
	return preds, nil
}

func (p narrowPredicate) validate() error {
	switch p.clause.Cmp {
	case IN:
		if _, ok := p.clause.Value.([]any); !ok {
			return errs.Errorf(errs.ErrCodeInvalidOperand,
				"in comparator on %s needs an array operand, got %T", p.clause.Field, p.clause.Value)
		}
		return nil
	default:
		_, err := scalarOperand(p.clause, p.clause.Value)
		return err
	}
}

func (p narrowPredicate) eval(e Entry) (bool, error) {
	v, err := codec.ValueAt(e.Key, p.pos)
	if err != nil {
		return false, errs.Wrap(err, errs.ErrCodeCodec, "narrow "+p.clause.Field)
	}
	return evalClause(p.clause, v), nil
}

// evalClause mirrors the extractor's range semantics: the undefined marker
// is an absent value, equality with null covers null and absent, and open
// range comparisons exclude null/absent unless the operand is null itself.
func evalClause(c Clause, v codec.Value) bool {
	switch c.Cmp {
	case EQ:
		ov, err := codec.FromAny(c.Value)
		if err != nil {
			return false
		}
		return matchesEq(v, ov)
	case IN:
		arr, ok := c.Value.([]any)
		if !ok {
			return false
		}
		for _, el := range arr {
			ov, err := codec.FromAny(el)
			if err != nil {
				continue
			}
			if matchesEq(v, ov) {
				return true
			}
		}
		return false
	case GT, GTE, LT, LTE:
		ov, err := codec.FromAny(c.Value)
		if err != nil {
			return false
		}
		if ov.IsNull() {
			// gte/lte null pin exactly null; strict forms match nothing.
			if c.Cmp == GTE || c.Cmp == LTE {
				return v.IsNull()
			}
			return false
		}
		if v.IsNull() || v.IsUndefined() {
			return false
		}
		cmp := codec.Compare(v, ov)
		switch c.Cmp {
		case GT:
			return cmp > 0
		case GTE:
			return cmp >= 0
		case LT:
			return cmp < 0
		default:
			return cmp <= 0
		}
	default:
		return false
	}
}

func matchesEq(v, operand codec.Value) bool {
	if operand.IsNull() {
		return v.IsNull() || v.IsUndefined()
	}
	return codec.Compare(v, operand) == 0
}

// narrowSeq applies the predicates with AND semantics as a lazy filter and
// watches how much raw data passes through: an unusually large pre-filter
// scan is worth surfacing, though it is not an error.
func narrowSeq(ctx context.Context, src EntrySeq, preds []narrowPredicate, warnThreshold int, rejected func()) EntrySeq {
	if len(preds) == 0 {
		return src
	}

	scanned := 0
	warned := false
	pred := func(e Entry) (bool, error) {
		scanned++
		if warnThreshold > 0 && scanned > warnThreshold && !warned {
			warned = true
			logger.WarnContext(ctx, "residual narrowing over large raw result set",
				"scanned", scanned, "predicates", len(preds))
		}
		for _, p := range preds {
			ok, err := p.eval(e)
			if err != nil {
				return false, err
			}
			if !ok {
				return false, nil
			}
		}
		return true, nil
	}
	return newFilterSeq(src, pred, rejected)
}
