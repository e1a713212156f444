package query

import (
	"github.com/guileen/doclitedb/engine/types"
)

// Entry is one scanned index entry.
type Entry = types.IndexEntry

// EntrySeq is the pull-based lazy sequence the pipeline composes over.
// Closing it early releases any open cursor and stops further engine reads.
type EntrySeq = types.EntryIterator

type emptySeq struct{}

func (emptySeq) Next() (Entry, bool) { return Entry{}, false }
func (emptySeq) Err() error          { return nil }
func (emptySeq) Close() error        { return nil }

// concatSeq chains sub-sequences in order, opening each one only when the
// previous is exhausted. Ranges behind the factories are pre-sorted and
// disjoint, so concatenation preserves global order.
type concatSeq struct {
	factories []func() EntrySeq
	current   EntrySeq
	pos       int
	err       error
	closed    bool
}

func newConcatSeq(factories ...func() EntrySeq) EntrySeq {
	return &concatSeq{factories: factories}
}

func (s *concatSeq) Next() (Entry, bool) {
	if s.closed || s.err != nil {
		return Entry{}, false
	}
	for {
		if s.current == nil {
			if s.pos >= len(s.factories) {
				return Entry{}, false
			}
			s.current = s.factories[s.pos]()
			s.pos++
		}
		if e, ok := s.current.Next(); ok {
			return e, true
		}
		if err := s.current.Err(); err != nil {
			s.err = err
			s.current.Close()
			s.current = nil
			return Entry{}, false
		}
		s.current.Close()
		s.current = nil
	}
}

func (s *concatSeq) Err() error { return s.err }

func (s *concatSeq) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	if s.current != nil {
		err := s.current.Close()
		s.current = nil
		return err
	}
	return nil
}

// filterSeq yields only entries accepted by pred. A predicate error ends the
// sequence and surfaces via Err.
type filterSeq struct {
	src      EntrySeq
	pred     func(Entry) (bool, error)
	rejected func()
	err      error
}

func newFilterSeq(src EntrySeq, pred func(Entry) (bool, error), rejected func()) EntrySeq {
	return &filterSeq{src: src, pred: pred, rejected: rejected}
}

func (s *filterSeq) Next() (Entry, bool) {
	if s.err != nil {
		return Entry{}, false
	}
	for {
		e, ok := s.src.Next()
		if !ok {
			return Entry{}, false
		}
		keep, err := s.pred(e)
		if err != nil {
			s.err = err
			return Entry{}, false
		}
		if keep {
			return e, true
		}
		if s.rejected != nil {
			s.rejected()
		}
	}
}

func (s *filterSeq) Err() error {
	if s.err != nil {
		return s.err
	}
	return s.src.Err()
}

func (s *filterSeq) Close() error { return s.src.Close() }

// dedupSeq drops entries whose document id was already seen, keeping the
// first occurrence. Needed when one document contributes multiple keys.
type dedupSeq struct {
	src  EntrySeq
	seen map[string]struct{}
}

func newDedupSeq(src EntrySeq) EntrySeq {
	return &dedupSeq{src: src, seen: make(map[string]struct{})}
}

func (s *dedupSeq) Next() (Entry, bool) {
	for {
		e, ok := s.src.Next()
		if !ok {
			return Entry{}, false
		}
		if _, dup := s.seen[e.DocID]; dup {
			continue
		}
		s.seen[e.DocID] = struct{}{}
		return e, true
	}
}

func (s *dedupSeq) Err() error   { return s.src.Err() }
func (s *dedupSeq) Close() error { return s.src.Close() }

// countingSeq feeds a counter as entries pass through.
type countingSeq struct {
	src   EntrySeq
	n     int
	onadd func()
}

func newCountingSeq(src EntrySeq, onadd func()) *countingSeq {
	return &countingSeq{src: src, onadd: onadd}
}

func (s *countingSeq) Next() (Entry, bool) {
	e, ok := s.src.Next()
	if ok {
		s.n++
		if s.onadd != nil {
			s.onadd()
		}
	}
	return e, ok
}

func (s *countingSeq) Err() error   { return s.src.Err() }
func (s *countingSeq) Close() error { return s.src.Close() }

// sliceSeq serves a fixed slice; test helper and building block.
type sliceSeq struct {
	entries []Entry
	pos     int
}

func newSliceSeq(entries []Entry) EntrySeq {
	return &sliceSeq{entries: entries}
}

func (s *sliceSeq) Next() (Entry, bool) {
	if s.pos >= len(s.entries) {
		return Entry{}, false
	}
	e := s.entries[s.pos]
	s.pos++
	return e, true
}

func (s *sliceSeq) Err() error   { return nil }
func (s *sliceSeq) Close() error { return nil }

// Collect drains a sequence into a slice and closes it. Intended for
// callers that want eager results and for tests.
func Collect(seq EntrySeq) ([]Entry, error) {
	defer seq.Close()
	var out []Entry
	for {
		e, ok := seq.Next()
		if !ok {
			break
		}
		out = append(out, e)
	}
	return out, seq.Err()
}
