package query

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/guileen/doclitedb/codec"
	errs "github.com/guileen/doclitedb/engine/errors"
	"github.com/guileen/doclitedb/index"
	"github.com/guileen/doclitedb/logger"
)

func TestEvalClause(t *testing.T) {
	tests := []struct {
		name   string
		clause Clause
		value  codec.Value
		want   bool
	}{
		{"eq match", Clause{Field: "f", Cmp: EQ, Value: "x"}, codec.String("x"), true},
		{"eq miss", Clause{Field: "f", Cmp: EQ, Value: "x"}, codec.String("y"), false},
		{"eq null matches null", Clause{Field: "f", Cmp: EQ, Value: nil}, codec.Null, true},
		{"eq null matches absent", Clause{Field: "f", Cmp: EQ, Value: nil}, codec.Undefined, true},
		{"eq value misses null", Clause{Field: "f", Cmp: EQ, Value: "x"}, codec.Null, false},
		{"in match", Clause{Field: "f", Cmp: IN, Value: []any{1, 2}}, codec.Number(2), true},
		{"in miss", Clause{Field: "f", Cmp: IN, Value: []any{1, 2}}, codec.Number(3), false},
		{"gt", Clause{Field: "f", Cmp: GT, Value: 5}, codec.Number(6), true},
		{"gt equal", Clause{Field: "f", Cmp: GT, Value: 5}, codec.Number(5), false},
		{"gte equal", Clause{Field: "f", Cmp: GTE, Value: 5}, codec.Number(5), true},
		{"lt", Clause{Field: "f", Cmp: LT, Value: 5}, codec.Number(4), true},
		{"lte over", Clause{Field: "f", Cmp: LTE, Value: 5}, codec.Number(6), false},
		{"range skips null", Clause{Field: "f", Cmp: LT, Value: 5}, codec.Null, false},
		{"range skips absent", Clause{Field: "f", Cmp: GT, Value: 0}, codec.Undefined, false},
		{"gte null pins null", Clause{Field: "f", Cmp: GTE, Value: nil}, codec.Null, true},
		{"gte null excludes absent", Clause{Field: "f", Cmp: GTE, Value: nil}, codec.Undefined, false},
		{"gt null matches nothing", Clause{Field: "f", Cmp: GT, Value: nil}, codec.Null, false},
		{"ne unsupported", Clause{Field: "f", Cmp: NE, Value: 1}, codec.Number(2), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, evalClause(tt.clause, tt.value))
		})
	}
}

func TestBuildNarrowPredicatesMarksUsed(t *testing.T) {
	meta := index.Metadata{IndexID: 7, Fields: []string{"a", "b"}, MaxKeysPerItem: 1}
	clauses := []Clause{
		{Field: "a", Cmp: GTE, Value: 1},
		{Field: "b", Cmp: EQ, Value: "x"},
		{Field: "outside", Cmp: EQ, Value: true},
	}

	plan, err := Plan(clauses, meta)
	require.NoError(t, err)
	require.Equal(t, clauses[:1], plan.Used)

	preds, err := buildNarrowPredicates(&plan, clauses, meta)
	require.NoError(t, err)
	require.Len(t, preds, 1)
	require.Equal(t, 1, preds[0].pos)
	require.Equal(t, []Clause{clauses[0], clauses[1]}, plan.Used)
	require.Equal(t, clauses[2:], plan.Unused(clauses))
}

func TestBuildNarrowPredicatesRejectsBadOperand(t *testing.T) {
	meta := index.Metadata{IndexID: 7, Fields: []string{"a", "b"}, MaxKeysPerItem: 1}
	clauses := []Clause{
		{Field: "a", Cmp: GTE, Value: 1},
		{Field: "b", Cmp: LT, Value: map[string]any{"no": true}},
	}

	plan, err := Plan(clauses, meta)
	require.NoError(t, err)
	_, err = buildNarrowPredicates(&plan, clauses, meta)
	require.Error(t, err)
	require.True(t, errs.HasCode(err, errs.ErrCodeInvalidOperand))
}

func TestNarrowSeqAppliesAllPredicates(t *testing.T) {
	meta := index.Metadata{IndexID: 7, Fields: []string{"a", "b"}, MaxKeysPerItem: 1}

	key := func(a, b codec.Value, id string) Entry {
		k, err := codec.EncodeEntryKey(meta.IndexID, []codec.Value{a, b}, id)
		require.NoError(t, err)
		return Entry{Key: k, DocID: id}
	}
	src := newSliceSeq([]Entry{
		key(codec.Number(1), codec.String("x"), "d1"),
		key(codec.Number(2), codec.String("y"), "d2"),
		key(codec.Number(3), codec.String("x"), "d3"),
	})

	clauses := []Clause{
		{Field: "a", Cmp: GTE, Value: 1},
		{Field: "b", Cmp: EQ, Value: "x"},
	}
	plan, err := Plan(clauses, meta)
	require.NoError(t, err)
	preds, err := buildNarrowPredicates(&plan, clauses, meta)
	require.NoError(t, err)

	rejected := 0
	out, err := Collect(narrowSeq(context.Background(), src, preds, 0, func() { rejected++ }))
	require.NoError(t, err)
	require.Equal(t, []string{"d1", "d3"}, docIDs(out))
	require.Equal(t, 1, rejected)
}

func TestNarrowSeqWarnsOnceOnOversizedScan(t *testing.T) {
	var buf bytes.Buffer
	orig := logger.Logger
	logger.Logger = logger.NewLogger(logger.Config{Level: slog.LevelWarn, Format: "json", Writer: &buf})
	t.Cleanup(func() { logger.Logger = orig })

	meta := index.Metadata{IndexID: 7, Fields: []string{"a", "b"}, MaxKeysPerItem: 1}
	var src []Entry
	for i := 0; i < 5; i++ {
		k, err := codec.EncodeEntryKey(meta.IndexID,
			[]codec.Value{codec.Number(float64(i)), codec.String("x")}, "d")
		require.NoError(t, err)
		src = append(src, Entry{Key: k, DocID: "d"})
	}

	clauses := []Clause{
		{Field: "a", Cmp: GTE, Value: 0},
		{Field: "b", Cmp: EQ, Value: "x"},
	}
	plan, err := Plan(clauses, meta)
	require.NoError(t, err)
	preds, err := buildNarrowPredicates(&plan, clauses, meta)
	require.NoError(t, err)

	_, err = Collect(narrowSeq(context.Background(), newSliceSeq(src), preds, 2, nil))
	require.NoError(t, err)
	require.Equal(t, 1,
		strings.Count(buf.String(), "residual narrowing over large raw result set"),
		"diagnostic must fire exactly once past the threshold")
}

func TestNarrowSeqNoPredicatesPassthrough(t *testing.T) {
	src := newSliceSeq(entries("a"))
	require.Equal(t, src, narrowSeq(context.Background(), src, nil, 0, nil))
}
