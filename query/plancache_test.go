package query

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCacheKeyDistinguishesOperandTypes(t *testing.T) {
	meta := singleFieldIndex("n")
	a := cacheKey([]Clause{{Field: "n", Cmp: EQ, Value: 1}}, meta)
	b := cacheKey([]Clause{{Field: "n", Cmp: EQ, Value: "1"}}, meta)
	require.NotEqual(t, a, b)
}

func TestCacheKeyIsOrderSensitive(t *testing.T) {
	meta := singleFieldIndex("n")
	clauses := []Clause{
		{Field: "n", Cmp: GTE, Value: 1},
		{Field: "n", Cmp: GTE, Value: 2},
	}
	reversed := []Clause{clauses[1], clauses[0]}
	require.NotEqual(t, cacheKey(clauses, meta), cacheKey(reversed, meta))
}

func TestPlanCacheRoundTrip(t *testing.T) {
	meta := singleFieldIndex("n")
	clauses := []Clause{{Field: "n", Cmp: EQ, Value: 1}}

	c := newPlanCache(4)
	_, ok := c.get(clauses, meta)
	require.False(t, ok)

	plan, err := Plan(clauses, meta)
	require.NoError(t, err)
	c.put(clauses, meta, plan)

	got, ok := c.get(clauses, meta)
	require.True(t, ok)
	require.Equal(t, plan.Ranges, got.Ranges)
	require.Equal(t, plan.Used, got.Used)
}

func TestCachedPlanCloneIsolation(t *testing.T) {
	meta := singleFieldIndex("n")
	clauses := []Clause{{Field: "n", Cmp: EQ, Value: 1}}

	plan, err := Plan(clauses, meta)
	require.NoError(t, err)

	cl := plan.clone()
	cl.Used = append(cl.Used, Clause{Field: "x", Cmp: EQ, Value: 2})
	cl.used[0] = false

	require.Len(t, plan.Used, 1)
	require.True(t, plan.used[0])
}
