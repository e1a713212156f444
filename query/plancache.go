package query

import (
	"fmt"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/guileen/doclitedb/index"
)

// planCache memoizes plans per index/clause shape. Plans are pure functions
// of their inputs, so entries never need invalidation; LRU eviction only
// bounds memory.
type planCache struct {
	lru *lru.Cache[string, PlanResult]
}

func newPlanCache(size int) *planCache {
	if size <= 0 {
		size = 128
	}
	// Err is only possible for a non-positive size, guarded above.
	c, _ := lru.New[string, PlanResult](size)
	return &planCache{lru: c}
}

func (c *planCache) get(clauses []Clause, meta index.Metadata) (PlanResult, bool) {
	return c.lru.Get(cacheKey(clauses, meta))
}

func (c *planCache) put(clauses []Clause, meta index.Metadata, plan PlanResult) {
	c.lru.Add(cacheKey(clauses, meta), plan)
}

// cacheKey folds the index identity and every clause, in order, into one
// string. Clause order matters to planning (first anchor wins), so two
// permutations of the same clauses are distinct keys.
func cacheKey(clauses []Clause, meta index.Metadata) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d/%s/%d", meta.IndexID, strings.Join(meta.Fields, ","), meta.MaxKeysPerItem)
	for _, c := range clauses {
		b.WriteByte('|')
		b.WriteString(c.signature())
	}
	return b.String()
}
