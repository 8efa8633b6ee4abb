package engine

import (
	"strings"

	"github.com/yll1325/TrivialDB/expression"
	"github.com/yll1325/TrivialDB/storage"
)

// iterateMany plans a join order over the given tables, then runs the
// recursive nested-loop executor over it. It also serves as the
// many-table fallback for a two-table query with no usable join index,
// in which case the chain never extends past a single vertex and every
// table is full-scanned.
func (e *Engine) iterateMany(tableNames []string, tables map[string]*storage.Table, predicate *expression.Node, consume Consumer) error {
	plan := buildJoinPlan(tableNames, tables, predicate)

	if len(tableNames) == 2 && plan.maxDepth == 0 {
		e.logf("[Info] Join two tables by enumerating.")
	} else {
		order := make([]string, len(plan.path))
		for i, v := range plan.path {
			order[len(plan.path)-1-i] = tableNames[v]
		}
		e.logf("[Info] iteration order: %s", strings.Join(order, ", "))
	}

	cache := NewRowCache()
	for _, name := range tableNames {
		cache.Bind(name, tables[name])
	}

	rowids := make(map[string]int32, len(tableNames))

	var impl func(now int) (bool, error)
	impl = func(now int) (bool, error) {
		if now < 0 {
			pass, err := evalPredicate(cache, predicate)
			if err != nil {
				return false, err
			}
			if !pass {
				return true, nil
			}
			return consume(snapshotRowids(rowids))
		}

		vertex := plan.path[now]
		name := tableNames[vertex]
		tbl := tables[name]

		if now >= plan.maxDepth {
			it := tbl.RecordIteratorLowerBound()
			for {
				tuple, _, ok := it.Next()
				if !ok {
					break
				}
				tbl.CacheRecord(tuple)
				rowids[name] = tuple.RowID

				cont, err := impl(now - 1)
				if err != nil {
					return false, err
				}
				if !cont {
					return false, nil
				}
			}
			return true, nil
		}

		step := plan.steps[now]
		nextName := tableNames[plan.path[now+1]]
		nextTbl := tables[nextName]

		keyBytes, err := nextTbl.GetCachedColumn(step.sourceCol)
		if err != nil {
			return false, err
		}
		key, err := storage.BytesToKey(keyBytes, step.colType)
		if err != nil {
			return false, err
		}

		it := step.index.LowerBound(key)
		for !it.IsEnd() {
			tuple, err := tbl.OpenRecordFromIndexLowerBound(it.Locator())
			if err != nil {
				return false, err
			}
			tbl.CacheRecord(tuple)
			rowids[name] = tuple.RowID

			pass, err := evalPredicate(cache, step.conjunct)
			if err != nil {
				return false, err
			}
			if !pass {
				// Equality early-stop, same load-bearing property as
				// the two-table join: the probe column is ordered and
				// the conjunct is equality, so divergence here means
				// no further entry can match.
				break
			}

			cont, err := impl(now - 1)
			if err != nil {
				return false, err
			}
			if !cont {
				return false, nil
			}
			it.Next()
		}
		return true, nil
	}

	_, err := impl(len(plan.path) - 1)
	return err
}

func snapshotRowids(rowids map[string]int32) map[string]int32 {
	out := make(map[string]int32, len(rowids))
	for k, v := range rowids {
		out[k] = v
	}
	return out
}
