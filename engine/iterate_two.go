package engine

import (
	"github.com/cockroachdb/errors"

	"github.com/yll1325/TrivialDB/expression"
	"github.com/yll1325/TrivialDB/storage"
)

// joinSide names one half of an equality join-condition's orientation.
type joinSide struct {
	table  string
	column string
	tbl    *storage.Table
}

// iterateTwoIndexJoin returns (false, nil) when the strategy declines
// (no usable join condition or no index on either side) so the caller
// falls through to the many-table path; returning an error means the
// strategy applied but iteration itself failed.
func (e *Engine) iterateTwoIndexJoin(tableNames []string, tables map[string]*storage.Table, predicate *expression.Node, consume Consumer) (bool, error) {
	cond := findJoinCondition(predicate)
	if cond == nil {
		return false, nil
	}

	left := joinSide{table: cond.Left.Table, column: cond.Left.Column, tbl: tables[cond.Left.Table]}
	right := joinSide{table: cond.Right.Table, column: cond.Right.Column, tbl: tables[cond.Right.Table]}
	if left.tbl == nil || right.tbl == nil {
		return false, nil
	}

	driver, probe := left, right
	probeIdx := probe.tbl.GetIndex(probe.column)
	if probeIdx == nil {
		driverIdx := driver.tbl.GetIndex(driver.column)
		if driverIdx == nil {
			return false, nil
		}
		driver, probe = right, left
		probeIdx = driverIdx
	}

	e.logf("[Info] Join two tables using index.")

	probeColType := probe.tbl.GetColumnType(probe.tbl.LookupColumn(probe.column))

	cache := NewRowCache()
	cache.Bind(driver.table, driver.tbl)
	cache.Bind(probe.table, probe.tbl)

	driverIt := driver.tbl.RecordIteratorLowerBound()
	for {
		driverTuple, _, ok := driverIt.Next()
		if !ok {
			break
		}
		driver.tbl.CacheRecord(driverTuple)

		keyBytes, err := driver.tbl.GetCachedColumn(driver.tbl.LookupColumn(driver.column))
		if err != nil {
			return true, errors.Wrapf(err, "reading join key from %s.%s", driver.table, driver.column)
		}
		key, err := storage.BytesToKey(keyBytes, probeColType)
		if err != nil {
			return true, err
		}

		probeIt := probeIdx.LowerBound(key)
		for !probeIt.IsEnd() {
			probeTuple, err := probe.tbl.OpenRecordFromIndexLowerBound(probeIt.Locator())
			if err != nil {
				return true, errors.Wrapf(err, "opening probe record on %s", probe.table)
			}
			probe.tbl.CacheRecord(probeTuple)

			pass, err := evalPredicate(cache, predicate)
			if err != nil {
				return true, err
			}
			if !pass {
				// Equality early-stop: the index is ordered by the probe
				// column and the join conjunct is equality, so once the
				// predicate goes false the key range has diverged and no
				// further entries can match. Load-bearing.
				break
			}

			cont, err := consume(map[string]int32{driver.table: driverTuple.RowID, probe.table: probeTuple.RowID})
			if err != nil {
				return true, err
			}
			if !cont {
				return true, nil
			}
			probeIt.Next()
		}
	}

	return true, nil
}
