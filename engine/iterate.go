package engine

import (
	"github.com/cockroachdb/errors"

	"github.com/yll1325/TrivialDB/expression"
	"github.com/yll1325/TrivialDB/storage"
)

// Consumer is invoked once per emitted row combination. rowids maps
// each participating table name to the rowid of its currently-bound
// row. Returning false halts iteration immediately; returning a
// non-nil error aborts the whole statement.
type Consumer func(rowids map[string]int32) (bool, error)

// Iterate dispatches on the number of participating tables: one table
// drives the single-table iterator, two tables attempt the index join
// before falling back to the many-table path, three or more always go
// through the join planner.
func (e *Engine) Iterate(tableNames []string, predicate *expression.Node, consume Consumer) error {
	if len(tableNames) == 0 {
		return errors.New("iterate requires at least one table")
	}

	tables := make(map[string]*storage.Table, len(tableNames))
	for _, name := range tableNames {
		tbl, err := e.openTable(name)
		if err != nil {
			return err
		}
		tables[name] = tbl
	}

	switch len(tableNames) {
	case 1:
		return e.iterateSingle(tableNames[0], tables[tableNames[0]], predicate, consume)
	case 2:
		ok, err := e.iterateTwoIndexJoin(tableNames, tables, predicate, consume)
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
		return e.iterateMany(tableNames, tables, predicate, consume)
	default:
		return e.iterateMany(tableNames, tables, predicate, consume)
	}
}

// iterateSingle acquires a forward record iterator, caches each row,
// evaluates the optional predicate (a nil predicate is always true),
// and invokes the consumer on every pass.
func (e *Engine) iterateSingle(name string, tbl *storage.Table, predicate *expression.Node, consume Consumer) error {
	cache := NewRowCache()
	cache.Bind(name, tbl)

	it := tbl.RecordIteratorLowerBound()
	for {
		tuple, _, ok := it.Next()
		if !ok {
			break
		}
		tbl.CacheRecord(tuple)

		pass, err := evalPredicate(cache, predicate)
		if err != nil {
			return errors.Wrapf(err, "evaluating predicate over %q", name)
		}
		if !pass {
			continue
		}

		cont, err := consume(map[string]int32{name: tuple.RowID})
		if err != nil {
			return err
		}
		if !cont {
			return nil
		}
	}
	return nil
}

// evalPredicate treats a nil predicate as TRUE.
func evalPredicate(ctx expression.Context, predicate *expression.Node) (bool, error) {
	if predicate == nil {
		return true, nil
	}
	v, err := expression.Eval(ctx, predicate)
	if err != nil {
		return false, err
	}
	if v.Type != expression.TermBool {
		return false, errors.Wrapf(ErrTypeError, "predicate did not evaluate to BOOL, got %v", v.Type)
	}
	return v.B, nil
}
