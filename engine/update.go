package engine

import (
	"github.com/cockroachdb/errors"

	"github.com/yll1325/TrivialDB/expression"
	"github.com/yll1325/TrivialDB/typecast"
)

// UpdateRequest is the UPDATE statement driver's input: a single
// table, an optional predicate, and a list of (column, value
// expression) assignments.
type UpdateRequest struct {
	Table   string
	Where   *expression.Node
	Columns []string
	Values  []*expression.Node
}

// UpdateResult reports the per-row success/failure counts.
type UpdateResult struct {
	Updated int
	Failed  int
}

// Update iterates the single target table; for each matching row it
// evaluates the RHS expressions once, verifies type compatibility with
// the target column, serializes, and applies the modification.
// Failures are counted and iteration continues.
func (e *Engine) Update(req UpdateRequest) (UpdateResult, error) {
	if len(req.Columns) != len(req.Values) {
		return UpdateResult{}, errors.Wrapf(ErrArityMismatch, "%d columns vs %d values", len(req.Columns), len(req.Values))
	}

	tbl, err := e.openTable(req.Table)
	if err != nil {
		return UpdateResult{}, err
	}

	colIDs := make([]int, len(req.Columns))
	for i, name := range req.Columns {
		_, colID, err := columnType(tbl, name)
		if err != nil {
			return UpdateResult{}, err
		}
		colIDs[i] = colID
	}

	cache := NewRowCache()
	cache.Bind(req.Table, tbl)

	var result UpdateResult
	err = e.Iterate([]string{req.Table}, req.Where, func(rowids map[string]int32) (bool, error) {
		rid := rowids[req.Table]

		for i, colID := range colIDs {
			v, err := expression.Eval(cache, req.Values[i])
			if err != nil {
				result.Failed++
				e.logf("[Error] update row %d: %v", rid, err)
				return true, nil
			}

			colType := tbl.GetColumnType(colID)
			if !typecast.TypeCompatible(colType, v) {
				result.Failed++
				e.logf("[Error] update row %d: %v", rid, errors.Wrapf(ErrTypeError, "column %q", req.Columns[i]))
				return true, nil
			}

			data, err := typecast.ExprToDB(v, typecast.ColumnToTerm(colType))
			if err != nil {
				result.Failed++
				e.logf("[Error] update row %d: %v", rid, err)
				return true, nil
			}

			if err := tbl.ModifyRecord(rid, colID, data); err != nil {
				result.Failed++
				e.logf("[Error] update row %d: %v", rid, err)
				return true, nil
			}
		}

		result.Updated++
		return true, nil
	})
	if err != nil {
		return result, err
	}

	e.logf("[Info] %d row(s) updated, %d row(s) failed.", result.Updated, result.Failed)
	return result, nil
}
