package engine

import "github.com/yll1325/TrivialDB/expression"

// DeleteResult reports how many rows were removed.
type DeleteResult struct {
	Deleted int
}

// Delete runs a two-phase removal: the first pass collects passing row
// ids, the second removes them. Two phases are required because
// removing a record mid-scan would invalidate the record iterator
// positioned on the same table.
func (e *Engine) Delete(table string, where *expression.Node) (DeleteResult, error) {
	tbl, err := e.openTable(table)
	if err != nil {
		return DeleteResult{}, err
	}

	var toDelete []int32
	err = e.Iterate([]string{table}, where, func(rowids map[string]int32) (bool, error) {
		toDelete = append(toDelete, rowids[table])
		return true, nil
	})
	if err != nil {
		return DeleteResult{}, err
	}

	var result DeleteResult
	for _, rid := range toDelete {
		if err := tbl.RemoveRecord(rid); err != nil {
			e.logf("[Error] delete row %d: %v", rid, err)
			continue
		}
		result.Deleted++
	}

	e.logf("[Info] %d row(s) deleted.", result.Deleted)
	return result, nil
}
