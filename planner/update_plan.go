package planner

import (
	"github.com/cockroachdb/errors"

	"github.com/yll1325/TrivialDB/catalog"
	"github.com/yll1325/TrivialDB/engine"
	"github.com/yll1325/TrivialDB/parser/statements"
)

// UpdatePlan wraps the engine.UpdateRequest the executor runs.
type UpdatePlan struct {
	Request engine.UpdateRequest
}

func BuildUpdatePlan(ct *catalog.Catalog, updateStmt *statements.UpdateStmt) (Plan, error) {
	tableSchema, err := ct.Get(updateStmt.Target)
	if err != nil {
		return nil, errors.Wrapf(err, "table %q", updateStmt.Target)
	}

	for _, colName := range updateStmt.Columns {
		if _, found := tableSchema.Columns.Contains(colName); !found {
			return nil, errors.Newf("column not found: %s", colName)
		}
	}

	return &UpdatePlan{
		Request: engine.UpdateRequest{
			Table:   tableSchema.Name,
			Where:   updateStmt.Where,
			Columns: updateStmt.Columns,
			Values:  updateStmt.Values,
		},
	}, nil
}
