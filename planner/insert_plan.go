package planner

import (
	"github.com/cockroachdb/errors"

	"github.com/yll1325/TrivialDB/catalog"
	"github.com/yll1325/TrivialDB/engine"
	"github.com/yll1325/TrivialDB/parser/statements"
)

// InsertPlan wraps the engine.InsertRequest the executor runs.
type InsertPlan struct {
	Request engine.InsertRequest
}

func BuildInsertPlan(ct *catalog.Catalog, insertStmt *statements.InsertStmt) (Plan, error) {
	tableSchema, err := ct.Get(insertStmt.Into)
	if err != nil {
		return nil, errors.Wrapf(err, "table %q", insertStmt.Into)
	}

	if len(insertStmt.Columns) > 0 {
		for _, col := range insertStmt.Columns {
			if _, found := tableSchema.Columns.Contains(col); !found {
				return nil, errors.Newf("column not found: %s", col)
			}
		}
	}

	return &InsertPlan{
		Request: engine.InsertRequest{
			Table:   tableSchema.Name,
			Columns: insertStmt.Columns,
			Rows:    insertStmt.Rows,
		},
	}, nil
}
