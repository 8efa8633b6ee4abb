package planner

import (
	"github.com/cockroachdb/errors"

	"github.com/yll1325/TrivialDB/catalog"
	"github.com/yll1325/TrivialDB/engine"
	"github.com/yll1325/TrivialDB/parser/statements"
)

// SelectPlan wraps the engine.SelectRequest the executor runs.
type SelectPlan struct {
	Request engine.SelectRequest
}

func BuildSelectPlan(ct *catalog.Catalog, selectStmt *statements.SelectStmt) (Plan, error) {
	if len(selectStmt.Tables) == 0 {
		return nil, errors.New("select requires at least one table")
	}
	for _, name := range selectStmt.Tables {
		if _, err := ct.Get(name); err != nil {
			return nil, errors.Wrapf(err, "table %q", name)
		}
	}

	return &SelectPlan{
		Request: engine.SelectRequest{
			Tables:      selectStmt.Tables,
			Where:       selectStmt.Where,
			Projections: selectStmt.Projections,
		},
	}, nil
}
