package executor

import (
	"github.com/cockroachdb/errors"

	"github.com/yll1325/TrivialDB/engine"
	"github.com/yll1325/TrivialDB/planner"
)

// SimpleExecutor dispatches a resolved plan to the one executor that
// knows its concrete type.
type SimpleExecutor struct {
	engine *engine.Engine
}

func NewSimpleExecutor(eng *engine.Engine) *SimpleExecutor {
	return &SimpleExecutor{engine: eng}
}

func (e *SimpleExecutor) Execute(pl planner.Plan) (*ResultSet, error) {
	switch p := pl.(type) {
	case *planner.SelectPlan:
		return NewSelectExecutor(e.engine).Execute(*p)
	case *planner.InsertPlan:
		return NewInsertExecutor(e.engine).Execute(*p)
	case *planner.UpdatePlan:
		return NewUpdateExecutor(e.engine).Execute(*p)
	case *planner.DeletePlan:
		return NewDeleteExecutor(e.engine).Execute(*p)
	case *planner.CreateTablePlan:
		return NewCreateTableExecutor(e.engine).Execute(*p)
	case *planner.CreateIndexPlan:
		return NewCreateIndexExecutor(e.engine).Execute(*p)
	default:
		return nil, errors.Newf("not supported plan type: %T", p)
	}
}
