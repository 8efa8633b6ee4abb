package executor

import (
	"fmt"

	"github.com/yll1325/TrivialDB/engine"
	"github.com/yll1325/TrivialDB/planner"
)

type DeleteExecutor struct {
	engine *engine.Engine
}

func NewDeleteExecutor(eng *engine.Engine) *DeleteExecutor {
	return &DeleteExecutor{engine: eng}
}

func (e *DeleteExecutor) Execute(pl planner.DeletePlan) (*ResultSet, error) {
	result, err := e.engine.Delete(pl.TableName, pl.Where)
	if err != nil {
		return nil, err
	}

	return &ResultSet{
		Message: fmt.Sprintf("%d row(s) deleted.", result.Deleted),
	}, nil
}
