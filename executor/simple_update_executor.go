package executor

import (
	"fmt"

	"github.com/yll1325/TrivialDB/engine"
	"github.com/yll1325/TrivialDB/planner"
)

type UpdateExecutor struct {
	engine *engine.Engine
}

func NewUpdateExecutor(eng *engine.Engine) *UpdateExecutor {
	return &UpdateExecutor{engine: eng}
}

func (e *UpdateExecutor) Execute(pl planner.UpdatePlan) (*ResultSet, error) {
	result, err := e.engine.Update(pl.Request)
	if err != nil {
		return nil, err
	}

	return &ResultSet{
		Message: fmt.Sprintf("%d row(s) updated, %d row(s) failed.", result.Updated, result.Failed),
	}, nil
}
