package executor

import (
	"fmt"

	"github.com/yll1325/TrivialDB/engine"
	"github.com/yll1325/TrivialDB/planner"
)

type InsertExecutor struct {
	engine *engine.Engine
}

func NewInsertExecutor(eng *engine.Engine) *InsertExecutor {
	return &InsertExecutor{engine: eng}
}

func (e *InsertExecutor) Execute(pl planner.InsertPlan) (*ResultSet, error) {
	result, err := e.engine.Insert(pl.Request)
	if err != nil {
		return nil, err
	}

	return &ResultSet{
		Message: fmt.Sprintf("%d row(s) inserted, %d row(s) failed.", result.Inserted, result.Failed),
	}, nil
}
