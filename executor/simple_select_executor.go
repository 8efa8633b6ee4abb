package executor

import (
	"bytes"

	"github.com/yll1325/TrivialDB/engine"
	"github.com/yll1325/TrivialDB/planner"
)

type SelectExecutor struct {
	engine *engine.Engine
}

func NewSelectExecutor(eng *engine.Engine) *SelectExecutor {
	return &SelectExecutor{engine: eng}
}

func (e *SelectExecutor) Execute(pl planner.SelectPlan) (*ResultSet, error) {
	var buf bytes.Buffer
	if err := e.engine.Select(pl.Request, &buf); err != nil {
		return nil, err
	}

	return &ResultSet{CSV: buf.String()}, nil
}
