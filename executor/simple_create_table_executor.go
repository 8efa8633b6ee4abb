package executor

import (
	"github.com/yll1325/TrivialDB/engine"
	"github.com/yll1325/TrivialDB/planner"
)

type CreateTableExecutor struct {
	engine *engine.Engine
}

func NewCreateTableExecutor(eng *engine.Engine) *CreateTableExecutor {
	return &CreateTableExecutor{engine: eng}
}

func (e *CreateTableExecutor) Execute(pl planner.CreateTablePlan) (*ResultSet, error) {
	if err := e.engine.CreateTable(pl.TableSchema); err != nil {
		return nil, err
	}

	return &ResultSet{
		Message: "successfully created table!",
	}, nil
}

type CreateIndexExecutor struct {
	engine *engine.Engine
}

func NewCreateIndexExecutor(eng *engine.Engine) *CreateIndexExecutor {
	return &CreateIndexExecutor{engine: eng}
}

func (e *CreateIndexExecutor) Execute(pl planner.CreateIndexPlan) (*ResultSet, error) {
	if err := e.engine.CreateIndex(pl.Table, pl.Column); err != nil {
		return nil, err
	}

	return &ResultSet{
		Message: "successfully created index!",
	}, nil
}
