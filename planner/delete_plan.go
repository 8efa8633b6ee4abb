package planner

import (
	"github.com/cockroachdb/errors"

	"github.com/yll1325/TrivialDB/catalog"
	"github.com/yll1325/TrivialDB/expression"
	"github.com/yll1325/TrivialDB/parser/statements"
)

type DeletePlan struct {
	TableName string
	Where     *expression.Node
}

func BuildDeletePlan(ct *catalog.Catalog, deleteStmt *statements.DeleteStmt) (*DeletePlan, error) {
	if _, err := ct.Get(deleteStmt.Target); err != nil {
		return nil, errors.Wrapf(err, "table %q", deleteStmt.Target)
	}

	return &DeletePlan{
		TableName: deleteStmt.Target,
		Where:     deleteStmt.Where,
	}, nil
}
