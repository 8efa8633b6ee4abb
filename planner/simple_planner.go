package planner

import (
	"github.com/cockroachdb/errors"

	"github.com/yll1325/TrivialDB/catalog"
	"github.com/yll1325/TrivialDB/parser"
	"github.com/yll1325/TrivialDB/parser/statements"
	"github.com/yll1325/TrivialDB/parser/statements/ddl"
)

type SimplePlanner struct {
	catalog *catalog.Catalog
}

func NewSimplePlanner(catalog *catalog.Catalog) *SimplePlanner {
	return &SimplePlanner{
		catalog: catalog,
	}
}

func (p *SimplePlanner) MakePlan(stmt parser.Stmt) (Plan, error) {
	switch s := stmt.(type) {
	case *statements.SelectStmt:
		return BuildSelectPlan(p.catalog, s)
	case *statements.InsertStmt:
		return BuildInsertPlan(p.catalog, s)
	case *statements.UpdateStmt:
		return BuildUpdatePlan(p.catalog, s)
	case *statements.DeleteStmt:
		return BuildDeletePlan(p.catalog, s)
	case *ddl.CreateTableStmt:
		return BuildCreateTablePlan(p.catalog, s)
	case *ddl.CreateIndexStmt:
		return BuildCreateIndexPlan(p.catalog, s)
	default:
		return nil, errors.Newf("not supported statement type: %T", s)
	}
}
