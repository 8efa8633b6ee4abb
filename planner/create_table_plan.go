package planner

import (
	"github.com/cockroachdb/errors"

	"github.com/yll1325/TrivialDB/catalog"
	"github.com/yll1325/TrivialDB/parser/statements/ddl"
)

type CreateTablePlan struct {
	TableSchema *catalog.TableSchema
}

func BuildCreateTablePlan(ct *catalog.Catalog, stmt *ddl.CreateTableStmt) (Plan, error) {
	for _, name := range ct.TableNames() {
		if name == stmt.TableSchema.Name {
			return nil, errors.Newf("table already exists: %s", name)
		}
	}

	return &CreateTablePlan{
		TableSchema: stmt.TableSchema,
	}, nil
}

// CreateIndexPlan wraps a CREATE INDEX statement's target table/column.
type CreateIndexPlan struct {
	Table  string
	Column string
}

func BuildCreateIndexPlan(ct *catalog.Catalog, stmt *ddl.CreateIndexStmt) (Plan, error) {
	tableSchema, err := ct.Get(stmt.Table)
	if err != nil {
		return nil, errors.Wrapf(err, "table %q", stmt.Table)
	}
	if _, found := tableSchema.Columns.Contains(stmt.Column); !found {
		return nil, errors.Newf("column not found: %s", stmt.Column)
	}

	return &CreateIndexPlan{
		Table:  stmt.Table,
		Column: stmt.Column,
	}, nil
}
