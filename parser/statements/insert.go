package statements

import (
	"github.com/cockroachdb/errors"
	"github.com/xwb1989/sqlparser"

	"github.com/yll1325/TrivialDB/expression"
	"github.com/yll1325/TrivialDB/parser/sqlexpr"
)

// InsertStmt holds a resolved INSERT: the target table, an optional
// explicit column list (nil means "all declared columns"), and one
// expression tuple per VALUES row.
type InsertStmt struct {
	Into    string
	Columns []string
	Rows    [][]*expression.Node
}

func BuildInsertStmt(statement *sqlparser.Insert) (*InsertStmt, error) {
	columns := make([]string, 0, len(statement.Columns))
	for _, col := range statement.Columns {
		columns = append(columns, col.String())
	}

	values, ok := statement.Rows.(sqlparser.Values)
	if !ok {
		return nil, errors.Newf("unsupported insert rows type %T", statement.Rows)
	}

	rows := make([][]*expression.Node, 0, len(values))
	for _, row := range values {
		tuple := make([]*expression.Node, 0, len(row))
		for _, expr := range row {
			node, err := sqlexpr.FromSQLExpr(expr)
			if err != nil {
				return nil, err
			}
			tuple = append(tuple, node)
		}
		rows = append(rows, tuple)
	}

	return &InsertStmt{
		Into:    statement.Table.Name.String(),
		Columns: columns,
		Rows:    rows,
	}, nil
}
