package statements

import (
	"github.com/cockroachdb/errors"
	"github.com/xwb1989/sqlparser"

	"github.com/yll1325/TrivialDB/expression"
	"github.com/yll1325/TrivialDB/parser/sqlexpr"
)

// UpdateStmt holds a resolved UPDATE: the single target table, the
// assignment list, and an optional predicate.
type UpdateStmt struct {
	Target  string
	Columns []string
	Values  []*expression.Node
	Where   *expression.Node
}

func BuildUpdateStmt(statement *sqlparser.Update) (*UpdateStmt, error) {
	if len(statement.TableExprs) != 1 {
		return nil, errors.Newf("update supports exactly one table, got %d", len(statement.TableExprs))
	}

	target, err := sqlexpr.TableName(statement.TableExprs[0])
	if err != nil {
		return nil, err
	}

	columns := make([]string, 0, len(statement.Exprs))
	values := make([]*expression.Node, 0, len(statement.Exprs))
	for _, expr := range statement.Exprs {
		columns = append(columns, expr.Name.Name.String())
		node, err := sqlexpr.FromSQLExpr(expr.Expr)
		if err != nil {
			return nil, err
		}
		values = append(values, node)
	}

	var where *expression.Node
	if statement.Where != nil {
		where, err = sqlexpr.FromSQLExpr(statement.Where.Expr)
		if err != nil {
			return nil, err
		}
	}

	return &UpdateStmt{
		Target:  target,
		Columns: columns,
		Values:  values,
		Where:   where,
	}, nil
}
