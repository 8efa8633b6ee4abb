package statements

import (
	"github.com/cockroachdb/errors"
	"github.com/xwb1989/sqlparser"

	"github.com/yll1325/TrivialDB/expression"
	"github.com/yll1325/TrivialDB/parser/sqlexpr"
)

// DeleteStmt holds a resolved DELETE: the single target table and an
// optional predicate.
type DeleteStmt struct {
	Target string
	Where  *expression.Node
}

func BuildDeleteStmt(statement *sqlparser.Delete) (*DeleteStmt, error) {
	if len(statement.TableExprs) != 1 {
		return nil, errors.Newf("delete supports exactly one table, got %d", len(statement.TableExprs))
	}

	target, err := sqlexpr.TableName(statement.TableExprs[0])
	if err != nil {
		return nil, err
	}

	var where *expression.Node
	if statement.Where != nil {
		where, err = sqlexpr.FromSQLExpr(statement.Where.Expr)
		if err != nil {
			return nil, err
		}
	}

	return &DeleteStmt{
		Target: target,
		Where:  where,
	}, nil
}
