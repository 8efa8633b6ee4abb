package statements

import (
	"github.com/cockroachdb/errors"
	"github.com/xwb1989/sqlparser"

	"github.com/yll1325/TrivialDB/expression"
	"github.com/yll1325/TrivialDB/parser/sqlexpr"
)

// SelectStmt holds a fully resolved SELECT: the FROM list in the order
// it appeared, an optional predicate, and the projection list. An empty
// Projections list means "SELECT *": the driver dumps each table's raw
// record in FROM order.
type SelectStmt struct {
	Tables      []string
	Where       *expression.Node
	Projections []*expression.Node
}

func BuildSelectStmt(statement *sqlparser.Select) (*SelectStmt, error) {
	tables := make([]string, 0, len(statement.From))
	for _, tableExpr := range statement.From {
		name, err := sqlexpr.TableName(tableExpr)
		if err != nil {
			return nil, err
		}
		tables = append(tables, name)
	}

	var where *expression.Node
	if statement.Where != nil {
		w, err := sqlexpr.FromSQLExpr(statement.Where.Expr)
		if err != nil {
			return nil, err
		}
		where = w
	}

	projections, err := projectionsFromSelectExprs(statement.SelectExprs)
	if err != nil {
		return nil, err
	}

	return &SelectStmt{
		Tables:      tables,
		Where:       where,
		Projections: projections,
	}, nil
}

func projectionsFromSelectExprs(exprs sqlparser.SelectExprs) ([]*expression.Node, error) {
	var projections []*expression.Node
	for _, selectExpr := range exprs {
		switch e := selectExpr.(type) {
		case *sqlparser.StarExpr:
			// '*' is the zero-Projections case; mixing it with other
			// projections is not supported.
			return nil, nil
		case *sqlparser.AliasedExpr:
			node, err := sqlexpr.FromSQLExpr(e.Expr)
			if err != nil {
				return nil, err
			}
			projections = append(projections, node)
		default:
			return nil, errors.Newf("unsupported select expression type %T", selectExpr)
		}
	}
	return projections, nil
}
