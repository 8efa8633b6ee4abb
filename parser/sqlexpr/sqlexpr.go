// Package sqlexpr converts sqlparser AST fragments into
// expression.Node predicate/projection trees and plain table names,
// covering the full comparison/arithmetic/aggregate operator set and
// multi-table column qualifiers.
package sqlexpr

import (
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/xwb1989/sqlparser"

	"github.com/yll1325/TrivialDB/expression"
)

// FromSQLExpr converts a sqlparser expression tree into an
// expression.Node tree.
func FromSQLExpr(expr sqlparser.Expr) (*expression.Node, error) {
	switch e := expr.(type) {
	case *sqlparser.AndExpr:
		return binFromSQL(expression.OpAnd, e.Left, e.Right)
	case *sqlparser.OrExpr:
		return binFromSQL(expression.OpOr, e.Left, e.Right)
	case *sqlparser.ComparisonExpr:
		op, err := comparisonOperator(e.Operator)
		if err != nil {
			return nil, err
		}
		return binFromSQL(op, e.Left, e.Right)
	case *sqlparser.BinaryExpr:
		op, err := arithOperator(e.Operator)
		if err != nil {
			return nil, err
		}
		return binFromSQL(op, e.Left, e.Right)
	case *sqlparser.UnaryExpr:
		if e.Operator != "-" {
			return nil, errors.Newf("unsupported unary operator %q", e.Operator)
		}
		left, err := FromSQLExpr(e.Expr)
		if err != nil {
			return nil, err
		}
		return expression.UnaryOp(expression.OpNeg, left), nil
	case *sqlparser.ParenExpr:
		return FromSQLExpr(e.Expr)
	case *sqlparser.ColName:
		table := ""
		if !e.Qualifier.IsEmpty() {
			table = e.Qualifier.Name.String()
		}
		return expression.Column(table, e.Name.String()), nil
	case *sqlparser.SQLVal:
		return literalFromSQLVal(e)
	case *sqlparser.NullVal:
		return expression.Literal(expression.NullValue()), nil
	case *sqlparser.FuncExpr:
		return aggregateFromFuncExpr(e)
	default:
		return nil, errors.Newf("unsupported expression type %T", expr)
	}
}

// TableName extracts the plain (unaliased) table name from a FROM-list
// entry. Aliasing is not supported: every column qualifier in a
// multi-table WHERE clause is the table's own name.
func TableName(expr sqlparser.TableExpr) (string, error) {
	aliased, ok := expr.(*sqlparser.AliasedTableExpr)
	if !ok {
		return "", errors.Newf("unsupported table expression type %T", expr)
	}
	if !aliased.As.IsEmpty() {
		return "", errors.Newf("table aliases are not supported: %q", aliased.As.String())
	}
	name, ok := aliased.Expr.(sqlparser.TableName)
	if !ok {
		return "", errors.Newf("unsupported table expression type %T", aliased.Expr)
	}
	return name.Name.String(), nil
}

func binFromSQL(op expression.Operator, leftExpr, rightExpr sqlparser.Expr) (*expression.Node, error) {
	left, err := FromSQLExpr(leftExpr)
	if err != nil {
		return nil, err
	}
	right, err := FromSQLExpr(rightExpr)
	if err != nil {
		return nil, err
	}
	return expression.BinOp(op, left, right), nil
}

func comparisonOperator(op string) (expression.Operator, error) {
	switch op {
	case sqlparser.EqualStr:
		return expression.OpEq, nil
	case sqlparser.NotEqualStr:
		return expression.OpNe, nil
	case sqlparser.LessThanStr:
		return expression.OpLt, nil
	case sqlparser.LessEqualStr:
		return expression.OpLe, nil
	case sqlparser.GreaterThanStr:
		return expression.OpGt, nil
	case sqlparser.GreaterEqualStr:
		return expression.OpGe, nil
	default:
		return 0, errors.Newf("unsupported comparison operator %q", op)
	}
}

func arithOperator(op string) (expression.Operator, error) {
	switch op {
	case sqlparser.PlusStr:
		return expression.OpAdd, nil
	case sqlparser.MinusStr:
		return expression.OpSub, nil
	case sqlparser.MultStr:
		return expression.OpMul, nil
	case sqlparser.DivStr:
		return expression.OpDiv, nil
	default:
		return 0, errors.Newf("unsupported arithmetic operator %q", op)
	}
}

func literalFromSQLVal(v *sqlparser.SQLVal) (*expression.Node, error) {
	switch v.Type {
	case sqlparser.IntVal:
		n, err := strconv.ParseInt(string(v.Val), 10, 32)
		if err != nil {
			return nil, errors.Wrap(err, "parsing int literal")
		}
		return expression.Literal(expression.IntValue(int32(n))), nil
	case sqlparser.FloatVal:
		f, err := strconv.ParseFloat(string(v.Val), 32)
		if err != nil {
			return nil, errors.Wrap(err, "parsing float literal")
		}
		return expression.Literal(expression.FloatValue(float32(f))), nil
	case sqlparser.StrVal:
		return expression.Literal(expression.StringValue(string(v.Val))), nil
	default:
		return nil, errors.Newf("unsupported literal type %v", v.Type)
	}
}

func aggregateFromFuncExpr(f *sqlparser.FuncExpr) (*expression.Node, error) {
	name := f.Name.Lowered()

	var op expression.Operator
	switch name {
	case "count":
		op = expression.OpCount
	case "sum":
		op = expression.OpSum
	case "avg":
		op = expression.OpAvg
	case "min":
		op = expression.OpMin
	case "max":
		op = expression.OpMax
	default:
		return nil, errors.Newf("unsupported function %q", f.Name.String())
	}

	if op == expression.OpCount {
		if len(f.Exprs) == 1 {
			if _, ok := f.Exprs[0].(*sqlparser.StarExpr); ok {
				return expression.UnaryOp(expression.OpCount, nil), nil
			}
		}
	}

	if len(f.Exprs) != 1 {
		return nil, errors.Newf("%s() takes exactly one argument", name)
	}
	aliased, ok := f.Exprs[0].(*sqlparser.AliasedExpr)
	if !ok {
		return nil, errors.Newf("unsupported argument to %s()", name)
	}
	inner, err := FromSQLExpr(aliased.Expr)
	if err != nil {
		return nil, err
	}
	return expression.UnaryOp(op, inner), nil
}
