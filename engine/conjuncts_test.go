package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yll1325/TrivialDB/expression"
)

func eqCols(lt, lc, rt, rc string) *expression.Node {
	return expression.BinOp(expression.OpEq, expression.Column(lt, lc), expression.Column(rt, rc))
}

func TestExtractAndConjunctsNilPredicate(t *testing.T) {
	assert.Nil(t, extractAndConjuncts(nil))
}

func TestExtractAndConjunctsSingleLeaf(t *testing.T) {
	leaf := eqCols("a", "x", "b", "y")
	got := extractAndConjuncts(leaf)
	assert.Equal(t, []*expression.Node{leaf}, got)
}

func TestExtractAndConjunctsFlattensAndTree(t *testing.T) {
	c1 := eqCols("a", "x", "b", "y")
	c2 := eqCols("b", "z", "c", "w")
	c3 := eqCols("c", "p", "d", "q")
	tree := expression.BinOp(expression.OpAnd, expression.BinOp(expression.OpAnd, c1, c2), c3)

	got := extractAndConjuncts(tree)
	assert.Equal(t, []*expression.Node{c1, c2, c3}, got)
}

func TestIsEqualityColumnConjunct(t *testing.T) {
	assert.True(t, isEqualityColumnConjunct(eqCols("a", "x", "b", "y")))
	assert.False(t, isEqualityColumnConjunct(nil))

	notEq := expression.BinOp(expression.OpLt, expression.Column("a", "x"), expression.Column("b", "y"))
	assert.False(t, isEqualityColumnConjunct(notEq))

	literalSide := expression.BinOp(expression.OpEq, expression.Column("a", "x"), expression.Literal(expression.IntValue(1)))
	assert.False(t, isEqualityColumnConjunct(literalSide))
}

func TestFindJoinConditionSkipsNonEquality(t *testing.T) {
	lt := expression.BinOp(expression.OpLt, expression.Column("a", "x"), expression.Literal(expression.IntValue(1)))
	eq := eqCols("a", "x", "b", "y")
	tree := expression.BinOp(expression.OpAnd, lt, eq)

	got := findJoinCondition(tree)
	assert.Same(t, eq, got)
}

func TestFindJoinConditionNoneFound(t *testing.T) {
	lt := expression.BinOp(expression.OpLt, expression.Column("a", "x"), expression.Literal(expression.IntValue(1)))
	assert.Nil(t, findJoinCondition(lt))
}
