package engine

import "github.com/yll1325/TrivialDB/expression"

// extractAndConjuncts flattens the top-level AND tree of predicate into
// its leaf conjuncts. Non-AND predicates (or nil) are returned as a
// single-element (or empty) list.
func extractAndConjuncts(predicate *expression.Node) []*expression.Node {
	if predicate == nil {
		return nil
	}
	if predicate.Kind != expression.KindOperator || predicate.Op != expression.OpAnd {
		return []*expression.Node{predicate}
	}
	return append(extractAndConjuncts(predicate.Left), extractAndConjuncts(predicate.Right)...)
}

// isEqualityColumnConjunct reports whether node is a top-level equality
// conjunct between two column references: both operator EQ and both
// sides COLUMN_REF.
func isEqualityColumnConjunct(node *expression.Node) bool {
	if node == nil || node.Kind != expression.KindOperator || node.Op != expression.OpEq {
		return false
	}
	return node.Left != nil && node.Left.Kind == expression.KindColumnRef &&
		node.Right != nil && node.Right.Kind == expression.KindColumnRef
}

// findJoinCondition returns the first equality column-ref conjunct in
// predicate's top-level AND list.
func findJoinCondition(predicate *expression.Node) *expression.Node {
	for _, c := range extractAndConjuncts(predicate) {
		if isEqualityColumnConjunct(c) {
			return c
		}
	}
	return nil
}
