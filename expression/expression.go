// Package expression implements the predicate and projection expression
// trees the query execution core evaluates against currently-positioned
// rows: a tagged-union Value, a recursive Node tree, and an Eval
// function that walks it against a row-cache-backed Context.
package expression

import (
	"fmt"
	"strconv"

	"github.com/cockroachdb/errors"
)

// TermType tags the runtime type of a Value: INT, FLOAT, STRING,
// BOOL, DATE, NULL, or NONE.
type TermType uint8

const (
	TermNone TermType = iota
	TermInt
	TermFloat
	TermString
	TermBool
	TermDate
	TermNull
)

// Value is the tagged union expression evaluation produces and consumes.
type Value struct {
	Type TermType
	I    int32
	F    float32
	S    string
	B    bool
	D    int64 // epoch seconds, valid when Type == TermDate
}

func IntValue(v int32) Value     { return Value{Type: TermInt, I: v} }
func FloatValue(v float32) Value { return Value{Type: TermFloat, F: v} }
func StringValue(v string) Value { return Value{Type: TermString, S: v} }
func BoolValue(v bool) Value     { return Value{Type: TermBool, B: v} }
func DateValue(v int64) Value    { return Value{Type: TermDate, D: v} }
func NullValue() Value           { return Value{Type: TermNull} }

// Operator is the tag on an internal (non-leaf) expression node.
type Operator uint8

const (
	OpNone Operator = iota
	OpAnd
	OpOr
	OpEq
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpNeg
	OpMin
	OpMax
	OpSum
	OpAvg
	OpCount
)

func (op Operator) String() string {
	switch op {
	case OpAnd:
		return "AND"
	case OpOr:
		return "OR"
	case OpEq:
		return "="
	case OpNe:
		return "<>"
	case OpLt:
		return "<"
	case OpLe:
		return "<="
	case OpGt:
		return ">"
	case OpGe:
		return ">="
	case OpAdd:
		return "+"
	case OpSub:
		return "-"
	case OpMul:
		return "*"
	case OpDiv:
		return "/"
	case OpNeg:
		return "-"
	case OpMin:
		return "MIN"
	case OpMax:
		return "MAX"
	case OpSum:
		return "SUM"
	case OpAvg:
		return "AVG"
	case OpCount:
		return "COUNT"
	default:
		return "?"
	}
}

// IsAggregate reports whether op is one of the single-group aggregate
// operators (COUNT, SUM, AVG, MIN, MAX).
func (op Operator) IsAggregate() bool {
	switch op {
	case OpSum, OpAvg, OpMin, OpMax, OpCount:
		return true
	default:
		return false
	}
}

// Kind tags what a Node leaf actually is.
type Kind uint8

const (
	KindOperator Kind = iota
	KindColumnRef
	KindLiteral
)

// Node is a recursive tagged expression tree node. An expression tree
// is read-only across its entire evaluation; callers may freely share
// sub-trees across statements.
type Node struct {
	Kind Kind

	// valid when Kind == KindOperator
	Op    Operator
	Left  *Node
	Right *Node

	// valid when Kind == KindColumnRef
	Table  string
	Column string

	// valid when Kind == KindLiteral
	Literal Value
}

func Column(table, column string) *Node {
	return &Node{Kind: KindColumnRef, Table: table, Column: column}
}

func Literal(v Value) *Node {
	return &Node{Kind: KindLiteral, Literal: v}
}

func BinOp(op Operator, left, right *Node) *Node {
	return &Node{Kind: KindOperator, Op: op, Left: left, Right: right}
}

func UnaryOp(op Operator, left *Node) *Node {
	return &Node{Kind: KindOperator, Op: op, Left: left}
}

// IsAggregate reports whether node itself is an aggregate operator node.
func IsAggregate(node *Node) bool {
	return node != nil && node.Kind == KindOperator && node.Op.IsAggregate()
}

// Context resolves a column reference to the value currently bound in
// the row cache for (table, column). Implemented by the engine package
// over the active row cache.
type Context interface {
	Column(table, column string) (Value, error)
}

var (
	ErrColumnUnbound  = errors.New("column not bound in row cache")
	ErrTypeMismatch   = errors.New("incompatible operand types")
	ErrNotAggregate   = errors.New("not an aggregate expression")
	ErrUnknownLiteral = errors.New("unknown literal term type")
)

// Eval evaluates node against ctx, returning the tagged Value it
// produces. Evaluation failure (type error, unresolved column) aborts
// with an error, which halts the whole statement rather than skipping
// the row.
func Eval(ctx Context, node *Node) (Value, error) {
	if node == nil {
		return NullValue(), nil
	}

	switch node.Kind {
	case KindLiteral:
		return node.Literal, nil
	case KindColumnRef:
		v, err := ctx.Column(node.Table, node.Column)
		if err != nil {
			return Value{}, errors.Wrapf(err, "%s.%s", node.Table, node.Column)
		}
		return v, nil
	case KindOperator:
		return evalOperator(ctx, node)
	default:
		return Value{}, errors.Newf("unknown node kind %d", node.Kind)
	}
}

func evalOperator(ctx Context, node *Node) (Value, error) {
	switch node.Op {
	case OpAnd, OpOr:
		return evalLogical(ctx, node)
	case OpEq, OpNe, OpLt, OpLe, OpGt, OpGe:
		return evalComparison(ctx, node)
	case OpAdd, OpSub, OpMul, OpDiv:
		return evalArith(ctx, node)
	case OpNeg:
		return evalNeg(ctx, node)
	case OpCount, OpSum, OpAvg, OpMin, OpMax:
		// Aggregate operators are not evaluated row-by-row through Eval;
		// the statement driver extracts the inner expression and drives
		// its own accumulator. Reaching here means an aggregate was
		// nested inside a non-aggregate expression, which the driver
		// should have rejected earlier.
		return Value{}, errors.Wrapf(ErrNotAggregate, "%s used outside aggregate position", node.Op)
	default:
		return Value{}, errors.Newf("unsupported operator %v", node.Op)
	}
}

func evalLogical(ctx Context, node *Node) (Value, error) {
	left, err := Eval(ctx, node.Left)
	if err != nil {
		return Value{}, err
	}
	lb, err := asBool(left)
	if err != nil {
		return Value{}, err
	}

	if node.Op == OpAnd && !lb {
		return BoolValue(false), nil
	}
	if node.Op == OpOr && lb {
		return BoolValue(true), nil
	}

	right, err := Eval(ctx, node.Right)
	if err != nil {
		return Value{}, err
	}
	rb, err := asBool(right)
	if err != nil {
		return Value{}, err
	}
	if node.Op == OpAnd {
		return BoolValue(lb && rb), nil
	}
	return BoolValue(lb || rb), nil
}

func asBool(v Value) (bool, error) {
	if v.Type != TermBool {
		return false, errors.Wrapf(ErrTypeMismatch, "expected BOOL, got %v", v.Type)
	}
	return v.B, nil
}

func evalComparison(ctx Context, node *Node) (Value, error) {
	left, err := Eval(ctx, node.Left)
	if err != nil {
		return Value{}, err
	}
	right, err := Eval(ctx, node.Right)
	if err != nil {
		return Value{}, err
	}
	cmp, err := compare(left, right)
	if err != nil {
		return Value{}, err
	}

	switch node.Op {
	case OpEq:
		return BoolValue(cmp == 0), nil
	case OpNe:
		return BoolValue(cmp != 0), nil
	case OpLt:
		return BoolValue(cmp < 0), nil
	case OpLe:
		return BoolValue(cmp <= 0), nil
	case OpGt:
		return BoolValue(cmp > 0), nil
	case OpGe:
		return BoolValue(cmp >= 0), nil
	default:
		return Value{}, errors.Newf("not a comparison operator: %v", node.Op)
	}
}

// compare returns <0, 0, >0 ordering a against b. Int and Float compare
// numerically against each other (numeric widening); String, Bool and
// Date only compare against their own type.
func compare(a, b Value) (int, error) {
	if a.Type == TermNull || b.Type == TermNull {
		// No three-valued logic: NULL compares as a value rather than
		// propagating an "unknown" result the way SQL NULL does. Two
		// NULLs are equal (cmp==0); a NULL against anything else sorts
		// before it (cmp==-1). Concretely this makes `col = NULL` false,
		// `col <> NULL` true, `col < NULL`/`col <= NULL` true, and
		// `col > NULL`/`col >= NULL` false whenever col is non-NULL —
		// see DESIGN.md's Open Questions for why this reading was kept
		// over rejecting NULL comparisons outright.
		if a.Type == TermNull && b.Type == TermNull {
			return 0, nil
		}
		return -1, nil
	}

	if isNumeric(a.Type) && isNumeric(b.Type) {
		af, bf := numericOf(a), numericOf(b)
		switch {
		case af < bf:
			return -1, nil
		case af > bf:
			return 1, nil
		default:
			return 0, nil
		}
	}

	if a.Type != b.Type {
		return 0, errors.Wrapf(ErrTypeMismatch, "cannot compare %v with %v", a.Type, b.Type)
	}

	switch a.Type {
	case TermString:
		switch {
		case a.S < b.S:
			return -1, nil
		case a.S > b.S:
			return 1, nil
		default:
			return 0, nil
		}
	case TermBool:
		if a.B == b.B {
			return 0, nil
		}
		if !a.B && b.B {
			return -1, nil
		}
		return 1, nil
	case TermDate:
		switch {
		case a.D < b.D:
			return -1, nil
		case a.D > b.D:
			return 1, nil
		default:
			return 0, nil
		}
	default:
		return 0, errors.Wrapf(ErrTypeMismatch, "type %v is not orderable", a.Type)
	}
}

func isNumeric(t TermType) bool { return t == TermInt || t == TermFloat }

func numericOf(v Value) float64 {
	if v.Type == TermInt {
		return float64(v.I)
	}
	return float64(v.F)
}

func evalArith(ctx Context, node *Node) (Value, error) {
	left, err := Eval(ctx, node.Left)
	if err != nil {
		return Value{}, err
	}
	right, err := Eval(ctx, node.Right)
	if err != nil {
		return Value{}, err
	}
	if !isNumeric(left.Type) || !isNumeric(right.Type) {
		return Value{}, errors.Wrapf(ErrTypeMismatch, "arithmetic requires numeric operands, got %v and %v", left.Type, right.Type)
	}

	// Mixed int/float widens to float; same-type int stays int.
	if left.Type == TermInt && right.Type == TermInt {
		var r int32
		switch node.Op {
		case OpAdd:
			r = left.I + right.I
		case OpSub:
			r = left.I - right.I
		case OpMul:
			r = left.I * right.I
		case OpDiv:
			if right.I == 0 {
				return Value{}, errors.New("division by zero")
			}
			r = left.I / right.I
		}
		return IntValue(r), nil
	}

	lf, rf := numericOf(left), numericOf(right)
	var r float64
	switch node.Op {
	case OpAdd:
		r = lf + rf
	case OpSub:
		r = lf - rf
	case OpMul:
		r = lf * rf
	case OpDiv:
		if rf == 0 {
			return Value{}, errors.New("division by zero")
		}
		r = lf / rf
	}
	return FloatValue(float32(r)), nil
}

func evalNeg(ctx Context, node *Node) (Value, error) {
	v, err := Eval(ctx, node.Left)
	if err != nil {
		return Value{}, err
	}
	switch v.Type {
	case TermInt:
		return IntValue(-v.I), nil
	case TermFloat:
		return FloatValue(-v.F), nil
	default:
		return Value{}, errors.Wrapf(ErrTypeMismatch, "cannot negate %v", v.Type)
	}
}

// ToString renders node in the source form used as a CSV projection
// header.
func ToString(node *Node) string {
	if node == nil {
		return ""
	}
	switch node.Kind {
	case KindColumnRef:
		if node.Table == "" {
			return node.Column
		}
		return node.Table + "." + node.Column
	case KindLiteral:
		return literalString(node.Literal)
	case KindOperator:
		if node.Op.IsAggregate() {
			if node.Op == OpCount {
				return "COUNT(*)"
			}
			return node.Op.String() + "(" + ToString(node.Left) + ")"
		}
		if node.Op == OpNeg {
			return "-" + ToString(node.Left)
		}
		return ToString(node.Left) + " " + node.Op.String() + " " + ToString(node.Right)
	default:
		return "?"
	}
}

func literalString(v Value) string {
	switch v.Type {
	case TermInt:
		return strconv.FormatInt(int64(v.I), 10)
	case TermFloat:
		return strconv.FormatFloat(float64(v.F), 'f', -1, 32)
	case TermString:
		return v.S
	case TermBool:
		if v.B {
			return "TRUE"
		}
		return "FALSE"
	case TermDate:
		return strconv.FormatInt(v.D, 10)
	case TermNull:
		return "NULL"
	default:
		return fmt.Sprintf("<%d>", v.Type)
	}
}
