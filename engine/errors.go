package engine

import "github.com/cockroachdb/errors"

// Sentinel errors for the engine's error kinds. Statement drivers wrap
// them into the errors they return or log, so callers can test for a
// kind with errors.Is.
var (
	ErrSchemaNotFound   = errors.New("schema not found")
	ErrTypeError        = errors.New("type error")
	ErrArityMismatch    = errors.New("arity mismatch")
	ErrNonNumericAgg    = errors.New("non-numeric aggregate")
	ErrCollaboratorIO   = errors.New("collaborator i/o error")
	ErrNoJoinCondition  = errors.New("no usable join condition")
	ErrNotSingleAggExpr = errors.New("select list must contain exactly one aggregate expression")
	ErrDuplicateKey     = errors.New("duplicate primary key value")
)
