// Package planner resolves parsed statements against the catalog and
// builds the thin Plan values the executor package turns into engine
// calls.
package planner

import (
	"github.com/yll1325/TrivialDB/parser"
)

type Planner interface {
	MakePlan(stmt parser.Stmt) (Plan, error)
}

type Plan interface {
}
