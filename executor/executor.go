// Package executor turns a resolved planner.Plan into a ResultSet by
// calling the matching engine.Engine driver. Each plan type has its
// own small executor; none of them iterate rows themselves, since that
// work lives in the engine package's query execution core.
package executor

// ResultSet is what a statement execution produces for the REPL to
// print: a CSV result stream for SELECT, or a status message for
// INSERT/UPDATE/DELETE/DDL.
type ResultSet struct {
	CSV     string
	Message string
}
