package ddl

import (
	"regexp"
	"strings"

	"github.com/cockroachdb/errors"
)

type CreateIndexStmt struct {
	Table  string
	Column string
}

// createIndexPattern matches "CREATE INDEX <name> ON <table> (<column>)".
// xwb1989/sqlparser's DDL grammar has no CREATE INDEX production, so
// this statement shape is recognized ahead of the normal sqlparser.Parse
// call rather than through the AST.
var createIndexPattern = regexp.MustCompile(`(?i)^\s*create\s+index\s+\S+\s+on\s+(\S+)\s*\(\s*(\S+)\s*\)\s*;?\s*$`)

// MatchCreateIndex reports whether sql is a CREATE INDEX statement and,
// if so, parses it directly.
func MatchCreateIndex(sql string) (*CreateIndexStmt, bool, error) {
	m := createIndexPattern.FindStringSubmatch(sql)
	if m == nil {
		return nil, false, nil
	}
	return &CreateIndexStmt{
		Table:  strings.Trim(m[1], "`"),
		Column: strings.Trim(m[2], "`"),
	}, true, nil
}

var ErrNotCreateIndex = errors.New("not a create index statement")
