package parser

import (
	"github.com/cockroachdb/errors"
	"github.com/xwb1989/sqlparser"

	"github.com/yll1325/TrivialDB/parser/statements"
	"github.com/yll1325/TrivialDB/parser/statements/ddl"
)

type SimpleParser struct {
}

func NewSimpleParser() *SimpleParser {
	return &SimpleParser{}
}

func (sp *SimpleParser) Parse(sqlString string) (Stmt, error) {
	if stmt, ok, err := ddl.MatchCreateIndex(sqlString); err != nil {
		return nil, err
	} else if ok {
		return stmt, nil
	}

	stmt, err := sqlparser.Parse(sqlString)
	if err != nil {
		return nil, err
	}

	switch s := stmt.(type) {
	case *sqlparser.Select:
		return statements.BuildSelectStmt(s)
	case *sqlparser.Insert:
		return statements.BuildInsertStmt(s)
	case *sqlparser.Update:
		return statements.BuildUpdateStmt(s)
	case *sqlparser.Delete:
		return statements.BuildDeleteStmt(s)
	case *sqlparser.DDL:
		return sp.parseDDLStatement(s)
	default:
		return nil, errors.Newf("not supported: %T", s)
	}
}

func (sp *SimpleParser) parseDDLStatement(ddlStatement *sqlparser.DDL) (Stmt, error) {
	switch ddlStatement.Action {
	case sqlparser.CreateStr:
		return ddl.BuildCreateTableStmt(ddlStatement)
	default:
		return nil, errors.Newf("not supported DDL action: %s", ddlStatement.Action)
	}
}
