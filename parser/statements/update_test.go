package statements_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/xwb1989/sqlparser"

	"github.com/yll1325/TrivialDB/parser/statements"
)

func TestBuildUpdateStmt(t *testing.T) {
	stmt, err := sqlparser.Parse("update users set name = 'alicia' where id = 1")
	assert.NoError(t, err)

	got, err := statements.BuildUpdateStmt(stmt.(*sqlparser.Update))
	assert.NoError(t, err)

	assert.Equal(t, "users", got.Target)
	assert.Equal(t, []string{"name"}, got.Columns)
	assert.Len(t, got.Values, 1)
	assert.NotNil(t, got.Where)
}

func TestBuildUpdateStmtRejectsMultipleTables(t *testing.T) {
	single, err := sqlparser.Parse("update users set name = 'x' where id = 1")
	assert.NoError(t, err)
	base := single.(*sqlparser.Update)

	// Two table expressions is a shape the grammar for single-table
	// UPDATE never produces on its own; constructed directly to exercise
	// the arity check without depending on multi-table UPDATE syntax.
	base.TableExprs = append(base.TableExprs, base.TableExprs[0])

	_, err = statements.BuildUpdateStmt(base)
	assert.Error(t, err)
}
