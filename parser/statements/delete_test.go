package statements_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/xwb1989/sqlparser"

	"github.com/yll1325/TrivialDB/parser/statements"
)

func TestBuildDeleteStmt(t *testing.T) {
	stmt, err := sqlparser.Parse("delete from users where id = 1")
	assert.NoError(t, err)

	got, err := statements.BuildDeleteStmt(stmt.(*sqlparser.Delete))
	assert.NoError(t, err)

	assert.Equal(t, "users", got.Target)
	assert.NotNil(t, got.Where)
}

func TestBuildDeleteStmtNoWhere(t *testing.T) {
	stmt, err := sqlparser.Parse("delete from users")
	assert.NoError(t, err)

	got, err := statements.BuildDeleteStmt(stmt.(*sqlparser.Delete))
	assert.NoError(t, err)
	assert.Nil(t, got.Where)
}

func TestBuildDeleteStmtRejectsMultipleTables(t *testing.T) {
	single, err := sqlparser.Parse("delete from users where id = 1")
	assert.NoError(t, err)
	base := single.(*sqlparser.Delete)
	base.TableExprs = append(base.TableExprs, base.TableExprs[0])

	_, err = statements.BuildDeleteStmt(base)
	assert.Error(t, err)
}
