package statements_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/xwb1989/sqlparser"

	"github.com/yll1325/TrivialDB/parser/statements"
)

func mustParseSelect(t *testing.T, sql string) *sqlparser.Select {
	t.Helper()
	stmt, err := sqlparser.Parse(sql)
	assert.NoError(t, err)
	sel, ok := stmt.(*sqlparser.Select)
	assert.True(t, ok)
	return sel
}

func TestBuildSelectStmtStar(t *testing.T) {
	stmt, err := statements.BuildSelectStmt(mustParseSelect(t, "select * from users"))
	assert.NoError(t, err)
	assert.Equal(t, []string{"users"}, stmt.Tables)
	assert.Nil(t, stmt.Where)
	assert.Empty(t, stmt.Projections)
}

func TestBuildSelectStmtMultiTableWithWhereAndProjections(t *testing.T) {
	sql := "select users.name, orders.amount from users, orders where orders.user_id = users.id"
	stmt, err := statements.BuildSelectStmt(mustParseSelect(t, sql))
	assert.NoError(t, err)

	assert.ElementsMatch(t, []string{"users", "orders"}, stmt.Tables)
	assert.NotNil(t, stmt.Where)
	assert.Len(t, stmt.Projections, 2)
	assert.Equal(t, "name", stmt.Projections[0].Column)
	assert.Equal(t, "amount", stmt.Projections[1].Column)
}

func TestBuildSelectStmtRejectsAliasedTable(t *testing.T) {
	_, err := statements.BuildSelectStmt(mustParseSelect(t, "select * from users as u"))
	assert.Error(t, err)
}
