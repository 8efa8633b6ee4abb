package ddl_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/xwb1989/sqlparser"

	"github.com/yll1325/TrivialDB/catalog"
	"github.com/yll1325/TrivialDB/parser/statements/ddl"
)

func mustParseDDL(t *testing.T, sql string) *sqlparser.DDL {
	t.Helper()
	stmt, err := sqlparser.Parse(sql)
	assert.NoError(t, err)
	d, ok := stmt.(*sqlparser.DDL)
	assert.True(t, ok)
	return d
}

func TestBuildCreateTableStmt(t *testing.T) {
	sql := "create table users (id int primary key, name varchar(32) not null, active bool)"
	got, err := ddl.BuildCreateTableStmt(mustParseDDL(t, sql))
	assert.NoError(t, err)

	assert.Equal(t, "users", got.TableSchema.Name)
	assert.Equal(t, "id", got.TableSchema.PK)
	assert.Len(t, got.TableSchema.Columns, 3)

	assert.Equal(t, catalog.Int, got.TableSchema.Columns[0].Type)
	assert.Equal(t, catalog.String, got.TableSchema.Columns[1].Type)
	assert.True(t, got.TableSchema.Columns[1].Flags.Has(catalog.FlagNotNull))
	assert.Equal(t, catalog.Bool, got.TableSchema.Columns[2].Type)
}

func TestBuildCreateTableStmtMissingPrimaryKey(t *testing.T) {
	_, err := ddl.BuildCreateTableStmt(mustParseDDL(t, "create table users (id int, name varchar(32))"))
	assert.ErrorIs(t, err, catalog.ErrPrimaryKeyMissing)
}

func TestBuildCreateTableStmtUnknownColumnType(t *testing.T) {
	_, err := ddl.BuildCreateTableStmt(mustParseDDL(t, "create table users (id blob primary key)"))
	assert.Error(t, err)
}

func TestBuildCreateTableStmtDateAndFloatTypes(t *testing.T) {
	sql := "create table events (id int primary key, price float, happened_at datetime)"
	got, err := ddl.BuildCreateTableStmt(mustParseDDL(t, sql))
	assert.NoError(t, err)
	assert.Equal(t, catalog.Float, got.TableSchema.Columns[1].Type)
	assert.Equal(t, catalog.Date, got.TableSchema.Columns[2].Type)
}
