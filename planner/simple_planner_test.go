package planner_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yll1325/TrivialDB/catalog"
	"github.com/yll1325/TrivialDB/expression"
	"github.com/yll1325/TrivialDB/parser/statements"
	"github.com/yll1325/TrivialDB/parser/statements/ddl"
	"github.com/yll1325/TrivialDB/planner"
)

func usersCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	ct := catalog.NewCatalog()
	assert.NoError(t, ct.Add(&catalog.TableSchema{
		Name: "users",
		PK:   "id",
		Columns: catalog.ColumnSchemas{
			{Name: "id", Type: catalog.Int, Flags: catalog.FlagPrimaryKey},
			{Name: "name", Type: catalog.String},
		},
	}))
	return ct
}

func TestSimplePlannerBuildsSelectPlan(t *testing.T) {
	p := planner.NewSimplePlanner(usersCatalog(t))

	plan, err := p.MakePlan(&statements.SelectStmt{Tables: []string{"users"}})
	assert.NoError(t, err)

	selectPlan, ok := plan.(*planner.SelectPlan)
	assert.True(t, ok)
	assert.Equal(t, []string{"users"}, selectPlan.Request.Tables)
}

func TestSimplePlannerSelectUnknownTable(t *testing.T) {
	p := planner.NewSimplePlanner(usersCatalog(t))
	_, err := p.MakePlan(&statements.SelectStmt{Tables: []string{"ghost"}})
	assert.Error(t, err)
}

func TestSimplePlannerBuildsInsertPlan(t *testing.T) {
	p := planner.NewSimplePlanner(usersCatalog(t))

	plan, err := p.MakePlan(&statements.InsertStmt{
		Into:    "users",
		Columns: []string{"id", "name"},
		Rows:    [][]*expression.Node{{expression.Literal(expression.IntValue(1)), expression.Literal(expression.StringValue("alice"))}},
	})
	assert.NoError(t, err)

	insertPlan, ok := plan.(*planner.InsertPlan)
	assert.True(t, ok)
	assert.Equal(t, "users", insertPlan.Request.Table)
}

func TestSimplePlannerInsertUnknownColumn(t *testing.T) {
	p := planner.NewSimplePlanner(usersCatalog(t))
	_, err := p.MakePlan(&statements.InsertStmt{Into: "users", Columns: []string{"ghost"}})
	assert.Error(t, err)
}

func TestSimplePlannerBuildsUpdatePlan(t *testing.T) {
	p := planner.NewSimplePlanner(usersCatalog(t))

	plan, err := p.MakePlan(&statements.UpdateStmt{
		Target:  "users",
		Columns: []string{"name"},
		Values:  []*expression.Node{expression.Literal(expression.StringValue("x"))},
	})
	assert.NoError(t, err)

	updatePlan, ok := plan.(*planner.UpdatePlan)
	assert.True(t, ok)
	assert.Equal(t, "users", updatePlan.Request.Table)
}

func TestSimplePlannerUpdateUnknownColumn(t *testing.T) {
	p := planner.NewSimplePlanner(usersCatalog(t))
	_, err := p.MakePlan(&statements.UpdateStmt{Target: "users", Columns: []string{"ghost"}})
	assert.Error(t, err)
}

func TestSimplePlannerBuildsDeletePlan(t *testing.T) {
	p := planner.NewSimplePlanner(usersCatalog(t))

	plan, err := p.MakePlan(&statements.DeleteStmt{Target: "users"})
	assert.NoError(t, err)

	deletePlan, ok := plan.(*planner.DeletePlan)
	assert.True(t, ok)
	assert.Equal(t, "users", deletePlan.TableName)
}

func TestSimplePlannerDeleteUnknownTable(t *testing.T) {
	p := planner.NewSimplePlanner(usersCatalog(t))
	_, err := p.MakePlan(&statements.DeleteStmt{Target: "ghost"})
	assert.Error(t, err)
}

func TestSimplePlannerBuildsCreateTablePlan(t *testing.T) {
	p := planner.NewSimplePlanner(usersCatalog(t))

	plan, err := p.MakePlan(&ddl.CreateTableStmt{TableSchema: &catalog.TableSchema{
		Name: "orders",
		PK:   "id",
		Columns: catalog.ColumnSchemas{
			{Name: "id", Type: catalog.Int, Flags: catalog.FlagPrimaryKey},
		},
	}})
	assert.NoError(t, err)

	createPlan, ok := plan.(*planner.CreateTablePlan)
	assert.True(t, ok)
	assert.Equal(t, "orders", createPlan.TableSchema.Name)
}

func TestSimplePlannerCreateTableAlreadyExists(t *testing.T) {
	p := planner.NewSimplePlanner(usersCatalog(t))
	_, err := p.MakePlan(&ddl.CreateTableStmt{TableSchema: &catalog.TableSchema{Name: "users"}})
	assert.Error(t, err)
}

func TestSimplePlannerBuildsCreateIndexPlan(t *testing.T) {
	p := planner.NewSimplePlanner(usersCatalog(t))

	plan, err := p.MakePlan(&ddl.CreateIndexStmt{Table: "users", Column: "name"})
	assert.NoError(t, err)

	idxPlan, ok := plan.(*planner.CreateIndexPlan)
	assert.True(t, ok)
	assert.Equal(t, "users", idxPlan.Table)
	assert.Equal(t, "name", idxPlan.Column)
}

func TestSimplePlannerCreateIndexUnknownColumn(t *testing.T) {
	p := planner.NewSimplePlanner(usersCatalog(t))
	_, err := p.MakePlan(&ddl.CreateIndexStmt{Table: "users", Column: "ghost"})
	assert.Error(t, err)
}

func TestSimplePlannerRejectsUnknownStatementType(t *testing.T) {
	p := planner.NewSimplePlanner(usersCatalog(t))
	_, err := p.MakePlan("not a statement")
	assert.Error(t, err)
}
