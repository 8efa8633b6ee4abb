package engine_test

import (
	"bytes"
	"io"
	"log"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yll1325/TrivialDB/catalog"
	"github.com/yll1325/TrivialDB/engine"
	"github.com/yll1325/TrivialDB/expression"
	"github.com/yll1325/TrivialDB/storage"
)

func newTestEngine(t *testing.T) *engine.Engine {
	t.Helper()
	disk := storage.NewDiskManager(t.TempDir())
	st := storage.NewStorage(disk)
	ct := catalog.NewCatalog()
	e := engine.New(ct, st)
	e.Logger = log.New(io.Discard, "", 0)
	return e
}

func usersSchema() *catalog.TableSchema {
	return &catalog.TableSchema{
		Name: "users",
		PK:   "id",
		Columns: catalog.ColumnSchemas{
			{Name: "id", Type: catalog.Int, Flags: catalog.FlagPrimaryKey},
			{Name: "name", Type: catalog.String, Length: 32},
		},
	}
}

func ordersSchema() *catalog.TableSchema {
	return &catalog.TableSchema{
		Name: "orders",
		PK:   "id",
		Columns: catalog.ColumnSchemas{
			{Name: "id", Type: catalog.Int, Flags: catalog.FlagPrimaryKey},
			{Name: "user_id", Type: catalog.Int},
			{Name: "amount", Type: catalog.Int},
		},
	}
}

func lit(i int32) *expression.Node {
	return expression.Literal(expression.IntValue(i))
}

func strLit(s string) *expression.Node {
	return expression.Literal(expression.StringValue(s))
}

func TestCreateTableRequiresPrimaryKey(t *testing.T) {
	e := newTestEngine(t)
	err := e.CreateTable(&catalog.TableSchema{
		Name:    "nopk",
		Columns: catalog.ColumnSchemas{{Name: "x", Type: catalog.Int}},
	})
	assert.ErrorIs(t, err, catalog.ErrPrimaryKeyMissing)
}

func TestInsertAndSelectScalarRawDump(t *testing.T) {
	e := newTestEngine(t)
	assert.NoError(t, e.CreateTable(usersSchema()))

	res, err := e.Insert(engine.InsertRequest{
		Table: "users",
		Rows: [][]*expression.Node{
			{lit(1), strLit("alice")},
			{lit(2), strLit("bob")},
		},
	})
	assert.NoError(t, err)
	assert.Equal(t, 2, res.Inserted)
	assert.Equal(t, 0, res.Failed)

	var out bytes.Buffer
	err = e.Select(engine.SelectRequest{Tables: []string{"users"}}, &out)
	assert.NoError(t, err)

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	assert.Equal(t, "id,name", lines[0])
	assert.ElementsMatch(t, []string{"1,alice", "2,bob"}, lines[1:])
}

func TestInsertDuplicatePrimaryKeyFails(t *testing.T) {
	e := newTestEngine(t)
	assert.NoError(t, e.CreateTable(usersSchema()))

	res, err := e.Insert(engine.InsertRequest{
		Table: "users",
		Rows: [][]*expression.Node{
			{lit(1), strLit("alice")},
			{lit(1), strLit("alicia")},
		},
	})
	assert.NoError(t, err)
	assert.Equal(t, 1, res.Inserted)
	assert.Equal(t, 1, res.Failed)
}

func TestInsertArityMismatchFails(t *testing.T) {
	e := newTestEngine(t)
	assert.NoError(t, e.CreateTable(usersSchema()))

	res, err := e.Insert(engine.InsertRequest{
		Table: "users",
		Rows: [][]*expression.Node{
			{lit(1)},
		},
	})
	assert.NoError(t, err)
	assert.Equal(t, 0, res.Inserted)
	assert.Equal(t, 1, res.Failed)
}

func TestUpdateMatchingRows(t *testing.T) {
	e := newTestEngine(t)
	assert.NoError(t, e.CreateTable(usersSchema()))
	_, err := e.Insert(engine.InsertRequest{Table: "users", Rows: [][]*expression.Node{
		{lit(1), strLit("alice")},
		{lit(2), strLit("bob")},
	}})
	assert.NoError(t, err)

	where := expression.BinOp(expression.OpEq, expression.Column("users", "id"), lit(1))
	res, err := e.Update(engine.UpdateRequest{
		Table:   "users",
		Where:   where,
		Columns: []string{"name"},
		Values:  []*expression.Node{strLit("alicia")},
	})
	assert.NoError(t, err)
	assert.Equal(t, 1, res.Updated)
	assert.Equal(t, 0, res.Failed)

	var out bytes.Buffer
	assert.NoError(t, e.Select(engine.SelectRequest{Tables: []string{"users"}, Where: where}, &out))
	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	assert.Equal(t, []string{"id,name", "1,alicia"}, lines)
}

func TestDeleteMatchingRows(t *testing.T) {
	e := newTestEngine(t)
	assert.NoError(t, e.CreateTable(usersSchema()))
	_, err := e.Insert(engine.InsertRequest{Table: "users", Rows: [][]*expression.Node{
		{lit(1), strLit("alice")},
		{lit(2), strLit("bob")},
	}})
	assert.NoError(t, err)

	where := expression.BinOp(expression.OpEq, expression.Column("users", "id"), lit(1))
	res, err := e.Delete("users", where)
	assert.NoError(t, err)
	assert.Equal(t, 1, res.Deleted)

	var out bytes.Buffer
	assert.NoError(t, e.Select(engine.SelectRequest{
		Tables:      []string{"users"},
		Projections: []*expression.Node{expression.UnaryOp(expression.OpCount, nil)},
	}, &out))
	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	assert.Equal(t, "1", lines[1])
}

func TestSelectAggregates(t *testing.T) {
	e := newTestEngine(t)
	assert.NoError(t, e.CreateTable(ordersSchema()))
	_, err := e.Insert(engine.InsertRequest{Table: "orders", Rows: [][]*expression.Node{
		{lit(1), lit(1), lit(10)},
		{lit(2), lit(1), lit(20)},
		{lit(3), lit(2), lit(30)},
	}})
	assert.NoError(t, err)

	runAgg := func(op expression.Operator, col string) string {
		var node *expression.Node
		if op == expression.OpCount {
			node = expression.UnaryOp(expression.OpCount, nil)
		} else {
			node = expression.UnaryOp(op, expression.Column("orders", col))
		}
		var out bytes.Buffer
		err := e.Select(engine.SelectRequest{Tables: []string{"orders"}, Projections: []*expression.Node{node}}, &out)
		assert.NoError(t, err)
		lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
		return lines[1]
	}

	assert.Equal(t, "3", runAgg(expression.OpCount, ""))
	assert.Equal(t, "60", runAgg(expression.OpSum, "amount"))
	assert.Equal(t, "20", runAgg(expression.OpAvg, "amount"))
	assert.Equal(t, "10", runAgg(expression.OpMin, "amount"))
	assert.Equal(t, "30", runAgg(expression.OpMax, "amount"))
}

func TestSelectAggregatesOverEmptyTable(t *testing.T) {
	e := newTestEngine(t)
	assert.NoError(t, e.CreateTable(ordersSchema()))

	runAgg := func(op expression.Operator) string {
		node := expression.UnaryOp(op, expression.Column("orders", "amount"))
		var out bytes.Buffer
		err := e.Select(engine.SelectRequest{Tables: []string{"orders"}, Projections: []*expression.Node{node}}, &out)
		assert.NoError(t, err)
		lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
		return lines[1]
	}

	assert.Equal(t, "0", runAgg(expression.OpSum))
	assert.Equal(t, "NULL", runAgg(expression.OpAvg))
	assert.Equal(t, "NULL", runAgg(expression.OpMin))
	assert.Equal(t, "NULL", runAgg(expression.OpMax))
}

func TestSelectRejectsMixedAggregateProjections(t *testing.T) {
	e := newTestEngine(t)
	assert.NoError(t, e.CreateTable(ordersSchema()))

	err := e.Select(engine.SelectRequest{
		Tables: []string{"orders"},
		Projections: []*expression.Node{
			expression.UnaryOp(expression.OpCount, nil),
			expression.Column("orders", "amount"),
		},
	}, io.Discard)
	assert.ErrorIs(t, err, engine.ErrNotSingleAggExpr)
}

func TestSelectRequiresAtLeastOneTable(t *testing.T) {
	e := newTestEngine(t)
	err := e.Select(engine.SelectRequest{}, io.Discard)
	assert.Error(t, err)
}

func TestSelectTwoTableIndexJoin(t *testing.T) {
	e := newTestEngine(t)
	assert.NoError(t, e.CreateTable(usersSchema()))
	assert.NoError(t, e.CreateTable(ordersSchema()))

	_, err := e.Insert(engine.InsertRequest{Table: "users", Rows: [][]*expression.Node{
		{lit(1), strLit("alice")},
		{lit(2), strLit("bob")},
	}})
	assert.NoError(t, err)

	_, err = e.Insert(engine.InsertRequest{Table: "orders", Rows: [][]*expression.Node{
		{lit(1), lit(1), lit(10)},
		{lit(2), lit(1), lit(20)},
		{lit(3), lit(2), lit(30)},
	}})
	assert.NoError(t, err)

	where := expression.BinOp(expression.OpEq, expression.Column("orders", "user_id"), expression.Column("users", "id"))

	var out bytes.Buffer
	err = e.Select(engine.SelectRequest{
		Tables:      []string{"users", "orders"},
		Where:       where,
		Projections: []*expression.Node{expression.UnaryOp(expression.OpCount, nil)},
	}, &out)
	assert.NoError(t, err)

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	assert.Equal(t, "3", lines[1])
}

func TestSelectManyTableNestedLoop(t *testing.T) {
	e := newTestEngine(t)
	assert.NoError(t, e.CreateTable(usersSchema()))
	assert.NoError(t, e.CreateTable(ordersSchema()))
	assert.NoError(t, e.CreateTable(&catalog.TableSchema{
		Name: "shipments",
		PK:   "id",
		Columns: catalog.ColumnSchemas{
			{Name: "id", Type: catalog.Int, Flags: catalog.FlagPrimaryKey},
			{Name: "order_id", Type: catalog.Int},
		},
	}))

	_, err := e.Insert(engine.InsertRequest{Table: "users", Rows: [][]*expression.Node{{lit(1), strLit("alice")}}})
	assert.NoError(t, err)
	_, err = e.Insert(engine.InsertRequest{Table: "orders", Rows: [][]*expression.Node{{lit(1), lit(1), lit(10)}}})
	assert.NoError(t, err)
	_, err = e.Insert(engine.InsertRequest{Table: "shipments", Rows: [][]*expression.Node{{lit(1), lit(1)}}})
	assert.NoError(t, err)

	where := expression.BinOp(expression.OpAnd,
		expression.BinOp(expression.OpEq, expression.Column("orders", "user_id"), expression.Column("users", "id")),
		expression.BinOp(expression.OpEq, expression.Column("shipments", "order_id"), expression.Column("orders", "id")))

	var out bytes.Buffer
	err = e.Select(engine.SelectRequest{
		Tables:      []string{"users", "orders", "shipments"},
		Where:       where,
		Projections: []*expression.Node{expression.UnaryOp(expression.OpCount, nil)},
	}, &out)
	assert.NoError(t, err)

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	assert.Equal(t, "1", lines[1])
}

func TestCreateIndexOnExistingTable(t *testing.T) {
	e := newTestEngine(t)
	assert.NoError(t, e.CreateTable(ordersSchema()))
	_, err := e.Insert(engine.InsertRequest{Table: "orders", Rows: [][]*expression.Node{
		{lit(1), lit(1), lit(10)},
	}})
	assert.NoError(t, err)

	assert.NoError(t, e.CreateIndex("orders", "user_id"))
}
