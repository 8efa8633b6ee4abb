package engine

import (
	"github.com/cockroachdb/errors"

	"github.com/yll1325/TrivialDB/catalog"
	"github.com/yll1325/TrivialDB/expression"
	"github.com/yll1325/TrivialDB/storage"
	"github.com/yll1325/TrivialDB/typecast"
)

// InsertRequest is the INSERT statement driver's input. An empty
// Columns list means "all declared columns, in schema order, excluding
// the trailing __rowid__ column".
type InsertRequest struct {
	Table   string
	Columns []string
	Rows    [][]*expression.Node
}

// InsertResult reports how many value tuples committed versus failed.
type InsertResult struct {
	Inserted int
	Failed   int
}

// emptyContext rejects every column reference; INSERT value
// expressions are evaluated before any row of the target table exists,
// so they may only be literals and arithmetic over literals.
type emptyContext struct{}

func (emptyContext) Column(table, column string) (expression.Value, error) {
	return expression.Value{}, errors.Wrapf(ErrSchemaNotFound, "%s.%s not available in INSERT values", table, column)
}

// Insert resolves the target column list, then for each value tuple
// validates arity, evaluates and type-checks each value, stages it into
// the table's temp record, and commits. A failing tuple is counted and
// skipped; iteration continues with the next tuple.
func (e *Engine) Insert(req InsertRequest) (InsertResult, error) {
	tbl, err := e.openTable(req.Table)
	if err != nil {
		return InsertResult{}, err
	}
	schema := tbl.Schema()

	columns := req.Columns
	if len(columns) == 0 {
		columns = make([]string, len(schema.Columns))
		for i, col := range schema.Columns {
			columns[i] = col.Name
		}
	}

	colIDs := make([]int, len(columns))
	for i, name := range columns {
		_, colID, err := columnType(tbl, name)
		if err != nil {
			return InsertResult{}, err
		}
		colIDs[i] = colID
	}

	var result InsertResult
	for rowNum, row := range req.Rows {
		if len(row) != len(columns) {
			result.Failed++
			e.logf("[Error] insert row %d: %v", rowNum, errors.Wrapf(ErrArityMismatch, "expected %d values, got %d", len(columns), len(row)))
			continue
		}

		if err := e.insertOneRow(tbl, colIDs, row); err != nil {
			result.Failed++
			e.logf("[Error] insert row %d: %v", rowNum, err)
			continue
		}
		result.Inserted++
	}

	e.logf("[Info] %d row(s) inserted, %d row(s) failed.", result.Inserted, result.Failed)
	return result, nil
}

func (e *Engine) insertOneRow(tbl *storage.Table, colIDs []int, row []*expression.Node) error {
	tbl.InitTempRecord()

	for i, expr := range row {
		v, err := expression.Eval(emptyContext{}, expr)
		if err != nil {
			return errors.Wrap(err, "evaluating value")
		}

		colID := colIDs[i]
		colType := tbl.GetColumnType(colID)
		if !typecast.TypeCompatible(colType, v) {
			return errors.Wrapf(ErrTypeError, "column type %v incompatible with value type %v", colType, v.Type)
		}

		data, err := typecast.ExprToDB(v, typecast.ColumnToTerm(colType))
		if err != nil {
			return err
		}

		if isPrimaryKeyColumn(tbl, colID) {
			exists, err := tbl.ValueExists(colID, data)
			if err != nil {
				return err
			}
			if exists {
				return ErrDuplicateKey
			}
		}

		if err := tbl.SetTempRecord(colID, data); err != nil {
			return err
		}
	}

	_, err := tbl.InsertRecord()
	return err
}

func isPrimaryKeyColumn(tbl *storage.Table, colID int) bool {
	schema := tbl.Schema()
	if colID < 0 || colID >= len(schema.Columns) {
		return false
	}
	return schema.Columns[colID].Flags.Has(catalog.FlagPrimaryKey)
}
