// Package ddl builds schema-definition statements (CREATE TABLE,
// CREATE INDEX) from sqlparser ASTs.
package ddl

import (
	"github.com/cockroachdb/errors"
	"github.com/xwb1989/sqlparser"

	"github.com/yll1325/TrivialDB/catalog"
)

type CreateTableStmt struct {
	TableSchema *catalog.TableSchema
}

func BuildCreateTableStmt(statement *sqlparser.DDL) (*CreateTableStmt, error) {
	if len(statement.NewName.Name.String()) == 0 {
		return nil, errors.New("table name is empty")
	}
	tableName := statement.NewName.Name.String()
	if statement.TableSpec == nil || len(statement.TableSpec.Columns) == 0 {
		return nil, errors.New("column list is empty")
	}

	columns := make([]catalog.ColumnSchema, 0, len(statement.TableSpec.Columns))
	for _, column := range statement.TableSpec.Columns {
		colType, err := mapType(&column.Type)
		if err != nil {
			return nil, err
		}
		flags := catalog.FlagNone
		if bool(column.Type.NotNull) {
			flags |= catalog.FlagNotNull
		}
		columns = append(columns, catalog.ColumnSchema{
			Name:  column.Name.String(),
			Type:  colType,
			Flags: flags,
		})
	}

	pk, err := findPrimaryKey(statement.TableSpec.Columns)
	if err != nil {
		return nil, err
	}

	return &CreateTableStmt{
		TableSchema: &catalog.TableSchema{
			Name:    tableName,
			Columns: columns,
			PK:      pk,
		},
	}, nil
}

// findPrimaryKey returns the name of the column whose KeyOpt marks it
// primary. sqlparser's column-key-option constants are unexported, so
// the numeric literal below is the only way to test for them from
// outside the package; 1 is colKeyPrimary in the grammar's const block.
func findPrimaryKey(columns []*sqlparser.ColumnDefinition) (string, error) {
	for _, column := range columns {
		if column.Type.KeyOpt == 1 {
			return column.Name.String(), nil
		}
	}
	return "", errors.Wrap(catalog.ErrPrimaryKeyMissing, "no column marked PRIMARY KEY")
}

func mapType(columnType *sqlparser.ColumnType) (catalog.ColumnType, error) {
	switch columnType.Type {
	case "tinyint", "smallint", "int", "integer", "bigint":
		return catalog.Int, nil
	case "float", "double", "decimal", "real":
		return catalog.Float, nil
	case "char", "varchar", "text":
		return catalog.String, nil
	case "date", "datetime", "timestamp":
		return catalog.Date, nil
	case "bool", "boolean":
		return catalog.Bool, nil
	default:
		return catalog.Unknown, errors.Newf("unknown column type %q", columnType.Type)
	}
}
