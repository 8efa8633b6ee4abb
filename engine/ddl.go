package engine

import (
	"github.com/cockroachdb/errors"

	"github.com/yll1325/TrivialDB/catalog"
)

// CreateTable registers schema in the catalog, marking the declared
// primary key column, so later statements against the table have a
// schema to resolve against.
func (e *Engine) CreateTable(schema *catalog.TableSchema) error {
	if schema.PK == "" {
		return errors.Wrap(catalog.ErrPrimaryKeyMissing, schema.Name)
	}
	if err := e.catalog.Add(schema); err != nil {
		return err
	}

	for i, col := range schema.Columns {
		if col.Name == schema.PK {
			schema.Columns[i].Flags |= catalog.FlagPrimaryKey
		}
	}

	e.logf("[Info] table %q created.", schema.Name)
	return nil
}

// CreateIndex builds and registers a secondary index on an existing
// table's column by scanning every existing row and inserting its key.
func (e *Engine) CreateIndex(table, column string) error {
	tbl, err := e.openTable(table)
	if err != nil {
		return err
	}
	if err := tbl.CreateIndex(column); err != nil {
		return err
	}

	e.logf("[Info] index created on %s.%s.", table, column)
	return nil
}
