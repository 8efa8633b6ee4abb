package engine

import (
	"github.com/cockroachdb/errors"

	"github.com/yll1325/TrivialDB/catalog"
	"github.com/yll1325/TrivialDB/expression"
	"github.com/yll1325/TrivialDB/storage"
	"github.com/yll1325/TrivialDB/typecast"
)

// RowCache is the per-statement binding from table name to the
// currently-positioned row. Each statement driver and iterator builds
// its own RowCache per call; there is no process-wide global state.
//
// The byte-level "currently cached record" actually lives inside each
// storage.Table (CacheRecord/GetCachedColumn); RowCache only tracks
// which tables are part of the active statement and resolves column
// references against them, playing the role of the expression
// evaluator's Context.
type RowCache struct {
	tables map[string]*storage.Table
}

func NewRowCache() *RowCache {
	return &RowCache{tables: make(map[string]*storage.Table)}
}

// Bind registers table under name (its declared name; table aliases
// are not supported) as part of the active statement.
func (c *RowCache) Bind(name string, table *storage.Table) {
	c.tables[name] = table
}

// Clear releases every binding, resetting the cache for reuse. The
// statement drivers currently build a fresh RowCache per call instead
// of reusing one across statements, so Clear exists for callers that
// hold a RowCache longer than one statement.
func (c *RowCache) Clear() {
	c.tables = make(map[string]*storage.Table)
}

// Column implements expression.Context, resolving (table, column)
// against whichever storage.Table is currently bound under table and
// decoding its cached bytes through typecast.
func (c *RowCache) Column(table, column string) (expression.Value, error) {
	tbl, ok := c.tables[table]
	if !ok {
		return expression.Value{}, errors.Wrapf(ErrSchemaNotFound, "table %q not bound in row cache", table)
	}

	colID := tbl.LookupColumn(column)
	if colID < 0 {
		return expression.Value{}, errors.Wrapf(ErrSchemaNotFound, "column %q not found on table %q", column, table)
	}

	raw, err := tbl.GetCachedColumn(colID)
	if err != nil {
		return expression.Value{}, errors.Wrapf(err, "%s.%s", table, column)
	}

	colType := tbl.GetColumnType(colID)
	return typecast.DBFromBytes(raw, colType)
}

var _ expression.Context = (*RowCache)(nil)

// columnType resolves a column reference's declared type, used by the
// statement drivers to type-check projections/updates before writing.
func columnType(tbl *storage.Table, column string) (catalog.ColumnType, int, error) {
	colID := tbl.LookupColumn(column)
	if colID < 0 {
		return catalog.Unknown, -1, errors.Wrapf(ErrSchemaNotFound, "column %q", column)
	}
	return tbl.GetColumnType(colID), colID, nil
}
