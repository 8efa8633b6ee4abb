// Package engine implements the query execution core: row iteration,
// the two-table and many-table join strategies, streaming predicate
// evaluation through the row cache, single-group aggregates, and the
// SELECT/UPDATE/DELETE/INSERT statement drivers built on top of them.
package engine

import (
	"log"

	"github.com/cockroachdb/errors"

	"github.com/yll1325/TrivialDB/catalog"
	"github.com/yll1325/TrivialDB/storage"
)

// Engine owns the catalog and storage handle shared by every statement
// and one open storage.Table per table name. It holds no row cache of
// its own: each statement driver and iterator builds a fresh RowCache
// per call.
type Engine struct {
	catalog *catalog.Catalog
	storage *storage.Storage
	tables  map[string]*storage.Table

	Logger *log.Logger
}

func New(ct *catalog.Catalog, st *storage.Storage) *Engine {
	return &Engine{
		catalog: ct,
		storage: st,
		tables:  make(map[string]*storage.Table),
		Logger:  log.Default(),
	}
}

// openTable returns the already-open storage.Table for name, opening
// (and caching) it on first use.
func (e *Engine) openTable(name string) (*storage.Table, error) {
	if tbl, ok := e.tables[name]; ok {
		return tbl, nil
	}

	schema, err := e.catalog.Get(name)
	if err != nil {
		return nil, errors.Wrapf(ErrSchemaNotFound, "table %q", name)
	}

	tbl, err := storage.OpenTable(e.storage, schema)
	if err != nil {
		return nil, errors.Wrapf(err, "opening table %q", name)
	}

	e.tables[name] = tbl
	return tbl, nil
}

// invalidateTable forces the next openTable call to reload name from
// disk. Nothing in the package calls it: CreateTable runs before the
// table is first opened, and CreateIndex updates the cached
// storage.Table in place.
func (e *Engine) invalidateTable(name string) {
	delete(e.tables, name)
}

func (e *Engine) logf(format string, args ...interface{}) {
	e.Logger.Printf(format, args...)
}
