package storage

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"sync"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/yll1325/TrivialDB/catalog"
)

var (
	ErrRecordNotFound = errors.New("record not found")
	ErrNoSuchIndex    = errors.New("no index on column")
)

// Table is the table-manager collaborator: it owns one
// catalog.TableSchema, the page storage backing it, the secondary
// indexes built on it, a stable rowid -> Locator map (the clustered
// "primary" access path every ModifyRecord/RemoveRecord call by rowid
// needs), and the single cached-record slot the row cache binds a
// table to during predicate evaluation.
//
// It bundles page I/O, schema lookup, and per-column indexes into one
// collaborator rather than splitting them across separate types.
type Table struct {
	mu sync.Mutex

	schema  *catalog.TableSchema
	storage *Storage

	indexes map[string]*Index // column name -> index

	rowLocations map[int32]Locator
	nextRowID    int32

	cached      *Tuple
	cachedRowID int32

	tempTuple *Tuple
}

// OpenTable loads (or lazily initializes) the table manager for schema,
// scanning existing pages once to rebuild the rowid -> Locator map and
// the next-row-id counter, and loading every index named in the schema.
func OpenTable(storage *Storage, schema *catalog.TableSchema) (*Table, error) {
	t := &Table{
		schema:       schema,
		storage:      storage,
		indexes:      make(map[string]*Index),
		rowLocations: make(map[int32]Locator),
	}

	it := storage.NewRecordIterator(schema.Name)
	for {
		tuple, loc, ok := it.Next()
		if !ok {
			break
		}
		t.rowLocations[tuple.RowID] = loc
		if tuple.RowID+1 > t.nextRowID {
			t.nextRowID = tuple.RowID + 1
		}
	}

	for _, col := range schema.Columns {
		if !col.Flags.Has(catalog.FlagIndexed) && !col.Flags.Has(catalog.FlagPrimaryKey) {
			continue
		}
		idx, err := storage.ReadIndex(schema.Name, col.Name)
		if err != nil {
			idx = NewIndex(schema.Name, col.Name, col.Type)
		}
		t.indexes[col.Name] = idx
	}

	return t, nil
}

func (t *Table) Schema() *catalog.TableSchema { return t.schema }

func (t *Table) LookupColumn(name string) int {
	return t.schema.LookupColumn(name)
}

func (t *Table) GetColumnType(colID int) catalog.ColumnType {
	return t.schema.GetColumnType(colID)
}

func (t *Table) GetIndex(columnName string) *Index {
	return t.indexes[columnName]
}

// RecordIteratorLowerBound returns a full-table forward iterator.
// Unlike an Index, the heap has no intrinsic key order to seek into, so
// it takes no key and is equivalent to a plain scan from the first
// record.
func (t *Table) RecordIteratorLowerBound() *RecordIterator {
	return t.storage.NewRecordIterator(t.schema.Name)
}

// OpenRecordFromIndexLowerBound dereferences an index-provided locator
// directly, without a table scan — the fast path of the two-table
// index join.
func (t *Table) OpenRecordFromIndexLowerBound(loc Locator) (*Tuple, error) {
	tuple, err := t.storage.GetTuple(t.schema.Name, loc)
	if err != nil {
		return nil, err
	}
	if tuple.Empty() {
		return nil, ErrRecordNotFound
	}
	return tuple, nil
}

// CacheRecord binds tuple as this table's currently-positioned record.
// Every subsequent GetCachedColumn call reads from this tuple until
// the next CacheRecord call rebinds it.
func (t *Table) CacheRecord(tuple *Tuple) {
	t.cached = tuple
	t.cachedRowID = tuple.RowID
}

// GetCachedColumn returns the raw bytes of column colID of the
// currently cached record. colID == ColumnNum()-1 (i.e. len(Columns))
// is the rowid pseudo column, matching the encoding LookupColumn and
// GetColumnType use for catalog.RowIDColumn.
func (t *Table) GetCachedColumn(colID int) ([]byte, error) {
	if t.cached == nil {
		return nil, errors.New("no record cached")
	}
	if colID == t.schema.ColumnNum()-1 {
		return encodeRowID(t.cachedRowID), nil
	}
	if colID < 0 || colID >= len(t.cached.Columns) {
		return nil, catalog.ErrColumnNotFound
	}
	return t.cached.Columns[colID], nil
}

func (t *Table) CachedRowID() int32 {
	return t.cachedRowID
}

func encodeRowID(rowID int32) []byte {
	buf := make([]byte, 4)
	binary.BigEndian.PutUint32(buf, uint32(rowID))
	return buf
}

// ModifyRecord rewrites column colID of the row identified by rid
// in-place, at its existing locator, leaving the rowid and every other
// column untouched. In-place rewrite avoids a delete-then-reinsert
// UPDATE strategy, which would reassign the row's physical location
// and, transitively, every index entry pointing at it.
func (t *Table) ModifyRecord(rid int32, colID int, data []byte) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	loc, ok := t.rowLocations[rid]
	if !ok {
		return ErrRecordNotFound
	}
	tuple, err := t.storage.GetTuple(t.schema.Name, loc)
	if err != nil {
		return err
	}
	if tuple.Empty() {
		return ErrRecordNotFound
	}

	if colID < 0 || colID >= len(tuple.Columns) {
		return catalog.ErrColumnNotFound
	}

	col := t.schema.Columns[colID]
	if idx := t.indexes[col.Name]; idx != nil {
		oldKey, err := bytesToKey(tuple.Columns[colID], col.Type)
		if err != nil {
			return err
		}
		idx.Delete(oldKey, loc)
		newKey, err := bytesToKey(data, col.Type)
		if err != nil {
			return err
		}
		if err := idx.Insert(newKey, loc); err != nil {
			return err
		}
		if err := t.storage.WriteIndex(idx); err != nil {
			return err
		}
	}

	tuple.Columns[colID] = data
	if t.cached != nil && t.cachedRowID == rid {
		t.cached.Columns[colID] = data
	}
	return t.storage.PutTuple(t.schema.Name, loc, tuple)
}

// RemoveRecord deletes the row identified by rid, clearing its slot and
// every index entry that pointed at it.
func (t *Table) RemoveRecord(rid int32) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	loc, ok := t.rowLocations[rid]
	if !ok {
		return ErrRecordNotFound
	}
	tuple, err := t.storage.GetTuple(t.schema.Name, loc)
	if err != nil {
		return err
	}
	if tuple.Empty() {
		return ErrRecordNotFound
	}

	for _, col := range t.schema.Columns {
		idx := t.indexes[col.Name]
		if idx == nil {
			continue
		}
		colID := t.schema.LookupColumn(col.Name)
		key, err := bytesToKey(tuple.Columns[colID], col.Type)
		if err != nil {
			return err
		}
		idx.Delete(key, loc)
		if err := t.storage.WriteIndex(idx); err != nil {
			return err
		}
	}

	delete(t.rowLocations, rid)
	if t.cached != nil && t.cachedRowID == rid {
		t.cached = nil
	}
	return t.storage.DeleteTuple(t.schema.Name, loc)
}

// InitTempRecord starts building a new row in the INSERT statement's
// staging area.
func (t *Table) InitTempRecord() {
	t.tempTuple = &Tuple{Columns: make([][]byte, len(t.schema.Columns))}
}

// SetTempRecord stages raw bytes for colID of the in-progress INSERT.
func (t *Table) SetTempRecord(colID int, data []byte) error {
	if t.tempTuple == nil {
		return errors.New("no temp record initialized")
	}
	if colID < 0 || colID >= len(t.tempTuple.Columns) {
		return catalog.ErrColumnNotFound
	}
	t.tempTuple.Columns[colID] = data
	return nil
}

// InsertRecord commits the staged temp record, assigning it the next
// rowid, writing it to the heap, and updating every secondary index.
func (t *Table) InsertRecord() (int32, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.tempTuple == nil {
		return 0, errors.New("no temp record initialized")
	}

	rid := t.nextRowID
	t.tempTuple.RowID = rid

	loc, err := t.storage.InsertTuple(t.schema.Name, t.tempTuple)
	if err != nil {
		return 0, err
	}

	for _, col := range t.schema.Columns {
		idx := t.indexes[col.Name]
		if idx == nil {
			continue
		}
		colID := t.schema.LookupColumn(col.Name)
		key, err := bytesToKey(t.tempTuple.Columns[colID], col.Type)
		if err != nil {
			return 0, err
		}
		if err := idx.Insert(key, loc); err != nil {
			return 0, err
		}
		if err := t.storage.WriteIndex(idx); err != nil {
			return 0, err
		}
	}

	t.rowLocations[rid] = loc
	t.nextRowID++
	t.tempTuple = nil
	return rid, nil
}

// ValueExists reports whether any row already holds data in colID —
// used by the INSERT driver to enforce primary-key/unique-index
// constraints before committing a temp record.
func (t *Table) ValueExists(colID int, data []byte) (bool, error) {
	col := t.schema.Columns[colID]
	if idx := t.indexes[col.Name]; idx != nil {
		key, err := bytesToKey(data, col.Type)
		if err != nil {
			return false, err
		}
		_, ok := idx.Search(key)
		return ok, nil
	}

	it := t.storage.NewRecordIterator(t.schema.Name)
	for {
		tuple, _, ok := it.Next()
		if !ok {
			return false, nil
		}
		if string(tuple.Columns[colID]) == string(data) {
			return true, nil
		}
	}
}

// CreateIndex builds a secondary index on columnName from the table's
// existing rows (a full scan with one index insert per row) and
// registers it for future inserts/updates/deletes.
func (t *Table) CreateIndex(columnName string) error {
	colID := t.schema.LookupColumn(columnName)
	if colID < 0 {
		return catalog.ErrColumnNotFound
	}
	col := t.schema.Columns[colID]

	idx := NewIndex(t.schema.Name, col.Name, col.Type)

	it := t.storage.NewRecordIterator(t.schema.Name)
	for {
		tuple, loc, ok := it.Next()
		if !ok {
			break
		}
		key, err := bytesToKey(tuple.Columns[colID], col.Type)
		if err != nil {
			return err
		}
		if err := idx.Insert(key, loc); err != nil {
			return err
		}
	}

	if err := t.storage.WriteIndex(idx); err != nil {
		return err
	}

	t.indexes[col.Name] = idx
	t.schema.Columns[colID].Flags |= catalog.FlagIndexed
	return nil
}

// DumpHeader writes the column name header line of the CSV output
// stream.
func (t *Table) DumpHeader(w io.Writer) {
	for i, col := range t.schema.Columns {
		if i > 0 {
			fmt.Fprint(w, ",")
		}
		fmt.Fprint(w, col.Name)
	}
	fmt.Fprintln(w)
}

func (t *Table) DumpRecord(w io.Writer, tuple *Tuple) error {
	for i, col := range t.schema.Columns {
		if i > 0 {
			fmt.Fprint(w, ",")
		}
		s, err := formatColumnBytes(tuple.Columns[i], col.Type)
		if err != nil {
			return err
		}
		fmt.Fprint(w, s)
	}
	fmt.Fprintln(w)
	return nil
}

// DumpCachedRecord dumps whichever record is currently bound in the row
// cache (see CacheRecord), the access pattern SELECT's raw-dump path
// uses since it only observes rowids from the iterator, not tuples.
func (t *Table) DumpCachedRecord(w io.Writer) error {
	if t.cached == nil {
		return errors.New("no record cached")
	}
	return t.DumpRecord(w, t.cached)
}

// BytesToKey converts raw column bytes into an ordered index Key, the
// same conversion Table applies internally when maintaining indexes —
// exported so callers driving an index probe directly (the two-table
// and many-table join strategies) can build a lower-bound key from a
// cached column value.
func BytesToKey(data []byte, colType catalog.ColumnType) (Key, error) {
	return bytesToKey(data, colType)
}

func bytesToKey(data []byte, colType catalog.ColumnType) (Key, error) {
	switch colType {
	case catalog.Int:
		if len(data) != 4 {
			return Key{}, errors.New("bad int column bytes")
		}
		return IntKey(int32(binary.BigEndian.Uint32(data))), nil
	case catalog.Float:
		if len(data) != 4 {
			return Key{}, errors.New("bad float column bytes")
		}
		bits := binary.BigEndian.Uint32(data)
		return FloatKey(float32FromBits(bits)), nil
	case catalog.String:
		return StringKey(string(data)), nil
	case catalog.Bool:
		if len(data) != 1 {
			return Key{}, errors.New("bad bool column bytes")
		}
		return BoolKey(data[0] != 0), nil
	case catalog.Date:
		if len(data) != 8 {
			return Key{}, errors.New("bad date column bytes")
		}
		return DateKey(int64(binary.BigEndian.Uint64(data))), nil
	default:
		return Key{}, errors.Newf("unsupported column type %v", colType)
	}
}

func float32FromBits(bits uint32) float32 {
	return math.Float32frombits(bits)
}

func formatColumnBytes(data []byte, colType catalog.ColumnType) (string, error) {
	if len(data) == 0 {
		return "NULL", nil
	}
	switch colType {
	case catalog.Int:
		return fmt.Sprintf("%d", int32(binary.BigEndian.Uint32(data))), nil
	case catalog.Float:
		return fmt.Sprintf("%g", float32FromBits(binary.BigEndian.Uint32(data))), nil
	case catalog.String:
		return string(data), nil
	case catalog.Bool:
		if data[0] != 0 {
			return "TRUE", nil
		}
		return "FALSE", nil
	case catalog.Date:
		return time.Unix(int64(binary.BigEndian.Uint64(data)), 0).UTC().Format("2006-01-02 15:04:05"), nil
	default:
		return "", errors.Newf("unsupported column type %v", colType)
	}
}
