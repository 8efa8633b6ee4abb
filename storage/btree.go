package storage

import (
	"encoding/json"
	"sort"
	"sync"

	"github.com/cockroachdb/errors"

	"github.com/yll1325/TrivialDB/catalog"
)

// Locator is a (page, slot) reference returned by an index, usable to
// open a record directly without rescanning the table. Indexing an
// arbitrary column (not just the primary key) needs the slot, not just
// the page id, to avoid a linear scan of the page to find the matching
// key.
type Locator struct {
	PageID uint64
	Slot   uint8
}

// Key is an ordered, typed index key. Columns of different catalog
// types compare differently (numeric vs lexicographic vs boolean vs
// epoch seconds), so Key carries its type tag rather than being raw
// bytes.
type Key struct {
	Type catalog.ColumnType
	I    int64
	F    float64
	S    string
	B    bool
}

func IntKey(v int32) Key     { return Key{Type: catalog.Int, I: int64(v)} }
func FloatKey(v float32) Key { return Key{Type: catalog.Float, F: float64(v)} }
func StringKey(v string) Key { return Key{Type: catalog.String, S: v} }
func BoolKey(v bool) Key     { return Key{Type: catalog.Bool, B: v} }
func DateKey(v int64) Key    { return Key{Type: catalog.Date, I: v} }

// Less orders a before b. Keys must share a Type (enforced by the Index
// they belong to).
func (a Key) Less(b Key) bool {
	switch a.Type {
	case catalog.Int, catalog.Date:
		return a.I < b.I
	case catalog.Float:
		return a.F < b.F
	case catalog.String:
		return a.S < b.S
	case catalog.Bool:
		return !a.B && b.B
	default:
		return false
	}
}

func (a Key) Equal(b Key) bool {
	return !a.Less(b) && !b.Less(a)
}

type entry struct {
	Key     Key
	Locator Locator
}

// Index is an ordered multimap from a column value to the set of
// (page, slot) locators of rows holding that value. It supports
// ordered iteration beginning at LowerBound(key) in addition to
// exact-match Search. A sorted slice gives the same asymptotic
// lower-bound behavior as a B+-tree leaf layer without the split/merge
// bookkeeping a full B-tree needs only for datasets larger than this
// repo's page-at-a-time fixtures exercise.
type Index struct {
	TableName  string
	IndexName  string
	ColumnType catalog.ColumnType

	mu      sync.RWMutex
	entries []entry
}

func NewIndex(tableName, indexName string, colType catalog.ColumnType) *Index {
	return &Index{TableName: tableName, IndexName: indexName, ColumnType: colType}
}

// indexJSON is the exported shape Index marshals to and from. Index
// keeps entries unexported so callers can't bypass the mutex mutating
// the slice directly; json.Marshal skips unexported fields, so the
// wire form needs its own struct with an exported Entries field.
type indexJSON struct {
	TableName  string
	IndexName  string
	ColumnType catalog.ColumnType
	Entries    []entry
}

func (idx *Index) MarshalJSON() ([]byte, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return json.Marshal(indexJSON{
		TableName:  idx.TableName,
		IndexName:  idx.IndexName,
		ColumnType: idx.ColumnType,
		Entries:    idx.entries,
	})
}

func (idx *Index) UnmarshalJSON(data []byte) error {
	var aux indexJSON
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	idx.TableName = aux.TableName
	idx.IndexName = aux.IndexName
	idx.ColumnType = aux.ColumnType
	idx.entries = aux.Entries
	return nil
}

func (idx *Index) Serialize() ([]byte, error) {
	return json.Marshal(idx)
}

func DeserializeIndex(data []byte) (*Index, error) {
	idx := &Index{}
	if err := json.Unmarshal(data, idx); err != nil {
		return nil, err
	}
	return idx, nil
}

func (idx *Index) search(key Key) int {
	return sort.Search(len(idx.entries), func(i int) bool {
		return !idx.entries[i].Key.Less(key)
	})
}

// Insert adds (key, loc) to the index. Duplicate keys are allowed: a
// non-unique secondary index legitimately maps one value to many rows.
// Primary-key uniqueness is enforced by the statement driver via
// Table.ValueExists before calling Insert.
func (idx *Index) Insert(key Key, loc Locator) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	pos := idx.search(key)
	idx.entries = append(idx.entries, entry{})
	copy(idx.entries[pos+1:], idx.entries[pos:])
	idx.entries[pos] = entry{Key: key, Locator: loc}
	return nil
}

// Delete removes the first entry exactly matching (key, loc).
func (idx *Index) Delete(key Key, loc Locator) bool {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	for i := idx.search(key); i < len(idx.entries) && idx.entries[i].Key.Equal(key); i++ {
		if idx.entries[i].Locator == loc {
			idx.entries = append(idx.entries[:i], idx.entries[i+1:]...)
			return true
		}
	}
	return false
}

// Search returns the first locator stored under key, if any — used by
// uniqueness checks (ValueExists) and by single-row primary key lookups.
func (idx *Index) Search(key Key) (Locator, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	i := idx.search(key)
	if i < len(idx.entries) && idx.entries[i].Key.Equal(key) {
		return idx.entries[i].Locator, true
	}
	return Locator{}, false
}

// LowerBound returns an iterator positioned at the first entry whose
// key is >= key, in ascending key order — the ordered access pattern
// both the two-table index join and the many-table executor drive.
func (idx *Index) LowerBound(key Key) *IndexIterator {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	start := idx.search(key)
	snapshot := make([]entry, len(idx.entries)-start)
	copy(snapshot, idx.entries[start:])
	return &IndexIterator{entries: snapshot, pos: 0}
}

var ErrIndexEntryNotFound = errors.New("index entry not found")

// IndexIterator positions itself at the first qualifying entry (if
// any) on construction; IsEnd reports whether that position holds a
// valid entry, and Next advances past it.
type IndexIterator struct {
	entries []entry
	pos     int
}

func (it *IndexIterator) IsEnd() bool {
	return it.pos >= len(it.entries)
}

func (it *IndexIterator) Next() {
	it.pos++
}

func (it *IndexIterator) Key() Key {
	return it.entries[it.pos].Key
}

func (it *IndexIterator) Locator() Locator {
	return it.entries[it.pos].Locator
}
