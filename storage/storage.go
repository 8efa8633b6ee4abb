// Package storage implements the page manager, table manager and
// index manager the query execution core treats as external
// collaborators: on-disk page files, a JSON-backed ordered index, and
// the table-scoped row cache read and written on every predicate
// evaluation.
package storage

import (
	"encoding/json"
	"os"
)

// Storage is the page-manager collaborator: it knows how to read and
// write whole pages and index files, but nothing about column layout
// or row semantics (that is Table's job). It carries no
// transaction-threaded write-ahead bookkeeping.
type Storage struct {
	disk *DiskManager
}

func NewStorage(disk *DiskManager) *Storage {
	return &Storage{disk: disk}
}

func (s *Storage) ReadPage(tableName string, pageID PageId) (*Page, error) {
	return s.disk.ReadPage(tableName, pageID)
}

func (s *Storage) WritePage(page *Page) error {
	return s.disk.WritePage(page)
}

func (s *Storage) ReadIndex(tableName, indexName string) (*Index, error) {
	return s.disk.ReadIndex(tableName, indexName)
}

func (s *Storage) WriteIndex(idx *Index) error {
	return s.disk.WriteIndex(idx)
}

func (s *Storage) ReadJSON(path string, out interface{}) error {
	b, err := os.ReadFile(s.disk.makeGeneralFilePath(path))
	if err != nil {
		return err
	}
	return json.Unmarshal(b, out)
}

func (s *Storage) WriteJSON(path string, in interface{}) error {
	b, err := json.Marshal(in)
	if err != nil {
		return err
	}
	return os.WriteFile(s.disk.makeGeneralFilePath(path), b, 0644)
}

// PageIterator walks a table's page file sequence in physical order,
// starting at page 1, stopping the first time a page fails to read
// (i.e. no more pages have been written).
type PageIterator struct {
	storage    *Storage
	tableName  string
	nextPageID PageId

	Page   *Page
	PageID PageId
}

func (s *Storage) NewPageIterator(tableName string) *PageIterator {
	return &PageIterator{storage: s, tableName: tableName, nextPageID: 1}
}

func (it *PageIterator) Next() bool {
	p, err := it.storage.ReadPage(it.tableName, it.nextPageID)
	if err != nil {
		return false
	}
	it.Page = p
	it.PageID = it.nextPageID
	it.nextPageID++
	return true
}

// RecordIterator yields every live tuple of a table in physical
// record order, skipping empty/deleted slots. Its INIT -> POSITIONED
// -> EOF states map to "not yet called Next", "Next returned true",
// and "Next returned false" respectively.
type RecordIterator struct {
	pageIt *PageIterator
	slot   int
}

func (s *Storage) NewRecordIterator(tableName string) *RecordIterator {
	return &RecordIterator{pageIt: s.NewPageIterator(tableName), slot: TupleNumPerPage}
}

// Next returns the next live tuple, its stable locator, and whether one
// was found.
func (it *RecordIterator) Next() (*Tuple, Locator, bool) {
	for {
		it.slot++
		if it.pageIt.Page == nil || it.slot >= TupleNumPerPage {
			if !it.pageIt.Next() {
				return nil, Locator{}, false
			}
			it.slot = 0
		}

		t := it.pageIt.Page.Tuples[it.slot]
		if t.Empty() {
			continue
		}
		return t, Locator{PageID: uint64(it.pageIt.PageID), Slot: uint8(it.slot)}, true
	}
}

// InsertTuple writes tuple into the first empty slot found by a linear
// scan, or appends a new page if the table is full. Reuses slots freed
// by DeleteTuple rather than only ever growing.
func (s *Storage) InsertTuple(tableName string, tuple *Tuple) (Locator, error) {
	it := s.NewPageIterator(tableName)
	var lastPageID PageId

	for it.Next() {
		lastPageID = it.PageID
		for slot, t := range it.Page.Tuples {
			if t.Empty() {
				it.Page.Tuples[slot] = tuple
				if err := s.WritePage(it.Page); err != nil {
					return Locator{}, err
				}
				return Locator{PageID: uint64(it.PageID), Slot: uint8(slot)}, nil
			}
		}
	}

	newPageID := lastPageID + 1
	var tuples [TupleNumPerPage]*Tuple
	tuples[0] = tuple
	page := NewPage(tableName, uint64(newPageID), tuples)
	if err := s.WritePage(page); err != nil {
		return Locator{}, err
	}
	return Locator{PageID: uint64(newPageID), Slot: 0}, nil
}

func (s *Storage) GetTuple(tableName string, loc Locator) (*Tuple, error) {
	page, err := s.ReadPage(tableName, PageId(loc.PageID))
	if err != nil {
		return nil, err
	}
	return page.Tuples[loc.Slot], nil
}

func (s *Storage) PutTuple(tableName string, loc Locator, tuple *Tuple) error {
	page, err := s.ReadPage(tableName, PageId(loc.PageID))
	if err != nil {
		return err
	}
	page.Tuples[loc.Slot] = tuple
	return s.WritePage(page)
}

func (s *Storage) DeleteTuple(tableName string, loc Locator) error {
	return s.PutTuple(tableName, loc, &Tuple{})
}
