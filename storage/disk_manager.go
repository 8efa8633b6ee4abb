package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
)

// PageId identifies a page within a single table's page file sequence.
type PageId uint64

// DiskManager owns the on-disk layout: one directory per table holding
// one file per page plus one JSON file per index.
type DiskManager struct {
	BasePath string
}

func NewDiskManager(basePath string) *DiskManager {
	return &DiskManager{BasePath: basePath}
}

func (d *DiskManager) tableDir(tableName string) string {
	return filepath.Join(d.BasePath, tableName)
}

func (d *DiskManager) makePageFilePath(tableName string, pageId PageId) string {
	return filepath.Join(d.tableDir(tableName), fmt.Sprintf("%s_%d", tableName, pageId))
}

func (d *DiskManager) makeIndexFilePath(tableName string, indexName string) string {
	return filepath.Join(d.tableDir(tableName), indexName+".json")
}

func (d *DiskManager) makeGeneralFilePath(path string) string {
	return filepath.Join(d.BasePath, path)
}

func (d *DiskManager) EnsureTableDir(tableName string) error {
	return os.MkdirAll(d.tableDir(tableName), 0755)
}

func (d *DiskManager) ReadPage(tableName string, pageId PageId) (*Page, error) {
	b, err := os.ReadFile(d.makePageFilePath(tableName, pageId))
	if err != nil {
		return nil, err
	}

	var bytes [PageByteSize]byte
	copy(bytes[:], b)

	return DeserializePage(tableName, uint64(pageId), bytes)
}

func (d *DiskManager) WritePage(page *Page) error {
	if err := d.EnsureTableDir(page.TableName); err != nil {
		return errors.Wrap(err, "ensure table dir")
	}

	b, err := page.Serialize()
	if err != nil {
		return err
	}

	return os.WriteFile(d.makePageFilePath(page.TableName, PageId(page.ID)), b[:], 0644)
}

func (d *DiskManager) ReadIndex(tableName string, indexName string) (*Index, error) {
	b, err := os.ReadFile(d.makeIndexFilePath(tableName, indexName))
	if err != nil {
		return nil, err
	}
	return DeserializeIndex(b)
}

func (d *DiskManager) WriteIndex(idx *Index) error {
	if err := d.EnsureTableDir(idx.TableName); err != nil {
		return errors.Wrap(err, "ensure table dir")
	}

	b, err := idx.Serialize()
	if err != nil {
		return err
	}

	return os.WriteFile(d.makeIndexFilePath(idx.TableName, idx.IndexName), b, 0644)
}
