package storage

import (
	"encoding/binary"

	"github.com/cockroachdb/errors"
	"google.golang.org/protobuf/encoding/protowire"
)

const (
	TupleNumPerPage = 16
	TupleSlotSize   = 256
	PageByteSize    = TupleNumPerPage * TupleSlotSize

	// slotLenPrefixSize is the width of the explicit byte-length header
	// written at the front of each slot. Tuple encodings are binary
	// (rowid varints, fixed-width numeric columns) and routinely contain
	// 0x00, so the slot can't use NUL-termination to recover its length
	// the way a text-only payload could.
	slotLenPrefixSize = 2
	slotPayloadSize   = TupleSlotSize - slotLenPrefixSize
)

// Tuple is the record image: the row id followed by a
// schema-encoded column sequence. It is wire-encoded with
// google.golang.org/protobuf's low-level protowire primitives rather
// than a protoc-generated message, since the column layout is dynamic
// (driven by catalog.TableSchema, not a fixed .proto definition).
type Tuple struct {
	RowID   int32
	Columns [][]byte
}

// Empty reports whether the slot holds no tuple at all.
func (t *Tuple) Empty() bool {
	return t == nil || len(t.Columns) == 0
}

const tupleRowIDField = protowire.Number(1)
const tupleColumnField = protowire.Number(2)

func (t *Tuple) Encode() []byte {
	var b []byte
	b = protowire.AppendTag(b, tupleRowIDField, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(uint32(t.RowID)))
	for _, col := range t.Columns {
		b = protowire.AppendTag(b, tupleColumnField, protowire.BytesType)
		b = protowire.AppendBytes(b, col)
	}
	return b
}

func DecodeTuple(b []byte) (*Tuple, error) {
	t := &Tuple{}
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, errors.New("malformed tuple: bad tag")
		}
		b = b[n:]

		switch {
		case num == tupleRowIDField && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return nil, errors.New("malformed tuple: bad rowid")
			}
			t.RowID = int32(uint32(v))
			b = b[n:]
		case num == tupleColumnField && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return nil, errors.New("malformed tuple: bad column")
			}
			cp := make([]byte, len(v))
			copy(cp, v)
			t.Columns = append(t.Columns, cp)
			b = b[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return nil, errors.New("malformed tuple: unknown field")
			}
			b = b[n:]
		}
	}
	return t, nil
}

// Page is a fixed-size slotted heap page holding up to
// TupleNumPerPage tuples for one table.
type Page struct {
	TableName string
	ID        uint64
	Tuples    [TupleNumPerPage]*Tuple
}

func NewPage(tableName string, id uint64, tuples [TupleNumPerPage]*Tuple) *Page {
	return &Page{TableName: tableName, ID: id, Tuples: tuples}
}

func (p *Page) Serialize() ([PageByteSize]byte, error) {
	var pageBytes [PageByteSize]byte

	for i, t := range p.Tuples {
		if t.Empty() {
			continue
		}
		b := t.Encode()
		if len(b) > slotPayloadSize {
			return pageBytes, errors.Newf("tuple at slot %d exceeds slot size %d bytes", i, slotPayloadSize)
		}
		slot := pageBytes[i*TupleSlotSize : (i+1)*TupleSlotSize]
		binary.BigEndian.PutUint16(slot[:slotLenPrefixSize], uint16(len(b)))
		copy(slot[slotLenPrefixSize:], b)
	}

	return pageBytes, nil
}

func DeserializePage(tableName string, pageID uint64, pageBytes [PageByteSize]byte) (*Page, error) {
	var tuples [TupleNumPerPage]*Tuple

	for i := 0; i < TupleNumPerPage; i++ {
		slot := pageBytes[i*TupleSlotSize : (i+1)*TupleSlotSize]

		byteLen := binary.BigEndian.Uint16(slot[:slotLenPrefixSize])
		if byteLen == 0 {
			tuples[i] = &Tuple{}
			continue
		}
		if int(byteLen) > slotPayloadSize {
			return nil, errors.Newf("page %d slot %d: corrupt length prefix %d", pageID, i, byteLen)
		}

		t, err := DecodeTuple(slot[slotLenPrefixSize : slotLenPrefixSize+int(byteLen)])
		if err != nil {
			return nil, errors.Wrapf(err, "page %d slot %d", pageID, i)
		}
		tuples[i] = t
	}

	return NewPage(tableName, pageID, tuples), nil
}
