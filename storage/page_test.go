package storage_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yll1325/TrivialDB/storage"
)

func TestTupleEncodeDecodeRoundTrip(t *testing.T) {
	tuple := &storage.Tuple{RowID: 7, Columns: [][]byte{[]byte("alice"), {1, 2, 3}}}

	got, err := storage.DecodeTuple(tuple.Encode())
	assert.NoError(t, err)
	assert.Equal(t, tuple.RowID, got.RowID)
	assert.Equal(t, tuple.Columns, got.Columns)
}

func TestTupleEmpty(t *testing.T) {
	assert.True(t, (&storage.Tuple{}).Empty())
	assert.True(t, (*storage.Tuple)(nil).Empty())
	assert.False(t, (&storage.Tuple{Columns: [][]byte{{1}}}).Empty())
}

func TestPageSerializeDeserializeRoundTrip(t *testing.T) {
	var tuples [storage.TupleNumPerPage]*storage.Tuple
	tuples[0] = &storage.Tuple{RowID: 1, Columns: [][]byte{[]byte("a")}}
	tuples[5] = &storage.Tuple{RowID: 2, Columns: [][]byte{[]byte("b")}}

	page := storage.NewPage("t", 1, tuples)
	b, err := page.Serialize()
	assert.NoError(t, err)

	got, err := storage.DeserializePage("t", 1, b)
	assert.NoError(t, err)

	assert.True(t, got.Tuples[0].Empty() == false)
	assert.Equal(t, int32(1), got.Tuples[0].RowID)
	assert.Equal(t, int32(2), got.Tuples[5].RowID)
	assert.True(t, got.Tuples[1].Empty())
}
