package columnar_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"
	"github.com/apache/arrow/go/v17/arrow/memory"
	"github.com/ryogrid/SamehadaQE/storage/columnar"
	"github.com/ryogrid/SamehadaQE/testing/testing_tbl_gen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readAll(t *testing.T, r *columnar.TableReader) []arrow.Record {
	t.Helper()
	ret := make([]arrow.Record, 0)
	for r.Next() {
		rec := r.Record()
		rec.Retain()
		ret = append(ret, rec)
	}
	require.NoError(t, r.Err())
	return ret
}

func TestReadInBatches(t *testing.T) {
	meta := testing_tbl_gen.WideTableMeta("wide", testing_tbl_gen.TEST1_SIZE, 13)
	path := filepath.Join(t.TempDir(), "wide.parquet")
	require.NoError(t, testing_tbl_gen.WriteTableFile(path, meta, 1))

	r, err := columnar.OpenFile(context.Background(), path, 500, memory.NewGoAllocator())
	require.NoError(t, err)
	recs := readAll(t, r)
	require.NoError(t, r.Close())

	require.Len(t, recs, 2)
	for _, rec := range recs {
		assert.EqualValues(t, 500, rec.NumRows())
		assert.EqualValues(t, 13, rec.NumCols())
		assert.True(t, testing_tbl_gen.MakeSchema(meta).Equal(rec.Schema()))
	}
	ids := recs[1].Column(0).(*array.Int32)
	assert.EqualValues(t, 500, ids.Value(0))
	assert.EqualValues(t, 999, ids.Value(499))

	for _, rec := range recs {
		rec.Release()
	}
}

func TestReadMemFile(t *testing.T) {
	meta := &testing_tbl_gen.TableInsertMeta{
		Name_:     "t",
		Num_rows_: 10,
		Col_meta_: []*testing_tbl_gen.ColumnInsertMeta{testing_tbl_gen.SerialIntColumn("id", 0)},
	}
	mf, err := testing_tbl_gen.WriteTableMemFile(meta, 1)
	require.NoError(t, err)

	r, err := columnar.OpenSource(context.Background(), "mem", mf, 4, nil)
	require.NoError(t, err)
	defer r.Close()
	assert.EqualValues(t, 10, r.NumRows())

	recs := readAll(t, r)
	require.Len(t, recs, 3)
	assert.EqualValues(t, 4, recs[0].NumRows())
	assert.EqualValues(t, 2, recs[2].NumRows())
	for _, rec := range recs {
		rec.Release()
	}
}

func TestReadSchema(t *testing.T) {
	meta := testing_tbl_gen.WideTableMeta("wide", 20, 4)
	path := filepath.Join(t.TempDir(), "wide.parquet")
	require.NoError(t, testing_tbl_gen.WriteTableFile(path, meta, 3))

	schema, err := columnar.ReadSchema(path)
	require.NoError(t, err)
	assert.True(t, testing_tbl_gen.MakeSchema(meta).Equal(schema))
}

func TestOpenMissingFile(t *testing.T) {
	_, err := columnar.OpenFile(context.Background(), filepath.Join(t.TempDir(), "nope.parquet"), 10, nil)
	require.Error(t, err)
	assert.True(t, columnar.IsReadError(err))

	_, err = columnar.ReadSchema(filepath.Join(t.TempDir(), "nope.parquet"))
	assert.True(t, columnar.IsReadError(err))
}

func TestDrainedReaderHasNoError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ids.parquet")
	meta := testing_tbl_gen.WideTableMeta("ids", testing_tbl_gen.TEST1_SIZE, 1)
	require.NoError(t, testing_tbl_gen.WriteTableFile(path, meta, 1))

	r, err := columnar.OpenFile(context.Background(), path, 500, nil)
	require.NoError(t, err)
	defer r.Close()

	numBatches := 0
	for r.Next() {
		numBatches++
	}
	assert.Equal(t, 2, numBatches)
	require.NoError(t, r.Err())

	// further calls stay at the end without turning it into an error
	assert.False(t, r.Next())
	require.NoError(t, r.Err())
	assert.Nil(t, r.Record())
}
