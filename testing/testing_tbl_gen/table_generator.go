package testing_tbl_gen

import (
	"fmt"
	"math/rand"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"
	"github.com/apache/arrow/go/v17/arrow/memory"
	"github.com/dsnet/golib/memfile"
	"github.com/ryogrid/SamehadaQE/common"
	"github.com/ryogrid/SamehadaQE/storage/columnar"
	"github.com/ryogrid/SamehadaQE/types"
)

type ColumnInsertMeta struct {
	/**
	 * Name of the column
	 */
	Name_ string
	/**
	 * Type of the column
	 */
	Type_ types.TypeID
	/**
	 * Whether the column is nullable
	 */
	Nullable_ bool
	/**
	 * Distribution of values
	 */
	Dist_ int32
	/**
	 * min value of the column
	 */
	Min_ int32
	/**
	 * max value of the column
	 */
	Max_ int32
	/**
	 * Counter to generate serial data
	 */
	Serial_counter_ int32
}

type TableInsertMeta struct {
	/**
	 * Name of the table
	 */
	Name_ string
	/**
	 * Number of rows
	 */
	Num_rows_ uint32
	/**
	 * Columns
	 */
	Col_meta_ []*ColumnInsertMeta
}

const DistSerial int32 = 0
const DistUniform int32 = 1

const TEST1_SIZE uint32 = 1000
const TEST2_SIZE uint32 = 500

// SerialIntColumn yields min, min+1, ... in row order.
func SerialIntColumn(name string, min int32) *ColumnInsertMeta {
	return &ColumnInsertMeta{name, types.Integer, false, DistSerial, min, 0, min}
}

func UniformColumn(name string, t types.TypeID, min int32, max int32) *ColumnInsertMeta {
	return &ColumnInsertMeta{name, t, false, DistUniform, min, max, min}
}

func MakeSchema(tableMeta *TableInsertMeta) *arrow.Schema {
	fields := make([]arrow.Field, 0, len(tableMeta.Col_meta_))
	for _, col := range tableMeta.Col_meta_ {
		fields = append(fields, arrow.Field{Name: col.Name_, Type: col.Type_.ArrowType(), Nullable: col.Nullable_})
	}
	return arrow.NewSchema(fields, nil)
}

func (c *ColumnInsertMeta) nextInt(rnd *rand.Rand) int32 {
	if c.Dist_ == DistSerial {
		v := c.Serial_counter_
		c.Serial_counter_++
		return v
	}
	return c.Min_ + rnd.Int31n(c.Max_-c.Min_+1)
}

func (c *ColumnInsertMeta) appendValues(b array.Builder, count int, rnd *rand.Rand) {
	switch bld := b.(type) {
	case *array.Int32Builder:
		for i := 0; i < count; i++ {
			bld.Append(c.nextInt(rnd))
		}
	case *array.Int64Builder:
		for i := 0; i < count; i++ {
			bld.Append(int64(c.nextInt(rnd)))
		}
	case *array.Float64Builder:
		for i := 0; i < count; i++ {
			bld.Append(float64(c.nextInt(rnd)) + rnd.Float64())
		}
	case *array.BooleanBuilder:
		for i := 0; i < count; i++ {
			bld.Append(c.nextInt(rnd)%2 == 0)
		}
	case *array.StringBuilder:
		for i := 0; i < count; i++ {
			bld.Append(fmt.Sprintf("%s_%d", c.Name_, c.nextInt(rnd)))
		}
	default:
		panic("Not yet implemented")
	}
}

// GenerateRecords fills the table in records of at most chunk rows.
// The same seed always gives the same data.
func GenerateRecords(tableMeta *TableInsertMeta, mem memory.Allocator, seed int64, chunk uint32) []arrow.Record {
	if mem == nil {
		mem = memory.DefaultAllocator
	}
	if chunk == 0 {
		chunk = tableMeta.Num_rows_
	}
	rnd := rand.New(rand.NewSource(seed))
	schema := MakeSchema(tableMeta)
	for _, colMeta := range tableMeta.Col_meta_ {
		colMeta.Serial_counter_ = colMeta.Min_
	}

	ret := make([]arrow.Record, 0)
	var numInserted uint32 = 0
	for numInserted < tableMeta.Num_rows_ || (tableMeta.Num_rows_ == 0 && len(ret) == 0) {
		numValues := tableMeta.Num_rows_ - numInserted
		if numValues > chunk {
			numValues = chunk
		}
		b := array.NewRecordBuilder(mem, schema)
		for idx, colMeta := range tableMeta.Col_meta_ {
			colMeta.appendValues(b.Field(idx), int(numValues), rnd)
		}
		ret = append(ret, b.NewRecord())
		b.Release()
		numInserted += numValues
	}
	return ret
}

func releaseAll(recs []arrow.Record) {
	for _, r := range recs {
		r.Release()
	}
}

func WriteTableFile(path string, tableMeta *TableInsertMeta, seed int64) error {
	recs := GenerateRecords(tableMeta, nil, seed, 0)
	defer releaseAll(recs)
	return columnar.WriteFile(path, MakeSchema(tableMeta), common.DefaultRowGroupLength, recs...)
}

func WriteTableMemFile(tableMeta *TableInsertMeta, seed int64) (*memfile.File, error) {
	recs := GenerateRecords(tableMeta, nil, seed, 0)
	defer releaseAll(recs)
	return columnar.WriteMemFile(MakeSchema(tableMeta), common.DefaultRowGroupLength, recs...)
}

// WideTableMeta is a table with serial id column followed by extra uniform columns of mixed types.
func WideTableMeta(name string, numRows uint32, numCols int) *TableInsertMeta {
	colTypes := []types.TypeID{types.Integer, types.BigInt, types.Float, types.Varchar, types.Boolean}
	cols := []*ColumnInsertMeta{SerialIntColumn("id", 0)}
	for i := 1; i < numCols; i++ {
		cols = append(cols, UniformColumn(fmt.Sprintf("c%d", i), colTypes[(i-1)%len(colTypes)], 0, 1000))
	}
	return &TableInsertMeta{name, numRows, cols}
}
