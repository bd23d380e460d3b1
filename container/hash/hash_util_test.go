package hash

import (
	"testing"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"
	"github.com/apache/arrow/go/v17/arrow/memory"
	"github.com/stretchr/testify/assert"
)

func int32Records(t *testing.T, batches ...[]int32) []arrow.Record {
	schema := arrow.NewSchema([]arrow.Field{{Name: "id", Type: arrow.PrimitiveTypes.Int32}}, nil)
	ret := make([]arrow.Record, 0)
	for _, vals := range batches {
		b := array.NewRecordBuilder(memory.NewGoAllocator(), schema)
		b.Field(0).(*array.Int32Builder).AppendValues(vals, nil)
		ret = append(ret, b.NewRecord())
		b.Release()
	}
	t.Cleanup(func() {
		for _, r := range ret {
			r.Release()
		}
	})
	return ret
}

func TestRecordsFingerprint(t *testing.T) {
	one := RecordsFingerprint(int32Records(t, []int32{1, 2, 3, 4}))
	split := RecordsFingerprint(int32Records(t, []int32{1, 2}, []int32{3, 4}))
	reordered := RecordsFingerprint(int32Records(t, []int32{2, 1, 3, 4}))
	joined := RecordsFingerprint(int32Records(t, []int32{12, 3, 4}))

	assert.Equal(t, one, split)
	assert.NotEqual(t, one, reordered)
	assert.NotEqual(t, one, joined)
	assert.Equal(t, RecordsFingerprint(nil), RecordsFingerprint([]arrow.Record{}))
}
