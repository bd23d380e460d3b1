package executors

import (
	"context"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"
	"github.com/apache/arrow/go/v17/arrow/compute"
	"github.com/apache/arrow/go/v17/arrow/memory"
	"github.com/pingcap/errors"
)

/**
 * SelectExecutor materializes a Selection into a new batch holding, for
 * every column, only the selected rows. Column order and schema are kept.
 */
type SelectExecutor struct {
	ctx  context.Context
	mem  memory.Allocator
	next Operator[arrow.Record]
}

func NewSelectExecutor(ctx context.Context, mem memory.Allocator, next Operator[arrow.Record]) *SelectExecutor {
	if mem == nil {
		mem = memory.DefaultAllocator
	}
	return &SelectExecutor{compute.WithAllocator(ctx, mem), mem, next}
}

// Transform returns a record owned by the caller.
func (e *SelectExecutor) Transform(sel Selection) (arrow.Record, error) {
	indices, record := sel.First, sel.Second
	if indices.IsAll(int(record.NumRows())) {
		record.Retain()
		return record, nil
	}

	b := array.NewInt64Builder(e.mem)
	defer b.Release()
	b.Reserve(len(indices))
	for _, idx := range indices {
		b.UnsafeAppend(int64(idx))
	}
	idxArr := b.NewArray()
	defer idxArr.Release()

	cols := make([]arrow.Array, 0, record.NumCols())
	defer func() {
		for _, c := range cols {
			c.Release()
		}
	}()
	for i, col := range record.Columns() {
		taken, err := compute.TakeArray(e.ctx, col, idxArr)
		if err != nil {
			return nil, errors.Annotatef(err, "take column %s", record.ColumnName(i))
		}
		cols = append(cols, taken)
	}
	return array.NewRecord(record.Schema(), cols, int64(len(indices))), nil
}

func (e *SelectExecutor) Execute(sel Selection) error {
	out, err := e.Transform(sel)
	if err != nil {
		return err
	}
	defer out.Release()
	return e.next.Execute(out)
}

func (e *SelectExecutor) AllInputsReceived() error {
	return e.next.AllInputsReceived()
}
