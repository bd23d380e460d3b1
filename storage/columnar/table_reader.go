package columnar

import (
	"context"
	"fmt"
	"io"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"
	"github.com/apache/arrow/go/v17/arrow/memory"
	"github.com/apache/arrow/go/v17/parquet"
	"github.com/apache/arrow/go/v17/parquet/file"
	"github.com/apache/arrow/go/v17/parquet/pqarrow"
	"github.com/pingcap/errors"
	"github.com/ryogrid/SamehadaQE/common"
)

// ReadError wraps failures to open or decode a columnar file.
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("IO Error: failed to read %s: %v", e.Path, e.Err)
}

func (e *ReadError) Unwrap() error {
	return e.Err
}

func IsReadError(err error) bool {
	_, ok := errors.Cause(err).(*ReadError)
	return ok
}

func newReadError(path string, err error) error {
	return errors.Trace(&ReadError{path, err})
}

/**
 * TableReader streams record batches of at most batchSize rows out of a
 * Parquet file. A record returned by Record stays valid until the next call
 * of Next or Close. Callers which keep it longer must Retain it.
 */
type TableReader struct {
	path   string
	pf     *file.Reader
	rr     array.RecordReader
	schema *arrow.Schema
	cur    arrow.Record
	err    error
}

func OpenFile(ctx context.Context, path string, batchSize int, mem memory.Allocator) (*TableReader, error) {
	pf, err := file.OpenParquetFile(path, false)
	if err != nil {
		return nil, newReadError(path, err)
	}
	return open(ctx, path, pf, batchSize, mem)
}

// OpenSource reads from an already opened source such as an in memory file.
func OpenSource(ctx context.Context, name string, src parquet.ReaderAtSeeker, batchSize int, mem memory.Allocator) (*TableReader, error) {
	pf, err := file.NewParquetReader(src)
	if err != nil {
		return nil, newReadError(name, err)
	}
	return open(ctx, name, pf, batchSize, mem)
}

func open(ctx context.Context, path string, pf *file.Reader, batchSize int, mem memory.Allocator) (*TableReader, error) {
	if batchSize <= 0 {
		batchSize = common.DefaultBatchSize
	}
	if mem == nil {
		mem = memory.DefaultAllocator
	}

	fr, err := pqarrow.NewFileReader(pf, pqarrow.ArrowReadProperties{BatchSize: int64(batchSize)}, mem)
	if err != nil {
		pf.Close()
		return nil, newReadError(path, err)
	}
	rr, err := fr.GetRecordReader(ctx, nil, nil)
	if err != nil {
		pf.Close()
		return nil, newReadError(path, err)
	}

	common.ShPrintf(common.DEBUG_INFO, "columnar: opened %s rows=%d row_groups=%d batch=%d\n",
		path, pf.NumRows(), pf.NumRowGroups(), batchSize)
	return &TableReader{
		path:   path,
		pf:     pf,
		rr:     rr,
		schema: StripMetadata(rr.Schema()),
	}, nil
}

func (r *TableReader) Schema() *arrow.Schema {
	return r.schema
}

func (r *TableReader) NumRows() int64 {
	return r.pf.NumRows()
}

func (r *TableReader) Next() bool {
	if r.cur != nil {
		r.cur.Release()
		r.cur = nil
	}
	if r.err != nil || !r.rr.Next() {
		return false
	}
	rec := r.rr.Record()
	r.cur = array.NewRecord(r.schema, rec.Columns(), rec.NumRows())
	return true
}

func (r *TableReader) Record() arrow.Record {
	return r.cur
}

func (r *TableReader) Err() error {
	if r.err != nil {
		return r.err
	}
	// the record reader reports a drained file as io.EOF
	if err := r.rr.Err(); err != nil && err != io.EOF {
		r.err = newReadError(r.path, err)
	}
	return r.err
}

func (r *TableReader) Close() error {
	if r.cur != nil {
		r.cur.Release()
		r.cur = nil
	}
	if r.rr != nil {
		r.rr.Release()
		r.rr = nil
	}
	if r.pf == nil {
		return nil
	}
	err := r.pf.Close()
	r.pf = nil
	if err != nil {
		return newReadError(r.path, err)
	}
	return nil
}

// ReadSchema probes the schema stored in a Parquet file without reading data.
func ReadSchema(path string) (*arrow.Schema, error) {
	pf, err := file.OpenParquetFile(path, false)
	if err != nil {
		return nil, newReadError(path, err)
	}
	defer pf.Close()

	fr, err := pqarrow.NewFileReader(pf, pqarrow.ArrowReadProperties{}, memory.DefaultAllocator)
	if err != nil {
		return nil, newReadError(path, err)
	}
	schema, err := fr.Schema()
	if err != nil {
		return nil, newReadError(path, err)
	}
	return StripMetadata(schema), nil
}

// StripMetadata drops schema and field metadata the Parquet reader attaches,
// so schemas from files compare equal to hand built ones.
func StripMetadata(schema *arrow.Schema) *arrow.Schema {
	fields := make([]arrow.Field, schema.NumFields())
	for i, f := range schema.Fields() {
		fields[i] = arrow.Field{Name: f.Name, Type: f.Type, Nullable: f.Nullable}
	}
	return arrow.NewSchema(fields, nil)
}
