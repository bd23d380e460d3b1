package columnar

import (
	"io"
	"os"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/parquet"
	"github.com/apache/arrow/go/v17/parquet/pqarrow"
	"github.com/dsnet/golib/memfile"
	"github.com/pingcap/errors"
	"github.com/ryogrid/SamehadaQE/common"
)

// WriteRecords writes records as one Parquet file into w. The writer closes w
// when it implements io.Closer.
func WriteRecords(w io.Writer, schema *arrow.Schema, rowGroupLen int64, records ...arrow.Record) error {
	if rowGroupLen <= 0 {
		rowGroupLen = common.DefaultRowGroupLength
	}
	props := parquet.NewWriterProperties(parquet.WithMaxRowGroupLength(rowGroupLen))
	fw, err := pqarrow.NewFileWriter(schema, w, props, pqarrow.NewArrowWriterProperties(pqarrow.WithStoreSchema()))
	if err != nil {
		return errors.Annotate(err, "create parquet writer")
	}
	for _, rec := range records {
		if !rec.Schema().Equal(schema) {
			fw.Close()
			return errors.Errorf("record schema %s does not match file schema %s", rec.Schema(), schema)
		}
		if err := fw.Write(rec); err != nil {
			fw.Close()
			return errors.Annotate(err, "write record")
		}
	}
	return errors.Annotate(fw.Close(), "close parquet writer")
}

func WriteFile(path string, schema *arrow.Schema, rowGroupLen int64, records ...arrow.Record) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Trace(err)
	}
	// already closed by the parquet writer on success
	defer f.Close()
	return WriteRecords(f, schema, rowGroupLen, records...)
}

// WriteMemFile builds an in memory Parquet file which OpenSource can read.
func WriteMemFile(schema *arrow.Schema, rowGroupLen int64, records ...arrow.Record) (*memfile.File, error) {
	mf := memfile.New(make([]byte, 0))
	if err := WriteRecords(mf, schema, rowGroupLen, records...); err != nil {
		return nil, err
	}
	return mf, nil
}
