package hash

import (
	"github.com/apache/arrow/go/v17/arrow"
	"github.com/spaolacci/murmur3"
)

// RecordsFingerprint hashes the schema and the row values of records in
// order. Batch boundaries do not change the result, row order does.
func RecordsFingerprint(records []arrow.Record) uint64 {
	h := murmur3.New128()
	if len(records) > 0 {
		h.Write([]byte(records[0].Schema().String()))
	}
	sep := []byte{0}
	rowSep := []byte{1}
	for _, rec := range records {
		cols := rec.Columns()
		for row := 0; row < int(rec.NumRows()); row++ {
			for _, col := range cols {
				h.Write([]byte(col.ValueStr(row)))
				h.Write(sep)
			}
			h.Write(rowSep)
		}
	}
	hi, _ := h.Sum128()
	return hi
}
