package catalog

import (
	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/parquet"
)

type TableMetadata struct {
	name     string
	schema   *arrow.Schema
	location TableLocation
}

func NewTableMetadata(name string, schema *arrow.Schema, location TableLocation) *TableMetadata {
	return &TableMetadata{name, schema, location}
}

func (t *TableMetadata) Name() string {
	return t.name
}

func (t *TableMetadata) Schema() *arrow.Schema {
	return t.schema
}

func (t *TableMetadata) FilePath() string {
	return t.location.FilePath
}

func (t *TableMetadata) Source() parquet.ReaderAtSeeker {
	return t.location.Source
}

func (t *TableMetadata) Location() TableLocation {
	return t.location
}

// HasData reports whether rows can be scanned for the table.
func (t *TableMetadata) HasData() bool {
	return t.location.FilePath != "" || t.location.Source != nil
}
