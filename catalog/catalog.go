package catalog

import (
	"fmt"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/parquet"
	"github.com/pingcap/errors"
)

// Catalog resolves table names to schemas.
type Catalog interface {
	GetSchema(tableName string) (*arrow.Schema, error)
}

// TableLocation is where the rows of a table live: a file path, or an
// already opened in memory source.
type TableLocation struct {
	FilePath string
	Source   parquet.ReaderAtSeeker
}

// TableLocator resolves table names to the columnar data holding their rows.
type TableLocator interface {
	LocateTable(tableName string) (TableLocation, error)
}

type TableNotFoundError struct {
	TableName string
}

func (e *TableNotFoundError) Error() string {
	return fmt.Sprintf("Catalog Error: Table with name %s not found in catalog", e.TableName)
}

func IsTableNotFound(err error) bool {
	_, ok := errors.Cause(err).(*TableNotFoundError)
	return ok
}

func newTableNotFound(name string) error {
	return errors.Trace(&TableNotFoundError{name})
}
