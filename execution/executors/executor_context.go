package executors

import (
	"github.com/apache/arrow/go/v17/arrow/memory"
	"github.com/ryogrid/SamehadaQE/catalog"
	"github.com/ryogrid/SamehadaQE/common"
)

// ExecutorContext stores all the context necessary to run an executor
type ExecutorContext struct {
	catalog   catalog.Catalog
	locator   catalog.TableLocator
	mem       memory.Allocator
	batchSize int
}

func NewExecutorContext(c catalog.Catalog, locator catalog.TableLocator, mem memory.Allocator, batchSize int) *ExecutorContext {
	if mem == nil {
		mem = memory.DefaultAllocator
	}
	if batchSize <= 0 {
		batchSize = common.DefaultBatchSize
	}
	return &ExecutorContext{c, locator, mem, batchSize}
}

// NewExecutorContextFromCatalog uses a TableCatalog for both schema and data lookup.
func NewExecutorContextFromCatalog(c *catalog.TableCatalog, mem memory.Allocator, batchSize int) *ExecutorContext {
	return NewExecutorContext(c, c, mem, batchSize)
}

func (e *ExecutorContext) GetCatalog() catalog.Catalog {
	return e.catalog
}

func (e *ExecutorContext) GetTableLocator() catalog.TableLocator {
	return e.locator
}

func (e *ExecutorContext) GetAllocator() memory.Allocator {
	return e.mem
}

func (e *ExecutorContext) GetBatchSize() int {
	return e.batchSize
}
