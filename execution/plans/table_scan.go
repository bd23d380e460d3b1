package plans

import (
	"fmt"

	"github.com/apache/arrow/go/v17/arrow"
)

type TableScanPlanNode struct {
	*AbstractPlanNode
	tableName string
}

func NewTableScanPlanNode(tableName string, schema *arrow.Schema) *TableScanPlanNode {
	return &TableScanPlanNode{&AbstractPlanNode{schema}, tableName}
}

func (p *TableScanPlanNode) GetType() PlanType {
	return TableScan
}

func (p *TableScanPlanNode) GetTableName() string {
	return p.tableName
}

func (p *TableScanPlanNode) GetDebugStr() string {
	return fmt.Sprintf("TableScan [%s] cols=%d", p.tableName, p.schema.NumFields())
}
