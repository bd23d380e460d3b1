package plans

import (
	"github.com/apache/arrow/go/v17/arrow"
	"github.com/ryogrid/SamehadaQE/container/dag"
	"github.com/ryogrid/SamehadaQE/execution/expression"
)

/**
 * DagBuilder is the only way plan nodes are added to a LogicalPlanDag.
 * Every Create* call inserts the node and wires its input in one step,
 * and derives the node's schema from the input.
 */
type DagBuilder struct {
	dag *LogicalPlanDag
}

func NewDagBuilder(d *LogicalPlanDag) *DagBuilder {
	if d == nil {
		d = NewLogicalPlanDag()
	}
	return &DagBuilder{d}
}

func (b *DagBuilder) GetDag() *LogicalPlanDag {
	return b.dag
}

// CreateScan adds a TableScan with a caller supplied schema. No catalog lookup happens here.
func (b *DagBuilder) CreateScan(tableName string, schema *arrow.Schema) dag.NodeID {
	return b.dag.NewNode(NewTableScanPlanNode(tableName, schema))
}

func (b *DagBuilder) CreateFilter(predicate expression.Expression, input dag.NodeID) dag.NodeID {
	schema := b.dag.GetNode(input).GetSchema()
	id := b.dag.NewNode(NewFilterPlanNode(predicate, schema))
	b.dag.AddInput(id, input)
	return id
}

func (b *DagBuilder) CreateProject(exprs []expression.Expression, input dag.NodeID) dag.NodeID {
	schema := b.dag.GetNode(input).GetSchema()
	id := b.dag.NewNode(NewProjectionPlanNode(exprs, schema))
	b.dag.AddInput(id, input)
	return id
}
