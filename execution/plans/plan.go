package plans

import (
	"github.com/apache/arrow/go/v17/arrow"
	"github.com/ryogrid/SamehadaQE/container/dag"
)

type PlanType int

const (
	TableScan PlanType = iota
	Filter
	Projection
)

func (t PlanType) String() string {
	switch t {
	case TableScan:
		return "TableScan"
	case Filter:
		return "Filter"
	case Projection:
		return "Projection"
	default:
		return "Unknown"
	}
}

// LogicalPlan is a node of a logical plan DAG. Its output schema is fixed
// when the node is created.
type LogicalPlan interface {
	GetSchema() *arrow.Schema
	GetType() PlanType
	GetDebugStr() string
}

type LogicalPlanDag = dag.Dag[LogicalPlan]

func NewLogicalPlanDag() *LogicalPlanDag {
	return dag.NewDag[LogicalPlan]()
}

type AbstractPlanNode struct {
	schema *arrow.Schema
}

func (p *AbstractPlanNode) GetSchema() *arrow.Schema {
	return p.schema
}
