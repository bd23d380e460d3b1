package planner

import (
	"github.com/ryogrid/SamehadaQE/execution/plans"
	"github.com/ryogrid/SamehadaQE/parser"
)

type Planner interface {
	MakePlan(*parser.QueryInfo) (*plans.LogicalPlanDag, error)
}
