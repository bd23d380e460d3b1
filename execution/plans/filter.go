package plans

import (
	"fmt"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/ryogrid/SamehadaQE/execution/expression"
)

// keeps the rows of its input for which predicate holds. schema equals the input's.
type FilterPlanNode struct {
	*AbstractPlanNode
	predicate expression.Expression
}

func NewFilterPlanNode(predicate expression.Expression, schema *arrow.Schema) *FilterPlanNode {
	return &FilterPlanNode{&AbstractPlanNode{schema}, predicate}
}

func (p *FilterPlanNode) GetType() PlanType {
	return Filter
}

func (p *FilterPlanNode) GetPredicate() expression.Expression {
	return p.predicate
}

func (p *FilterPlanNode) GetDebugStr() string {
	return fmt.Sprintf("Filter %s", expression.PrintExpTree(p.predicate))
}
