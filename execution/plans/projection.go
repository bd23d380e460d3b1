package plans

import (
	"fmt"
	"strings"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/ryogrid/SamehadaQE/execution/expression"
)

type ProjectionPlanNode struct {
	*AbstractPlanNode
	exprs []expression.Expression
}

// schema is the input's schema. exprs are recorded but do not narrow it yet.
func NewProjectionPlanNode(exprs []expression.Expression, schema *arrow.Schema) *ProjectionPlanNode {
	return &ProjectionPlanNode{&AbstractPlanNode{schema}, exprs}
}

func (p *ProjectionPlanNode) GetType() PlanType {
	return Projection
}

func (p *ProjectionPlanNode) GetExprs() []expression.Expression {
	return p.exprs
}

func (p *ProjectionPlanNode) GetDebugStr() string {
	strs := make([]string, 0, len(p.exprs))
	for _, e := range p.exprs {
		strs = append(strs, expression.PrintExpTree(e))
	}
	return fmt.Sprintf("Projection [%s]", strings.Join(strs, ", "))
}
