package optimizer

import (
	"github.com/ryogrid/SamehadaQE/catalog"
	"github.com/ryogrid/SamehadaQE/execution/plans"
)

type Optimizer interface {
	Optimize(*plans.LogicalPlanDag) (*plans.LogicalPlanDag, error)
}

// RewriteRule rewrites a plan. changed is false when the rule did not apply,
// in which case the returned plan is the input.
type RewriteRule interface {
	Name() string
	Apply(d *plans.LogicalPlanDag, c catalog.Catalog) (ret *plans.LogicalPlanDag, changed bool, err error)
}
