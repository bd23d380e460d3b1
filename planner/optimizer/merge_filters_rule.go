package optimizer

import (
	"github.com/ryogrid/SamehadaQE/catalog"
	"github.com/ryogrid/SamehadaQE/container/dag"
	"github.com/ryogrid/SamehadaQE/execution/expression"
	"github.com/ryogrid/SamehadaQE/execution/plans"
)

// MergeFiltersRule folds a Filter whose input is another Filter into one
// Filter with the AND of both predicates. Only linear plans are rewritten.
type MergeFiltersRule struct{}

func (r *MergeFiltersRule) Name() string {
	return "merge_filters"
}

func (r *MergeFiltersRule) Apply(d *plans.LogicalPlanDag, _ catalog.Catalog) (*plans.LogicalPlanDag, bool, error) {
	spine, ok := linearSpine(d)
	if !ok {
		return d, false, nil
	}

	// spine is scan first
	changed := false
	b := plans.NewDagBuilder(nil)
	var prev dag.NodeID
	var prevFilter *plans.FilterPlanNode
	for _, id := range spine {
		switch n := d.GetNode(id).(type) {
		case *plans.TableScanPlanNode:
			prev = b.CreateScan(n.GetTableName(), n.GetSchema())
			prevFilter = nil
		case *plans.FilterPlanNode:
			if prevFilter != nil {
				merged := expression.NewBinary(prevFilter.GetPredicate(), expression.AND, n.GetPredicate())
				inputOfPrev := b.GetDag().GetInputs(prev)[0]
				prev = b.CreateFilter(merged, inputOfPrev)
				prevFilter = b.GetDag().GetNode(prev).(*plans.FilterPlanNode)
				changed = true
				continue
			}
			prev = b.CreateFilter(n.GetPredicate(), prev)
			prevFilter = n
		case *plans.ProjectionPlanNode:
			prev = b.CreateProject(n.GetExprs(), prev)
			prevFilter = nil
		default:
			return d, false, nil
		}
	}
	if !changed {
		return d, false, nil
	}
	return compact(b.GetDag()), true, nil
}

// linearSpine returns node ids from the scan up to the single sink, or false
// when the plan is not a chain.
func linearSpine(d *plans.LogicalPlanDag) ([]dag.NodeID, bool) {
	sinks := d.Sinks()
	if len(sinks) != 1 {
		return nil, false
	}
	ret := make([]dag.NodeID, 0, d.Len())
	cur := sinks[0]
	for {
		ret = append(ret, cur)
		inputs := d.GetInputs(cur)
		if len(inputs) == 0 {
			break
		}
		if len(inputs) != 1 || len(d.GetUsages(inputs[0])) != 1 {
			return nil, false
		}
		cur = inputs[0]
	}
	for i, j := 0, len(ret)-1; i < j; i, j = i+1, j-1 {
		ret[i], ret[j] = ret[j], ret[i]
	}
	return ret, true
}

// compact copies the part of d reachable from its last node into a fresh
// dag, dropping nodes orphaned by a rewrite.
func compact(d *plans.LogicalPlanDag) *plans.LogicalPlanDag {
	last := dag.NodeID(d.Len() - 1)
	chain := []dag.NodeID{last}
	for cur := last; len(d.GetInputs(cur)) == 1; {
		cur = d.GetInputs(cur)[0]
		chain = append(chain, cur)
	}

	b := plans.NewDagBuilder(nil)
	var prev dag.NodeID
	for i := len(chain) - 1; i >= 0; i-- {
		switch n := d.GetNode(chain[i]).(type) {
		case *plans.TableScanPlanNode:
			prev = b.CreateScan(n.GetTableName(), n.GetSchema())
		case *plans.FilterPlanNode:
			prev = b.CreateFilter(n.GetPredicate(), prev)
		case *plans.ProjectionPlanNode:
			prev = b.CreateProject(n.GetExprs(), prev)
		default:
			panic("unknown plan node")
		}
	}
	return b.GetDag()
}
