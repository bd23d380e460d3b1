package optimizer

import (
	"fmt"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/golang-collections/collections/stack"
	"github.com/pingcap/errors"
	"github.com/ryogrid/SamehadaQE/catalog"
	"github.com/ryogrid/SamehadaQE/common"
	"github.com/ryogrid/SamehadaQE/container/dag"
	"github.com/ryogrid/SamehadaQE/execution/plans"
)

// upper bound of rule passes over one plan
const maxOptimizePasses = 16

// RuleBasedOptimizer applies its rules in order, pass after pass, until no
// rule changes the plan. Without rules it returns the plan it was given.
type RuleBasedOptimizer struct {
	catalog_ catalog.Catalog
	rules    []RewriteRule
}

func NewRuleBasedOptimizer(c catalog.Catalog, rules ...RewriteRule) *RuleBasedOptimizer {
	return &RuleBasedOptimizer{c, rules}
}

func (o *RuleBasedOptimizer) AddRule(rule RewriteRule) {
	o.rules = append(o.rules, rule)
}

func (o *RuleBasedOptimizer) Optimize(d *plans.LogicalPlanDag) (*plans.LogicalPlanDag, error) {
	if err := ValidatePlan(d); err != nil {
		return nil, err
	}
	if len(o.rules) == 0 {
		return d, nil
	}

	cur := d
	for pass := 0; pass < maxOptimizePasses; pass++ {
		changedInPass := false
		for _, rule := range o.rules {
			next, changed, err := rule.Apply(cur, o.catalog_)
			if err != nil {
				return nil, errors.Annotatef(err, "rule %s", rule.Name())
			}
			if !changed {
				continue
			}
			if err := ValidatePlan(next); err != nil {
				return nil, errors.Annotatef(err, "rule %s produced a broken plan", rule.Name())
			}
			common.ShPrintf(common.DEBUG_INFO, "optimizer: rule %s applied\n", rule.Name())
			cur = next
			changedInPass = true
		}
		if !changedInPass {
			break
		}
	}
	return cur, nil
}

// ValidatePlan checks the plan has exactly one sink, every node is
// reachable from it and each node has the number of inputs its type needs.
func ValidatePlan(d *plans.LogicalPlanDag) error {
	if d == nil || d.Len() == 0 {
		return errors.New("empty plan")
	}
	sinks := d.Sinks()
	if len(sinks) != 1 {
		return errors.Errorf("plan must have exactly one sink, got %v", sinks)
	}

	visited := mapset.NewThreadUnsafeSet[dag.NodeID]()
	st := stack.New()
	st.Push(sinks[0])
	for st.Len() > 0 {
		id := st.Pop().(dag.NodeID)
		if !visited.Add(id) {
			continue
		}
		node := d.GetNode(id)
		inputs := d.GetInputs(id)
		if err := checkArity(id, node, len(inputs)); err != nil {
			return err
		}
		for _, in := range inputs {
			common.SH_Assert(in < id, fmt.Sprintf("input %d of node %d breaks node order", in, id))
			st.Push(in)
		}
	}
	if visited.Cardinality() != d.Len() {
		return errors.Errorf("%d nodes are not reachable from the sink", d.Len()-visited.Cardinality())
	}
	return nil
}

func checkArity(id dag.NodeID, node plans.LogicalPlan, numInputs int) error {
	want := 1
	if node.GetType() == plans.TableScan {
		want = 0
	}
	if numInputs != want {
		return errors.Errorf("node #%d (%s) has %d inputs, want %d", id, node.GetType(), numInputs, want)
	}
	return nil
}
