package plans

import (
	"fmt"
	"strings"

	"github.com/golang-collections/collections/stack"
	"github.com/ryogrid/SamehadaQE/container/dag"
)

type printEntry struct {
	id     dag.NodeID
	indent int
}

// PrintPlanTree renders the plan rooted at root, inputs indented below their consumer.
// A node shared by several consumers is printed under each of them.
func PrintPlanTree(d *LogicalPlanDag, root dag.NodeID) string {
	var sb strings.Builder
	st := stack.New()
	st.Push(printEntry{root, 0})
	for st.Len() > 0 {
		cur := st.Pop().(printEntry)
		sb.WriteString(strings.Repeat(" ", cur.indent))
		sb.WriteString(fmt.Sprintf("#%d %s\n", cur.id, d.GetNode(cur.id).GetDebugStr()))

		inputs := d.GetInputs(cur.id)
		// push in reverse so the first input is printed first
		for i := len(inputs) - 1; i >= 0; i-- {
			st.Push(printEntry{inputs[i], cur.indent + 2})
		}
	}
	return sb.String()
}

// SchemaColumnNames lists field names of the node's output schema.
func SchemaColumnNames(p LogicalPlan) []string {
	fields := p.GetSchema().Fields()
	ret := make([]string, len(fields))
	for i, f := range fields {
		ret[i] = f.Name
	}
	return ret
}
