package dag

import (
	"fmt"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/ryogrid/SamehadaQE/common"
	"golang.org/x/exp/slices"
)

// NodeID is the insertion index of a node. Ids are dense and never reused.
type NodeID int

/**
 * Dag is an append only store of nodes. Every node keeps its ordered inputs
 * and the set of nodes which use it as an input.
 * If B lists A as an input, A's usages contain B.
 * An input always has a smaller id than its consumer, so no cycle can be built.
 */
type Dag[N any] struct {
	nodes  []N
	inputs [][]NodeID
	usages []mapset.Set[NodeID]
}

func NewDag[N any]() *Dag[N] {
	return &Dag[N]{
		nodes:  make([]N, 0),
		inputs: make([][]NodeID, 0),
		usages: make([]mapset.Set[NodeID], 0),
	}
}

func (d *Dag[N]) NewNode(node N) NodeID {
	id := NodeID(len(d.nodes))
	d.nodes = append(d.nodes, node)
	d.inputs = append(d.inputs, make([]NodeID, 0))
	d.usages = append(d.usages, mapset.NewThreadUnsafeSet[NodeID]())
	return id
}

func (d *Dag[N]) AddInput(node NodeID, input NodeID) {
	d.checkID(node)
	d.checkID(input)
	common.SH_Assert(input < node, fmt.Sprintf("input %d must be created before node %d", input, node))

	d.inputs[node] = append(d.inputs[node], input)
	d.usages[input].Add(node)
}

// RemoveInput drops the first occurrence of input from node's inputs.
// The usage link is removed only when no other occurrence is left.
func (d *Dag[N]) RemoveInput(node NodeID, input NodeID) bool {
	d.checkID(node)
	d.checkID(input)

	ins := d.inputs[node]
	pos := -1
	for i, in := range ins {
		if in == input {
			pos = i
			break
		}
	}
	if pos < 0 {
		return false
	}
	d.inputs[node] = append(ins[:pos:pos], ins[pos+1:]...)

	for _, in := range d.inputs[node] {
		if in == input {
			return true
		}
	}
	d.usages[input].Remove(node)
	return true
}

// ReplaceInput rewires every occurrence of oldInput in node's inputs to newInput,
// keeping positions.
func (d *Dag[N]) ReplaceInput(node NodeID, oldInput NodeID, newInput NodeID) {
	d.checkID(node)
	d.checkID(oldInput)
	d.checkID(newInput)
	common.SH_Assert(newInput < node, fmt.Sprintf("input %d must be created before node %d", newInput, node))

	replaced := false
	for i, in := range d.inputs[node] {
		if in == oldInput {
			d.inputs[node][i] = newInput
			replaced = true
		}
	}
	if !replaced {
		return
	}
	d.usages[oldInput].Remove(node)
	d.usages[newInput].Add(node)
}

func (d *Dag[N]) GetNode(id NodeID) N {
	d.checkID(id)
	return d.nodes[id]
}

func (d *Dag[N]) GetInputs(id NodeID) []NodeID {
	d.checkID(id)
	ret := make([]NodeID, len(d.inputs[id]))
	copy(ret, d.inputs[id])
	return ret
}

// GetUsages returns the consumers of id in ascending order.
func (d *Dag[N]) GetUsages(id NodeID) []NodeID {
	d.checkID(id)
	ret := d.usages[id].ToSlice()
	slices.Sort(ret)
	return ret
}

func (d *Dag[N]) Len() int {
	return len(d.nodes)
}

// Sinks returns the nodes nobody consumes, in ascending order.
func (d *Dag[N]) Sinks() []NodeID {
	ret := make([]NodeID, 0)
	for i := range d.nodes {
		if d.usages[i].Cardinality() == 0 {
			ret = append(ret, NodeID(i))
		}
	}
	return ret
}

func (d *Dag[N]) IsValidID(id NodeID) bool {
	return id >= 0 && int(id) < len(d.nodes)
}

func (d *Dag[N]) checkID(id NodeID) {
	common.SH_Assert(d.IsValidID(id), fmt.Sprintf("invalid node id %d (len %d)", id, len(d.nodes)))
}
