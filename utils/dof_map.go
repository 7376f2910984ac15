package utils

import (
	"fmt"
	"sort"

	"github.com/notargets/StructFE/element"
)

// DofMap numbers the global degrees of freedom of a node set. Nodes are
// ordered by index and node i of that order owns the DOFs
// [i*DofPerNode, (i+1)*DofPerNode).
type DofMap struct {
	NumNodes int
	NumDofs  int

	NodeToOffset map[int]int // node index → first global DOF
	OffsetToNode []int       // node position → node index
}

// NewDofMap builds the DOF numbering for the given nodes
func NewDofMap(nodes []*element.Node) (*DofMap, error) {
	indices := make([]int, 0, len(nodes))
	for _, n := range nodes {
		if n == nil || !n.HasIndex() {
			return nil, fmt.Errorf("dof map: node without index")
		}
		indices = append(indices, n.Index())
	}
	sort.Ints(indices)

	dm := &DofMap{
		NumNodes:     len(indices),
		NumDofs:      len(indices) * element.DofPerNode,
		NodeToOffset: make(map[int]int, len(indices)),
		OffsetToNode: indices,
	}
	for i, idx := range indices {
		if _, dup := dm.NodeToOffset[idx]; dup {
			return nil, fmt.Errorf("dof map: duplicate node index %d", idx)
		}
		dm.NodeToOffset[idx] = i * element.DofPerNode
	}
	return dm, nil
}

// Offset returns the first global DOF of the node with the given index
func (dm *DofMap) Offset(nodeIndex int) (int, bool) {
	o, ok := dm.NodeToOffset[nodeIndex]
	return o, ok
}

// LocationArray returns the global DOF number of every row of the element's
// stiffness matrix, in the element's node order.
func (dm *DofMap) LocationArray(e element.Element) ([]int, error) {
	nodes := e.Nodes()
	loc := make([]int, 0, len(nodes)*element.DofPerNode)
	for slot, n := range nodes {
		if n == nil {
			return nil, fmt.Errorf("%v element %d: slot %d: %w", e.Kind(), e.Index(), slot, element.ErrInvalidTopology)
		}
		o, ok := dm.Offset(n.Index())
		if !ok {
			return nil, fmt.Errorf("%v element %d: node %d not numbered: %w",
				e.Kind(), e.Index(), n.Index(), element.ErrUnresolvedReference)
		}
		for d := 0; d < element.DofPerNode; d++ {
			loc = append(loc, o+d)
		}
	}
	return loc, nil
}

// Gather picks the entries of a global vector addressed by a location array
func Gather(global []float64, loc []int) ([]float64, error) {
	local := make([]float64, len(loc))
	for i, g := range loc {
		if g < 0 || g >= len(global) {
			return nil, fmt.Errorf("gather: dof %d outside [0,%d)", g, len(global))
		}
		local[i] = global[g]
	}
	return local, nil
}
