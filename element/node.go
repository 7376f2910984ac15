package element

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/spatial/r3"
)

// DofPerNode is the number of degrees of freedom carried by every node:
// ux, uy, uz, rx, ry, rz (3D frame analysis).
const DofPerNode = 6

// DOF offsets within a node block
const (
	DofUx = iota
	DofUy
	DofUz
	DofRx
	DofRy
	DofRz
)

// Node is a spatial point of the structure. Elements reference nodes, they
// never own them; a node can be shared by any number of elements.
type Node struct {
	StructuralEntity
	Location r3.Vec
}

// NewNode returns a node with the given index located at (x, y, z)
func NewNode(index int, x, y, z float64) (*Node, error) {
	n := &Node{Location: r3.Vec{X: x, Y: y, Z: z}}
	if err := n.AssignIndex(index); err != nil {
		return nil, fmt.Errorf("node: %w", err)
	}
	return n, nil
}

func (n *Node) String() string {
	return fmt.Sprintf("Node(%d @ %g, %g, %g)", n.Index(), n.Location.X, n.Location.Y, n.Location.Z)
}

// NodeTable resolves node indices to node references. It is consumed by the
// resolution pass and must be fully built before resolution starts.
type NodeTable interface {
	Node(index int) (*Node, bool)
}

// NodeMap is the simplest NodeTable, keyed by node index
type NodeMap map[int]*Node

// NewNodeMap indexes nodes by their StructuralEntity index.
func NewNodeMap(nodes ...*Node) (NodeMap, error) {
	nm := make(NodeMap, len(nodes))
	for _, n := range nodes {
		if n == nil || !n.HasIndex() {
			return nil, fmt.Errorf("node without index")
		}
		if _, dup := nm[n.Index()]; dup {
			return nil, fmt.Errorf("duplicate node index %d", n.Index())
		}
		nm[n.Index()] = n
	}
	return nm, nil
}

func (nm NodeMap) Node(index int) (*Node, bool) {
	n, ok := nm[index]
	return n, ok
}

// Sorted returns the nodes ordered by index
func (nm NodeMap) Sorted() []*Node {
	nodes := make([]*Node, 0, len(nm))
	for _, n := range nm {
		nodes = append(nodes, n)
	}
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].Index() < nodes[j].Index() })
	return nodes
}
