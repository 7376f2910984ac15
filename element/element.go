package element

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

// State is the wiring stage of an element
type State uint8

const (
	Unwired  State = iota // Constructed, at least one node slot unset
	Raw                   // Decoded from a record, holds raw node indices only
	Resolved              // Every node slot references a node
)

func (s State) String() string {
	switch s {
	case Unwired:
		return "Unwired"
	case Raw:
		return "Raw"
	case Resolved:
		return "Resolved"
	}
	return fmt.Sprintf("State(%d)", uint8(s))
}

// Element is the contract every structural element variant fulfills.
// GetGlobalStiffnessMatrix returns a (N*DofPerNode) square matrix in global
// axes, where row/column block i belongs to Nodes()[i]. It is symmetric, maps
// rigid body motions to zero force, and is recomputed on every call.
type Element interface {
	Index() int
	HasIndex() bool
	AssignIndex(index int) error

	Kind() ElementKind
	State() State

	Nodes() []*Node
	NodeIndices() []int
	SetNode(slot int, n *Node) error
	Wire(nodes ...*Node) error
	Resolve(table NodeTable) error

	Loads() []Load
	AddLoad(l Load) error
	RemoveLoad(i int) error
	ClearLoads()

	GetGlobalStiffnessMatrix() (*mat.Dense, error)

	// MarshalProperties encodes the variant's section/material data for
	// persistence; the registered Decoder for the kind reverses it.
	MarshalProperties() ([]byte, error)

	core() *Base
}

// Base holds the state shared by all element variants: kind, the fixed size
// node slots, the owned load list and, while Raw, the raw node indices.
type Base struct {
	StructuralEntity
	kind       ElementKind
	nodes      []*Node
	loads      []Load
	rawIndices []int
}

// NewBase allocates kind.NodeCount() unset node slots and an empty load list.
func NewBase(kind ElementKind) Base {
	return Base{
		kind:  kind,
		nodes: make([]*Node, kind.NodeCount()),
		loads: []Load{},
	}
}

func (b *Base) core() *Base { return b }

func (b *Base) Kind() ElementKind { return b.kind }

func (b *Base) State() State {
	if b.rawIndices != nil {
		return Raw
	}
	for _, n := range b.nodes {
		if n == nil {
			return Unwired
		}
	}
	return Resolved
}

func (b *Base) label() string {
	return fmt.Sprintf("%v element %d", b.kind, b.Index())
}

// Nodes returns the node slots in element order; unset slots are nil
func (b *Base) Nodes() []*Node {
	nodes := make([]*Node, len(b.nodes))
	copy(nodes, b.nodes)
	return nodes
}

// NodeIndices returns the raw indices of a Raw element, otherwise the indices
// of the wired nodes with -1 for unset slots.
func (b *Base) NodeIndices() []int {
	if b.rawIndices != nil {
		return append([]int(nil), b.rawIndices...)
	}
	indices := make([]int, len(b.nodes))
	for i, n := range b.nodes {
		indices[i] = -1
		if n != nil {
			indices[i] = n.Index()
		}
	}
	return indices
}

// SetNode wires a single slot. Raw elements must be resolved instead.
func (b *Base) SetNode(slot int, n *Node) error {
	if b.rawIndices != nil {
		return fmt.Errorf("%s: raw element must be resolved, not wired slot by slot", b.label())
	}
	if slot < 0 || slot >= len(b.nodes) {
		return fmt.Errorf("%s: slot %d outside [0,%d)", b.label(), slot, len(b.nodes))
	}
	if n == nil {
		return fmt.Errorf("%s: nil node for slot %d", b.label(), slot)
	}
	if !n.HasIndex() {
		return fmt.Errorf("%s: node for slot %d has no index", b.label(), slot)
	}
	b.nodes[slot] = n
	return nil
}

// Wire replaces all node slots at once. The node count must equal the kind's
// topology and every node must be non-nil; on error nothing is changed.
// Raw elements must be resolved instead.
func (b *Base) Wire(nodes ...*Node) error {
	if b.rawIndices != nil {
		return fmt.Errorf("%s: raw element must be resolved, not wired", b.label())
	}
	if len(nodes) != b.kind.NodeCount() {
		return fmt.Errorf("%s: %d nodes given, topology needs %d: %w",
			b.label(), len(nodes), b.kind.NodeCount(), ErrInvalidTopology)
	}
	for i, n := range nodes {
		if n == nil {
			return fmt.Errorf("%s: nil node for slot %d: %w", b.label(), i, ErrInvalidTopology)
		}
		if !n.HasIndex() {
			return fmt.Errorf("%s: node for slot %d has no index", b.label(), i)
		}
	}
	b.nodes = make([]*Node, len(nodes))
	copy(b.nodes, nodes)
	return nil
}

// Resolve performs the Raw -> Resolved transition against a fully built node
// table. It is atomic: on failure the element stays Raw.
func (b *Base) Resolve(table NodeTable) error {
	if b.rawIndices == nil {
		return fmt.Errorf("%s is %v: %w", b.label(), b.State(), ErrAlreadyResolved)
	}
	n := b.kind.NodeCount()
	if len(b.rawIndices) != n {
		return fmt.Errorf("%s: %d raw indices, topology needs %d: %w",
			b.label(), len(b.rawIndices), n, ErrUnresolvedReference)
	}
	nodes := make([]*Node, n)
	for slot, idx := range b.rawIndices {
		node, ok := table.Node(idx)
		if !ok || node == nil {
			return fmt.Errorf("%s: slot %d references node %d: %w", b.label(), slot, idx, ErrUnresolvedReference)
		}
		nodes[slot] = node
	}
	b.nodes = nodes
	b.rawIndices = nil
	return nil
}

func (b *Base) setRaw(indices []int) {
	b.rawIndices = append(make([]int, 0, len(indices)), indices...)
	b.nodes = make([]*Node, b.kind.NodeCount())
}

// CheckTopology fails with ErrInvalidTopology unless every slot is resolved.
func (b *Base) CheckTopology() error {
	if b.rawIndices != nil {
		return fmt.Errorf("%s has not been resolved: %w", b.label(), ErrInvalidTopology)
	}
	if len(b.nodes) != b.kind.NodeCount() {
		return fmt.Errorf("%s: %d node slots, topology needs %d: %w",
			b.label(), len(b.nodes), b.kind.NodeCount(), ErrInvalidTopology)
	}
	for i, n := range b.nodes {
		if n == nil {
			return fmt.Errorf("%s: slot %d unset: %w", b.label(), i, ErrInvalidTopology)
		}
	}
	return nil
}

// positions snapshots the current node locations; callers check topology first
func (b *Base) positions() []r3.Vec {
	p := make([]r3.Vec, len(b.nodes))
	for i, n := range b.nodes {
		p[i] = n.Location
	}
	return p
}

// Loads returns a copy of the element's loads in insertion order
func (b *Base) Loads() []Load {
	loads := make([]Load, len(b.loads))
	copy(loads, b.loads)
	return loads
}

func (b *Base) AddLoad(l Load) error {
	if err := l.check(b.kind.NodeCount()); err != nil {
		return fmt.Errorf("%s: %w", b.label(), err)
	}
	b.loads = append(b.loads, l)
	return nil
}

func (b *Base) RemoveLoad(i int) error {
	if i < 0 || i >= len(b.loads) {
		return fmt.Errorf("%s: load %d outside [0,%d)", b.label(), i, len(b.loads))
	}
	b.loads = append(b.loads[:i], b.loads[i+1:]...)
	return nil
}

func (b *Base) ClearLoads() { b.loads = []Load{} }
