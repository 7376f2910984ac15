package model

import (
	"fmt"
	"sort"

	"github.com/notargets/StructFE/element"
)

// Model owns the node arena and the element list of a structure. Elements
// reference nodes of the arena; the model never reallocates a node once added.
type Model struct {
	nodes     element.NodeMap
	elements  []element.Element
	byIndex   map[int]element.Element
	nextIndex int
}

func New() *Model {
	return &Model{
		nodes:   make(element.NodeMap),
		byIndex: make(map[int]element.Element),
	}
}

// AddNode adds a node to the arena; node indices are unique
func (m *Model) AddNode(n *element.Node) error {
	if n == nil || !n.HasIndex() {
		return fmt.Errorf("model: node without index")
	}
	if _, dup := m.nodes[n.Index()]; dup {
		return fmt.Errorf("model: duplicate node index %d", n.Index())
	}
	m.nodes[n.Index()] = n
	return nil
}

// Node implements element.NodeTable
func (m *Model) Node(index int) (*element.Node, bool) {
	return m.nodes.Node(index)
}

// Nodes returns the nodes ordered by index
func (m *Model) Nodes() []*element.Node { return m.nodes.Sorted() }

func (m *Model) NumNodes() int { return len(m.nodes) }

// AddElement adds e to the model, assigning the next free index when e has
// none. With node indices the element is wired to those nodes of the arena;
// without, e must already be resolved against this model's nodes.
func (m *Model) AddElement(e element.Element, nodeIndices ...int) error {
	if e == nil {
		return fmt.Errorf("model: nil element")
	}
	if e.HasIndex() {
		if _, dup := m.byIndex[e.Index()]; dup {
			return fmt.Errorf("model: duplicate element index %d", e.Index())
		}
	}
	if len(nodeIndices) > 0 {
		if len(nodeIndices) != e.Kind().NodeCount() {
			return fmt.Errorf("model: %v element needs %d nodes, got %d: %w",
				e.Kind(), e.Kind().NodeCount(), len(nodeIndices), element.ErrMalformedTopology)
		}
		nodes := make([]*element.Node, len(nodeIndices))
		for i, idx := range nodeIndices {
			n, ok := m.nodes[idx]
			if !ok {
				return fmt.Errorf("model: %v element slot %d: node %d: %w",
					e.Kind(), i, idx, element.ErrUnresolvedReference)
			}
			nodes[i] = n
		}
		if err := e.Wire(nodes...); err != nil {
			return err
		}
	} else if err := m.checkOwnNodes(e); err != nil {
		return err
	}
	if !e.HasIndex() {
		if err := e.AssignIndex(m.nextIndex); err != nil {
			return err
		}
	}
	m.elements = append(m.elements, e)
	m.byIndex[e.Index()] = e
	if e.Index() >= m.nextIndex {
		m.nextIndex = e.Index() + 1
	}
	return nil
}

func (m *Model) checkOwnNodes(e element.Element) error {
	if e.State() != element.Resolved {
		return fmt.Errorf("model: %v element %d is %v: %w", e.Kind(), e.Index(), e.State(), element.ErrInvalidTopology)
	}
	for slot, n := range e.Nodes() {
		if own, ok := m.nodes[n.Index()]; !ok || own != n {
			return fmt.Errorf("model: %v element %d slot %d: node %d is not part of the model: %w",
				e.Kind(), e.Index(), slot, n.Index(), element.ErrUnresolvedReference)
		}
	}
	return nil
}

// reserveIndices makes automatic index assignment start at next or later
func (m *Model) reserveIndices(next int) {
	if next > m.nextIndex {
		m.nextIndex = next
	}
}

// Elements returns the elements in insertion order
func (m *Model) Elements() []element.Element {
	return append([]element.Element(nil), m.elements...)
}

func (m *Model) Element(index int) (element.Element, bool) {
	e, ok := m.byIndex[index]
	return e, ok
}

// Validate checks every element is ready for stiffness computation
func (m *Model) Validate() error {
	for _, e := range m.elements {
		if err := m.checkOwnNodes(e); err != nil {
			return err
		}
	}
	return nil
}

// Snapshot captures the model in its persisted form
func (m *Model) Snapshot() (*Snapshot, error) {
	s := &Snapshot{
		Nodes:    make([]NodeRecord, 0, len(m.nodes)),
		Elements: make([]element.Record, 0, len(m.elements)),
	}
	for _, n := range m.Nodes() {
		s.Nodes = append(s.Nodes, NodeRecord{Index: n.Index(), X: n.Location.X, Y: n.Location.Y, Z: n.Location.Z})
	}
	elements := m.Elements()
	sort.SliceStable(elements, func(i, j int) bool { return elements[i].Index() < elements[j].Index() })
	for _, e := range elements {
		rec, err := element.ToRecord(e)
		if err != nil {
			return nil, err
		}
		s.Elements = append(s.Elements, rec)
	}
	return s, nil
}
