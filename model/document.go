package model

import (
	"fmt"
	"io"

	"github.com/notargets/StructFE/element"
	"gonum.org/v1/gonum/spatial/r3"
	"gopkg.in/yaml.v3"
)

// Document is the hand written YAML description of a model
//
//	nodes:
//	  - {index: 3, location: [0, 0, 0]}
//	  - {index: 7, location: [4, 0, 3]}
//	elements:
//	  - kind: truss
//	    nodes: [3, 7]
//	    truss: {e: 210e9, a: 0.01}
//	    loads:
//	      - {kind: concentrated, slot: 1, force: [0, 0, -20e3]}
type Document struct {
	Nodes    []DocumentNode    `yaml:"nodes"`
	Elements []DocumentElement `yaml:"elements"`
}

type DocumentNode struct {
	Index    int        `yaml:"index"`
	Location [3]float64 `yaml:"location,flow"`
}

type DocumentElement struct {
	Index    *int                     `yaml:"index,omitempty"`
	Kind     string                   `yaml:"kind"`
	Nodes    []int                    `yaml:"nodes,flow"`
	Truss    *element.TrussSection    `yaml:"truss,omitempty"`
	Frame    *element.FrameSection    `yaml:"frame,omitempty"`
	Membrane *element.MembraneSection `yaml:"membrane,omitempty"`
	Loads    []DocumentLoad           `yaml:"loads,omitempty"`
}

type DocumentLoad struct {
	Kind      string     `yaml:"kind"`
	Case      string     `yaml:"case,omitempty"`
	Local     bool       `yaml:"local,omitempty"`
	Slot      int        `yaml:"slot,omitempty"`
	Force     [3]float64 `yaml:"force,flow,omitempty"`
	Moment    [3]float64 `yaml:"moment,flow,omitempty"`
	Direction [3]float64 `yaml:"direction,flow,omitempty"`
	Magnitude float64    `yaml:"magnitude,omitempty"`
	Start     float64    `yaml:"start,omitempty"`
	End       float64    `yaml:"end,omitempty"`
}

// ReadDocument parses a YAML model document, rejecting unknown fields
func ReadDocument(r io.Reader) (*Document, error) {
	var doc Document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("parse model document: %w", err)
	}
	return &doc, nil
}

func (d *Document) Write(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(d); err != nil {
		return fmt.Errorf("write model document: %w", err)
	}
	return enc.Close()
}

// Build constructs the model: every node first, then each element wired
// through the node table.
func (d *Document) Build() (*Model, error) {
	m := New()
	for _, dn := range d.Nodes {
		n, err := element.NewNode(dn.Index, dn.Location[0], dn.Location[1], dn.Location[2])
		if err != nil {
			return nil, err
		}
		if err := m.AddNode(n); err != nil {
			return nil, err
		}
	}
	for i, de := range d.Elements {
		e, err := de.element()
		if err != nil {
			return nil, fmt.Errorf("element entry %d: %w", i, err)
		}
		if err := m.AddElement(e, de.Nodes...); err != nil {
			return nil, fmt.Errorf("element entry %d: %w", i, err)
		}
	}
	return m, nil
}

func (de DocumentElement) element() (element.Element, error) {
	kind, err := element.ParseElementKind(de.Kind)
	if err != nil {
		return nil, err
	}
	if len(de.Nodes) != kind.NodeCount() {
		return nil, fmt.Errorf("%v needs %d nodes, got %d: %w",
			kind, kind.NodeCount(), len(de.Nodes), element.ErrMalformedTopology)
	}

	var e element.Element
	switch kind {
	case element.Truss:
		if de.Truss == nil {
			return nil, fmt.Errorf("truss element without truss section: %w", element.ErrInvalidSection)
		}
		e, err = element.NewTruss(*de.Truss)
	case element.Frame:
		if de.Frame == nil {
			return nil, fmt.Errorf("frame element without frame section: %w", element.ErrInvalidSection)
		}
		e, err = element.NewFrame(*de.Frame)
	case element.TriangleMembrane:
		if de.Membrane == nil {
			return nil, fmt.Errorf("membrane element without membrane section: %w", element.ErrInvalidSection)
		}
		e, err = element.NewMembrane(*de.Membrane)
	default:
		return nil, fmt.Errorf("unsupported element kind %v", kind)
	}
	if err != nil {
		return nil, err
	}

	if de.Index != nil {
		if err := e.AssignIndex(*de.Index); err != nil {
			return nil, err
		}
	}
	for _, dl := range de.Loads {
		l, err := dl.load()
		if err != nil {
			return nil, err
		}
		if err := e.AddLoad(l); err != nil {
			return nil, err
		}
	}
	return e, nil
}

func vec(v [3]float64) r3.Vec { return r3.Vec{X: v[0], Y: v[1], Z: v[2]} }

func arr(v r3.Vec) [3]float64 { return [3]float64{v.X, v.Y, v.Z} }

func (dl DocumentLoad) load() (element.Load, error) {
	kind, err := element.ParseLoadKind(dl.Kind)
	if err != nil {
		return element.Load{}, err
	}
	l := element.Load{
		Kind:      kind,
		Case:      dl.Case,
		Local:     dl.Local,
		Slot:      dl.Slot,
		Force:     vec(dl.Force),
		Moment:    vec(dl.Moment),
		Direction: vec(dl.Direction),
		Magnitude: dl.Magnitude,
		Start:     dl.Start,
		End:       dl.End,
	}
	if kind == element.UniformLoad && dl.Start == 0 && dl.End == 0 {
		l.End = 1
	}
	return l, nil
}

// NewDocument describes an existing model
func NewDocument(m *Model) (*Document, error) {
	d := &Document{}
	for _, n := range m.Nodes() {
		d.Nodes = append(d.Nodes, DocumentNode{Index: n.Index(), Location: arr(n.Location)})
	}
	for _, e := range m.Elements() {
		index := e.Index()
		de := DocumentElement{
			Index: &index,
			Kind:  e.Kind().ShortName(),
			Nodes: e.NodeIndices(),
		}
		switch v := e.(type) {
		case *element.TrussElement:
			s := v.Section()
			de.Truss = &s
		case *element.FrameElement:
			s := v.Section()
			de.Frame = &s
		case *element.MembraneElement:
			s := v.Section()
			de.Membrane = &s
		default:
			return nil, fmt.Errorf("no document form for %v element %d", e.Kind(), e.Index())
		}
		for _, l := range e.Loads() {
			de.Loads = append(de.Loads, DocumentLoad{
				Kind:      l.Kind.String(),
				Case:      l.Case,
				Local:     l.Local,
				Slot:      l.Slot,
				Force:     arr(l.Force),
				Moment:    arr(l.Moment),
				Direction: arr(l.Direction),
				Magnitude: l.Magnitude,
				Start:     l.Start,
				End:       l.End,
			})
		}
		d.Elements = append(d.Elements, de)
	}
	return d, nil
}
