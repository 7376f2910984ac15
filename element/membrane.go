package element

import (
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

// MembraneElement is a three node constant strain triangle in plane stress.
// It is stiff only in the plane of the triangle; the out of plane and
// rotational DOFs of its nodes are left to other elements.
type MembraneElement struct {
	Base
	section MembraneSection
}

func init() {
	Register(TriangleMembrane, func(properties []byte) (Element, error) {
		var s MembraneSection
		if err := msgpack.Unmarshal(properties, &s); err != nil {
			return nil, fmt.Errorf("decode membrane section: %w", err)
		}
		return NewMembrane(s)
	})
}

// NewMembrane returns an unwired triangle membrane element
func NewMembrane(section MembraneSection) (*MembraneElement, error) {
	if err := validateSection(section); err != nil {
		return nil, fmt.Errorf("membrane: %w", err)
	}
	return &MembraneElement{Base: NewBase(TriangleMembrane), section: section}, nil
}

func (m *MembraneElement) Section() MembraneSection { return m.section }

func (m *MembraneElement) MarshalProperties() ([]byte, error) {
	return msgpack.Marshal(m.section)
}

// Area is the current area of the triangle
func (m *MembraneElement) Area() (float64, error) {
	if err := m.CheckTopology(); err != nil {
		return 0, err
	}
	p := m.positions()
	return r3.Norm(r3.Cross(r3.Sub(p[1], p[0]), r3.Sub(p[2], p[0]))) / 2, nil
}

// GetGlobalStiffnessMatrix returns Tᵀ (t A Bᵀ D B) T where T projects the
// translations of each node onto the triangle's in-plane axes.
func (m *MembraneElement) GetGlobalStiffnessMatrix() (*mat.Dense, error) {
	if err := m.CheckTopology(); err != nil {
		return nil, err
	}
	p := m.positions()
	a := r3.Sub(p[1], p[0])
	normal := r3.Cross(a, r3.Sub(p[2], p[0]))
	area2 := r3.Norm(normal)
	if degenerate(area2) {
		return nil, fmt.Errorf("%s: area %g: %w", m.label(), area2/2, ErrDegenerateGeometry)
	}
	e1 := r3.Unit(a)
	e2 := r3.Cross(r3.Scale(1/area2, normal), e1)

	// in-plane coordinates relative to the first node
	var x, y [3]float64
	for i := range p {
		d := r3.Sub(p[i], p[0])
		x[i], y[i] = r3.Dot(d, e1), r3.Dot(d, e2)
	}
	area := area2 / 2

	b := [3]float64{y[1] - y[2], y[2] - y[0], y[0] - y[1]}
	c := [3]float64{x[2] - x[1], x[0] - x[2], x[1] - x[0]}
	bm := mat.NewDense(3, 6, nil)
	for i := 0; i < 3; i++ {
		bm.Set(0, 2*i, b[i]/area2)
		bm.Set(1, 2*i+1, c[i]/area2)
		bm.Set(2, 2*i, c[i]/area2)
		bm.Set(2, 2*i+1, b[i]/area2)
	}

	s := m.section
	f := s.E / (1 - s.Nu*s.Nu)
	dm := mat.NewDense(3, 3, []float64{
		f, f * s.Nu, 0,
		f * s.Nu, f, 0,
		0, 0, f * (1 - s.Nu) / 2,
	})
	kl := congruent(dm, bm)
	kl.Scale(s.Thickness*area, kl)

	n := TriangleMembrane.Dofs()
	t := mat.NewDense(6, n, nil)
	for i := 0; i < 3; i++ {
		o := DofPerNode * i
		t.Set(2*i, o+DofUx, e1.X)
		t.Set(2*i, o+DofUy, e1.Y)
		t.Set(2*i, o+DofUz, e1.Z)
		t.Set(2*i+1, o+DofUx, e2.X)
		t.Set(2*i+1, o+DofUy, e2.Y)
		t.Set(2*i+1, o+DofUz, e2.Z)
	}
	return congruent(kl, t), nil
}
