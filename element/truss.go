package element

import (
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

// TrussElement is a two node bar carrying axial force only. Its stiffness
// lives in the translational DOFs; rotational rows and columns are zero.
type TrussElement struct {
	Base
	section TrussSection
}

func init() {
	Register(Truss, func(properties []byte) (Element, error) {
		var s TrussSection
		if err := msgpack.Unmarshal(properties, &s); err != nil {
			return nil, fmt.Errorf("decode truss section: %w", err)
		}
		return NewTruss(s)
	})
}

// NewTruss returns an unwired truss element
func NewTruss(section TrussSection) (*TrussElement, error) {
	if err := validateSection(section); err != nil {
		return nil, fmt.Errorf("truss: %w", err)
	}
	return &TrussElement{Base: NewBase(Truss), section: section}, nil
}

func (t *TrussElement) Section() TrussSection { return t.section }

func (t *TrussElement) MarshalProperties() ([]byte, error) {
	return msgpack.Marshal(t.section)
}

// Length is the current distance between the two nodes
func (t *TrussElement) Length() (float64, error) {
	if err := t.CheckTopology(); err != nil {
		return 0, err
	}
	p := t.positions()
	return r3.Norm(r3.Sub(p[1], p[0])), nil
}

// GetGlobalStiffnessMatrix returns the 12x12 matrix EA/L [cc' -cc'; -cc' cc']
// placed in the translational DOFs of both nodes, c being the unit axis.
func (t *TrussElement) GetGlobalStiffnessMatrix() (*mat.Dense, error) {
	if err := t.CheckTopology(); err != nil {
		return nil, err
	}
	p := t.positions()
	d := r3.Sub(p[1], p[0])
	l := r3.Norm(d)
	if degenerate(l) {
		return nil, fmt.Errorf("%s: length %g: %w", t.label(), l, ErrDegenerateGeometry)
	}
	c := r3.Scale(1/l, d)
	cc := [3]float64{c.X, c.Y, c.Z}
	ea := t.section.E * t.section.A / l

	n := Truss.Dofs()
	k := mat.NewDense(n, n, nil)
	for a := 0; a < 3; a++ {
		for b := 0; b < 3; b++ {
			v := ea * cc[a] * cc[b]
			k.Set(a, b, v)
			k.Set(DofPerNode+a, DofPerNode+b, v)
			k.Set(a, DofPerNode+b, -v)
			k.Set(DofPerNode+a, b, -v)
		}
	}
	return k, nil
}
