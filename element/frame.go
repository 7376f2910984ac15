package element

import (
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

// FrameElement is a two node 3D Euler-Bernoulli beam with axial, torsional
// and biaxial bending stiffness.
type FrameElement struct {
	Base
	section FrameSection
}

func init() {
	Register(Frame, func(properties []byte) (Element, error) {
		var s FrameSection
		if err := msgpack.Unmarshal(properties, &s); err != nil {
			return nil, fmt.Errorf("decode frame section: %w", err)
		}
		return NewFrame(s)
	})
}

// NewFrame returns an unwired frame element
func NewFrame(section FrameSection) (*FrameElement, error) {
	if err := validateSection(section); err != nil {
		return nil, fmt.Errorf("frame: %w", err)
	}
	return &FrameElement{Base: NewBase(Frame), section: section}, nil
}

func (f *FrameElement) Section() FrameSection { return f.section }

func (f *FrameElement) MarshalProperties() ([]byte, error) {
	return msgpack.Marshal(f.section)
}

// GetLocalStiffnessMatrix returns the 12x12 stiffness in member axes for the
// current member length.
func (f *FrameElement) GetLocalStiffnessMatrix() (*mat.Dense, error) {
	if err := f.CheckTopology(); err != nil {
		return nil, err
	}
	p := f.positions()
	l := r3.Norm(r3.Sub(p[1], p[0]))
	if degenerate(l) {
		return nil, fmt.Errorf("%s: length %g: %w", f.label(), l, ErrDegenerateGeometry)
	}
	return f.localStiffness(l), nil
}

// GetGlobalStiffnessMatrix returns Tᵀ K T with T = blockdiag(R,R,R,R)
func (f *FrameElement) GetGlobalStiffnessMatrix() (*mat.Dense, error) {
	if err := f.CheckTopology(); err != nil {
		return nil, err
	}
	p := f.positions()
	d := r3.Sub(p[1], p[0])
	l := r3.Norm(d)
	if degenerate(l) {
		return nil, fmt.Errorf("%s: length %g: %w", f.label(), l, ErrDegenerateGeometry)
	}
	ex, ey, ez := memberTriad(d)
	t := rotationBlocks(4, ex, ey, ez)
	return congruent(f.localStiffness(l), t), nil
}

// localStiffness DOF order per node is ux uy uz rx ry rz in member axes
func (f *FrameElement) localStiffness(l float64) *mat.Dense {
	var (
		s  = f.section
		l2 = l * l
		l3 = l2 * l
		k  = mat.NewDense(12, 12, nil)
	)
	put := func(i, j int, v float64) {
		k.Set(i, j, v)
		k.Set(j, i, v)
	}

	// axial
	ea := s.E * s.A / l
	put(0, 0, ea)
	put(6, 6, ea)
	put(0, 6, -ea)

	// torsion
	gj := s.G * s.J / l
	put(3, 3, gj)
	put(9, 9, gj)
	put(3, 9, -gj)

	// bending in the local x-y plane: uy, rz
	ez := s.E * s.Iz
	put(1, 1, 12*ez/l3)
	put(7, 7, 12*ez/l3)
	put(1, 7, -12*ez/l3)
	put(1, 5, 6*ez/l2)
	put(1, 11, 6*ez/l2)
	put(5, 7, -6*ez/l2)
	put(7, 11, -6*ez/l2)
	put(5, 5, 4*ez/l)
	put(11, 11, 4*ez/l)
	put(5, 11, 2*ez/l)

	// bending in the local x-z plane: uz, ry
	ey := s.E * s.Iy
	put(2, 2, 12*ey/l3)
	put(8, 8, 12*ey/l3)
	put(2, 8, -12*ey/l3)
	put(2, 4, -6*ey/l2)
	put(2, 10, -6*ey/l2)
	put(4, 8, 6*ey/l2)
	put(8, 10, 6*ey/l2)
	put(4, 4, 4*ey/l)
	put(10, 10, 4*ey/l)
	put(4, 10, 2*ey/l)

	return k
}
