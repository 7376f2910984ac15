package element

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"gonum.org/v1/gonum/spatial/r3"
)

func node(index int, x, y, z float64) *Node {
	n, err := NewNode(index, x, y, z)
	if err != nil {
		panic(err)
	}
	return n
}

// contractHolds is the shared property every variant is checked against
func contractHolds(e Element) bool {
	report, err := CheckContract(e)
	if err != nil {
		return false
	}
	return report.Dim == e.Kind().Dofs() && report.Within(1e-9)
}

// TestStiffnessContractProperties checks symmetry and the rigid body null
// space for randomly placed elements of every kind.
func TestStiffnessContractProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	coord := gen.Float64Range(-10, 10)

	properties.Property("truss honors the stiffness contract", prop.ForAll(
		func(x0, y0, z0, x1, y1, z1 float64) bool {
			a, b := node(0, x0, y0, z0), node(1, x1, y1, z1)
			if r3.Norm(r3.Sub(b.Location, a.Location)) < 1e-3 {
				return true
			}
			e, _ := NewTruss(TrussSection{E: 70e9, A: 2e-3})
			if err := e.Wire(a, b); err != nil {
				return false
			}
			return contractHolds(e)
		},
		coord, coord, coord, coord, coord, coord,
	))

	properties.Property("frame honors the stiffness contract", prop.ForAll(
		func(x0, y0, z0, x1, y1, z1 float64) bool {
			a, b := node(0, x0, y0, z0), node(1, x1, y1, z1)
			if r3.Norm(r3.Sub(b.Location, a.Location)) < 1e-3 {
				return true
			}
			e, _ := NewFrame(steelFrame)
			if err := e.Wire(a, b); err != nil {
				return false
			}
			return contractHolds(e)
		},
		coord, coord, coord, coord, coord, coord,
	))

	properties.Property("membrane honors the stiffness contract", prop.ForAll(
		func(x1, y1, z1, x2, y2, z2 float64) bool {
			a, b, c := node(0, 0.5, -0.25, 1), node(1, x1, y1, z1), node(2, x2, y2, z2)
			ab, ac := r3.Sub(b.Location, a.Location), r3.Sub(c.Location, a.Location)
			// skip slivers, the contract is relative to |K| but conditioning suffers
			if r3.Norm(r3.Cross(ab, ac)) < 0.05*r3.Norm(ab)*r3.Norm(ac) {
				return true
			}
			e, _ := NewMembrane(steelPlate)
			if err := e.Wire(a, b, c); err != nil {
				return false
			}
			return contractHolds(e)
		},
		coord, coord, coord, coord, coord, coord,
	))

	properties.Property("translating every node leaves the stiffness unchanged", prop.ForAll(
		func(dx, dy, dz float64) bool {
			a, b := node(0, 1, 2, 3), node(1, -2, 0.5, 4)
			e, _ := NewFrame(steelFrame)
			if err := e.Wire(a, b); err != nil {
				return false
			}
			k1, err := e.GetGlobalStiffnessMatrix()
			if err != nil {
				return false
			}
			shift := r3.Vec{X: dx, Y: dy, Z: dz}
			a.Location = r3.Add(a.Location, shift)
			b.Location = r3.Add(b.Location, shift)
			k2, err := e.GetGlobalStiffnessMatrix()
			if err != nil {
				return false
			}
			return matricesClose(k1, k2, 1e-9)
		},
		coord, coord, coord,
	))

	properties.TestingRun(t)
}
