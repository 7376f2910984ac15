package element

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

// ContractReport summarizes how well a stiffness matrix honors the shared
// element contract. Residuals are relative to the Frobenius norm of K.
type ContractReport struct {
	Kind        ElementKind
	Dim         int
	Norm        float64    // ‖K‖F
	Asymmetry   float64    // max |Kij - Kji| / ‖K‖F
	Translation [3]float64 // ‖K u‖ / (‖K‖F ‖u‖) for unit translations along x, y, z
	Rotation    [3]float64 // same for small rigid rotations about x, y, z through the centroid
}

// Within reports whether every residual is below tol
func (r ContractReport) Within(tol float64) bool {
	if r.Asymmetry > tol {
		return false
	}
	for i := 0; i < 3; i++ {
		if r.Translation[i] > tol || r.Rotation[i] > tol {
			return false
		}
	}
	return true
}

// MaxTranslation is the largest rigid translation residual over the three axes
func (r ContractReport) MaxTranslation() float64 { return maxOf(r.Translation) }

// MaxRotation is the largest rigid rotation residual over the three axes
func (r ContractReport) MaxRotation() float64 { return maxOf(r.Rotation) }

func (r ContractReport) String() string {
	return fmt.Sprintf("%v %dx%d |K|=%.4g asym=%.2e trans=%.2e rot=%.2e",
		r.Kind, r.Dim, r.Dim, r.Norm, r.Asymmetry, r.MaxTranslation(), r.MaxRotation())
}

// CheckContract evaluates the stiffness matrix of e against the dimension,
// symmetry and rigid body null space contracts.
func CheckContract(e Element) (r ContractReport, err error) {
	k, err := e.GetGlobalStiffnessMatrix()
	if err != nil {
		return
	}
	r.Kind = e.Kind()
	rows, cols := k.Dims()
	if want := e.Kind().Dofs(); rows != want || cols != want {
		err = fmt.Errorf("%v element %d: stiffness is %dx%d, want %dx%d", e.Kind(), e.Index(), rows, cols, want, want)
		return
	}
	r.Dim = rows
	r.Norm = mat.Norm(k, 2)
	if r.Norm == 0 {
		return
	}
	r.Asymmetry = MaxAsymmetry(k) / r.Norm
	nodes := e.Nodes()
	for axis := 0; axis < 3; axis++ {
		r.Translation[axis] = relativeResidual(k, RigidTranslation(nodes, axis), r.Norm)
		r.Rotation[axis] = relativeResidual(k, RigidRotation(nodes, axis), r.Norm)
	}
	return
}

// MaxAsymmetry returns max |Kij - Kji|
func MaxAsymmetry(k mat.Matrix) float64 {
	n, _ := k.Dims()
	var m float64
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			m = math.Max(m, math.Abs(k.At(i, j)-k.At(j, i)))
		}
	}
	return m
}

// RigidTranslation is the displacement vector of a unit translation of all
// nodes along axis (0=x, 1=y, 2=z).
func RigidTranslation(nodes []*Node, axis int) *mat.VecDense {
	u := mat.NewVecDense(len(nodes)*DofPerNode, nil)
	for i := range nodes {
		u.SetVec(i*DofPerNode+axis, 1)
	}
	return u
}

// RigidRotation is the displacement vector of a unit (small) rotation θ of all
// nodes about an axis through their centroid: u = θ × (x - c), r = θ.
func RigidRotation(nodes []*Node, axis int) *mat.VecDense {
	var c r3.Vec
	for _, n := range nodes {
		c = r3.Add(c, n.Location)
	}
	c = r3.Scale(1/float64(len(nodes)), c)

	var theta r3.Vec
	switch axis {
	case 0:
		theta.X = 1
	case 1:
		theta.Y = 1
	default:
		theta.Z = 1
	}
	u := mat.NewVecDense(len(nodes)*DofPerNode, nil)
	for i, n := range nodes {
		d := r3.Cross(theta, r3.Sub(n.Location, c))
		o := i * DofPerNode
		u.SetVec(o+DofUx, d.X)
		u.SetVec(o+DofUy, d.Y)
		u.SetVec(o+DofUz, d.Z)
		u.SetVec(o+DofRx, theta.X)
		u.SetVec(o+DofRy, theta.Y)
		u.SetVec(o+DofRz, theta.Z)
	}
	return u
}

func relativeResidual(k mat.Matrix, u *mat.VecDense, norm float64) float64 {
	var f mat.VecDense
	f.MulVec(k, u)
	return mat.Norm(&f, 2) / (norm * mat.Norm(u, 2))
}

func maxOf(v [3]float64) float64 {
	return math.Max(v[0], math.Max(v[1], v[2]))
}
