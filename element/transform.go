package element

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

// geometryTolerance is the smallest member length or doubled triangle area
// accepted before an element is considered degenerate.
const geometryTolerance = 1e-12

// memberTriad returns an orthonormal right handed triad whose first axis runs
// along the member. The local y axis is perpendicular to global Z, or to
// global X for members parallel to Z.
func memberTriad(axis r3.Vec) (ex, ey, ez r3.Vec) {
	ex = r3.Unit(axis)
	ref := r3.Vec{Z: 1}
	if r3.Norm(r3.Cross(ref, ex)) < 1e-6 {
		ref = r3.Vec{X: 1}
	}
	ey = r3.Unit(r3.Cross(ref, ex))
	ez = r3.Cross(ex, ey)
	return
}

// rotationBlocks returns blockdiag(R, R, ..., R) with nblocks copies of the
// 3x3 rotation whose rows are the local axes.
func rotationBlocks(nblocks int, ex, ey, ez r3.Vec) *mat.Dense {
	t := mat.NewDense(3*nblocks, 3*nblocks, nil)
	rows := [3]r3.Vec{ex, ey, ez}
	for b := 0; b < nblocks; b++ {
		o := 3 * b
		for i, v := range rows {
			t.Set(o+i, o+0, v.X)
			t.Set(o+i, o+1, v.Y)
			t.Set(o+i, o+2, v.Z)
		}
	}
	return t
}

// congruent returns Tᵀ K T
func congruent(k, t mat.Matrix) *mat.Dense {
	var kt, tkt mat.Dense
	kt.Mul(k, t)
	tkt.Mul(t.T(), &kt)
	return &tkt
}

func degenerate(v float64) bool {
	return math.IsNaN(v) || v < geometryTolerance
}
