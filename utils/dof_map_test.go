package utils

import (
	"testing"

	"github.com/notargets/StructFE/element"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestDofMapOrdersByIndex(t *testing.T) {
	var nodes []*element.Node
	for _, idx := range []int{7, 3, 11} {
		n, err := element.NewNode(idx, float64(idx), 0, 0)
		require.NoError(t, err)
		nodes = append(nodes, n)
	}
	dm, err := NewDofMap(nodes)
	require.NoError(t, err)
	assert.Equal(t, 3, dm.NumNodes)
	assert.Equal(t, 18, dm.NumDofs)
	assert.Equal(t, []int{3, 7, 11}, dm.OffsetToNode)

	o, ok := dm.Offset(7)
	assert.True(t, ok)
	assert.Equal(t, 6, o)
	_, ok = dm.Offset(5)
	assert.False(t, ok)

	truss, err := element.NewTruss(element.TrussSection{E: 1, A: 1})
	require.NoError(t, err)
	require.NoError(t, truss.Wire(nodes[2], nodes[1]))
	loc, err := dm.LocationArray(truss)
	require.NoError(t, err)
	assert.Equal(t, []int{12, 13, 14, 15, 16, 17, 0, 1, 2, 3, 4, 5}, loc)

	dup := append(nodes, nodes[0])
	_, err = NewDofMap(dup)
	assert.Error(t, err)
}

func TestLocationArrayErrors(t *testing.T) {
	a, err := element.NewNode(1, 0, 0, 0)
	require.NoError(t, err)
	b, err := element.NewNode(2, 1, 0, 0)
	require.NoError(t, err)
	dm, err := NewDofMap([]*element.Node{a})
	require.NoError(t, err)

	truss, err := element.NewTruss(element.TrussSection{E: 1, A: 1})
	require.NoError(t, err)
	_, err = dm.LocationArray(truss)
	assert.ErrorIs(t, err, element.ErrInvalidTopology)

	require.NoError(t, truss.Wire(a, b))
	_, err = dm.LocationArray(truss)
	assert.ErrorIs(t, err, element.ErrUnresolvedReference)
}

// A rigid translation of the whole structure gathered through the location
// array produces no element force.
func TestGatherRigidTranslation(t *testing.T) {
	var nodes []*element.Node
	coords := [][3]float64{{0, 0, 0}, {2, 0, 1}, {1, 3, 0}}
	for i, c := range coords {
		n, err := element.NewNode(10+i, c[0], c[1], c[2])
		require.NoError(t, err)
		nodes = append(nodes, n)
	}
	dm, err := NewDofMap(nodes)
	require.NoError(t, err)

	global := make([]float64, dm.NumDofs)
	for i := 0; i < dm.NumNodes; i++ {
		global[i*element.DofPerNode+element.DofUy] = 1
	}

	plate, err := element.NewMembrane(element.MembraneSection{E: 1e3, Nu: 0.25, Thickness: 0.1})
	require.NoError(t, err)
	require.NoError(t, plate.Wire(nodes[1], nodes[2], nodes[0]))
	loc, err := dm.LocationArray(plate)
	require.NoError(t, err)
	local, err := Gather(global, loc)
	require.NoError(t, err)

	k, err := plate.GetGlobalStiffnessMatrix()
	require.NoError(t, err)
	var f mat.VecDense
	f.MulVec(k, mat.NewVecDense(len(local), local))
	assert.InDelta(t, 0, mat.Norm(&f, 2), 1e-9*mat.Norm(k, 2))

	_, err = Gather(global, []int{dm.NumDofs})
	assert.Error(t, err)
}
