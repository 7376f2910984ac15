package element

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestTrussRoundTrip(t *testing.T) {
	n3, n7 := mustNode(t, 3, 0, 0, 0), mustNode(t, 7, 4, 0, 3)
	orig := steelTruss(t)
	require.NoError(t, orig.AssignIndex(12))
	require.NoError(t, orig.Wire(n3, n7))
	pointLoad := NewConcentratedLoad(1, r3.Vec{X: 1.5, Z: -20e3}, r3.Vec{})
	pointLoad.Case = "live"
	require.NoError(t, orig.AddLoad(pointLoad))

	data, err := Marshal(orig)
	require.NoError(t, err)

	raw, err := Unmarshal(data)
	require.NoError(t, err)
	assert.Equal(t, Raw, raw.State())
	assert.Equal(t, Truss, raw.Kind())
	assert.Equal(t, 12, raw.Index())
	assert.Equal(t, []int{3, 7}, raw.NodeIndices())
	assert.Equal(t, []*Node{nil, nil}, raw.Nodes())

	_, err = raw.GetGlobalStiffnessMatrix()
	assert.ErrorIs(t, err, ErrInvalidTopology, "raw elements cannot compute stiffness")

	table, err := NewNodeMap(n3, n7)
	require.NoError(t, err)
	require.NoError(t, raw.Resolve(table))

	assert.Equal(t, Resolved, raw.State())
	assert.Equal(t, orig.Kind(), raw.Kind())
	nodes := raw.Nodes()
	require.Len(t, nodes, 2)
	assert.Same(t, n3, nodes[0])
	assert.Same(t, n7, nodes[1])
	assert.Equal(t, orig.Loads(), raw.Loads())

	resolved, ok := raw.(*TrussElement)
	require.True(t, ok)
	assert.Equal(t, orig.Section(), resolved.Section())

	k1, err := orig.GetGlobalStiffnessMatrix()
	require.NoError(t, err)
	k2, err := raw.GetGlobalStiffnessMatrix()
	require.NoError(t, err)
	assert.True(t, mat.Equal(k1, k2))

	assert.ErrorIs(t, raw.Resolve(table), ErrAlreadyResolved, "resolution happens once")
}

func TestResolveMissingNode(t *testing.T) {
	n3, n7 := mustNode(t, 3, 0, 0, 0), mustNode(t, 7, 4, 0, 3)
	orig := steelTruss(t)
	require.NoError(t, orig.Wire(n3, n7))
	require.NoError(t, orig.AddLoad(NewConcentratedLoad(0, r3.Vec{Y: 1}, r3.Vec{})))

	data, err := Marshal(orig)
	require.NoError(t, err)
	raw, err := Unmarshal(data)
	require.NoError(t, err)

	partial, err := NewNodeMap(n3)
	require.NoError(t, err)
	assert.ErrorIs(t, raw.Resolve(partial), ErrUnresolvedReference)
	assert.Equal(t, Raw, raw.State(), "a failed resolution leaves the element raw")
	assert.Equal(t, []int{3, 7}, raw.NodeIndices())

	_, err = raw.GetGlobalStiffnessMatrix()
	assert.ErrorIs(t, err, ErrInvalidTopology)

	full, err := NewNodeMap(n3, n7)
	require.NoError(t, err)
	assert.NoError(t, raw.Resolve(full))
}

func TestRoundTripEveryKind(t *testing.T) {
	for _, e := range wiredElements(t) {
		t.Run(e.Kind().String(), func(t *testing.T) {
			require.NoError(t, e.AddLoad(NewUniformLoad(r3.Vec{Z: -1}, 3)))
			require.NoError(t, e.AddLoad(Load{Kind: PartialUniformLoad, Local: true,
				Direction: r3.Vec{Y: 1}, Magnitude: 2, Start: 0.25, End: 0.5}))
			rec, err := ToRecord(e)
			require.NoError(t, err)
			data, err := MarshalRecord(rec)
			require.NoError(t, err)
			back, err := UnmarshalRecord(data)
			require.NoError(t, err)
			assert.Equal(t, rec, back)

			raw, err := FromRecord(back)
			require.NoError(t, err)
			table, err := NewNodeMap(e.Nodes()...)
			require.NoError(t, err)
			require.NoError(t, raw.Resolve(table))
			assert.Equal(t, e.Kind(), raw.Kind())
			assert.Equal(t, e.Nodes(), raw.Nodes())
			assert.Equal(t, e.Loads(), raw.Loads())

			k1, err := e.GetGlobalStiffnessMatrix()
			require.NoError(t, err)
			k2, err := raw.GetGlobalStiffnessMatrix()
			require.NoError(t, err)
			assert.True(t, mat.Equal(k1, k2))
		})
	}
}

func TestFromRecordMalformed(t *testing.T) {
	props, err := steelTruss(t).MarshalProperties()
	require.NoError(t, err)

	tests := []struct {
		name string
		rec  Record
	}{
		{"too few indices", Record{Index: 1, Kind: Truss, NodeIndices: []int{3}, Properties: props}},
		{"too many indices", Record{Index: 1, Kind: Truss, NodeIndices: []int{3, 4, 5}, Properties: props}},
		{"membrane with two", Record{Index: 1, Kind: TriangleMembrane, NodeIndices: []int{3, 4}, Properties: props}},
		{"unknown kind", Record{Index: 1, Kind: ElementKind(99), NodeIndices: []int{3, 4}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromRecord(tt.rec)
			assert.ErrorIs(t, err, ErrMalformedTopology)
		})
	}
}

func TestFromRecordInvalidProperties(t *testing.T) {
	_, err := FromRecord(Record{Kind: Truss, NodeIndices: []int{1, 2}, Properties: []byte{0xc1}})
	assert.Error(t, err)

	props, err := (&TrussElement{section: TrussSection{E: 1, A: -1}}).MarshalProperties()
	require.NoError(t, err)
	_, err = FromRecord(Record{Kind: Truss, NodeIndices: []int{1, 2}, Properties: props})
	assert.ErrorIs(t, err, ErrInvalidSection)
}

func TestResolveCountMismatch(t *testing.T) {
	e := steelTruss(t)
	e.setRaw([]int{1})
	table, err := NewNodeMap(mustNode(t, 1, 0, 0, 0))
	require.NoError(t, err)
	assert.ErrorIs(t, e.Resolve(table), ErrUnresolvedReference)
}

func TestUnwiredElementCannotBePersisted(t *testing.T) {
	_, err := ToRecord(steelTruss(t))
	assert.ErrorIs(t, err, ErrInvalidTopology)
}

func TestRawElementRecordsRawIndices(t *testing.T) {
	e := steelTruss(t)
	e.setRaw([]int{9, 11})
	rec, err := ToRecord(e)
	require.NoError(t, err)
	assert.Equal(t, []int{9, 11}, rec.NodeIndices)
	assert.Equal(t, -1, rec.Index)

	assert.Error(t, e.SetNode(0, mustNode(t, 9, 0, 0, 0)), "raw slots are filled by Resolve")
}

func TestWireRejectsRawElement(t *testing.T) {
	e := steelTruss(t)
	e.setRaw([]int{3, 7})
	err := e.Wire(mustNode(t, 100, 0, 0, 0), mustNode(t, 101, 1, 0, 0))
	assert.Error(t, err)
	assert.Equal(t, Raw, e.State())
	assert.Equal(t, []int{3, 7}, e.NodeIndices())

	table := NodeMap{3: mustNode(t, 3, 0, 0, 0), 7: mustNode(t, 7, 2, 0, 0)}
	require.NoError(t, e.Resolve(table))
	assert.Equal(t, Resolved, e.State())
	assert.Equal(t, []int{3, 7}, e.NodeIndices())
}

func TestRegisterPanics(t *testing.T) {
	assert.Panics(t, func() { Register(Truss, func([]byte) (Element, error) { return nil, nil }) })
	assert.Panics(t, func() { Register(ElementKind(77), func([]byte) (Element, error) { return nil, nil }) })
	assert.Panics(t, func() { Register(Frame, nil) })
}
