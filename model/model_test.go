package model

import (
	"bytes"
	"strings"
	"testing"

	"github.com/notargets/StructFE/element"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const portalFrame = `
nodes:
  - {index: 1, location: [0, 0, 0]}
  - {index: 2, location: [0, 0, 4]}
  - {index: 3, location: [6, 0, 4]}
  - {index: 4, location: [6, 0, 0]}
  - {index: 5, location: [3, 2, 4]}
elements:
  - kind: frame
    nodes: [1, 2]
    frame: {e: 210e9, g: 81e9, a: 5.38e-3, iy: 8.36e-5, iz: 6.04e-6, j: 2.01e-7}
  - kind: frame
    nodes: [2, 3]
    frame: {e: 210e9, g: 81e9, a: 5.38e-3, iy: 8.36e-5, iz: 6.04e-6, j: 2.01e-7}
    loads:
      - {kind: uniform, case: dead, direction: [0, 0, -1], magnitude: 5e3}
  - kind: frame
    nodes: [3, 4]
    frame: {e: 210e9, g: 81e9, a: 5.38e-3, iy: 8.36e-5, iz: 6.04e-6, j: 2.01e-7}
  - kind: truss
    index: 10
    nodes: [1, 3]
    truss: {e: 210e9, a: 1e-3}
    loads:
      - {kind: concentrated, slot: 1, force: [1e3, 0, 0]}
  - kind: membrane
    nodes: [2, 3, 5]
    membrane: {e: 70e9, nu: 0.3, t: 0.005}
`

func buildPortal(t *testing.T) *Model {
	t.Helper()
	doc, err := ReadDocument(strings.NewReader(portalFrame))
	require.NoError(t, err)
	m, err := doc.Build()
	require.NoError(t, err)
	return m
}

func TestDocumentBuild(t *testing.T) {
	m := buildPortal(t)
	assert.Equal(t, 5, m.NumNodes())
	elements := m.Elements()
	require.Len(t, elements, 5)
	assert.Equal(t, []int{0, 1, 2, 10, 11}, []int{
		elements[0].Index(), elements[1].Index(), elements[2].Index(), elements[3].Index(), elements[4].Index()})
	require.NoError(t, m.Validate())

	beam, ok := m.Element(1)
	require.True(t, ok)
	loads := beam.Loads()
	require.Len(t, loads, 1)
	assert.Equal(t, element.UniformLoad, loads[0].Kind)
	assert.Equal(t, "dead", loads[0].Case)
	assert.Equal(t, 1.0, loads[0].End)

	// the two frames meeting at node 2 share the node
	col, _ := m.Element(0)
	assert.Same(t, col.Nodes()[1], beam.Nodes()[0])

	for _, e := range elements {
		report, err := element.CheckContract(e)
		require.NoError(t, err)
		assert.True(t, report.Within(1e-9), report.String())
	}
}

func TestDocumentErrors(t *testing.T) {
	tests := map[string]struct {
		doc  string
		want error
	}{
		"missing node": {`
nodes: [{index: 1, location: [0, 0, 0]}]
elements: [{kind: truss, nodes: [1, 2], truss: {e: 1, a: 1}}]`, element.ErrUnresolvedReference},
		"node count": {`
nodes: [{index: 1, location: [0, 0, 0]}, {index: 2, location: [1, 0, 0]}]
elements: [{kind: membrane, nodes: [1, 2], membrane: {e: 1, nu: 0.2, t: 1}}]`, element.ErrMalformedTopology},
		"missing section": {`
nodes: [{index: 1, location: [0, 0, 0]}, {index: 2, location: [1, 0, 0]}]
elements: [{kind: frame, nodes: [1, 2]}]`, element.ErrInvalidSection},
		"bad section": {`
nodes: [{index: 1, location: [0, 0, 0]}, {index: 2, location: [1, 0, 0]}]
elements: [{kind: truss, nodes: [1, 2], truss: {e: 1, a: 0}}]`, element.ErrInvalidSection},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			doc, err := ReadDocument(strings.NewReader(tt.doc))
			require.NoError(t, err)
			_, err = doc.Build()
			assert.ErrorIs(t, err, tt.want)
		})
	}

	_, err := ReadDocument(strings.NewReader("nodes: []\nsolver: lu\n"))
	assert.Error(t, err, "unknown fields are rejected")

	doc, err := ReadDocument(strings.NewReader(`
nodes: [{index: 1, location: [0, 0, 0]}, {index: 1, location: [1, 0, 0]}]`))
	require.NoError(t, err)
	_, err = doc.Build()
	assert.Error(t, err, "duplicate node")
}

func TestDocumentRoundTrip(t *testing.T) {
	m := buildPortal(t)
	doc, err := NewDocument(m)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, doc.Write(&buf))
	back, err := ReadDocument(&buf)
	require.NoError(t, err)
	m2, err := back.Build()
	require.NoError(t, err)

	s1, err := m.Snapshot()
	require.NoError(t, err)
	s2, err := m2.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, s1, s2)
}

func TestAddElement(t *testing.T) {
	m := New()
	a, err := element.NewNode(1, 0, 0, 0)
	require.NoError(t, err)
	b, err := element.NewNode(2, 2, 0, 0)
	require.NoError(t, err)
	require.NoError(t, m.AddNode(a))
	require.NoError(t, m.AddNode(b))
	assert.Error(t, m.AddNode(a))
	assert.Error(t, m.AddNode(nil))

	newTruss := func() element.Element {
		e, err := element.NewTruss(element.TrussSection{E: 1, A: 1})
		require.NoError(t, err)
		return e
	}

	assert.ErrorIs(t, m.AddElement(newTruss()), element.ErrInvalidTopology, "unwired without node indices")
	assert.ErrorIs(t, m.AddElement(newTruss(), 1, 9), element.ErrUnresolvedReference)
	assert.ErrorIs(t, m.AddElement(newTruss(), 1), element.ErrMalformedTopology)

	outsider, err := element.NewNode(2, 5, 5, 5)
	require.NoError(t, err)
	foreign := newTruss()
	require.NoError(t, foreign.Wire(a, outsider))
	assert.ErrorIs(t, m.AddElement(foreign), element.ErrUnresolvedReference, "nodes must come from the arena")

	e := newTruss()
	require.NoError(t, m.AddElement(e, 2, 1))
	assert.Equal(t, 0, e.Index())
	assert.Equal(t, []int{2, 1}, e.NodeIndices())

	wired := newTruss()
	require.NoError(t, wired.Wire(a, b))
	require.NoError(t, wired.AssignIndex(0))
	assert.Error(t, m.AddElement(wired), "duplicate element index")

	require.NoError(t, m.AddElement(newTruss(), 1, 2))
	assert.Len(t, m.Elements(), 2)
	_, ok := m.Element(1)
	assert.True(t, ok)

	// raw elements are resolved against the node table, never rewired
	rec, err := element.ToRecord(e)
	require.NoError(t, err)
	rec.Index = -1
	raw, err := element.FromRecord(rec)
	require.NoError(t, err)
	assert.Error(t, m.AddElement(raw, 1, 2))
	assert.Equal(t, element.Raw, raw.State())
	assert.Equal(t, []int{2, 1}, raw.NodeIndices())
	assert.Len(t, m.Elements(), 2)
}
