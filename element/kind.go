package element

import (
	"fmt"
	"strings"
)

// ElementKind discriminates element variants for dispatch and persistence
type ElementKind uint8

const (
	Truss            ElementKind = iota // 2-node axial bar
	Frame                               // 2-node 3D Euler-Bernoulli beam
	TriangleMembrane                    // 3-node constant strain plane stress triangle
)

type kindProperties struct {
	name      string
	shortName string
	nodeCount int
}

var kindTable = map[ElementKind]kindProperties{
	Truss:            {name: "Truss", shortName: "truss", nodeCount: 2},
	Frame:            {name: "Frame", shortName: "frame", nodeCount: 2},
	TriangleMembrane: {name: "TriangleMembrane", shortName: "membrane", nodeCount: 3},
}

// Valid reports whether k is a known element kind
func (k ElementKind) Valid() bool {
	_, ok := kindTable[k]
	return ok
}

// NodeCount is the fixed number of nodes N of the kind's topology, 0 for
// unknown kinds.
func (k ElementKind) NodeCount() int {
	return kindTable[k].nodeCount
}

// Dofs is the dimension of the kind's global stiffness matrix
func (k ElementKind) Dofs() int { return k.NodeCount() * DofPerNode }

func (k ElementKind) String() string {
	if p, ok := kindTable[k]; ok {
		return p.name
	}
	return fmt.Sprintf("ElementKind(%d)", uint8(k))
}

// ShortName is the lower case name used in model documents
func (k ElementKind) ShortName() string {
	return kindTable[k].shortName
}

// ParseElementKind accepts either the full or the short name of a kind,
// case insensitive.
func ParseElementKind(s string) (ElementKind, error) {
	for k, p := range kindTable {
		if strings.EqualFold(s, p.name) || strings.EqualFold(s, p.shortName) {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown element kind %q", s)
}
