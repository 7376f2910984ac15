package element

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"
)

// LoadKind discriminates the load variants an element can carry
type LoadKind uint8

const (
	ConcentratedLoad   LoadKind = iota // Force and moment at one node slot
	UniformLoad                        // Constant load per unit length (or area) over the element
	PartialUniformLoad                 // Constant load over [Start, End] of the member
)

var loadKindNames = map[LoadKind]string{
	ConcentratedLoad:   "concentrated",
	UniformLoad:        "uniform",
	PartialUniformLoad: "partial-uniform",
}

func (k LoadKind) String() string {
	if s, ok := loadKindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("LoadKind(%d)", uint8(k))
}

func ParseLoadKind(s string) (LoadKind, error) {
	for k, name := range loadKindNames {
		if strings.EqualFold(s, name) {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown load kind %q", s)
}

// Load is a quantity applied to exactly one element. Only the fields used by
// its Kind are meaningful; equivalent nodal loads are computed by the
// assembler, not here.
type Load struct {
	Kind  LoadKind `msgpack:"kind"`
	Case  string   `msgpack:"case"`  // Load case name, empty for the default case
	Local bool     `msgpack:"local"` // Vectors are in element local axes

	// ConcentratedLoad
	Slot   int    `msgpack:"slot"` // Position of the loaded node in the element's node order
	Force  r3.Vec `msgpack:"force"`
	Moment r3.Vec `msgpack:"moment"`

	// UniformLoad, PartialUniformLoad
	Direction r3.Vec  `msgpack:"direction"`
	Magnitude float64 `msgpack:"magnitude"`
	Start     float64 `msgpack:"start"` // Parametric positions in [0,1]
	End       float64 `msgpack:"end"`
}

// NewConcentratedLoad returns a nodal force/moment applied at node slot.
func NewConcentratedLoad(slot int, force, moment r3.Vec) Load {
	return Load{Kind: ConcentratedLoad, Slot: slot, Force: force, Moment: moment}
}

// NewUniformLoad returns a load of the given magnitude along direction,
// spread over the whole element.
func NewUniformLoad(direction r3.Vec, magnitude float64) Load {
	return Load{Kind: UniformLoad, Direction: direction, Magnitude: magnitude, Start: 0, End: 1}
}

// check validates the load against an element with nodeCount nodes
func (l Load) check(nodeCount int) error {
	switch l.Kind {
	case ConcentratedLoad:
		if l.Slot < 0 || l.Slot >= nodeCount {
			return fmt.Errorf("concentrated load slot %d outside [0,%d)", l.Slot, nodeCount)
		}
	case UniformLoad:
		if r3.Norm(l.Direction) == 0 {
			return fmt.Errorf("uniform load with zero direction")
		}
	case PartialUniformLoad:
		if r3.Norm(l.Direction) == 0 {
			return fmt.Errorf("partial uniform load with zero direction")
		}
		if l.Start < 0 || l.End > 1 || l.Start >= l.End {
			return fmt.Errorf("partial uniform load span [%g,%g] not within [0,1]", l.Start, l.End)
		}
	default:
		return fmt.Errorf("unknown load kind %v", l.Kind)
	}
	return nil
}
