package partitions

import (
	"fmt"

	"github.com/notargets/StructFE/element"
)

// Partition is a collection of elements processed together by one worker
type Partition struct {
	// Unique identifier for this partition
	ID int

	// Element membership
	Elements    []int // Positions of the member elements in the model's element list
	NumElements int   // Actual number of elements
	MaxElements int   // Largest partition size in the layout

	// Mixed element support
	ElementKinds []element.ElementKind // Kind of each member element
	KindGroups   []ElementGroup        // Members grouped by kind
}

// ElementGroup represents elements of the same kind within a partition
type ElementGroup struct {
	Kind       element.ElementKind
	StartIndex int   // Starting position of the group in the kind ordered listing
	Count      int   // Number of elements of this kind
	NodeCount  int   // Nodes per element for this kind
	LocalIDs   []int // Indices within the partition
}

// PartitionLayout manages the complete decomposition of an element list
type PartitionLayout struct {
	// All partitions
	Partitions []Partition

	// Global sizing information
	KpartMax      int // max(NumElements) across all partitions
	TotalElements int // Sum of all elements across partitions
	NumPartitions int

	// Element to partition mapping
	EToP []int // Length TotalElements: element k belongs to partition EToP[k]
}

// GetPartition returns the partition containing element k
func (pl *PartitionLayout) GetPartition(elementID int) int {
	if elementID < 0 || elementID >= len(pl.EToP) {
		return -1
	}
	return pl.EToP[elementID]
}

// ValidateLayout checks partition consistency
func (pl *PartitionLayout) ValidateLayout() error {
	actualMax, total := 0, 0
	seen := make([]bool, pl.TotalElements)
	for _, p := range pl.Partitions {
		if p.NumElements > actualMax {
			actualMax = p.NumElements
		}
		if p.MaxElements != pl.KpartMax {
			return fmt.Errorf("partition %d: MaxElements %d != KpartMax %d",
				p.ID, p.MaxElements, pl.KpartMax)
		}
		if len(p.Elements) != p.NumElements {
			return fmt.Errorf("partition %d: %d elements listed, NumElements %d",
				p.ID, len(p.Elements), p.NumElements)
		}
		for _, k := range p.Elements {
			if k < 0 || k >= pl.TotalElements {
				return fmt.Errorf("partition %d: element %d out of range", p.ID, k)
			}
			if seen[k] {
				return fmt.Errorf("partition %d: element %d assigned twice", p.ID, k)
			}
			if pl.EToP[k] != p.ID {
				return fmt.Errorf("partition %d: element %d mapped to partition %d", p.ID, k, pl.EToP[k])
			}
			seen[k] = true
		}
		total += p.NumElements
	}
	if actualMax != pl.KpartMax {
		return fmt.Errorf("computed KpartMax %d != stored KpartMax %d",
			actualMax, pl.KpartMax)
	}
	if total != pl.TotalElements {
		return fmt.Errorf("partitions hold %d elements, layout has %d", total, pl.TotalElements)
	}
	return nil
}
