package partitions

import (
	"fmt"
	"math"
	"sort"

	"github.com/notargets/StructFE/element"
)

// PartitionBuilder constructs partitions from an element list
type PartitionBuilder struct {
	Elements *ElementSet

	// Partitioning parameters
	TargetPartitionSize int // Desired elements per partition
	Strategy            PartitionStrategy
}

// ElementSet provides what partitioning needs to know about the elements
type ElementSet struct {
	NumElements  int
	ElementKinds []element.ElementKind
}

// NewElementSet describes the given elements
func NewElementSet(elements []element.Element) *ElementSet {
	es := &ElementSet{
		NumElements:  len(elements),
		ElementKinds: make([]element.ElementKind, len(elements)),
	}
	for i, e := range elements {
		es.ElementKinds[i] = e.Kind()
	}
	return es
}

// PartitionStrategy defines how elements are grouped
type PartitionStrategy int

const (
	BlockPartition PartitionStrategy = iota // Consecutive elements
	RoundRobin                              // Distribute cyclically
)

func (s PartitionStrategy) String() string {
	switch s {
	case BlockPartition:
		return "block"
	case RoundRobin:
		return "roundrobin"
	}
	return fmt.Sprintf("PartitionStrategy(%d)", int(s))
}

// ParseStrategy maps "block" and "roundrobin" to a strategy
func ParseStrategy(s string) (PartitionStrategy, error) {
	switch s {
	case "block", "":
		return BlockPartition, nil
	case "roundrobin", "round-robin":
		return RoundRobin, nil
	}
	return 0, fmt.Errorf("unknown partition strategy %q", s)
}

// BuildPartitions creates a partition layout from the element set
func (pb *PartitionBuilder) BuildPartitions() (*PartitionLayout, error) {
	if pb.Elements == nil {
		return nil, fmt.Errorf("partition builder has no element set")
	}
	if pb.Elements.ElementKinds != nil && len(pb.Elements.ElementKinds) != pb.Elements.NumElements {
		return nil, fmt.Errorf("%d element kinds for %d elements",
			len(pb.Elements.ElementKinds), pb.Elements.NumElements)
	}

	numPartitions := pb.calculateNumPartitions()
	eToP, err := pb.partitionElements(numPartitions)
	if err != nil {
		return nil, err
	}
	partitions := pb.createPartitions(eToP, numPartitions)
	kpartMax := calculateKpartMax(partitions)
	for i := range partitions {
		partitions[i].MaxElements = kpartMax
	}

	layout := &PartitionLayout{
		Partitions:    partitions,
		KpartMax:      kpartMax,
		TotalElements: pb.Elements.NumElements,
		NumPartitions: numPartitions,
		EToP:          eToP,
	}
	if err := layout.ValidateLayout(); err != nil {
		return nil, fmt.Errorf("invalid partition layout: %w", err)
	}
	return layout, nil
}

// calculateNumPartitions never returns more partitions than elements
func (pb *PartitionBuilder) calculateNumPartitions() int {
	size := pb.TargetPartitionSize
	if size < 1 {
		size = 1
	}
	numPartitions := int(math.Ceil(float64(pb.Elements.NumElements) / float64(size)))
	if numPartitions < 1 {
		numPartitions = 1
	}
	return numPartitions
}

// partitionElements assigns elements to partitions
func (pb *PartitionBuilder) partitionElements(numPartitions int) ([]int, error) {
	n := pb.Elements.NumElements
	eToP := make([]int, n)

	switch pb.Strategy {
	case BlockPartition:
		elementsPerPartition := int(math.Ceil(float64(n) / float64(numPartitions)))
		if elementsPerPartition < 1 {
			elementsPerPartition = 1
		}
		for i := 0; i < n; i++ {
			eToP[i] = i / elementsPerPartition
			if eToP[i] >= numPartitions {
				eToP[i] = numPartitions - 1
			}
		}
	case RoundRobin:
		for i := 0; i < n; i++ {
			eToP[i] = i % numPartitions
		}
	default:
		return nil, fmt.Errorf("unsupported partition strategy %v", pb.Strategy)
	}
	return eToP, nil
}

// createPartitions builds partition structures from element assignments
func (pb *PartitionBuilder) createPartitions(eToP []int, numPartitions int) []Partition {
	partitions := make([]Partition, numPartitions)
	for i := range partitions {
		partitions[i] = Partition{
			ID:           i,
			Elements:     make([]int, 0),
			ElementKinds: make([]element.ElementKind, 0),
		}
	}

	for elem, part := range eToP {
		partitions[part].Elements = append(partitions[part].Elements, elem)
		if pb.Elements.ElementKinds != nil {
			partitions[part].ElementKinds = append(partitions[part].ElementKinds,
				pb.Elements.ElementKinds[elem])
		}
		partitions[part].NumElements++
	}

	for i := range partitions {
		partitions[i].KindGroups = createElementGroups(&partitions[i])
	}
	return partitions
}

// createElementGroups organizes elements by kind within a partition, in kind
// order so layouts are reproducible.
func createElementGroups(p *Partition) []ElementGroup {
	if len(p.ElementKinds) == 0 {
		return nil
	}

	byKind := make(map[element.ElementKind][]int)
	for i, kind := range p.ElementKinds {
		byKind[kind] = append(byKind[kind], i)
	}
	kinds := make([]element.ElementKind, 0, len(byKind))
	for kind := range byKind {
		kinds = append(kinds, kind)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })

	groups := make([]ElementGroup, 0, len(kinds))
	currentIndex := 0
	for _, kind := range kinds {
		indices := byKind[kind]
		groups = append(groups, ElementGroup{
			Kind:       kind,
			StartIndex: currentIndex,
			Count:      len(indices),
			NodeCount:  kind.NodeCount(),
			LocalIDs:   indices,
		})
		currentIndex += len(indices)
	}
	return groups
}

// calculateKpartMax finds maximum elements across all partitions
func calculateKpartMax(partitions []Partition) int {
	kpartMax := 0
	for _, p := range partitions {
		if p.NumElements > kpartMax {
			kpartMax = p.NumElements
		}
	}
	return kpartMax
}
