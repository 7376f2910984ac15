package element

import "fmt"

// StructuralEntity is the identity shared by every part of a structural model.
// The index is assigned once by the owning model and is the key used for DOF
// addressing and for cross references in persisted models.
type StructuralEntity struct {
	index    int
	assigned bool
}

// Index returns the entity index, -1 if none has been assigned yet.
func (s *StructuralEntity) Index() int {
	if !s.assigned {
		return -1
	}
	return s.index
}

// HasIndex reports whether AssignIndex has been called successfully.
func (s *StructuralEntity) HasIndex() bool { return s.assigned }

// AssignIndex fixes the entity index. It fails if the index is negative or if
// an index has already been assigned.
func (s *StructuralEntity) AssignIndex(index int) error {
	if index < 0 {
		return fmt.Errorf("negative entity index %d", index)
	}
	if s.assigned {
		if s.index == index {
			return nil
		}
		return fmt.Errorf("entity index already assigned: %d, refusing %d", s.index, index)
	}
	s.index = index
	s.assigned = true
	return nil
}
