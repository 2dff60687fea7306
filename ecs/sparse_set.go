package ecs

// SparseSet stores one component kind keyed by entity slot. Values are kept
// densely packed; removal swaps the last value into the hole.
type SparseSet struct {
	dense  []Entity
	values []any
	sparse []int32
}

func (s *SparseSet) index(e Entity) int {
	id := int(e.id())
	if id == 0 || id > len(s.sparse) {
		return -1
	}
	idx := int(s.sparse[id-1])
	if idx < 0 || idx >= len(s.dense) || s.dense[idx] != e {
		return -1
	}
	return idx
}

func (s *SparseSet) Has(e Entity) bool {
	return s != nil && s.index(e) >= 0
}

// Get returns the component for e, or nil.
func (s *SparseSet) Get(e Entity) any {
	if s == nil {
		return nil
	}
	if idx := s.index(e); idx >= 0 {
		return s.values[idx]
	}
	return nil
}

// Set inserts or replaces the component for e.
func (s *SparseSet) Set(e Entity, v any) {
	id := int(e.id())
	if id == 0 {
		return
	}
	for len(s.sparse) < id {
		s.sparse = append(s.sparse, -1)
	}
	if idx := s.index(e); idx >= 0 {
		s.values[idx] = v
		return
	}
	// A stale generation may still own the slot.
	if old := int(s.sparse[id-1]); old >= 0 && old < len(s.dense) && s.dense[old].id() == e.id() {
		s.dense[old] = e
		s.values[old] = v
		return
	}
	s.dense = append(s.dense, e)
	s.values = append(s.values, v)
	s.sparse[id-1] = int32(len(s.dense) - 1)
}

// Remove deletes the component for e if present.
func (s *SparseSet) Remove(e Entity) bool {
	if s == nil {
		return false
	}
	idx := s.index(e)
	if idx < 0 {
		return false
	}
	last := len(s.dense) - 1
	moved := s.dense[last]
	s.dense[idx] = moved
	s.values[idx] = s.values[last]
	s.sparse[moved.id()-1] = int32(idx)

	s.dense = s.dense[:last]
	s.values = s.values[:last]
	s.sparse[e.id()-1] = -1
	return true
}

func (s *SparseSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.dense)
}

// Entities returns the dense entity list. Callers must not modify it.
func (s *SparseSet) Entities() []Entity {
	if s == nil {
		return nil
	}
	return s.dense
}
