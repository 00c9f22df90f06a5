package expand

import "slices"

// OpenSet is the set of expanded positions.
type OpenSet struct {
	members map[Position]struct{}
}

// NewOpenSet creates an empty set.
func NewOpenSet() *OpenSet {
	return &OpenSet{members: make(map[Position]struct{}, 2)}
}

func (s *OpenSet) Add(pos Position) {
	s.members[pos] = struct{}{}
}

func (s *OpenSet) Remove(pos Position) {
	delete(s.members, pos)
}

func (s *OpenSet) Contains(pos Position) bool {
	_, ok := s.members[pos]
	return ok
}

func (s *OpenSet) Len() int {
	return len(s.members)
}

// Positions returns the members in ascending order.
func (s *OpenSet) Positions() []Position {
	out := make([]Position, 0, len(s.members))
	for pos := range s.members {
		out = append(out, pos)
	}
	slices.Sort(out)
	return out
}
