package set

// Set is an unordered collection of unique values.
type Set[T comparable] struct {
	m map[T]struct{}
}

// NewSet creates an empty Set.
func NewSet[T comparable]() *Set[T] {
	return &Set[T]{m: make(map[T]struct{})}
}

// Add inserts v into the set.
func (s *Set[T]) Add(v T) {
	s.m[v] = struct{}{}
}

// AddValues inserts every value in vs into the set.
func (s *Set[T]) AddValues(vs []T) {
	for _, v := range vs {
		s.m[v] = struct{}{}
	}
}

// Remove deletes v from the set. Removing an absent value is a no-op.
func (s *Set[T]) Remove(v T) {
	delete(s.m, v)
}

// Contains reports whether v is in the set.
func (s *Set[T]) Contains(v T) bool {
	_, ok := s.m[v]
	return ok
}

// Len returns the number of values in the set.
func (s *Set[T]) Len() int {
	return len(s.m)
}

// Values returns the set's values in unspecified order.
func (s *Set[T]) Values() []T {
	vs := make([]T, 0, len(s.m))
	for v := range s.m {
		vs = append(vs, v)
	}
	return vs
}

// Clear removes all values.
func (s *Set[T]) Clear() {
	s.m = make(map[T]struct{})
}
