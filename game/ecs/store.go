package ecs

// Entity identifies a group of components. The zero value is never issued.
type Entity uint32

// Nil is the absent entity.
const Nil Entity = 0

// Membership is the untyped view of a store used by filters and registries.
type Membership interface {
	Has(e Entity) bool
	Entities() []Entity
	Len() int
	Clear()
}

// Store holds every component of type T keyed by entity.
// Iteration follows insertion order so joins are deterministic.
type Store[T any] struct {
	components map[Entity]T
	entities   []Entity
}

// NewStore creates an empty store for component type T
func NewStore[T any]() *Store[T] {
	return &Store[T]{
		components: make(map[Entity]T),
		entities:   make([]Entity, 0, 32),
	}
}

// Set inserts or replaces the component for e
func (s *Store[T]) Set(e Entity, val T) {
	if _, exists := s.components[e]; !exists {
		s.entities = append(s.entities, e)
	}
	s.components[e] = val
}

// Get returns the component for e and whether it exists
func (s *Store[T]) Get(e Entity) (T, bool) {
	val, ok := s.components[e]
	return val, ok
}

// Has reports whether e carries this component
func (s *Store[T]) Has(e Entity) bool {
	_, ok := s.components[e]
	return ok
}

// Entities returns a copy of the entities holding this component, in insertion order
func (s *Store[T]) Entities() []Entity {
	out := make([]Entity, len(s.entities))
	copy(out, s.entities)
	return out
}

// Len returns the number of components in the store
func (s *Store[T]) Len() int {
	return len(s.entities)
}

// Each calls fn for every (entity, component) pair in insertion order.
// Iteration stops when fn returns false.
func (s *Store[T]) Each(fn func(e Entity, val T) bool) {
	for _, e := range s.entities {
		if !fn(e, s.components[e]) {
			return
		}
	}
}

// Clear drops every component
func (s *Store[T]) Clear() {
	s.components = make(map[Entity]T)
	s.entities = s.entities[:0]
}
