package ecs

// Registry issues entity IDs and tracks which stores belong to a world
type Registry struct {
	next   Entity
	stores []Membership
	alive  []Entity
}

// NewRegistry creates a registry with the given component stores attached
func NewRegistry(stores ...Membership) *Registry {
	return &Registry{stores: stores}
}

// Exists reports whether e carries at least one component of an attached store
func (r *Registry) Exists(e Entity) bool {
	for _, s := range r.stores {
		if s.Has(e) {
			return true
		}
	}
	return false
}

// Entities returns every entity built through this registry, in creation order
func (r *Registry) Entities() []Entity {
	out := make([]Entity, len(r.alive))
	copy(out, r.alive)
	return out
}

// Reset forgets all issued IDs and clears every attached store
func (r *Registry) Reset() {
	for _, s := range r.stores {
		s.Clear()
	}
	r.next = 0
	r.alive = r.alive[:0]
}

// NewEntity reserves an ID and returns a builder for its components.
//
//	e := registry.NewEntity()
//	ecs.With(e, positions, Position{X: 1, Y: 2})
//	id := e.Build()
func (r *Registry) NewEntity() *Builder {
	r.next++
	return &Builder{registry: r, entity: r.next}
}

// Builder collects the initial components of one entity
type Builder struct {
	registry *Registry
	entity   Entity
	built    bool
}

// With adds a component of type T to the entity being built.
// Panics if called after Build.
func With[T any](b *Builder, store *Store[T], val T) *Builder {
	if b.built {
		panic("ecs: entity already built")
	}
	store.Set(b.entity, val)
	return b
}

// Entity returns the reserved ID
func (b *Builder) Entity() Entity {
	return b.entity
}

// Build finalizes the entity and returns its ID
func (b *Builder) Build() Entity {
	if !b.built {
		b.built = true
		b.registry.alive = append(b.registry.alive, b.entity)
	}
	return b.entity
}
