package ecs

// Row2 pairs an entity with two of its components
type Row2[A, B any] struct {
	Entity Entity
	A      A
	B      B
}

// Row3 pairs an entity with three of its components
type Row3[A, B, C any] struct {
	Entity Entity
	A      A
	B      B
	C      C
}

// Join2 yields every entity holding both A and B, ordered by store a.
// Extra filters further restrict the result to entities present in all of them.
func Join2[A, B any](a *Store[A], b *Store[B], filters ...Membership) []Row2[A, B] {
	rows := make([]Row2[A, B], 0, min(a.Len(), b.Len()))
	a.Each(func(e Entity, va A) bool {
		vb, ok := b.Get(e)
		if !ok || !matches(e, filters) {
			return true
		}
		rows = append(rows, Row2[A, B]{Entity: e, A: va, B: vb})
		return true
	})
	return rows
}

// Join3 yields every entity holding A, B and C, ordered by store a
func Join3[A, B, C any](a *Store[A], b *Store[B], c *Store[C], filters ...Membership) []Row3[A, B, C] {
	rows := make([]Row3[A, B, C], 0, min(a.Len(), b.Len(), c.Len()))
	a.Each(func(e Entity, va A) bool {
		vb, ok := b.Get(e)
		if !ok {
			return true
		}
		vc, ok := c.Get(e)
		if !ok || !matches(e, filters) {
			return true
		}
		rows = append(rows, Row3[A, B, C]{Entity: e, A: va, B: vb, C: vc})
		return true
	})
	return rows
}

// BuildIndex maps a key derived from each component in src to its entity,
// keeping only entities present in every filter. When two entities share a key
// the first one in store order wins.
//
// The index is a snapshot. Callers that mutate src must build a new one.
func BuildIndex[T any, K comparable](src *Store[T], key func(T) K, filters ...Membership) map[K]Entity {
	index := make(map[K]Entity, src.Len())
	src.Each(func(e Entity, val T) bool {
		if !matches(e, filters) {
			return true
		}
		k := key(val)
		if _, taken := index[k]; !taken {
			index[k] = e
		}
		return true
	})
	return index
}

func matches(e Entity, filters []Membership) bool {
	for _, f := range filters {
		if !f.Has(e) {
			return false
		}
	}
	return true
}
