// Package ecs is a small entity/component store.
//
// Each component type lives in its own Store, a map keyed by Entity plus an
// insertion-ordered entity list. Queries are plain generic functions:
//
//	for _, row := range ecs.Join2(positions, boxes) {
//		fmt.Println(row.Entity, row.A, row.B)
//	}
//
// BuildIndex turns a store into a key -> entity lookup table. Indexes are
// snapshots and are never updated in place.
package ecs
