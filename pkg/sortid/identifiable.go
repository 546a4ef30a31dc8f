package sortid

import "slices"

// Identifiable is implemented by entities that carry an identifier.
type Identifiable[T any] interface {
	ID() T
}

// CollectIDs returns the identifiers of items in order.
//
//	ids := sortid.CollectIDs[sortid.ID](users)
func CollectIDs[T any, E Identifiable[T]](items []E) []T {
	ids := make([]T, len(items))
	for i, item := range items {
		ids[i] = item.ID()
	}
	return ids
}

// IndexByID maps each identifier to its item. Later items win on duplicates.
func IndexByID[T comparable, E Identifiable[T]](items []E) map[T]E {
	m := make(map[T]E, len(items))
	for _, item := range items {
		m[item.ID()] = item
	}
	return m
}

// SortByID sorts items by identifier, which for time-sortable identifiers
// is creation order at tick resolution. The sort is stable.
func SortByID[T interface{ Compare(T) int }, E Identifiable[T]](items []E) {
	slices.SortStableFunc(items, func(a, b E) int {
		return a.ID().Compare(b.ID())
	})
}
