// internal/domain/lock_order.go
package domain

import "slices"

// LockOrder returns ids de-duplicated and sorted ascending. Every component that takes
// exclusive access to more than one account acquires it in this order.
func LockOrder(ids ...int64) []int64 {
	ordered := slices.Clone(ids)
	slices.Sort(ordered)
	return slices.Compact(ordered)
}
