// Package pair normalizes unordered user-id pairs.
//
// Match uniqueness is enforced by a composite unique index over the
// normalized pair, so every call site has to agree on the canonical order.
package pair

// Normalize returns the two ids as (low, high).
func Normalize(a, b uint64) (uint64, uint64) {
	if a > b {
		return b, a
	}
	return a, b
}
